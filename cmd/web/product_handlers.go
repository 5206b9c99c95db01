package main

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"speedwaymoto.fr/storefront-web/internal/catalog"
	"speedwaymoto.fr/storefront-web/internal/cms"
	"speedwaymoto.fr/storefront-web/internal/format"
	mw "speedwaymoto.fr/storefront-web/internal/middleware"
	"speedwaymoto.fr/storefront-web/internal/nav"
	"speedwaymoto.fr/storefront-web/internal/seo"
)

// tabView is one entry of the detail tab bar.
type tabView struct {
	ID       string
	LabelKey string
	Href     string
	Active   bool
}

// productView is the product detail page.
type productView struct {
	catalog.Detail
	Lang            string
	Path            string
	DescriptionHTML template.HTML
	DiscountLabel   string
	Tabs            []tabView
	ActiveTab       string
	BackHref        string
	CategoryKey     string
}

// ProductMissingHandler serves /product when no product was given. There is
// nothing to look up, so it is always the not-found page.
func ProductMissingHandler(w http.ResponseWriter, r *http.Request) {
	renderNotFound(w, r, "notfound.product")
}

// ProductHandler serves /product/{slug}/{id}. The id is resolved into the
// navigation payload through the catalog store.
func ProductHandler(w http.ResponseWriter, r *http.Request) {
	def, err := catalogStore.Registry().BySlug(chi.URLParam(r, "slug"))
	id := chi.URLParam(r, "id")
	if err != nil || !catalog.ValidID(id) {
		renderNotFound(w, r, "notfound.product")
		return
	}
	p, err := catalogStore.Lookup(r.Context(), def.Key, id)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrNotFound):
		renderNotFound(w, r, "notfound.product")
		return
	case errors.Is(err, context.Canceled), r.Context().Err() != nil:
		return
	default:
		logCatalogError(r, def, err)
		renderCatalogError(w, r, r.URL.RequestURI())
		return
	}
	renderProduct(w, r, def, p.Payload())
}

func renderProduct(w http.ResponseWriter, r *http.Request, def catalog.Definition, payload *catalog.Payload) {
	detail, ok := catalog.BuildDetail(payload, catalogStore.Registry().Folder, catalogStore.Assets())
	if !ok {
		renderNotFound(w, r, "notfound.product")
		return
	}
	lang := mw.Lang(r)
	pv := buildProductView(r, def, detail.Localized(lang), lang)

	if mw.IsHTMX(r.Context()) && r.URL.Query().Has("tab") {
		mw.PushURL(w, tabHref(r.URL.Path, pv.ActiveTab))
		renderFragment(w, r, http.StatusOK, "product_tabs", pv)
		return
	}

	vm := newPageData(r, pv.Name, catalog.Excerpt(pv.Description, 160))
	vm.Breadcrumbs = append(nav.Breadcrumbs(r.URL.Path, catalogStore.Registry().All()), nav.Crumb{Label: pv.Name, Active: true})
	vm.SEO.OG.Type = "product"
	vm.SEO.Canonical = siteRoot(r) + r.URL.Path
	vm.SEO.OG.URL = vm.SEO.Canonical
	if len(pv.Images) > 0 {
		vm.SEO.OG.Image = siteRoot(r) + pv.Images[0]
		vm.SEO.Twitter.Image = vm.SEO.OG.Image
	}
	offer := seo.Offer{URL: vm.SEO.Canonical}
	if pv.Price.Known {
		offer.Price = pv.Price.Value.StringFixed(2)
	}
	images := make([]string, 0, len(pv.Images))
	for _, img := range pv.Images {
		images = append(images, siteRoot(r)+img)
	}
	vm.SEO.AddJSONLD(seo.Product(pv.Name, pv.Description, vm.SEO.Canonical, images, pv.Brand, offer))
	vm.Product = pv
	renderPage(w, r, http.StatusOK, "product", vm)
}

func buildProductView(r *http.Request, def catalog.Definition, d catalog.Detail, lang string) productView {
	pv := productView{
		Detail:        d,
		Lang:          lang,
		Path:          r.URL.Path,
		DiscountLabel: format.Percent(d.Discount),
		ActiveTab:     d.ActiveTab(r.URL.Query().Get("tab")),
		BackHref:      def.Path,
		CategoryKey:   string(def.Key),
	}
	if html, err := cms.RenderMarkdown(d.Description); err == nil {
		pv.DescriptionHTML = html
	} else {
		log.Ctx(r.Context()).Warn().Err(err).Msg("render product description")
	}
	for _, tab := range d.Tabs {
		pv.Tabs = append(pv.Tabs, tabView{
			ID:       tab,
			LabelKey: "tab." + tab,
			Href:     tabHref(r.URL.Path, tab),
			Active:   tab == pv.ActiveTab,
		})
	}
	return pv
}

func tabHref(path, tab string) string {
	if tab == catalog.TabDescription {
		return path
	}
	return withQuery(path, url.Values{"tab": {tab}})
}

// notFoundView backs the terminal not-found page.
type notFoundView struct {
	MessageKey string
	BackHref   string
}

func renderNotFound(w http.ResponseWriter, r *http.Request, messageKey string) {
	lang := mw.Lang(r)
	vm := newPageData(r, i18nOrDefault(lang, "notfound.title", "Introuvable"), "")
	vm.SEO.Robots = "noindex"
	vm.NotFound = notFoundView{MessageKey: messageKey, BackHref: backHref(r)}
	renderPage(w, r, http.StatusNotFound, "not_found", vm)
}

// NotFoundHandler is the router fallback.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	renderNotFound(w, r, "notfound.page")
}

// renderCatalogError renders a page holding only the catalog error panel.
func renderCatalogError(w http.ResponseWriter, r *http.Request, retryURL string) {
	lang := mw.Lang(r)
	vm := newPageData(r, i18nOrDefault(lang, "error.catalog.title", "Catalogue indisponible"), "")
	vm.SEO.Robots = "noindex"
	vm.Content = catalogErrorPanel(retryURL)
	renderPage(w, r, http.StatusBadGateway, "error", vm)
}

// backHref is the same-site referrer, or the home page.
func backHref(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) || ref.Path == r.URL.Path {
		return "/"
	}
	return ref.RequestURI()
}
