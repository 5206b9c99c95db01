package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"speedwaymoto.fr/storefront-web/internal/catalog"
	handlersPkg "speedwaymoto.fr/storefront-web/internal/handlers"
	mw "speedwaymoto.fr/storefront-web/internal/middleware"
	"speedwaymoto.fr/storefront-web/internal/seo"
)

const homeCarouselSize = 8

// homeCarousels lists the categories shown on the home page, in order.
var homeCarousels = []catalog.Category{
	catalog.SpareParts,
	catalog.Sportswear,
	catalog.BikerEquipment,
	catalog.Helmets,
	catalog.AirbagProtection,
}

// HomeHandler renders the landing page. Each carousel loads on its own; a
// failing category shows its error panel without failing the page.
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	reg := catalogStore.Registry()
	carousels := make([]handlersPkg.Carousel, len(homeCarousels))

	var g errgroup.Group
	g.SetLimit(len(homeCarousels))
	for i, key := range homeCarousels {
		def, err := reg.Get(key)
		if err != nil {
			continue
		}
		carousels[i] = handlersPkg.Carousel{Key: string(def.Key), TitleKey: def.TitleKey, Icon: def.Icon, Href: def.Path}
		g.Go(func() error {
			products, err := catalogStore.Refresh(r.Context(), def.Key)
			if err != nil {
				logCatalogError(r, def, err)
				carousels[i].Err = catalogErrorPanel("/")
				return nil
			}
			featured := catalog.Apply(def, products, catalog.Query{Sort: catalog.SortFeatured, Lang: lang})
			if len(featured) > homeCarouselSize {
				featured = featured[:homeCarouselSize]
			}
			carousels[i].Cards = buildCards(featured, lang)
			return nil
		})
	}
	_ = g.Wait()
	if r.Context().Err() != nil {
		return
	}

	shown := carousels[:0]
	for _, c := range carousels {
		if c.Key != "" {
			shown = append(shown, c)
		}
	}

	title := i18nOrDefault(lang, "home.title", "Équipement moto")
	vm := newPageData(r, title, i18nOrDefault(lang, "home.description", ""))
	vm.SEO.AddJSONLD(seo.Organization(i18nOrDefault(lang, "brand.name", "Speedway Moto"), siteRoot(r), ""))
	vm.Home = handlersPkg.HomeData{Carousels: shown}
	renderPage(w, r, http.StatusOK, "home", vm)
}

// categoryPage renders a full category page. A full page load always refetches.
func categoryPage(def catalog.Definition, dedicated bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cv, ok := loadListing(r, def, dedicated, true)
		if !ok {
			return
		}
		renderCategory(w, r, def, cv)
	}
}

// categoryGrid renders the listing fragment swapped in by htmx on filter, search
// or sort changes. It reuses the fetched list when it is still fresh.
func categoryGrid(def catalog.Definition, dedicated bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cv, ok := loadListing(r, def, dedicated, false)
		if !ok {
			return
		}
		status := http.StatusOK
		if cv.Err != nil {
			status = http.StatusBadGateway
		} else {
			mw.PushURL(w, cv.pushURL())
		}
		renderFragment(w, r, status, "listing", cv)
	}
}

// CategoryHandler serves /category/{slug}: the generic page offers sorting only.
func CategoryHandler(w http.ResponseWriter, r *http.Request) {
	def, err := catalogStore.Registry().BySlug(chi.URLParam(r, "slug"))
	if err != nil {
		renderNotFound(w, r, "notfound.category")
		return
	}
	categoryPage(def, false)(w, r)
}

// CategoryGridHandler serves the generic page's listing fragment.
func CategoryGridHandler(w http.ResponseWriter, r *http.Request) {
	def, err := catalogStore.Registry().BySlug(chi.URLParam(r, "slug"))
	if err != nil {
		renderNotFound(w, r, "notfound.category")
		return
	}
	categoryGrid(def, false)(w, r)
}

// loadListing runs the page state machine for one request. It reports false
// when the client went away before the list arrived; nothing is written then.
func loadListing(r *http.Request, def catalog.Definition, dedicated, refresh bool) (categoryView, bool) {
	lang := mw.Lang(r)
	q := r.URL.Query()
	page := catalog.NewPage(def, catalogStore, lang)
	if dedicated {
		page.SetFilter(strings.TrimSpace(q.Get("filter")))
		page.SetSearch(strings.TrimSpace(q.Get("q")))
	}
	page.SetSort(q.Get("sort"))

	baseURL := def.Path
	if !dedicated {
		baseURL = "/category/" + def.Slug
	}

	switch page.Load(r.Context(), refresh) {
	case catalog.StateIdle:
		return categoryView{}, false
	case catalog.StateError:
		logCatalogError(r, def, page.Err())
	}
	cv := buildCategoryView(page, baseURL, dedicated, parseView(q.Get("view")), lang)
	if page.State() == catalog.StateError {
		cv.Err = catalogErrorPanel(cv.pushURL())
	}
	return cv, true
}

func renderCategory(w http.ResponseWriter, r *http.Request, def catalog.Definition, cv categoryView) {
	lang := cv.Lang
	title := i18nOrDefault(lang, def.TitleKey, def.Title)
	vm := newPageData(r, title, i18nOrDefault(lang, "category.description", title))
	vm.Category = cv

	status := http.StatusOK
	if cv.Err != nil {
		status = http.StatusBadGateway
		vm.SEO.Robots = "noindex"
	} else {
		urls := make([]string, 0, len(cv.Cards))
		for _, c := range cv.Cards {
			urls = append(urls, siteRoot(r)+c.Href)
		}
		vm.SEO.AddJSONLD(seo.ItemList(title, urls))
	}
	renderPage(w, r, status, "category", vm)
}

// catalogErrorPanel offers a retry that reloads retryURL as a full page.
func catalogErrorPanel(retryURL string) *handlersPkg.ErrorPanel {
	return &handlersPkg.ErrorPanel{
		TitleKey:   "error.catalog.title",
		MessageKey: "error.catalog.message",
		RetryURL:   retryURL,
	}
}

func logCatalogError(r *http.Request, def catalog.Definition, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	evt := log.Ctx(r.Context()).Error().Err(err).Str("category", string(def.Key))
	var fe *catalog.FetchError
	if errors.As(err, &fe) {
		evt = evt.Str("source", fe.Source).Int("status", fe.Status)
	}
	evt.Msg("catalog load failed")
}

// catalogResponse is the JSON shape of /api/catalog/{slug}.
type catalogResponse struct {
	Category string            `json:"category"`
	Filter   string            `json:"filter"`
	Search   string            `json:"search,omitempty"`
	Sort     string            `json:"sort"`
	Total    int               `json:"total"`
	Facets   []catalog.Facet   `json:"facets,omitempty"`
	Products []catalog.Product `json:"products"`
}

// CatalogAPIHandler returns the filtered and sorted list of a category as JSON,
// with a weak ETag over the body.
func CatalogAPIHandler(w http.ResponseWriter, r *http.Request) {
	def, err := catalogStore.Registry().BySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "unknown category")
		return
	}
	lang := mw.Lang(r)
	q := r.URL.Query()
	page := catalog.NewPage(def, catalogStore, lang)
	page.SetFilter(strings.TrimSpace(q.Get("filter")))
	page.SetSearch(strings.TrimSpace(q.Get("q")))
	page.SetSort(q.Get("sort"))

	switch page.Load(r.Context(), false) {
	case catalog.StateIdle:
		return
	case catalog.StateError:
		logCatalogError(r, def, page.Err())
		writeJSONError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}

	query := page.Query()
	resp := catalogResponse{
		Category: string(def.Key),
		Filter:   query.Filter,
		Search:   query.Search,
		Sort:     string(query.Sort),
		Total:    len(page.All()),
		Facets:   page.Facets(),
		Products: catalog.LocalizeAll(page.Visible(), lang),
	}
	body, err := json.Marshal(resp)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "encode failed")
		return
	}
	etag := mw.WeakETag(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=60")
	if mw.MatchETag(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write(body)
}

func writeJSONError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// siteRoot is the scheme and host of the current request.
func siteRoot(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
