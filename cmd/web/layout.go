package main

import (
	"net/http"
	"net/url"

	handlersPkg "speedwaymoto.fr/storefront-web/internal/handlers"
	mw "speedwaymoto.fr/storefront-web/internal/middleware"
	"speedwaymoto.fr/storefront-web/internal/nav"
	"speedwaymoto.fr/storefront-web/internal/seo"
)

func i18nOrDefault(lang, key, def string) string {
	if i18nBundle == nil {
		return def
	}
	if v := i18nBundle.T(lang, key); v != "" && v != key {
		return v
	}
	return def
}

// newPageData fills the layout fields shared by every page.
func newPageData(r *http.Request, title, description string) handlersPkg.PageData {
	lang := mw.Lang(r)
	vm := handlersPkg.PageData{
		Title:       title,
		Lang:        lang,
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Categories:  nav.Categories(catalogStore.Registry().All(), r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path, catalogStore.Registry().All()),
		Analytics:   analytics,
		CSRFToken:   mw.CSRFToken(r),
	}

	brand := i18nOrDefault(lang, "brand.name", "Speedway Moto")
	vm.SEO.Title = title + " | " + brand
	if title == "" {
		vm.SEO.Title = brand
	}
	vm.SEO.Description = description
	vm.SEO.Canonical = absoluteURL(r)
	vm.SEO.OG = seo.OpenGraph{
		Title:       vm.SEO.Title,
		Description: description,
		Type:        "website",
		URL:         vm.SEO.Canonical,
		SiteName:    brand,
	}
	vm.SEO.Twitter.Card = "summary_large_image"
	vm.SEO.Alternates = buildAlternates(r)
	return vm
}

// absoluteURL rebuilds the public URL of r without the hl override.
func absoluteURL(r *http.Request) string {
	q := r.URL.Query()
	q.Del("hl")
	return withQuery(siteRoot(r)+r.URL.Path, q)
}

func buildAlternates(r *http.Request) []seo.Alternate {
	if i18nBundle == nil {
		return nil
	}
	base := absoluteURL(r)
	out := make([]seo.Alternate, 0, len(i18nBundle.Supported()))
	for _, lang := range i18nBundle.Supported() {
		u, err := url.Parse(base)
		if err != nil {
			continue
		}
		q := u.Query()
		q.Set("hl", lang)
		u.RawQuery = q.Encode()
		out = append(out, seo.Alternate{Href: u.String(), Hreflang: lang})
	}
	return out
}
