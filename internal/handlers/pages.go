package handlers

import (
	"speedwaymoto.fr/storefront-web/internal/nav"
	"speedwaymoto.fr/storefront-web/internal/seo"
)

// PageData is a generic view model for pages using the shared layout.
type PageData struct {
	Title     string
	Lang      string
	SEO       seo.Meta
	Analytics Analytics

	Path        string
	Nav         []nav.RenderedItem
	Categories  []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	CSRFToken   string
	Flash       string

	// Optional per-page view model payloads
	Home     any
	Category any
	Product  any
	Content  any
	Contact  any
	NotFound any
}
