package main

import (
	"net/url"

	"speedwaymoto.fr/storefront-web/internal/catalog"
	handlersPkg "speedwaymoto.fr/storefront-web/internal/handlers"
)

// Display modes of a category grid.
const (
	viewGrid = "grid"
	viewList = "list"
)

// cardView is everything the product card template needs.
type cardView struct {
	ID          string
	Href        string
	Name        string
	Brand       string
	Kind        string
	Description string
	Image       string
	Current     string
	Original    string
	HasDiscount bool
	Highlights  []catalog.Highlight
	Badges      []catalog.Badge
	Reviews     int
	Lang        string
}

func buildCard(p catalog.Product, lang string) cardView {
	p = p.Localized(lang)
	return cardView{
		ID:          p.ID,
		Href:        p.Path(),
		Name:        p.Name,
		Brand:       p.Brand,
		Kind:        p.Kind,
		Description: catalog.Excerpt(p.Description, 110),
		Image:       p.Image,
		Current:     p.Price.Current,
		Original:    p.Price.Original,
		HasDiscount: p.Price.HasDiscount(),
		Highlights:  p.Highlights,
		Badges:      p.Badges,
		Reviews:     p.Reviews,
		Lang:        lang,
	}
}

func buildCards(products []catalog.Product, lang string) []cardView {
	cards := make([]cardView, 0, len(products))
	for _, p := range products {
		cards = append(cards, buildCard(p, lang))
	}
	return cards
}

// facetView is one filter button.
type facetView struct {
	ID       string
	LabelKey string
	Count    int
	Active   bool
	Href     string
	GridHref string
}

// sortOption is one entry of the sort menu.
type sortOption struct {
	Key      string
	LabelKey string
	Selected bool
}

// categoryView is the listing part of a category page and of its grid fragment.
type categoryView struct {
	Key       string
	Slug      string
	TitleKey  string
	Title     string
	Icon      string
	BaseURL   string // page the listing lives on
	GridURL   string // htmx fragment endpoint
	Dedicated bool
	State     string
	Lang      string

	Filter string
	Search string
	Sort   string
	View   string

	Facets []facetView
	Sorts  []sortOption
	Cards  []cardView
	Total  int
	Shown  int
	Err    *handlersPkg.ErrorPanel
}

// listingQuery encodes the UI state, leaving defaults out of the URL.
func listingQuery(filter, search, sort, view string) url.Values {
	q := url.Values{}
	if filter != "" && filter != catalog.FilterAll {
		q.Set("filter", filter)
	}
	if search != "" {
		q.Set("q", search)
	}
	if sort != "" && sort != string(catalog.SortFeatured) {
		q.Set("sort", sort)
	}
	if view != "" && view != viewGrid {
		q.Set("view", view)
	}
	return q
}

func withQuery(path string, q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

func parseView(v string) string {
	if v == viewList {
		return viewList
	}
	return viewGrid
}

func buildCategoryView(page *catalog.Page, baseURL string, dedicated bool, view, lang string) categoryView {
	def := page.Definition()
	q := page.Query()
	cv := categoryView{
		Key:       string(def.Key),
		Slug:      def.Slug,
		TitleKey:  def.TitleKey,
		Title:     def.Title,
		Icon:      def.Icon,
		BaseURL:   baseURL,
		GridURL:   baseURL + "/grid",
		Dedicated: dedicated,
		State:     page.State().String(),
		Lang:      lang,
		Filter:    q.Filter,
		Search:    q.Search,
		Sort:      string(q.Sort),
		View:      view,
	}
	for _, k := range catalog.SortKeys {
		cv.Sorts = append(cv.Sorts, sortOption{Key: string(k), LabelKey: "sort." + string(k), Selected: k == q.Sort})
	}
	if page.State() != catalog.StateReady {
		return cv
	}
	if dedicated {
		for _, f := range page.Facets() {
			lq := listingQuery(f.ID, q.Search, string(q.Sort), view)
			cv.Facets = append(cv.Facets, facetView{
				ID:       f.ID,
				LabelKey: f.LabelKey,
				Count:    f.Count,
				Active:   f.ID == q.Filter,
				Href:     withQuery(baseURL, lq),
				GridHref: withQuery(cv.GridURL, lq),
			})
		}
	}
	visible := page.Visible()
	cv.Cards = buildCards(visible, lang)
	cv.Total = len(page.All())
	cv.Shown = len(visible)
	return cv
}

// pushURL is the address the browser shows after an htmx swap.
func (cv categoryView) pushURL() string {
	return withQuery(cv.BaseURL, listingQuery(cv.Filter, cv.Search, cv.Sort, cv.View))
}
