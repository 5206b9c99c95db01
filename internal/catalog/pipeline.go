package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter tags. Biker tags keep the French ids used in shared links.
const (
	TagJacket        = "blouson"
	TagVest          = "veste"
	TagGloves        = "gants"
	TagBackProtector = "dorsale"
	TagAirbagVest    = "gilet_airbag"
	TagSweatshirt    = "sweat-shirt"

	TagBackpack   = "backpack"
	TagTopCase    = "topcase"
	TagLegBag     = "legbag"
	TagSaddlebag  = "saddlebag"
	TagWaterproof = "waterproof"
	TagPremium    = "premium"
)

// FilterAll keeps every product.
const FilterAll = "all"

// SortKey orders the visible list.
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// SortKeys lists the keys in menu order.
var SortKeys = []SortKey{SortFeatured, SortName, SortPriceLow, SortPriceHigh, SortRating}

// ParseSortKey maps unknown values to SortFeatured.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortKeys, k) {
		return k
	}
	return SortFeatured
}

// Query is the UI state applied to a fetched list.
type Query struct {
	Filter string
	Search string
	Sort   SortKey
	Lang   string
}

// Apply filters, searches and sorts products. The input slice is never modified.
func Apply(def Definition, products []Product, q Query) []Product {
	filter := strings.TrimSpace(q.Filter)
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if filter != "" && filter != FilterAll && !p.HasTag(filter) {
			continue
		}
		if needle != "" && !matches(p, needle, q.Lang) {
			continue
		}
		out = append(out, p)
	}

	switch ParseSortKey(string(q.Sort)) {
	case SortFeatured:
		if def.FeaturedByReviews {
			slices.SortStableFunc(out, byReviews)
		}
	case SortName:
		c := collate.New(collatorTag(q.Lang), collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b Product) int {
			return c.CompareString(LocalizeName(q.Lang, a.Name), LocalizeName(q.Lang, b.Name))
		})
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b Product) int { return comparePrice(a, b, false) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b Product) int { return comparePrice(a, b, true) })
	case SortRating:
		slices.SortStableFunc(out, byReviews)
	}
	return out
}

func byReviews(a, b Product) int {
	return cmp.Compare(b.Reviews, a.Reviews)
}

// comparePrice puts unknown prices last in either direction.
func comparePrice(a, b Product, desc bool) int {
	switch {
	case !a.Price.Known && !b.Price.Known:
		return 0
	case !a.Price.Known:
		return 1
	case !b.Price.Known:
		return -1
	}
	if desc {
		return b.Price.Value.Cmp(a.Price.Value)
	}
	return a.Price.Value.Cmp(b.Price.Value)
}

func matches(p Product, needle, lang string) bool {
	for _, hay := range []string{p.Name, LocalizeName(lang, p.Name), p.Description, p.Kind} {
		if hay != "" && strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

func collatorTag(lang string) language.Tag {
	if isFrench(lang) {
		return language.French
	}
	t, err := language.Parse(lang)
	if err != nil {
		return language.French
	}
	return t
}

// Facet is one filter button with its item count.
type Facet struct {
	ID       string `json:"id"`
	LabelKey string `json:"label_key"`
	Count    int    `json:"count"`
}

// Facets counts products per configured filter tag, "all" first.
func Facets(def Definition, products []Product) []Facet {
	if len(def.Facets) == 0 {
		return nil
	}
	out := make([]Facet, 0, len(def.Facets)+1)
	out = append(out, Facet{ID: FilterAll, LabelKey: "filter.all", Count: len(products)})
	for _, tag := range def.Facets {
		n := 0
		for _, p := range products {
			if p.HasTag(tag) {
				n++
			}
		}
		out = append(out, Facet{ID: tag, LabelKey: "filter." + tag, Count: n})
	}
	return out
}
