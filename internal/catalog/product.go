package catalog

import (
	"slices"
)

// Highlight is a short attribute shown on a product card. Label is an optional
// message key rendered before Value.
type Highlight struct {
	Icon  string `json:"icon"`
	Label string `json:"label,omitempty"`
	Value string `json:"value,omitempty"`
}

// Badge is a card ribbon such as PROMO or EXCLUSIF.
type Badge struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// Product is the display shape shared by every category.
type Product struct {
	ID          string      `json:"id"`
	Category    Category    `json:"category"`
	Slug        string      `json:"-"`
	Source      string      `json:"source"`
	Position    int         `json:"position"`
	Name        string      `json:"name"`
	Brand       string      `json:"brand,omitempty"`
	Description string      `json:"description,omitempty"`
	Kind        string      `json:"kind,omitempty"`
	Image       string      `json:"image"`
	Images      []string    `json:"images,omitempty"`
	Price       PriceInfo   `json:"price"`
	Tags        []string    `json:"tags,omitempty"`
	Highlights  []Highlight `json:"highlights,omitempty"`
	Badges      []Badge     `json:"badges,omitempty"`
	Features    Attributes  `json:"features,omitempty"`
	Specs       Attributes  `json:"specs,omitempty"`
	Reviews     int         `json:"reviews,omitempty"`
	Sizes       []string    `json:"sizes,omitempty"`
	Color       string      `json:"color,omitempty"`
	Record      Record      `json:"-"`
}

// HasTag reports filter membership.
func (p Product) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

// Path is the deep link of the product detail page.
func (p Product) Path() string {
	return "/product/" + p.Slug + "/" + p.ID
}

// Payload is the navigation payload the detail page is built from.
func (p Product) Payload() *Payload {
	if p.Record == nil {
		return nil
	}
	return &Payload{Product: p.Record, Source: p.Source}
}

// Localized returns a copy with names and attribute values rendered for lang.
func (p Product) Localized(lang string) Product {
	if !isFrench(lang) {
		return p
	}
	p.Name = TranslateName(p.Name)
	p.Kind = TranslateValue(p.Kind)
	p.Color = TranslateValue(p.Color)
	if len(p.Highlights) > 0 {
		hs := make([]Highlight, len(p.Highlights))
		for i, h := range p.Highlights {
			h.Value = TranslateValue(h.Value)
			hs[i] = h
		}
		p.Highlights = hs
	}
	p.Features = localizeAttrs(p.Features)
	p.Specs = localizeAttrs(p.Specs)
	return p
}

// LocalizeAll applies Localized to every product.
func LocalizeAll(products []Product, lang string) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.Localized(lang)
	}
	return out
}

func localizeAttrs(in Attributes) Attributes {
	if len(in) == 0 {
		return in
	}
	out := make(Attributes, len(in))
	for i, a := range in {
		out[i] = Attr{Key: a.Key, Value: TranslateValue(a.Value)}
	}
	return out
}
