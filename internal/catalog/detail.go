package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Payload carries a raw record to the detail page, with the source tag of the
// page the shopper came from.
type Payload struct {
	Product Record
	Source  string
}

// Detail tabs.
const (
	TabDescription = "description"
	TabFeatures    = "features"
	TabSpecs       = "specs"
	TabAdditional  = "additional"
)

// Placeholder rating shown on every detail page until reviews are collected.
const (
	DetailRating      = 4.5
	DetailReviewCount = 128
)

// Detail is the view model of the product detail page.
type Detail struct {
	Category    Category
	Name        string
	Brand       string
	Description string
	Images      []string
	Price       PriceInfo
	Discount    int64 // whole percent, 0 without a discount
	Sizes       []string
	Color       string
	Rating      float64
	Reviews     int
	Features    Attributes
	Specs       Attributes
	Additional  Attributes
	Tabs        []string
}

// HasDiscount reports whether the original price is shown struck through.
func (d Detail) HasDiscount() bool { return d.Price.HasDiscount() }

// HasTab reports whether tab is available.
func (d Detail) HasTab(tab string) bool {
	for _, t := range d.Tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// ActiveTab returns requested when available, else the description tab.
func (d Detail) ActiveTab(requested string) string {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if d.HasTab(requested) {
		return requested
	}
	return TabDescription
}

// Localized returns a copy with the name and attribute values rendered for lang.
func (d Detail) Localized(lang string) Detail {
	if !isFrench(lang) {
		return d
	}
	d.Name = TranslateName(d.Name)
	d.Color = TranslateValue(d.Color)
	d.Features = localizeAttrs(d.Features)
	d.Specs = localizeAttrs(d.Specs)
	d.Additional = localizeAttrs(d.Additional)
	return d
}

// Folder returns the asset folder used to resolve payload images.
type Folder func(source string) string

// BuildDetail derives the detail view from a navigation payload. It reports
// false when there is nothing to show. Images resolve under the payload's
// source folder.
func BuildDetail(p *Payload, folder Folder, assets *AssetManifest) (Detail, bool) {
	if p == nil || p.Product == nil {
		return Detail{}, false
	}
	rec := p.Product
	base := rec.Base()

	dir := p.Source
	if folder != nil {
		dir = folder(p.Source)
	}
	if dir == "" {
		dir = "Products"
	}

	d := Detail{
		Category:    rec.Category(),
		Name:        firstNonEmpty(strings.TrimSpace(displayName(base)), "Produit"),
		Brand:       firstNonEmpty(base.Brand.String(), base.Manufacturer.String()),
		Description: PlainText(base.Description.String()),
		Price:       FormatPrice(base.Price),
		Rating:      DetailRating,
		Reviews:     DetailReviewCount,
		Additional:  base.Extra,
	}
	for _, img := range base.Images {
		d.Images = append(d.Images, ResolveImage(dir, img, assets))
	}

	switch r := rec.(type) {
	case HelmetRecord:
		d.Features = r.Features
	case BikerRecord:
		d.Features = r.Features
	case AirbagRecord:
		d.Features = r.Features
	case ScooterRecord:
		d.Features = r.Features
	case SparePartRecord:
		d.Features = r.Features
		d.Specs = r.Characteristics
		if d.Brand == "" {
			d.Brand = r.Characteristics.Value("brand")
		}
	case SportswearRecord:
		d.Features = r.Features
		d.Sizes = r.Sizes
		d.Color = r.Color.String()
		if r.SalePrice.IsSet() || r.OriginalPrice.IsSet() {
			var list Amount
			if r.SalePrice.IsSet() {
				list = r.OriginalPrice
			}
			d.Price = priceFromAmounts(list, r.SalePrice, r.OriginalPrice)
		}
	}

	d.Discount = discountPercent(base.Price, d.Price)

	d.Tabs = []string{TabDescription}
	if len(d.Features) > 0 {
		d.Tabs = append(d.Tabs, TabFeatures)
	}
	if len(d.Specs) > 0 {
		d.Tabs = append(d.Tabs, TabSpecs)
	}
	if len(d.Additional) > 0 {
		d.Tabs = append(d.Tabs, TabAdditional)
	}
	return d, true
}

var hundred = decimal.NewFromInt(100)

// discountPercent computes the saving from the original and current price,
// rounded to a whole percent.
func discountPercent(raw Price, info PriceInfo) int64 {
	if !info.HasDiscount() || !info.Known {
		return 0
	}
	original, ok := ParsePrice(info.Original)
	if raw.Kind == PriceStructured {
		if v, set := raw.Recommended.Decimal(); set {
			original, ok = v, true
		}
	}
	if !ok || !original.IsPositive() || info.Value.GreaterThanOrEqual(original) {
		return 0
	}
	saved := original.Sub(info.Value).Div(original).Mul(hundred)
	return saved.Round(0).IntPart()
}
