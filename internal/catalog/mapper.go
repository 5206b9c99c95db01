package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"speedwaymoto.fr/storefront-web/internal/format"
)

const excerptRunes = 100

var (
	premiumFilterFloor = decimal.NewFromInt(100)
	premiumBadgeFloor  = decimal.NewFromInt(150)
)

const maxBadges = 3

// Map turns a parsed document into display products. It never fails: records
// of another category are skipped and missing fields fall back to empty values.
func Map(def Definition, doc Document, assets *AssetManifest) []Product {
	out := make([]Product, 0, len(doc.Records))
	seen := make(map[string]int, len(doc.Records))
	for _, rec := range doc.Records {
		if rec == nil || rec.Category() != def.Key {
			continue
		}
		p := mapCommon(def, rec, assets)
		switch r := rec.(type) {
		case HelmetRecord:
			mapHelmet(&p, r)
		case BikerRecord:
			mapBiker(&p, r)
		case AirbagRecord:
			mapAirbag(&p, r)
		case SparePartRecord:
			mapSparePart(&p, r)
		case SportswearRecord:
			mapSportswear(&p, r)
		case ScooterRecord:
			mapScooter(&p, r)
		default:
			continue
		}
		key := p.Name + "|" + firstImage(rec.Base())
		p.ID = StableID(def.Key, p.Name, firstImage(rec.Base()), seen[key])
		seen[key]++
		p.Position = len(out)
		out = append(out, p)
	}
	return out
}

func mapCommon(def Definition, rec Record, assets *AssetManifest) Product {
	base := rec.Base()
	p := Product{
		Category:    def.Key,
		Slug:        def.Slug,
		Source:      def.Source,
		Name:        displayName(base),
		Brand:       firstNonEmpty(base.Brand.String(), base.Manufacturer.String()),
		Description: PlainText(base.Description.String()),
		Price:       FormatPrice(base.Price),
		Record:      rec,
	}
	for _, img := range base.Images {
		p.Images = append(p.Images, ResolveImage(def.AssetFolder, img, assets))
	}
	if len(p.Images) > 0 {
		p.Image = p.Images[0]
	} else {
		p.Image = PlaceholderImage
	}
	return p
}

func displayName(base BaseRecord) string {
	return strings.TrimSpace(firstNonEmpty(base.Name.String(), base.Title.String()))
}

func firstImage(base BaseRecord) string {
	if len(base.Images) == 0 {
		return ""
	}
	return base.Images[0]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func mapHelmet(p *Product, r HelmetRecord) {
	p.Features = r.Features
	p.Kind = r.Features.Value("Type de casque", "Helmet type")
	if p.Brand == "" {
		p.Brand = r.Features.Value("Marque", "Brand")
	}
	if v := r.Features.Value("Modèle casque", "Helmet model"); v != "" {
		p.Highlights = append(p.Highlights, Highlight{Icon: "🪖", Value: v})
	}
	if p.Kind != "" {
		p.Highlights = append(p.Highlights, Highlight{Icon: "🏍️", Value: p.Kind})
	}
	if v := r.Features.Value("Garantie", "Guarantee"); v != "" {
		p.Highlights = append(p.Highlights, Highlight{Icon: "🛡️", Label: "card.warranty", Value: v})
	}
}

func mapBiker(p *Product, r BikerRecord) {
	p.Features = r.Features
	p.Kind = r.Features.Value("Type de produit", "Product type")
	p.Brand = firstNonEmpty(r.Features.Value("Brand", "Marque"), p.Brand)
	p.Tags = []string{BikerTag(p.Kind)}
	if v := r.Features.Value("Saisonnalité", "Seasonality"); v != "" {
		p.Highlights = append(p.Highlights, Highlight{Icon: "🌤️", Value: v})
	}
	if v := r.Features.Value("Matière", "Matter"); v != "" {
		p.Highlights = append(p.Highlights, Highlight{Icon: "🔍", Value: v})
	}
	if _, ok := r.Features.Get("Homologation blouson / veste", "Jacket approval"); ok {
		p.Highlights = append(p.Highlights, Highlight{Icon: "✅", Label: "card.ce_certified"})
	}
	if g := r.Features.Value("Genre", "Gender"); g != "" {
		p.Badges = append(p.Badges, Badge{Kind: "gender", Label: TranslateValue(g)})
	}
	if r.Features.Value("Exclusivité Speedway") == "Oui" {
		p.Badges = append(p.Badges, Badge{Kind: "exclusive", Label: "EXCLUSIF"})
	}
}

// BikerTag derives the filter tag of a biker product from its product type.
// Values are matched after French translation so English data files classify too.
func BikerTag(productType string) string {
	t := strings.ToLower(TranslateValue(productType))
	switch {
	case strings.Contains(t, "gants"):
		return TagGloves
	case strings.Contains(t, "veste"):
		return TagVest
	case strings.Contains(t, "dorsale"):
		return TagBackProtector
	case strings.Contains(t, "gilet airbag"):
		return TagAirbagVest
	case strings.Contains(t, "sweat"):
		return TagSweatshirt
	default:
		return TagJacket
	}
}

func mapAirbag(p *Product, r AirbagRecord) {
	p.Features = r.Features
	p.Tags = []string{r.Section}
	p.Kind = firstNonEmpty(r.Features.Value("Type de produit", "Product type"), r.Section)
	if v := r.Extra.Value("technology"); v != "" {
		p.Highlights = append(p.Highlights, Highlight{Icon: "🚀", Value: v})
	}
	if r.Extra.Value("certifications") != "" {
		p.Highlights = append(p.Highlights, Highlight{Icon: "✅", Label: "card.certified"})
	}
}

func mapSparePart(p *Product, r SparePartRecord) {
	p.Features = r.Features
	p.Specs = r.Characteristics
	p.Kind = r.Characteristics.Value("type")
	p.Reviews = int(r.Reviews)
	list := p.Price
	// a zero discount_price marks a part without promotion
	discounted := r.DiscountPrice.IsSet() && !r.DiscountPrice.IsZero()

	if discounted {
		text := r.DiscountPrice.Display()
		if i := strings.Index(text, "Avec le code"); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		if d, ok := ParsePrice(text); ok {
			p.Price = PriceInfo{Current: format.Euro(d, true), Value: d, Known: true}
			if list.Known && !list.Value.Equal(d) {
				p.Price.Original = format.Euro(list.Value, true)
			}
		}
	}

	if v := r.Characteristics.Value("volume"); v != "" {
		p.Highlights = append(p.Highlights, Highlight{Icon: "📦", Value: v})
	}
	if v := r.Characteristics.Value("material"); v != "" {
		p.Highlights = append(p.Highlights, Highlight{Icon: "🧵", Value: strings.TrimSpace(strings.SplitN(v, "(", 2)[0])})
	}

	name := strings.ToLower(p.Name)
	kind := r.Characteristics.Value("type")
	advantages := r.Characteristics.Value("advantages")
	waterproof := strings.Contains(strings.ToLower(advantages), "étanche") ||
		strings.Contains(strings.ToLower(p.Description), "étanche")
	for _, rule := range []struct {
		tag, name, kind string
	}{
		{TagBackpack, "sac à dos", "Sac à dos"},
		{TagTopCase, "top case", "Top case"},
		{TagLegBag, "sacoche de jambe", "Sacoche de jambe"},
		{TagSaddlebag, "sacoche cavalière", "Sacoche cavalière"},
	} {
		if strings.Contains(name, rule.name) || kind == rule.kind {
			p.Tags = append(p.Tags, rule.tag)
		}
	}
	if waterproof {
		p.Tags = append(p.Tags, TagWaterproof)
	}
	if list.Known && list.Value.GreaterThan(premiumFilterFloor) {
		p.Tags = append(p.Tags, TagPremium)
	}

	if discounted {
		p.Badges = append(p.Badges, Badge{Kind: "discount", Label: "PROMO"})
	}
	if r.Characteristics.Value("exclusivity") == "Oui" {
		p.Badges = append(p.Badges, Badge{Kind: "exclusive", Label: "EXCLUSIF"})
	}
	if strings.Contains(advantages, "Étanche") {
		p.Badges = append(p.Badges, Badge{Kind: "waterproof", Label: "ÉTANCHE"})
	}
	if list.Known && list.Value.GreaterThan(premiumBadgeFloor) {
		p.Badges = append(p.Badges, Badge{Kind: "premium", Label: "PREMIUM"})
	}
	if len(r.PaymentOptions.Available) > 0 {
		p.Badges = append(p.Badges, Badge{Kind: "financing", Label: "3X SANS FRAIS"})
	}
	if len(p.Badges) > maxBadges {
		p.Badges = p.Badges[:maxBadges]
	}
}

func mapSportswear(p *Product, r SportswearRecord) {
	p.Features = r.Features
	p.Kind = r.Features.Value("Type de produit", "Product type")
	p.Reviews = int(r.Reviews)
	p.Sizes = r.Sizes
	p.Color = r.Color.String()
	if r.SalePrice.IsSet() || r.OriginalPrice.IsSet() {
		var list Amount
		if r.SalePrice.IsSet() {
			list = r.OriginalPrice
		}
		p.Price = priceFromAmounts(list, r.SalePrice, r.OriginalPrice)
	}
	if p.Color != "" {
		p.Highlights = append(p.Highlights, Highlight{Icon: "🎨", Value: p.Color})
	}
	if len(p.Sizes) > 0 {
		p.Highlights = append(p.Highlights, Highlight{Icon: "📏", Value: strings.Join(p.Sizes, " · ")})
	}
}

func mapScooter(p *Product, r ScooterRecord) {
	p.Features = r.Features
	p.Kind = r.Features.Value("Type de produit", "Product type")
	if p.Kind != "" {
		p.Highlights = append(p.Highlights, Highlight{Icon: "🛵", Value: p.Kind})
	}
}
