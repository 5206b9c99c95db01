package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mapBody(t *testing.T, cat Category, body string, assets *AssetManifest) []Product {
	t.Helper()
	def, err := DefaultRegistry().Get(cat)
	require.NoError(t, err)
	return Map(def, mustDecode(t, cat, body), assets)
}

func TestMapHelmetEndToEnd(t *testing.T) {
	products := mapBody(t, Helmets, `{"helmets":[{"name":"A","images":["x.jpg"],"price":{"web":199,"recommended":249}}]}`, nil)
	require.Len(t, products, 1)
	p := products[0]
	require.Equal(t, "A", p.Name)
	require.Equal(t, "/assets/Product-images/Motorcycle-Helmets/x.jpg", p.Image)
	require.Equal(t, "199 €", p.Price.Current)
	require.Equal(t, "249 €", p.Price.Original)
	require.Equal(t, Helmets, p.Category)
	require.Equal(t, "Motorcycle-Helmets", p.Source)
	require.Equal(t, "/product/motorcycle-helmet/"+p.ID, p.Path())
	require.True(t, ValidID(p.ID))
}

func TestMapFallbacks(t *testing.T) {
	products := mapBody(t, ScooterEquipment, `{"products":[{"title":"Tablier","manufacturer":"Tucano"},{}]}`, nil)
	require.Len(t, products, 2)
	require.Equal(t, "Tablier", products[0].Name)
	require.Equal(t, "Tucano", products[0].Brand)
	require.Equal(t, PlaceholderImage, products[0].Image)
	require.False(t, products[0].Price.Known)
	require.Empty(t, products[1].Name)
	require.Equal(t, 1, products[1].Position)
}

func TestMapStableIDs(t *testing.T) {
	body := `{"helmets":[{"name":"A","images":["x.jpg"]},{"name":"A","images":["x.jpg"]},{"name":"B"}]}`
	first := mapBody(t, Helmets, body, nil)
	second := mapBody(t, Helmets, body, nil)
	require.Len(t, first, 3)
	ids := map[string]bool{}
	for i := range first {
		require.Equal(t, first[i].ID, second[i].ID)
		ids[first[i].ID] = true
	}
	require.Len(t, ids, 3, "duplicates must still get distinct ids")
}

func TestMapBikerTags(t *testing.T) {
	products := mapBody(t, BikerEquipment, `{"biker_equipment":[
		{"name":"Blouson cuir","price":"299,90 €","features":{"Type de produit":"Blouson","Genre":"Homme","Saisonnalité":"Summer"}},
		{"name":"Women's Gloves","price":"59,90 €","features":{"Product type":"Motorcycle gloves","Gender":"Female"}},
		{"name":"Veste textile","features":{"Type de produit":"Veste textile"}},
		{"name":"Dorsale","features":{"Type de produit":"Protection dorsale"}},
		{"name":"Gilet","features":{"Type de produit":"Gilet airbag"}},
		{"name":"Sweat","features":{"Type de produit":"Sweatshirt"}},
		{"name":"Mystère"}
	]}`, nil)
	var tags []string
	for _, p := range products {
		require.Len(t, p.Tags, 1)
		tags = append(tags, p.Tags[0])
	}
	require.Equal(t, []string{TagJacket, TagGloves, TagVest, TagBackProtector, TagAirbagVest, TagSweatshirt, TagJacket}, tags)
	require.Equal(t, []Badge{{Kind: "gender", Label: "Homme"}}, products[0].Badges)
	require.Equal(t, []Badge{{Kind: "gender", Label: "Femme"}}, products[1].Badges)
	require.Equal(t, "Summer", products[0].Highlights[0].Value)
	require.Equal(t, "Été", products[0].Localized("fr").Highlights[0].Value)
	require.Equal(t, "Femme Gants", products[1].Localized("fr").Name)
	require.Equal(t, "Women's Gloves", products[1].Localized("en").Name)
}

func TestMapAirbagSectionTags(t *testing.T) {
	products := mapBody(t, AirbagProtection, `{"airbag_vests":[{"name":"V","technology":"Tech-Air","certifications":["EN1621-4"]}],"back_protectors":[{"name":"B"}]}`, nil)
	require.Len(t, products, 2)
	require.Equal(t, []string{SectionAirbagVests}, products[0].Tags)
	require.Equal(t, []string{SectionBackProtectors}, products[1].Tags)
	require.Equal(t, []Highlight{{Icon: "🚀", Value: "Tech-Air"}, {Icon: "✅", Label: "card.certified"}}, products[0].Highlights)
}

func TestMapSparePart(t *testing.T) {
	products := mapBody(t, SpareParts, `{"products":[{
		"name":"Sac à dos étanche Urban",
		"price":"189,90 €",
		"discount_price":"159,90 € Avec le code MOTO10",
		"reviews":42,
		"characteristics":{"type":"Sac à dos","advantages":"Étanche, Réfléchissant","exclusivity":"Oui","volume":"25 L","material":"Nylon (600D)"},
		"payment_options":{"available":["3x","4x"]}
	},{
		"name":"Top case 45L",
		"price":"89,00 €",
		"discount_price":0,
		"characteristics":{"type":"Top case"}
	}]}`, nil)
	require.Len(t, products, 2)

	bag := products[0]
	require.Equal(t, "159.90 €", bag.Price.Current)
	require.Equal(t, "189.90 €", bag.Price.Original)
	require.Equal(t, 42, bag.Reviews)
	require.Equal(t, "Sac à dos", bag.Kind)
	require.ElementsMatch(t, []string{TagBackpack, TagWaterproof, TagPremium}, bag.Tags)
	require.Equal(t, []Badge{
		{Kind: "discount", Label: "PROMO"},
		{Kind: "exclusive", Label: "EXCLUSIF"},
		{Kind: "waterproof", Label: "ÉTANCHE"},
	}, bag.Badges)
	require.Equal(t, []Highlight{{Icon: "📦", Value: "25 L"}, {Icon: "🧵", Value: "Nylon"}}, bag.Highlights)

	box := products[1]
	require.Equal(t, []string{TagTopCase}, box.Tags)
	require.Empty(t, box.Badges)
	require.Equal(t, "89,00 €", box.Price.Current)
}

func TestMapSportswearPrice(t *testing.T) {
	products := mapBody(t, Sportswear, `{"products":[
		{"name":"Hoodie","salePrice":"39,90 €","originalPrice":"49,90 €","sizes":["S","M"],"color":"Black","reviews":"8"},
		{"name":"Tee","originalPrice":"24,90 €"},
		{"name":"Cap","price":"19,90 €"}
	]}`, nil)
	require.Len(t, products, 3)
	require.Equal(t, "39,90 €", products[0].Price.Current)
	require.Equal(t, "49,90 €", products[0].Price.Original)
	require.Equal(t, []string{"S", "M"}, products[0].Sizes)
	require.Equal(t, 8, products[0].Reviews)
	require.Equal(t, "24,90 €", products[1].Price.Current)
	require.Empty(t, products[1].Price.Original)
	require.Equal(t, "19,90 €", products[2].Price.Current)
}

func TestMapDescriptionPlainText(t *testing.T) {
	products := mapBody(t, Helmets, `{"helmets":[{"name":"A","description":"<p>Casque <b>léger</b></p><p>Visière&nbsp;claire</p>"}]}`, nil)
	require.Equal(t, "Casque léger Visière claire", products[0].Description)
}
