package catalog

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, cat Category, body string) Document {
	t.Helper()
	doc, err := Decode(cat, strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestDecodeHelmets(t *testing.T) {
	doc := mustDecode(t, Helmets, `{"helmets":[
		{"name":"Shark Spartan","images":["a.jpg","b.jpg"],"price":{"web":199,"recommended":249},
		 "features":{"Type de casque":"Intégral","Garantie":"5 ans"},"sku":"SH-1","stock":3},
		"not an object",
		{"title":"Sans nom","images":"single.jpg"}
	]}`)
	require.Equal(t, Helmets, doc.Category)
	require.Len(t, doc.Records, 2)

	first, ok := doc.Records[0].(HelmetRecord)
	require.True(t, ok)
	require.Equal(t, "Shark Spartan", first.Name.String())
	require.Equal(t, StringList{"a.jpg", "b.jpg"}, first.Images)
	require.Equal(t, "Intégral", first.Features.Value("Type de casque"))
	require.Equal(t, Attributes{{Key: "sku", Value: "SH-1"}, {Key: "stock", Value: "3"}}, first.Extra)

	second := doc.Records[1].(HelmetRecord)
	require.Equal(t, "Sans nom", second.Title.String())
	require.Equal(t, StringList{"single.jpg"}, second.Images)
}

func TestDecodeAirbagSectionsInOrder(t *testing.T) {
	doc := mustDecode(t, AirbagProtection, `{
		"other_products":[{"name":"O"}],
		"airbag_vests":[{"name":"V1"},{"name":"V2"}],
		"back_protectors":[{"name":"B"}]
	}`)
	var got []string
	for _, r := range doc.Records {
		a := r.(AirbagRecord)
		got = append(got, a.Name.String()+"@"+a.Section)
	}
	require.Equal(t, []string{
		"V1@" + SectionAirbagVests,
		"V2@" + SectionAirbagVests,
		"B@" + SectionBackProtectors,
		"O@" + SectionOtherProducts,
	}, got)
}

func TestDecodeTolerantFields(t *testing.T) {
	doc := mustDecode(t, SpareParts, `{"products":[{
		"name": 42,
		"description": {"html": true},
		"images": [1, "ok.jpg", null],
		"price": [1,2],
		"reviews": "17",
		"characteristics": {"type":"Top case","volume":45,"tags":["a","b"],"note":null},
		"payment_options": "none"
	}]}`)
	require.Len(t, doc.Records, 1)
	r := doc.Records[0].(SparePartRecord)
	require.Empty(t, r.Name)
	require.Empty(t, r.Description)
	require.Equal(t, StringList{"ok.jpg"}, r.Images)
	require.Equal(t, PriceAbsent, r.Price.Kind)
	require.Equal(t, Count(17), r.Reviews)
	require.Equal(t, "45", r.Characteristics.Value("volume"))
	require.Equal(t, "a, b", r.Characteristics.Value("tags"))
	v, ok := r.Characteristics.Get("note")
	require.True(t, ok)
	require.Empty(t, v)
	require.Empty(t, r.PaymentOptions.Available)
}

func TestCountClampsLargeValues(t *testing.T) {
	tests := []struct {
		raw  string
		want Count
	}{
		{`12`, 12},
		{`"8"`, 8},
		{`-3`, 0},
		{`1e300`, math.MaxInt32},
		{`"Inf"`, math.MaxInt32},
		{`"NaN"`, 0},
		{`"beaucoup"`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var c Count
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &c))
			require.Equal(t, tt.want, c)
		})
	}
}

func TestDecodeMissingArrays(t *testing.T) {
	for _, cat := range []Category{Helmets, BikerEquipment, AirbagProtection, SpareParts, Sportswear, ScooterEquipment} {
		doc := mustDecode(t, cat, `{"unrelated":[1,2]}`)
		require.Empty(t, doc.Records, cat)
	}
	doc := mustDecode(t, Helmets, `{"helmets":{"name":"not a list"}}`)
	require.Empty(t, doc.Records)
}

func TestDecodeInvalidJSON(t *testing.T) {
	for _, body := range []string{"", "   ", "{", "<html>oops</html>"} {
		_, err := Decode(Helmets, strings.NewReader(body))
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrDecode), "body %q: %v", body, err)
	}
}

func TestDecodeUnknownCategory(t *testing.T) {
	_, err := Decode(Category("boats"), strings.NewReader(`{}`))
	require.ErrorIs(t, err, ErrUnknownCategory)
}

func TestAttributesFrenchKeyWins(t *testing.T) {
	attrs := Attributes{{Key: "Product type", Value: "Jacket"}, {Key: "Type de produit", Value: "Blouson"}}
	require.Equal(t, "Blouson", attrs.Value("Type de produit", "Product type"))
	require.Equal(t, "Jacket", Attributes{{Key: "Product type", Value: "Jacket"}}.Value("Type de produit", "Product type"))
}
