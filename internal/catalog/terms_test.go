package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranslateValue(t *testing.T) {
	tests := map[string]string{
		"Summer / Mid-season":       "Été / Mi-saison",
		"Summer":                    "Été",
		"All seasons":               "Toutes saisons",
		"Leather":                   "Cuir",
		"Man":                       "Homme",
		"Manual":                    "Manual",
		"Female":                    "Femme",
		"Black/Red":                 "Noir/Rouge",
		"Motorcycle gloves":         "Gants moto",
		"Removable Lining":          "Doublure Amovible",
		"CE Shoulder Protections":   "Protections CE Epaules",
		"Sweatshirt":                "Sweat-shirt",
		"Textile":                   "Textile",
		"Trouser/jacket connection": "Raccord pantalon/veste",
		"SUMMER":                    "Été",
		"  Leather ":                "Cuir",
		"Black, White":              "Noir, Blanc",
		"Leather / Textile":         "Cuir / Textile",
		"":                          "",
	}
	for in, want := range tests {
		require.Equal(t, want, TranslateValue(in), in)
	}
}

func TestTranslateName(t *testing.T) {
	require.Equal(t, "Femme Blouson Noir", TranslateName("Women's Jacket Black"))
	require.Equal(t, "Gants Homme Marron", TranslateName("Gloves Men's Brown"))
	require.Equal(t, "Gants été", TranslateName("Glove été"))
	require.Equal(t, "Fuchsia", TranslateName("Fushia"))
	// only whole words are replaced
	require.Equal(t, "Redline Gants", TranslateName("Redline Gloves"))
}

func TestLocalizeOnlyForFrench(t *testing.T) {
	require.Equal(t, "Blouson", LocalizeName("fr", "Jacket"))
	require.Equal(t, "Blouson", LocalizeName("fr-CA", "Jacket"))
	require.Equal(t, "Jacket", LocalizeName("en", "Jacket"))
	require.Equal(t, "Leather", LocalizeValue("en", "Leather"))
	require.Equal(t, "Cuir", LocalizeValue("fr", "Leather"))
}
