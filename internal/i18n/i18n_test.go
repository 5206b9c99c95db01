package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveHonorsQValues(t *testing.T) {
	b, err := Load("../../locales", "fr", []string{"fr", "en"})
	require.NoError(t, err)
	require.Equal(t, "en", b.Resolve("fr;q=0.8, en;q=0.9"))
	require.Equal(t, "fr", b.Resolve("fr-FR,fr;q=0.9,en;q=0.5"))
	require.Equal(t, "fr", b.Resolve("de-DE"))
	require.Equal(t, "fr", b.Resolve(""))
	require.Equal(t, "en", b.Resolve("en-GB"))
}

func TestResolveRegionalVariant(t *testing.T) {
	b, err := Load("../../locales", "fr", []string{"fr", "en"})
	require.NoError(t, err)
	require.Equal(t, "fr", b.Resolve("fr-CA;q=0.9, en;q=0.8"))
	require.Equal(t, "en", b.Resolve("de, en-US;q=0.7"))
	// q=0 means "not acceptable"
	require.Equal(t, "fr", b.Resolve("en;q=0"))
}

func TestResolveMalformedHeader(t *testing.T) {
	b, err := Load("../../locales", "fr", []string{"fr", "en"})
	require.NoError(t, err)
	for _, header := range []string{"en;q=abc", "en;q=", ";;;", "en-@@@@-x"} {
		require.Equal(t, "fr", b.Resolve(header), header)
	}
}

func TestTranslateFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fr.json"), []byte(`{"a":"Bonjour","b":"%d produits"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"a":"Hello"}`), 0o644))
	b, err := Load(dir, "fr", nil)
	require.NoError(t, err)
	require.Equal(t, "Hello", b.T("en", "a"))
	require.Equal(t, "%d produits", b.T("en", "b"))
	require.Equal(t, "3 produits", b.Tf("fr", "b", 3))
	require.Equal(t, "missing.key", b.T("fr", "missing.key"))
	require.True(t, b.IsSupported("en"))
	require.False(t, b.IsSupported("ja"))
	require.Equal(t, []string{"en", "fr"}, b.Supported())
}

func TestLoadRequiresFallback(t *testing.T) {
	_, err := Load(t.TempDir(), "fr", nil)
	require.Error(t, err)
}

func TestLocaleFilesShareKeys(t *testing.T) {
	read := func(lang string) map[string]string {
		b, err := Load("../../locales", lang, []string{lang})
		require.NoError(t, err)
		return b.dict[lang]
	}
	fr, en := read("fr"), read("en")
	for k := range fr {
		_, ok := en[k]
		require.True(t, ok, "en.json misses %q", k)
	}
	for k := range en {
		_, ok := fr[k]
		require.True(t, ok, "fr.json misses %q", k)
	}
}
