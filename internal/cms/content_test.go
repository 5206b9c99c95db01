package cms

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writePage(t *testing.T, dir, lang, slug, body string) {
	t.Helper()
	p := filepath.Join(dir, "pages", lang)
	require.NoError(t, os.MkdirAll(p, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(p, slug+".md"), []byte(body), 0o644))
}

func TestPagesGetRendersMarkdown(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "fr", "contact", `---
title: Contactez-nous
summary: Une question ?
updated_at: 2025-03-01
banner:
  variant: info
  title: Horaires
  message: Du lundi au samedi
---
# Bonjour

Écrivez-nous **quand vous voulez**.

<script>alert(1)</script>
`)

	page, err := NewPages(dir, "fr", "en").Get("contact", "fr")
	require.NoError(t, err)
	require.Equal(t, "Contactez-nous", page.Title)
	require.Equal(t, "fr", page.Lang)
	require.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), page.UpdatedAt)
	require.NotNil(t, page.Banner)
	require.Equal(t, "Horaires", page.Banner.Title)
	require.Contains(t, string(page.Body), "<strong>quand vous voulez</strong>")
	require.NotContains(t, string(page.Body), "<script>")
}

func TestPagesLanguageFallback(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "fr", "livraison", "Livraison offerte dès 100 €.\n")

	page, err := NewPages(dir, "fr").Get("livraison", "en")
	require.NoError(t, err)
	require.Equal(t, "fr", page.Lang)
	require.Equal(t, "Livraison", page.Title)
}

func TestPagesNotFoundAndUnsafeSlugs(t *testing.T) {
	p := NewPages(t.TempDir(), "fr")
	for _, slug := range []string{"missing", "", "../secret", "a/b"} {
		_, err := p.Get(slug, "fr")
		require.ErrorIs(t, err, ErrNotFound, slug)
	}
}

func TestPagesCache(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "en", "about", "---\ntitle: First\n---\nbody\n")
	p := NewPages(dir, "en")

	page, err := p.Get("about", "en")
	require.NoError(t, err)
	require.Equal(t, "First", page.Title)

	writePage(t, dir, "en", "about", "---\ntitle: Second\n---\nbody\n")
	page, err = p.Get("about", "en")
	require.NoError(t, err)
	require.Equal(t, "First", page.Title)

	p.SetCacheDuration(0)
	page, err = p.Get("about", "en")
	require.NoError(t, err)
	require.Equal(t, "Second", page.Title)
}

func TestPagesFrontMatterError(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir, "fr", "broken", "---\ntitle: [unclosed\n---\nbody\n")
	_, err := NewPages(dir, "fr").Get("broken", "fr")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestRenderMarkdownPlainText(t *testing.T) {
	html, err := RenderMarkdown("Casque intégral\n\nHomologué ECE 22.06")
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(string(html), "<p>"))
}
