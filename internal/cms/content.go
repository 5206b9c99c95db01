package cms

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no language variant of a page exists.
var ErrNotFound = errors.New("cms: not found")

// ContentPage represents a localized static page sourced from local markdown.
type ContentPage struct {
	Slug      string
	Lang      string
	Title     string
	Summary   string
	Body      template.HTML
	UpdatedAt time.Time
	Banner    *ContentBanner
	SEO       ContentSEO
}

// ContentSEO holds optional metadata overrides for static pages.
type ContentSEO struct {
	Title       string
	Description string
}

// ContentBanner models an optional notice displayed above the body.
type ContentBanner struct {
	Variant string
	Title   string
	Message string
}

type contentFrontMatter struct {
	Title     string `yaml:"title"`
	Summary   string `yaml:"summary"`
	Lang      string `yaml:"lang"`
	UpdatedAt string `yaml:"updated_at"`
	SEO       struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"seo"`
	Banner *struct {
		Variant string `yaml:"variant"`
		Title   string `yaml:"title"`
		Message string `yaml:"message"`
	} `yaml:"banner"`
}

const (
	defaultContentDir = "content"
	defaultCacheTTL   = 5 * time.Minute
)

// Pages loads markdown pages from {dir}/pages/{lang}/{slug}.md and keeps the
// rendered result for a short while.
type Pages struct {
	dir       string
	fallbacks []string
	ttl       time.Duration
	now       func() time.Time

	mu    sync.RWMutex
	items map[string]cacheEntry
}

type cacheEntry struct {
	page    ContentPage
	expires time.Time
}

// NewPages returns a page source rooted at dir. Languages are tried in the order
// requested, then fallbacks.
func NewPages(dir string, fallbacks ...string) *Pages {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultContentDir
	}
	return &Pages{
		dir:       dir,
		fallbacks: fallbacks,
		ttl:       defaultCacheTTL,
		now:       time.Now,
		items:     map[string]cacheEntry{},
	}
}

// SetCacheDuration overrides the in-memory cache duration. Zero disables caching.
func (p *Pages) SetCacheDuration(d time.Duration) {
	p.mu.Lock()
	p.ttl = d
	p.items = map[string]cacheEntry{}
	p.mu.Unlock()
}

// Get returns the page for slug in lang, or the first available fallback language.
func (p *Pages) Get(slug, lang string) (ContentPage, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return ContentPage{}, ErrNotFound
	}
	lang = strings.ToLower(strings.TrimSpace(lang))
	key := lang + "|" + slug

	p.mu.RLock()
	entry, ok := p.items[key]
	p.mu.RUnlock()
	if ok && p.now().Before(entry.expires) {
		return cloneContentPage(entry.page), nil
	}

	page, err := p.load(slug, lang)
	if err != nil {
		return ContentPage{}, err
	}
	if p.ttl > 0 {
		p.mu.Lock()
		p.items[key] = cacheEntry{page: cloneContentPage(page), expires: p.now().Add(p.ttl)}
		p.mu.Unlock()
	}
	return page, nil
}

func (p *Pages) load(slug, lang string) (ContentPage, error) {
	tried := map[string]bool{}
	for _, candidate := range append([]string{lang}, p.fallbacks...) {
		if candidate == "" || tried[candidate] {
			continue
		}
		tried[candidate] = true
		page, err := readContentMarkdown(p.dir, slug, candidate)
		if err == nil {
			return page, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		// parse errors stop the lookup
		return ContentPage{}, err
	}
	return ContentPage{}, ErrNotFound
}

func readContentMarkdown(dir, slug, lang string) (ContentPage, error) {
	file := filepath.Join(dir, "pages", lang, slug+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ContentPage{}, ErrNotFound
		}
		return ContentPage{}, err
	}

	fm, body := splitFrontMatter(string(data))
	var front contentFrontMatter
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return ContentPage{}, fmt.Errorf("cms: parse front matter %s: %w", file, err)
		}
	}
	html, err := RenderMarkdown(body)
	if err != nil {
		return ContentPage{}, fmt.Errorf("cms: render %s: %w", file, err)
	}
	page := ContentPage{
		Slug:    slug,
		Lang:    firstNonEmpty(strings.TrimSpace(front.Lang), lang),
		Title:   strings.TrimSpace(front.Title),
		Summary: strings.TrimSpace(front.Summary),
		Body:    html,
		SEO: ContentSEO{
			Title:       strings.TrimSpace(front.SEO.Title),
			Description: strings.TrimSpace(front.SEO.Description),
		},
	}
	if front.Banner != nil {
		page.Banner = &ContentBanner{
			Variant: strings.TrimSpace(front.Banner.Variant),
			Title:   strings.TrimSpace(front.Banner.Title),
			Message: strings.TrimSpace(front.Banner.Message),
		}
	}
	page.UpdatedAt = parseContentDate(front.UpdatedAt)
	if page.UpdatedAt.IsZero() {
		if info, err := os.Stat(file); err == nil {
			page.UpdatedAt = info.ModTime()
		}
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	return page, nil
}

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Typographer))
	policy   = bluemonday.UGCPolicy()
)

// RenderMarkdown converts markdown to sanitized HTML.
func RenderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = asciiUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

func sanitizeSlug(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func cloneContentPage(src ContentPage) ContentPage {
	cp := src
	if src.Banner != nil {
		b := *src.Banner
		cp.Banner = &b
	}
	return cp
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func asciiUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
