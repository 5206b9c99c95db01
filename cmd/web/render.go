package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"speedwaymoto.fr/storefront-web/internal/catalog"
	"speedwaymoto.fr/storefront-web/internal/format"
)

// templateSet holds the layout and partials for fragments, plus one clone per
// page with that page's "content" block defined.
type templateSet struct {
	shared *template.Template
	pages  map[string]*template.Template
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"now": time.Now,
		"t": func(lang, key string) string {
			if i18nBundle == nil {
				return key
			}
			return i18nBundle.T(lang, key)
		},
		"tf": func(lang, key string, args ...any) string {
			if i18nBundle == nil {
				return key
			}
			return i18nBundle.Tf(lang, key, args...)
		},
		"percent":  format.Percent,
		"fmtDate":  format.FmtDate,
		"excerpt":  catalog.Excerpt,
		"localize": catalog.LocalizeValue,
		"jsonld":   func(s string) template.JS { return template.JS(s) },
		"add":      func(a, b int) int { return a + b },
		"dict": func(kv ...any) (map[string]any, error) {
			if len(kv)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			m := make(map[string]any, len(kv)/2)
			for i := 0; i < len(kv); i += 2 {
				k, ok := kv[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
				}
				m[k] = kv[i+1]
			}
			return m, nil
		},
		"placeholder": func() string { return catalog.PlaceholderImage },
	}
}

func parseTemplates() (*templateSet, error) {
	// Recursively discover all .tmpl files. Note: ParseGlob doesn't support **.
	var shared, pages []string
	if err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".tmpl") {
			return nil
		}
		if filepath.Base(filepath.Dir(path)) == "pages" {
			pages = append(pages, path)
		} else {
			shared = append(shared, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(shared) == 0 || len(pages) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}
	base, err := template.New("_root").Funcs(funcMap()).ParseFiles(shared...)
	if err != nil {
		return nil, err
	}
	set := &templateSet{shared: base, pages: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := clone.ParseFiles(p); err != nil {
			return nil, err
		}
		set.pages[strings.TrimSuffix(filepath.Base(p), ".tmpl")] = clone
	}
	return set, nil
}

// templates returns the parsed set. In dev mode, templates are reparsed on each request.
func templates() (*templateSet, error) {
	if devMode {
		return parseTemplates()
	}
	if tmplCache == nil {
		return nil, fmt.Errorf("template not initialized")
	}
	return tmplCache, nil
}

// renderPage executes the base layout around the named page.
func renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	set, err := templates()
	if err != nil {
		templateError(w, r, err)
		return
	}
	t, ok := set.pages[page]
	if !ok {
		templateError(w, r, fmt.Errorf("unknown page %q", page))
		return
	}
	execute(w, r, status, t, "base", data)
}

// renderFragment executes a single named partial, for htmx swaps.
func renderFragment(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	set, err := templates()
	if err != nil {
		templateError(w, r, err)
		return
	}
	execute(w, r, status, set.shared, name, data)
}

func execute(w http.ResponseWriter, r *http.Request, status int, t *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		templateError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func templateError(w http.ResponseWriter, r *http.Request, err error) {
	log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("template render failed")
	http.Error(w, fmt.Sprintf("template error: %v", err), http.StatusInternalServerError)
}
