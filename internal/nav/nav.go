package nav

import (
	"path"
	"strings"

	"speedwaymoto.fr/storefront-web/internal/catalog"
)

// Item represents a top-level navigation item.
type Item struct {
	Path     string // e.g. "/contact"
	LabelKey string // i18n key, e.g. "nav.contact"
	Icon     string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Icon     string
	Active   bool
}

// Crumb represents a breadcrumb entry. If LabelKey is empty, use Label.
type Crumb struct {
	Href     string
	LabelKey string
	Label    string
	Active   bool
}

// Main is the primary navigation definition. Category links come from the
// catalog registry, see Categories.
var Main = []Item{
	{Path: "/", LabelKey: "nav.home"},
	{Path: "/contact", LabelKey: "nav.contact"},
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		items = append(items, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Icon:     it.Icon,
			Active:   isActive(it.Path, currentPath),
		})
	}
	return items
}

// Categories renders the category side navigation. A category is active on its
// dedicated page, its generic page and its product pages.
func Categories(defs []catalog.Definition, currentPath string) []RenderedItem {
	items := make([]RenderedItem, 0, len(defs))
	for _, d := range defs {
		active := isActive(d.Path, currentPath) ||
			isActive("/category/"+d.Slug, currentPath) ||
			isActive("/product/"+d.Slug, currentPath)
		items = append(items, RenderedItem{
			Href:     d.Path,
			LabelKey: d.TitleKey,
			Icon:     d.Icon,
			Active:   active,
		})
	}
	return items
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	// match exact or prefix boundary: "/helmets" or "/helmets/..."
	if currentPath == itemPath {
		return true
	}
	return strings.HasPrefix(currentPath, itemPath+"/")
}

// Breadcrumbs builds breadcrumb entries from the current path.
// Rules:
// - Always start with Home
// - Category pages (dedicated or generic) use the category title key
// - Product pages link back to their category; the handler appends the product name
// - Other segments use a prettified label
func Breadcrumbs(currentPath string, defs []catalog.Definition) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", LabelKey: "nav.home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean(currentPath)
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")

	if d, ok := byPath(defs, clean); ok {
		return append(crumbs, Crumb{Href: d.Path, LabelKey: d.TitleKey, Label: d.Title, Active: true})
	}

	switch parts[0] {
	case "category", "product":
		if len(parts) < 2 {
			break
		}
		d, ok := bySlug(defs, parts[1])
		if !ok {
			break
		}
		href := d.Path
		if parts[0] == "category" {
			href = "/category/" + d.Slug
		}
		return append(crumbs, Crumb{Href: href, LabelKey: d.TitleKey, Label: d.Title, Active: parts[0] == "category"})
	}

	for _, it := range Main {
		if it.Path == "/"+parts[0] {
			return append(crumbs, Crumb{Href: it.Path, LabelKey: it.LabelKey, Active: len(parts) == 1})
		}
	}

	href := ""
	for i, seg := range parts {
		href = href + "/" + seg
		crumbs = append(crumbs, Crumb{
			Href:   href,
			Label:  titleFromSegment(seg),
			Active: i == len(parts)-1,
		})
	}
	return crumbs
}

func byPath(defs []catalog.Definition, p string) (catalog.Definition, bool) {
	for _, d := range defs {
		if d.Path == p {
			return d, true
		}
	}
	return catalog.Definition{}, false
}

func bySlug(defs []catalog.Definition, slug string) (catalog.Definition, bool) {
	for _, d := range defs {
		if d.Slug == slug {
			return d, true
		}
	}
	return catalog.Definition{}, false
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	s := strings.ReplaceAll(seg, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	r := []rune(s)
	r[0] = toUpper(r[0])
	return string(r)
}

func toUpper(r rune) rune {
	// ASCII only is sufficient for slugs here
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
