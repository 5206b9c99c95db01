package catalog

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// ImageRoot is the URL prefix of the product image tree.
	ImageRoot = "/assets/Product-images"
	// PlaceholderImage is shown when no product image can be found.
	PlaceholderImage = "/assets/placeholder.svg"
)

// EscapeSegment escapes one path segment the way browsers' encodeURIComponent does.
func EscapeSegment(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// ImageURL resolves a record image against the category asset folder.
// Paths containing a slash are used as given (rooted); bare file names live
// under /assets/Product-images/{folder}/.
func ImageURL(folder, image string) string {
	image = strings.TrimSpace(image)
	if image == "" {
		return ""
	}
	if strings.Contains(image, "/") {
		if strings.HasPrefix(image, "/") {
			return image
		}
		return "/" + image
	}
	return ImageRoot + "/" + EscapeSegment(folder) + "/" + EscapeSegment(image)
}

// AssetManifest is the set of image files deployed under the public directory.
// A nil or empty manifest resolves every image to its primary URL.
type AssetManifest struct {
	files map[string]struct{}
}

// NewAssetManifest builds a manifest from URL paths such as
// "/assets/Product-images/Motorcycle-Helmets/x.jpg".
func NewAssetManifest(paths ...string) *AssetManifest {
	m := &AssetManifest{files: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		m.files[manifestKey(p)] = struct{}{}
	}
	return m
}

// LoadAssetManifest walks {publicDir}/assets/Product-images once. A missing
// directory yields an empty manifest.
func LoadAssetManifest(publicDir string) (*AssetManifest, error) {
	m := NewAssetManifest()
	root := filepath.Join(publicDir, filepath.FromSlash(strings.TrimPrefix(ImageRoot, "/")))
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(publicDir, p)
		if err != nil {
			return err
		}
		m.files[manifestKey("/"+filepath.ToSlash(rel))] = struct{}{}
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return NewAssetManifest(), nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func manifestKey(p string) string {
	if u, err := url.PathUnescape(p); err == nil {
		p = u
	}
	return path.Clean("/" + strings.TrimPrefix(p, "/"))
}

// Len returns the number of known files.
func (m *AssetManifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.files)
}

// Has reports whether the URL path is deployed.
func (m *AssetManifest) Has(p string) bool {
	if m == nil {
		return false
	}
	_, ok := m.files[manifestKey(p)]
	return ok
}

// Resolve returns the first deployed variant of primary, or the placeholder.
func (m *AssetManifest) Resolve(primary string) string {
	if primary == "" {
		return PlaceholderImage
	}
	if m.Len() == 0 || m.Has(primary) {
		return primary
	}
	for _, c := range imageCandidates(primary) {
		if m.Has(c) {
			return c
		}
	}
	return PlaceholderImage
}

// ResolveImage maps a record image to a deployed URL.
func ResolveImage(folder, image string, assets *AssetManifest) string {
	return assets.Resolve(ImageURL(folder, image))
}

var (
	numberedSuffix = regexp.MustCompile(`-(\d+)$`)
	copySuffix     = regexp.MustCompile(` \((\d+)\)$`)
)

// imageCandidates lists alternate spellings of the same asset that exist in
// deployed image folders.
func imageCandidates(primary string) []string {
	dir, file := path.Split(primary)
	if u, err := url.PathUnescape(file); err == nil {
		file = u
	}
	ext := path.Ext(file)
	stem := strings.TrimSuffix(file, ext)

	stems := []string{stem}
	add := func(s string) {
		for _, have := range stems {
			if have == s {
				return
			}
		}
		stems = append(stems, s)
	}
	if m := numberedSuffix.FindStringSubmatch(stem); m != nil {
		add(numberedSuffix.ReplaceAllString(stem, " ("+m[1]+")"))
		if m[1] == "1" {
			add(strings.TrimSuffix(stem, "-1"))
		}
	}
	if m := copySuffix.FindStringSubmatch(stem); m != nil {
		add(copySuffix.ReplaceAllString(stem, "-"+m[1]))
	}
	for _, s := range append([]string(nil), stems...) {
		lower := strings.ToLower(s)
		switch {
		case strings.Contains(lower, "tee-shirt"):
			add(replaceFold(s, "tee-shirt", "t-shirt"))
		case strings.Contains(lower, "t-shirt"):
			add(replaceFold(s, "t-shirt", "tee-shirt"))
		}
		if strings.Contains(lower, "mo-st-eq") {
			add(replaceFold(s, "mo-st-eq", "mosteq"))
		}
	}

	exts := []string{ext}
	switch strings.ToLower(ext) {
	case ".webp":
		exts = append(exts, ".jpg", ".jpeg", ".png")
	case ".jpg", ".jpeg", ".png":
		exts = append(exts, ".webp")
	}

	var out []string
	for _, s := range stems {
		for _, e := range exts {
			c := dir + EscapeSegment(s+e)
			if c != primary {
				out = append(out, c)
			}
		}
	}
	return out
}

func replaceFold(s, old, repl string) string {
	i := strings.Index(strings.ToLower(s), old)
	if i < 0 {
		return s
	}
	return s[:i] + repl + s[i+len(old):]
}
