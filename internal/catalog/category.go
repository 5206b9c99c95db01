package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category identifies one of the fixed product groupings.
type Category string

const (
	Helmets          Category = "helmets"
	BikerEquipment   Category = "biker-equipment"
	AirbagProtection Category = "airbag-protection"
	SpareParts       Category = "spare-parts"
	Sportswear       Category = "sportswear"
	ScooterEquipment Category = "scooter-equipment"
)

// ErrUnknownCategory is returned when a key or slug matches no category.
var ErrUnknownCategory = errors.New("catalog: unknown category")

// Definition describes where a category's data and assets live and how its page behaves.
type Definition struct {
	Key      Category
	Slug     string // generic route: /category/{slug}
	Path     string // dedicated page route
	Document string // JSON file under the catalog root
	// AssetFolder is the folder under /assets/Product-images/. Names must match the
	// deployed directories exactly.
	AssetFolder       string
	Source            string // navigation source tag
	Title             string
	TitleKey          string
	Icon              string
	Optional          bool
	FeaturedByReviews bool
	Facets            []string
}

// Registry is the ordered set of category definitions.
type Registry struct {
	defs []Definition
}

// DefaultDefinitions returns the built-in category table.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Key:         Helmets,
			Slug:        "motorcycle-helmet",
			Path:        "/helmets",
			Document:    "Motorcycle_Helmet.json",
			AssetFolder: "Motorcycle-Helmets",
			Source:      "Motorcycle-Helmets",
			Title:       "Casques moto",
			TitleKey:    "category.helmets",
			Icon:        "🪖",
		},
		{
			Key:         BikerEquipment,
			Slug:        "biker-equipment",
			Path:        "/biker-equipments",
			Document:    "Biker_Equipments.json",
			AssetFolder: "Biker-equipments",
			Source:      "Biker-equipments",
			Title:       "Équipements motard",
			TitleKey:    "category.biker_equipment",
			Icon:        "🧥",
			Facets:      []string{TagJacket, TagVest, TagGloves, TagBackProtector, TagAirbagVest, TagSweatshirt},
		},
		{
			Key:         AirbagProtection,
			Slug:        "airbag-protection",
			Path:        "/airbag-protection",
			Document:    "Airbag_Protection.json",
			AssetFolder: "Airbag & Protection",
			Source:      "Airbag-Protection",
			Title:       "Airbag & Protection",
			TitleKey:    "category.airbag_protection",
			Icon:        "🛡️",
			Facets:      []string{SectionAirbagVests, SectionBackProtectors, SectionOtherProducts},
		},
		{
			Key:               SpareParts,
			Slug:              "spare-parts-accessories",
			Path:              "/spare-parts-accessories",
			Document:          "Spare_Parts_Accessories.json",
			AssetFolder:       "Spare Parts & Accessories",
			Source:            "Spare Parts & Accessories",
			Title:             "Pièces détachées & accessoires",
			TitleKey:          "category.spare_parts",
			Icon:              "⚙️",
			FeaturedByReviews: true,
			Facets:            []string{TagBackpack, TagTopCase, TagLegBag, TagSaddlebag, TagWaterproof, TagPremium},
		},
		{
			Key:         Sportswear,
			Slug:        "sportswear",
			Path:        "/sportswear",
			Document:    "Sportswere.json",
			AssetFolder: "Sportswere",
			Source:      "Sportswere",
			Title:       "Vêtements de sport",
			TitleKey:    "category.sportswear",
			Icon:        "👕",
		},
		{
			Key:         ScooterEquipment,
			Slug:        "scooter-equipment",
			Path:        "/scooter-equipment",
			Document:    "Scooter_Equipment.json",
			AssetFolder: "Scooter-Equipment",
			Source:      "Scooter-Equipment",
			Title:       "Équipement scooter",
			TitleKey:    "category.scooter_equipment",
			Icon:        "🛵",
			Optional:    true,
		},
	}
}

// NewRegistry builds a registry from definitions, keeping their order.
func NewRegistry(defs []Definition) *Registry {
	out := make([]Definition, len(defs))
	copy(out, defs)
	return &Registry{defs: out}
}

// DefaultRegistry returns a registry over DefaultDefinitions.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultDefinitions())
}

// All returns the definitions in display order.
func (r *Registry) All() []Definition {
	out := make([]Definition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Get returns the definition for key.
func (r *Registry) Get(key Category) (Definition, error) {
	for _, d := range r.defs {
		if d.Key == key {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
}

// BySlug resolves the generic route slug.
func (r *Registry) BySlug(slug string) (Definition, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, d := range r.defs {
		if d.Slug == slug {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("%w: slug %q", ErrUnknownCategory, slug)
}

// BySource resolves a navigation source tag.
func (r *Registry) BySource(source string) (Definition, bool) {
	for _, d := range r.defs {
		if d.Source == source {
			return d, true
		}
	}
	return Definition{}, false
}

type manifestEntry struct {
	Document    string `yaml:"document"`
	AssetFolder string `yaml:"asset_folder"`
	Title       string `yaml:"title"`
}

type manifestFile struct {
	Categories map[string]manifestEntry `yaml:"categories"`
}

// LoadManifest applies overrides from a YAML manifest onto the default table.
// An empty path returns the defaults.
func LoadManifest(path string) (*Registry, error) {
	defs := DefaultDefinitions()
	path = strings.TrimSpace(path)
	if path == "" {
		return NewRegistry(defs), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read manifest: %w", err)
	}
	var mf manifestFile
	if err := yaml.Unmarshal(raw, &mf); err != nil {
		return nil, fmt.Errorf("catalog: parse manifest %s: %w", path, err)
	}
	for key, entry := range mf.Categories {
		idx := -1
		for i := range defs {
			if string(defs[i].Key) == key {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q in manifest %s", ErrUnknownCategory, key, path)
		}
		if v := strings.TrimSpace(entry.Document); v != "" {
			defs[idx].Document = v
		}
		if v := strings.TrimSpace(entry.AssetFolder); v != "" {
			defs[idx].AssetFolder = v
		}
		if v := strings.TrimSpace(entry.Title); v != "" {
			defs[idx].Title = v
		}
	}
	return NewRegistry(defs), nil
}

// Folder maps a navigation source tag to its asset folder. Unknown sources are
// used as the folder name.
func (r *Registry) Folder(source string) string {
	if d, ok := r.BySource(source); ok {
		return d.AssetFolder
	}
	return source
}
