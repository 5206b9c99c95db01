package catalog

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// productNamespace scopes name-based product ids.
var productNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://speedwaymoto.fr/products"))

// StableID derives a product id that survives refetches of the same document.
// occurrence separates records sharing name and first image.
func StableID(cat Category, name, image string, occurrence int) string {
	key := strings.Join([]string{string(cat), name, image, strconv.Itoa(occurrence)}, "|")
	return uuid.NewSHA1(productNamespace, []byte(key)).String()
}

// ValidID reports whether id is shaped like a product id.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
