package pos

import (
	"sort"
	"strings"

	"minimart/internal/model"
)

// Index maps lowercased SKU (or barcode) and lowercased name to a product.
// Later products overwrite earlier ones on key collisions.
type Index map[string]model.Product

func BuildIndex(products []model.Product) Index {
	idx := make(Index, len(products)*2)
	for _, p := range products {
		if code := productCode(p); code != "" {
			idx[strings.ToLower(code)] = p
		}
		if p.Name != "" {
			idx[strings.ToLower(p.Name)] = p
		}
	}
	return idx
}

// ResolveProduct tries an exact case-insensitive SKU/barcode match first and
// then the index. It never guesses between several partial matches.
func ResolveProduct(query string, products []model.Product, idx Index) (model.Product, bool) {
	q := normalize(query)
	if q == "" {
		return model.Product{}, false
	}
	for _, p := range products {
		if code := productCode(p); code != "" && strings.ToLower(code) == q {
			return p, true
		}
	}
	p, ok := idx[q]
	return p, ok
}

// SearchMatches returns up to limit products whose SKU, barcode or name
// contains query, case-insensitively, in catalog order.
func SearchMatches(query string, products []model.Product, limit int) []model.Product {
	q := normalize(query)
	if q == "" || limit <= 0 {
		return nil
	}
	var out []model.Product
	for _, p := range products {
		if contains(p.SKU, q) || contains(p.Barcode, q) || contains(p.Name, q) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// ScanResult is the outcome of submitting the scan field.
type ScanResult struct {
	Product model.Product
	Found   bool
	Message string
}

// Scan resolves the scan field the way the register does: exact resolution,
// else the single live suggestion, else a not-found message.
func Scan(query string, products []model.Product, idx Index, limit int) ScanResult {
	q := strings.TrimSpace(query)
	if q == "" {
		return ScanResult{Message: "Enter a SKU to add an item."}
	}
	if p, ok := ResolveProduct(q, products, idx); ok {
		return ScanResult{Product: p, Found: true}
	}
	if matches := SearchMatches(q, products, limit); len(matches) == 1 {
		return ScanResult{Product: matches[0], Found: true}
	}
	return ScanResult{Message: `No product found for "` + q + `"`}
}

// FeaturedTab is the pseudo-category that shows the first categories' items.
const FeaturedTab = "Featured"

const (
	featuredCategoryCount = 4
	quickPickLimit        = 8
	generalCategory       = "General"
)

// CategoryTabs returns "Featured" followed by the sorted category names.
func CategoryTabs(products []model.Product) []string {
	return append([]string{FeaturedTab}, categoryNames(products)...)
}

// QuickPicks lists up to eight products for a category tab. The Featured tab
// covers the first four categories alphabetically; an unknown tab falls back to Featured.
func QuickPicks(products []model.Product, tab string) []model.Product {
	names := categoryNames(products)
	if tab != FeaturedTab && !containsString(names, tab) {
		tab = FeaturedTab
	}
	featured := names
	if len(featured) > featuredCategoryCount {
		featured = featured[:featuredCategoryCount]
	}

	var out []model.Product
	for _, p := range products {
		cat := categoryOf(p)
		keep := cat == tab
		if tab == FeaturedTab {
			keep = len(featured) == 0 || containsString(featured, cat)
		}
		if keep {
			out = append(out, p)
			if len(out) == quickPickLimit {
				break
			}
		}
	}
	return out
}

func categoryNames(products []model.Product) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range products {
		c := categoryOf(p)
		if !seen[c] {
			seen[c] = true
			names = append(names, c)
		}
	}
	sort.Strings(names)
	return names
}

func categoryOf(p model.Product) string {
	if c := p.CategoryLabel(); c != "" {
		return c
	}
	return generalCategory
}

func productCode(p model.Product) string {
	if p.SKU != "" {
		return p.SKU
	}
	return p.Barcode
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func contains(field, q string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), q)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
