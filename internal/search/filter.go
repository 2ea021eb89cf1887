package search

import (
	"strings"

	"github.com/charlysdark22/store-search/internal/domain"
)

// FilterSpec is the normalized, storage-neutral predicate description produced
// by Compile. Catalog accessors interpret it: the in-memory store evaluates
// Match directly, the Postgres store translates it into WHERE clauses.
type FilterSpec struct {
	Category    string
	Subcategory string
	// Brand is a lowercased substring pattern, not an exact value.
	Brand     string
	MinPrice  *float64
	MaxPrice  *float64
	MinRating *float64
	InStock   bool
	Featured  bool
	// Specs maps specification keys to lowercased substring patterns.
	Specs map[string]string

	emptyRange bool
}

// Compile normalizes a FilterSet into a FilterSpec. A price range with
// min > max compiles to an empty-range spec that matches nothing; this is a
// valid zero-result query, not an error.
func Compile(f domain.FilterSet) FilterSpec {
	spec := FilterSpec{
		Category:    strings.TrimSpace(f.Category),
		Subcategory: strings.TrimSpace(f.Subcategory),
		Brand:       strings.ToLower(strings.TrimSpace(f.Brand)),
		MinPrice:    f.MinPrice,
		MaxPrice:    f.MaxPrice,
		MinRating:   f.MinRating,
		InStock:     f.InStock,
		Featured:    f.Featured,
	}

	if len(f.Specs) > 0 {
		spec.Specs = make(map[string]string, len(f.Specs))
		for k, v := range f.Specs {
			k = strings.TrimSpace(k)
			v = strings.ToLower(strings.TrimSpace(v))
			if k == "" || v == "" {
				continue
			}
			spec.Specs[k] = v
		}
	}

	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		spec.emptyRange = true
	}

	return spec
}

// EmptyRange reports whether the spec can never match (price min > max).
func (s FilterSpec) EmptyRange() bool {
	return s.emptyRange
}

// Match evaluates the spec against a product. The base visibility predicate
// (Active) is owned by the catalog accessor, not checked here.
func (s FilterSpec) Match(p domain.Product) bool {
	if s.emptyRange {
		return false
	}
	if s.Category != "" && p.Category != s.Category {
		return false
	}
	if s.Subcategory != "" && p.Subcategory != s.Subcategory {
		return false
	}
	if s.Brand != "" && !strings.Contains(strings.ToLower(p.Brand), s.Brand) {
		return false
	}
	if s.MinPrice != nil && p.Price < *s.MinPrice {
		return false
	}
	if s.MaxPrice != nil && p.Price > *s.MaxPrice {
		return false
	}
	if s.MinRating != nil && p.Rating < *s.MinRating {
		return false
	}
	if s.InStock && p.Stock <= 0 {
		return false
	}
	if s.Featured && !p.Featured {
		return false
	}
	for key, pattern := range s.Specs {
		value, ok := p.Specs[key]
		if !ok {
			// Unknown keys yield zero matches, not an error.
			return false
		}
		if !strings.Contains(strings.ToLower(value), pattern) {
			return false
		}
	}
	return true
}
