package search

import (
	"strings"

	"github.com/charlysdark22/store-search/internal/domain"
)

// Field weights for the linear relevance score. Matching is case-insensitive
// substring containment, not tokenized or stemmed; a term must appear as a
// contiguous substring of the field to count.
const (
	weightName        = 10.0
	weightBrand       = 8.0
	weightModel       = 6.0
	weightDescription = 4.0

	ratingWeight      = 0.5
	featuredBonus     = 2.0
	lowStockPenalty   = 1.0
	lowStockThreshold = 5
)

// Similarity weights for related-product ranking.
const (
	simSameCategory    = 5
	simSameBrand       = 3
	simSameSubcategory = 2
	simPriceBand       = 1

	// priceBandRatio is the relative width of the "similar price" band.
	priceBandRatio = 0.30
)

// Terms splits a raw query into lowercased whitespace-delimited terms.
// Empty or whitespace-only input yields no terms.
func Terms(query string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(query)))
}

// MatchesTerms reports whether every term appears as a case-insensitive
// substring of at least one of the product's name, brand, model, or
// description. This is the hard text filter: a product failing it is excluded
// entirely, not merely down-ranked.
func MatchesTerms(p domain.Product, terms []string) bool {
	if len(terms) == 0 {
		return true
	}

	fields := textFields(p)
	for _, term := range terms {
		matched := false
		for _, f := range fields {
			if strings.Contains(f, term) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// Score computes the relevance score of a product for the given terms. Each
// term contributes independently and additively per matched field; rating,
// featured, and stock adjustments apply once per product. Pure function, no
// catalog dependency.
func Score(p domain.Product, terms []string) float64 {
	score := 0.0

	name := lowerJoined(p.Name)
	brand := strings.ToLower(p.Brand)
	model := strings.ToLower(p.Model)
	description := lowerJoined(p.Description)

	for _, term := range terms {
		if strings.Contains(name, term) {
			score += weightName
		}
		if brand != "" && strings.Contains(brand, term) {
			score += weightBrand
		}
		if model != "" && strings.Contains(model, term) {
			score += weightModel
		}
		if strings.Contains(description, term) {
			score += weightDescription
		}
	}

	score += p.Rating * ratingWeight
	if p.Featured {
		score += featuredBonus
	}
	if p.Stock < lowStockThreshold {
		score -= lowStockPenalty
	}

	return score
}

// Similarity scores how related a candidate is to a reference product.
// Higher is more similar. The reference itself should be excluded by callers.
func Similarity(ref, candidate domain.Product) int {
	sim := 0
	if ref.Category != "" && candidate.Category == ref.Category {
		sim += simSameCategory
	}
	if ref.Brand != "" && candidate.Brand == ref.Brand {
		sim += simSameBrand
	}
	if ref.Subcategory != "" && candidate.Subcategory == ref.Subcategory {
		sim += simSameSubcategory
	}
	if ref.Price > 0 {
		band := ref.Price * priceBandRatio
		if candidate.Price >= ref.Price-band && candidate.Price <= ref.Price+band {
			sim += simPriceBand
		}
	}
	return sim
}

// textFields returns the lowercased searchable fields of a product.
func textFields(p domain.Product) []string {
	fields := make([]string, 0, 6)
	for _, v := range p.Name.Values() {
		fields = append(fields, strings.ToLower(v))
	}
	if p.Brand != "" {
		fields = append(fields, strings.ToLower(p.Brand))
	}
	if p.Model != "" {
		fields = append(fields, strings.ToLower(p.Model))
	}
	for _, v := range p.Description.Values() {
		fields = append(fields, strings.ToLower(v))
	}
	return fields
}

// lowerJoined joins both locales of a localized text into one lowercase
// haystack. A separator prevents accidental cross-locale substring matches.
func lowerJoined(t domain.LocalizedText) string {
	return strings.ToLower(strings.Join(t.Values(), "\x00"))
}
