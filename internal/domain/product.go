package domain

import (
	"time"
)

// LocalizedText holds the Spanish and English variants of a display string.
// The storefront is Spanish-first; English is optional and may be empty.
type LocalizedText struct {
	Es string `json:"es"`
	En string `json:"en,omitempty"`
}

// Resolve returns the variant for the given language, falling back to the
// other one when the requested variant is empty.
func (t LocalizedText) Resolve(lang string) string {
	if lang == "en" && t.En != "" {
		return t.En
	}
	if t.Es != "" {
		return t.Es
	}
	return t.En
}

// Values returns the non-empty variants.
func (t LocalizedText) Values() []string {
	vals := make([]string, 0, 2)
	if t.Es != "" {
		vals = append(vals, t.Es)
	}
	if t.En != "" {
		vals = append(vals, t.En)
	}
	return vals
}

// Product is a catalog item as seen by the search subsystem. Products are
// owned by the catalog; this subsystem never mutates them.
type Product struct {
	ID          string            `json:"id"`
	Name        LocalizedText     `json:"name"`
	Description LocalizedText     `json:"description"`
	Category    string            `json:"category"`
	Subcategory string            `json:"subcategory,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	Model       string            `json:"model,omitempty"`
	Price       float64           `json:"price"`
	Rating      float64           `json:"rating"`
	ReviewCount int               `json:"review_count"`
	Stock       int               `json:"stock"`
	Featured    bool              `json:"featured"`
	IsNew       bool              `json:"is_new"`
	Active      bool              `json:"active"`
	ImageURL    string            `json:"image_url,omitempty"`
	Specs       map[string]string `json:"specs,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// InStock reports whether the product can currently be fulfilled.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
