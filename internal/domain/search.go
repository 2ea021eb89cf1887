package domain

// Sort keys for search results.
const (
	SortRelevance = "relevance"
	SortPrice     = "price"
	SortRating    = "rating"
	SortNewest    = "newest"
	SortPopular   = "popular"
	SortName      = "name"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// IsValidSort reports whether the given sort key is recognized. Unrecognized
// keys are not an error; the executor falls back to SortNewest.
func IsValidSort(sort string) bool {
	switch sort {
	case SortRelevance, SortPrice, SortRating, SortNewest, SortPopular, SortName:
		return true
	}
	return false
}

// FilterSet holds the structured narrowing filters for a search. All fields
// are optional; zero values mean "no constraint". Filters are advisory:
// malformed inputs are coerced to absent rather than rejected.
type FilterSet struct {
	Category    string            `json:"category,omitempty"`
	Subcategory string            `json:"subcategory,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	MinPrice    *float64          `json:"min_price,omitempty"`
	MaxPrice    *float64          `json:"max_price,omitempty"`
	MinRating   *float64          `json:"min_rating,omitempty"`
	InStock     bool              `json:"in_stock,omitempty"`
	Featured    bool              `json:"featured,omitempty"`
	Specs       map[string]string `json:"specs,omitempty"`
}

// IsZero reports whether no filter is set.
func (f FilterSet) IsZero() bool {
	return f.Category == "" && f.Subcategory == "" && f.Brand == "" &&
		f.MinPrice == nil && f.MaxPrice == nil && f.MinRating == nil &&
		!f.InStock && !f.Featured && len(f.Specs) == 0
}

// SearchRequest holds all parameters for a search.
type SearchRequest struct {
	Query   string    `json:"query"`
	Filters FilterSet `json:"filters"`
	SortBy  string    `json:"sort_by"`
	Order   string    `json:"order"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
	// UserID is optional; when present together with a non-empty query the
	// search is recorded in the user's history.
	UserID string `json:"-"`
}

// ScoredProduct pairs a product with its computed relevance score.
type ScoredProduct struct {
	Product Product `json:"product"`
	Score   float64 `json:"score"`
}

// SearchResult is the ranked, paginated outcome of a search.
type SearchResult struct {
	Products []ScoredProduct `json:"products"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PerPage  int             `json:"per_page"`
	Query    string          `json:"query"`
	Filters  FilterSet       `json:"filters"`
	TookMs   int64           `json:"took_ms"`
}

// Range is a closed numeric interval. An empty matching set yields the
// degenerate zero-width range {0, 0}.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FacetSummary describes the filter values available within the currently
// matching subset of the catalog.
type FacetSummary struct {
	Categories    []string            `json:"categories"`
	Subcategories []string            `json:"subcategories"`
	Brands        []string            `json:"brands"`
	Specs         map[string][]string `json:"specs"`
	Price         Range               `json:"price"`
	Rating        Range               `json:"rating"`
	Total         int                 `json:"total"`
}

// Suggestion is an autocomplete entry with lightweight display metadata.
type Suggestion struct {
	Text     string  `json:"text"`
	Category string  `json:"category,omitempty"`
	ImageURL string  `json:"image_url,omitempty"`
	Price    float64 `json:"price,omitempty"`
}
