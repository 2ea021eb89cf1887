package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/search", nil)

	p := FromRequest(req)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_ParsesValues(t *testing.T) {
	req := httptest.NewRequest("GET", "/search?page=3&per_page=20", nil)

	p := FromRequest(req)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 40, p.Offset)
}

func TestFromRequest_MalformedValuesFallBack(t *testing.T) {
	req := httptest.NewRequest("GET", "/search?page=abc&per_page=-4", nil)

	p := FromRequest(req)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
}

func TestFromRequest_PerPageOverCapFallsBack(t *testing.T) {
	req := httptest.NewRequest("GET", "/search?per_page=500", nil)

	p := FromRequest(req)
	assert.Equal(t, DefaultPerPage, p.PerPage)
}

func TestNormalize(t *testing.T) {
	page, perPage := Normalize(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPerPage, perPage)

	page, perPage = Normalize(2, 1000)
	assert.Equal(t, 2, page)
	assert.Equal(t, MaxPerPage, perPage)

	page, perPage = Normalize(5, 30)
	assert.Equal(t, 5, page)
	assert.Equal(t, 30, perPage)
}

func TestNewResult(t *testing.T) {
	result := NewResult([]string{"a", "b"}, 25, Params{Page: 2, PerPage: 10})

	assert.Equal(t, 25, result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestNewResult_NilDataBecomesEmptySlice(t *testing.T) {
	result := NewResult[string](nil, 0, Params{Page: 1, PerPage: 10})

	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Data)
	assert.False(t, result.HasNext)
	assert.False(t, result.HasPrev)
}
