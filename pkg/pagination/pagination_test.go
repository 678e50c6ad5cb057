package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		total    int64
		page     int
		size     int
		wantPage int
		wantPgs  int
		wantNext bool
		wantPrev bool
	}{
		{"first of three", 25, 1, 10, 1, 3, true, false},
		{"middle", 25, 2, 10, 2, 3, true, true},
		{"last partial", 25, 3, 10, 3, 3, false, true},
		{"above range clamps to last", 25, 9, 10, 3, 3, false, true},
		{"below range clamps to first", 25, -4, 10, 1, 3, true, false},
		{"exact multiple", 20, 2, 10, 2, 2, false, true},
		{"single page", 5, 1, 10, 1, 1, false, false},
		{"empty set", 0, 3, 10, 1, 0, false, false},
		{"zero page size", 25, 2, 0, 1, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compute(tt.total, tt.page, tt.size)
			assert.Equal(t, tt.wantPage, m.CurrentPage)
			assert.Equal(t, tt.wantPgs, m.TotalPages)
			assert.Equal(t, tt.wantNext, m.HasNextPage)
			assert.Equal(t, tt.wantPrev, m.HasPreviousPage)
			assert.Equal(t, tt.total, m.TotalItems)
		})
	}
}

func TestMeta_OffsetAndLastPage(t *testing.T) {
	m := Compute(25, 3, 10)
	assert.Equal(t, int64(20), m.Offset())
	assert.Equal(t, 5, m.LastPageLen())

	m = Compute(30, 3, 10)
	assert.Equal(t, 10, m.LastPageLen())

	assert.Equal(t, 0, Compute(0, 1, 10).LastPageLen())
	assert.Equal(t, int64(0), Compute(0, 1, 10).Offset())
}

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query    string
		wantPage int
		wantSize int
	}{
		{"", 1, 10},
		{"page=3&pageSize=25", 3, 25},
		{"page=abc&pageSize=xyz", 1, 10},
		{"page=0&pageSize=-5", 1, 10},
		{"pageSize=5000", 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/sales?"+tt.query, nil)

			p := Parse(c, DefaultPageSize, MaxPageSize)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.PageSize)
		})
	}
}
