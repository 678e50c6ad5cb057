package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSortSpec(t *testing.T) {
	tests := []struct {
		key, order string
		want       SortSpec
	}{
		{"", "", DefaultSort},
		{"price", "asc", DefaultSort},
		{"quantity", "", SortSpec{Key: SortByQuantity, Order: SortDesc}},
		{"quantity", "DESC", SortSpec{Key: SortByQuantity, Order: SortDesc}},
		{"customerName", "asc", SortSpec{Key: SortByCustomerName, Order: SortAsc}},
		{"date", "sideways", SortSpec{Key: SortByDate, Order: SortAsc}},
	}
	for _, tt := range tests {
		t.Run(tt.key+"-"+tt.order, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSortSpec(tt.key, tt.order))
		})
	}
}

func TestDateRange_EndExclusive(t *testing.T) {
	tests := []struct {
		end  string
		want string
	}{
		{"", ""},
		{"2023-03-15", "2023-03-16"},
		{"2023-12-31", "2024-01-01"},
		{"2024-02-28", "2024-02-29"},
		{"2023-03-15T23:59:00Z", "2023-03-16"},
		{"9999-12-30", "9999-12-31"},
		{"9999-12-31", ""},
	}
	for _, tt := range tests {
		t.Run(tt.end, func(t *testing.T) {
			r := NewDateRange("2000-01-01", tt.end)
			assert.Equal(t, tt.want, r.EndExclusive())
		})
	}
}
