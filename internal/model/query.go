package model

import (
	"strings"
	"time"
)

// SortKey enumerates the supported orderings.
type SortKey string

const (
	SortNone           SortKey = ""
	SortByDate         SortKey = "date"
	SortByQuantity     SortKey = "quantity"
	SortByCustomerName SortKey = "customerName"
)

// SortOrder is the direction of a SortKey.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortSpec selects the ordering of the matching set. The zero value keeps
// records in source order.
type SortSpec struct {
	Key   SortKey
	Order SortOrder
}

// DefaultSort is used when the caller does not ask for an ordering or asks
// for one that does not exist.
var DefaultSort = SortSpec{Key: SortByDate, Order: SortDesc}

// ParseSortSpec maps request values onto a SortSpec. An empty or unknown key
// falls back to date descending. A missing order means descending; any order
// other than "desc" means ascending.
func ParseSortSpec(key, order string) SortSpec {
	var spec SortSpec
	switch SortKey(strings.TrimSpace(key)) {
	case SortByDate:
		spec.Key = SortByDate
	case SortByQuantity:
		spec.Key = SortByQuantity
	case SortByCustomerName:
		spec.Key = SortByCustomerName
	default:
		return DefaultSort
	}

	switch SortOrder(strings.ToLower(strings.TrimSpace(order))) {
	case "", SortDesc:
		spec.Order = SortDesc
	default:
		spec.Order = SortAsc
	}
	return spec
}

// Descending reports whether the spec orders from high to low.
func (s SortSpec) Descending() bool {
	return s.Order != SortAsc
}

// IntRange is an inclusive range where either bound may be absent.
type IntRange struct {
	Min *int
	Max *int
}

// DateRange bounds dates by day. Start is inclusive; End is inclusive to the
// end of that calendar day. Both are YYYY-MM-DD when set.
type DateRange struct {
	Start string
	End   string
}

// FilterSpec holds the structured filter dimensions. An empty slice or a nil
// range means no constraint on that dimension.
type FilterSpec struct {
	Regions        []string
	Genders        []string
	Categories     []string
	Tags           []string
	PaymentMethods []string
	AgeRange       *IntRange
	DateRange      *DateRange
}

// PageRequest is a 1-based page number and a page size.
type PageRequest struct {
	Page     int
	PageSize int
}

// SalesQuery is the complete set of request parameters for one page of sales.
type SalesQuery struct {
	Search  string
	Filters FilterSpec
	Sort    SortSpec
	Page    PageRequest
}

const dayLayout = "2006-01-02"

// NewDateRange builds a DateRange from request values. Bounds that are not a
// date (YYYY-MM-DD or RFC 3339) are dropped; nil means no usable bound.
func NewDateRange(start, end string) *DateRange {
	r := DateRange{Start: parseDay(start), End: parseDay(end)}
	if r.Start == "" && r.End == "" {
		return nil
	}
	return &r
}

// EndExclusive returns the day after End, so that `date < EndExclusive`
// includes every timestamp on the End day. Empty when End is unset or is the
// last representable day, since "10000-01-01" sorts before every real date.
func (r DateRange) EndExclusive() string {
	if r.End == "" {
		return ""
	}
	t, err := time.Parse(dayLayout, r.End)
	if err != nil {
		return ""
	}
	next := t.AddDate(0, 0, 1)
	if next.Year() > 9999 {
		return ""
	}
	return next.Format(dayLayout)
}

func parseDay(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if t, err := time.Parse(dayLayout, s); err == nil {
		return t.Format(dayLayout)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(dayLayout)
	}
	return ""
}
