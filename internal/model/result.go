package model

import (
	"slices"

	"salesdesk/pkg/pagination"
)

// Summary aggregates the whole matching set, not just the returned page.
type Summary struct {
	TotalUnits    int64   `json:"totalUnits"`
	TotalAmount   float64 `json:"totalAmount"`
	TotalDiscount float64 `json:"totalDiscount"`
}

// Pagination describes where a page sits in the matching set.
type Pagination = pagination.Meta

// SalesPage is the assembled answer to a SalesQuery.
type SalesPage struct {
	Data       []SalesRecord `json:"data"`
	Pagination Pagination    `json:"pagination"`
	Summary    Summary       `json:"summary"`
}

// Range is a min/max pair.
type Range[T any] struct {
	Min T `json:"min"`
	Max T `json:"max"`
}

// FilterOptions lists the values a client can filter on.
type FilterOptions struct {
	Regions        []string      `json:"regions"`
	Genders        []string      `json:"genders"`
	Categories     []string      `json:"categories"`
	Tags           []string      `json:"tags"`
	PaymentMethods []string      `json:"paymentMethods"`
	AgeRange       Range[int]    `json:"ageRange"`
	DateRange      Range[string] `json:"dateRange"`
}

// Clone returns a copy that shares no slices with o.
func (o FilterOptions) Clone() FilterOptions {
	o.Regions = slices.Clone(o.Regions)
	o.Genders = slices.Clone(o.Genders)
	o.Categories = slices.Clone(o.Categories)
	o.Tags = slices.Clone(o.Tags)
	o.PaymentMethods = slices.Clone(o.PaymentMethods)
	return o
}

// Catalog fallbacks used when the dataset holds no records.
const (
	DefaultAgeMin = 0
	DefaultAgeMax = 100
)
