package query

import (
	"slices"

	"salesdesk/internal/model"
	"salesdesk/internal/normalizer"
)

// CatalogBuilder collects distinct filter values and running min/max ranges.
type CatalogBuilder struct {
	regions    map[string]struct{}
	genders    map[string]struct{}
	categories map[string]struct{}
	tags       map[string]struct{}
	payments   map[string]struct{}

	ages    *model.Range[int]
	dateMin string
	dateMax string
}

func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{
		regions:    map[string]struct{}{},
		genders:    map[string]struct{}{},
		categories: map[string]struct{}{},
		tags:       map[string]struct{}{},
		payments:   map[string]struct{}{},
	}
}

// Add folds a record into the catalog.
func (b *CatalogBuilder) Add(rec *model.SalesRecord) {
	b.AddRegion(rec.CustomerRegion)
	b.AddGender(rec.Gender)
	b.AddCategory(rec.ProductCategory)
	b.AddPaymentMethod(rec.PaymentMethod)
	b.AddTags(rec.Tags)
	b.AddAge(rec.Age)
	b.AddDate(rec.Date)
}

func (b *CatalogBuilder) AddRegion(v string)        { put(b.regions, v) }
func (b *CatalogBuilder) AddGender(v string)        { put(b.genders, v) }
func (b *CatalogBuilder) AddCategory(v string)      { put(b.categories, v) }
func (b *CatalogBuilder) AddPaymentMethod(v string) { put(b.payments, v) }

// AddTags splits a comma separated list and adds each tag on its own.
func (b *CatalogBuilder) AddTags(tags string) {
	for _, t := range normalizer.SplitTags(tags) {
		b.tags[t] = struct{}{}
	}
}

func (b *CatalogBuilder) AddAge(age int) {
	if b.ages == nil {
		b.ages = &model.Range[int]{Min: age, Max: age}
		return
	}
	b.ages.Min = min(b.ages.Min, age)
	b.ages.Max = max(b.ages.Max, age)
}

func (b *CatalogBuilder) AddDate(date string) {
	if date == "" {
		return
	}
	if b.dateMin == "" || date < b.dateMin {
		b.dateMin = date
	}
	if date > b.dateMax {
		b.dateMax = date
	}
}

// Options returns the catalog with sorted value lists. An empty dataset gets
// an age range of 0..100 and an empty date range.
func (b *CatalogBuilder) Options() model.FilterOptions {
	opts := model.FilterOptions{
		Regions:        sortedKeys(b.regions),
		Genders:        sortedKeys(b.genders),
		Categories:     sortedKeys(b.categories),
		Tags:           sortedKeys(b.tags),
		PaymentMethods: sortedKeys(b.payments),
		AgeRange:       model.Range[int]{Min: model.DefaultAgeMin, Max: model.DefaultAgeMax},
		DateRange:      model.Range[string]{Min: b.dateMin, Max: b.dateMax},
	}
	if b.ages != nil {
		opts.AgeRange = *b.ages
	}
	return opts
}

func put(s map[string]struct{}, v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

func sortedKeys(s map[string]struct{}) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
