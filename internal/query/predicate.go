// Package query evaluates sales queries in process: predicate matching,
// running aggregates, ordering, page windows and the filter catalog.
package query

import (
	"strings"

	"salesdesk/internal/model"
)

// Matcher is a compiled search term and FilterSpec. Build one per request and
// reuse it for every record.
type Matcher struct {
	search      string
	regions     map[string]struct{}
	genders     map[string]struct{}
	categories  map[string]struct{}
	payments    map[string]struct{}
	tags        map[string]struct{}
	age         *model.IntRange
	dateFrom    string
	dateToExcl  string
	hasDateSpan bool
}

// NewMatcher compiles the search term and filters.
func NewMatcher(search string, f model.FilterSpec) *Matcher {
	m := &Matcher{
		search:     strings.ToLower(strings.TrimSpace(search)),
		regions:    set(f.Regions, false),
		genders:    set(f.Genders, false),
		categories: set(f.Categories, false),
		payments:   set(f.PaymentMethods, false),
		tags:       set(f.Tags, true),
		age:        f.AgeRange,
	}
	if f.DateRange != nil {
		m.dateFrom = f.DateRange.Start
		m.dateToExcl = f.DateRange.EndExclusive()
		m.hasDateSpan = m.dateFrom != "" || m.dateToExcl != ""
	}
	return m
}

// Matches reports whether rec satisfies the search term and every filter.
func Matches(rec *model.SalesRecord, search string, f model.FilterSpec) bool {
	return NewMatcher(search, f).Match(rec)
}

// Match reports whether rec is part of the matching set.
func (m *Matcher) Match(rec *model.SalesRecord) bool {
	if m.search != "" &&
		!strings.Contains(strings.ToLower(rec.CustomerName), m.search) &&
		!strings.Contains(strings.ToLower(rec.PhoneNumber), m.search) {
		return false
	}
	if !member(m.regions, rec.CustomerRegion) ||
		!member(m.genders, rec.Gender) ||
		!member(m.categories, rec.ProductCategory) ||
		!member(m.payments, rec.PaymentMethod) {
		return false
	}
	if m.tags != nil && !anyTag(m.tags, rec.Tags) {
		return false
	}
	if m.age != nil {
		if m.age.Min != nil && rec.Age < *m.age.Min {
			return false
		}
		if m.age.Max != nil && rec.Age > *m.age.Max {
			return false
		}
	}
	if m.hasDateSpan {
		if m.dateFrom != "" && rec.Date < m.dateFrom {
			return false
		}
		if m.dateToExcl != "" && rec.Date >= m.dateToExcl {
			return false
		}
	}
	return true
}

func anyTag(want map[string]struct{}, tags string) bool {
	for _, t := range strings.Split(tags, ",") {
		if _, ok := want[strings.ToLower(strings.TrimSpace(t))]; ok {
			return true
		}
	}
	return false
}

// set returns nil for an empty list so that member treats it as "no constraint".
func set(values []string, fold bool) map[string]struct{} {
	var s map[string]struct{}
	for _, v := range values {
		if fold {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" {
				continue
			}
		}
		if s == nil {
			s = make(map[string]struct{}, len(values))
		}
		s[v] = struct{}{}
	}
	return s
}

func member(s map[string]struct{}, v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[v]
	return ok
}
