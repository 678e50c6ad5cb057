package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"salesdesk/internal/apperror"
	"salesdesk/internal/model"
	"salesdesk/internal/query"
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// intFlag is an int flag that remembers whether it was set.
type intFlag struct{ v *int }

func (f *intFlag) String() string {
	if f.v == nil {
		return ""
	}
	return strconv.Itoa(*f.v)
}

func (f *intFlag) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	f.v = &n
	return nil
}

type exportOptions struct {
	search     string
	regions    stringList
	genders    stringList
	categories stringList
	tags       stringList
	payments   stringList
	ageMin     intFlag
	ageMax     intFlag
	dateStart  string
	dateEnd    string
	sortBy     string
	sortOrder  string
	pageSize   int
}

func bindExportFlags(fs *flag.FlagSet) *exportOptions {
	o := &exportOptions{}
	fs.StringVar(&o.search, "search", "", "substring of customer name or phone number")
	fs.Var(&o.regions, "region", "customer region (repeatable)")
	fs.Var(&o.genders, "gender", "gender (repeatable)")
	fs.Var(&o.categories, "category", "product category (repeatable)")
	fs.Var(&o.tags, "tag", "tag (repeatable)")
	fs.Var(&o.payments, "payment", "payment method (repeatable)")
	fs.Var(&o.ageMin, "age-min", "minimum age")
	fs.Var(&o.ageMax, "age-max", "maximum age")
	fs.StringVar(&o.dateStart, "date-start", "", "first day, YYYY-MM-DD")
	fs.StringVar(&o.dateEnd, "date-end", "", "last day, YYYY-MM-DD")
	fs.StringVar(&o.sortBy, "sort", "", "date|quantity|customerName (default: file order)")
	fs.StringVar(&o.sortOrder, "order", "desc", "asc|desc")
	fs.IntVar(&o.pageSize, "page-size", 1000, "records fetched per pass")
	return o
}

func (o *exportOptions) query() (model.SalesQuery, error) {
	if o.pageSize < 1 {
		return model.SalesQuery{}, fmt.Errorf("%w: -page-size must be positive", apperror.ErrValidation)
	}

	sort := model.SortSpec{Key: model.SortNone, Order: model.SortAsc}
	if o.sortBy != "" {
		sort = model.ParseSortSpec(o.sortBy, o.sortOrder)
		if string(sort.Key) != o.sortBy {
			return model.SalesQuery{}, fmt.Errorf("%w: unknown sort key %q", apperror.ErrValidation, o.sortBy)
		}
	}

	f := model.FilterSpec{
		Regions:        o.regions,
		Genders:        o.genders,
		Categories:     o.categories,
		Tags:           o.tags,
		PaymentMethods: o.payments,
		DateRange:      model.NewDateRange(o.dateStart, o.dateEnd),
	}
	if o.ageMin.v != nil || o.ageMax.v != nil {
		f.AgeRange = &model.IntRange{Min: o.ageMin.v, Max: o.ageMax.v}
	}
	return model.SalesQuery{Search: o.search, Filters: f, Sort: sort, Page: model.PageRequest{Page: 1, PageSize: o.pageSize}}, nil
}

// export walks every page of q and writes one JSON object per record.
func export(ctx context.Context, scanner *query.Scanner, q model.SalesQuery, pageSize int, w io.Writer) (int, error) {
	enc := json.NewEncoder(w)
	written := 0
	for page := 1; ; page++ {
		q.Page = model.PageRequest{Page: page, PageSize: pageSize}
		res, err := scanner.Execute(ctx, q)
		if err != nil {
			return written, err
		}
		for i := range res.Data {
			if err := enc.Encode(&res.Data[i]); err != nil {
				return written, err
			}
			written++
		}
		if !res.Pagination.HasNextPage {
			return written, nil
		}
	}
}
