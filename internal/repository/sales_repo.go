package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salesdesk/internal/apperror"
	"salesdesk/internal/model"
	"salesdesk/internal/normalizer"
	"salesdesk/internal/query"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// SalesRepository pushes filtering, aggregation, ordering and paging down to
// the database. Every filter translates to SQL that selects exactly the rows
// query.Matcher accepts.
type SalesRepository interface {
	HasRecords(ctx context.Context) (bool, error)
	CreateBatch(ctx context.Context, recs []model.SalesRecord, batchSize int) error

	Count(ctx context.Context, search string, f model.FilterSpec) (int64, error)
	Summarize(ctx context.Context, search string, f model.FilterSpec) (model.Summary, error)
	FindPage(ctx context.Context, search string, f model.FilterSpec, sort model.SortSpec, offset, limit int) ([]model.SalesRecord, error)
	Catalog(ctx context.Context) (model.FilterOptions, error)

	// Each streams every stored record in insertion order.
	Each(ctx context.Context, fn func(rec model.SalesRecord) error) error
}

type salesRepository struct {
	db *gorm.DB
}

func NewSalesRepository(db *gorm.DB) SalesRepository {
	return &salesRepository{db: db}
}

const eachBatchSize = 1000

func (r *salesRepository) HasRecords(ctx context.Context) (bool, error) {
	var rec model.SalesRecord
	err := GetDB(ctx, r.db).Select("id").Limit(1).Find(&rec).Error
	if err != nil {
		return false, unavailable("probe sales table", err)
	}
	return rec.ID != 0, nil
}

func (r *salesRepository) CreateBatch(ctx context.Context, recs []model.SalesRecord, batchSize int) error {
	if len(recs) == 0 {
		return nil
	}
	if err := GetDB(ctx, r.db).CreateInBatches(recs, batchSize).Error; err != nil {
		return unavailable("insert sales", err)
	}
	return nil
}

func (r *salesRepository) Count(ctx context.Context, search string, f model.FilterSpec) (int64, error) {
	var total int64
	if err := r.filtered(ctx, search, f).Count(&total).Error; err != nil {
		return 0, unavailable("count sales", err)
	}
	return total, nil
}

// Summarize streams the amount columns of the matching rows through
// query.Accumulator, so totals are rounded exactly as the in-process scan
// rounds them.
func (r *salesRepository) Summarize(ctx context.Context, search string, f model.FilterSpec) (model.Summary, error) {
	rows, err := r.filtered(ctx, search, f).
		Select("quantity", "total_amount", "final_amount").
		Rows()
	if err != nil {
		return model.Summary{}, aggregateFailed(err)
	}
	defer rows.Close()

	db := GetDB(ctx, r.db)
	acc := query.NewAccumulator()
	for rows.Next() {
		var rec model.SalesRecord
		if err := db.ScanRows(rows, &rec); err != nil {
			return model.Summary{}, aggregateFailed(err)
		}
		acc.Add(&rec)
	}
	if err := rows.Err(); err != nil {
		return model.Summary{}, aggregateFailed(err)
	}
	return acc.Summary(), nil
}

func (r *salesRepository) FindPage(ctx context.Context, search string, f model.FilterSpec, sort model.SortSpec, offset, limit int) ([]model.SalesRecord, error) {
	recs := []model.SalesRecord{}
	if limit <= 0 {
		return recs, nil
	}
	err := r.filtered(ctx, search, f).
		Order(orderClause(sort)).
		Offset(offset).
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, unavailable("list sales", err)
	}
	for i := range recs {
		restore(&recs[i])
	}
	return recs, nil
}

func (r *salesRepository) Each(ctx context.Context, fn func(rec model.SalesRecord) error) error {
	var batch []model.SalesRecord
	var seq int64
	var fnErr error
	res := GetDB(ctx, r.db).Model(&model.SalesRecord{}).
		FindInBatches(&batch, eachBatchSize, func(tx *gorm.DB, _ int) error {
			for i := range batch {
				rec := batch[i]
				normalizer.Sanitize(&rec)
				rec.Seq = seq
				seq++
				if fnErr = fn(rec); fnErr != nil {
					return fnErr
				}
			}
			return nil
		})
	if fnErr != nil {
		return fnErr
	}
	if res.Error != nil {
		return unavailable("stream sales", res.Error)
	}
	return nil
}

// Catalog runs the distinct-value and range queries concurrently and folds
// the results through the same builder the in-process scan uses.
func (r *salesRepository) Catalog(ctx context.Context) (model.FilterOptions, error) {
	var (
		regions, genders, categories, payments, tagLists []string
		ages                                             struct{ RowCount, MinAge, MaxAge int }
		dates                                            struct{ MinDate, MaxDate string }
	)

	g, gctx := errgroup.WithContext(ctx)
	pluck := func(column string, dest *[]string) {
		g.Go(func() error {
			err := GetDB(gctx, r.db).Model(&model.SalesRecord{}).
				Where(column+" <> ''").
				Distinct(column).
				Pluck(column, dest).Error
			if err != nil {
				return unavailable("distinct "+column, err)
			}
			return nil
		})
	}
	pluck("customer_region", &regions)
	pluck("gender", &genders)
	pluck("product_category", &categories)
	pluck("payment_method", &payments)
	pluck("tags", &tagLists)

	g.Go(func() error {
		err := GetDB(gctx, r.db).Model(&model.SalesRecord{}).
			Select("COUNT(*) AS row_count, COALESCE(MIN(age), 0) AS min_age, COALESCE(MAX(age), 0) AS max_age").
			Scan(&ages).Error
		if err != nil {
			return unavailable("age range", err)
		}
		return nil
	})
	g.Go(func() error {
		err := GetDB(gctx, r.db).Model(&model.SalesRecord{}).
			Where("date <> ''").
			Select("COALESCE(MIN(date), '') AS min_date, COALESCE(MAX(date), '') AS max_date").
			Scan(&dates).Error
		if err != nil {
			return unavailable("date range", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.FilterOptions{}, err
	}

	b := query.NewCatalogBuilder()
	for _, v := range regions {
		b.AddRegion(v)
	}
	for _, v := range genders {
		b.AddGender(v)
	}
	for _, v := range categories {
		b.AddCategory(v)
	}
	for _, v := range payments {
		b.AddPaymentMethod(v)
	}
	for _, v := range tagLists {
		b.AddTags(v)
	}
	if ages.RowCount > 0 {
		b.AddAge(ages.MinAge)
		b.AddAge(ages.MaxAge)
	}
	b.AddDate(dates.MinDate)
	b.AddDate(dates.MaxDate)
	return b.Options(), nil
}

func (r *salesRepository) filtered(ctx context.Context, search string, f model.FilterSpec) *gorm.DB {
	return GetDB(ctx, r.db).Model(&model.SalesRecord{}).Scopes(FilterScope(search, f))
}

// FilterScope renders the search term and filters as WHERE clauses.
func FilterScope(search string, f model.FilterSpec) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
			pattern := "%" + escapeLike(term) + "%"
			db = db.Where(`(LOWER(customer_name) LIKE ? ESCAPE '\' OR LOWER(phone_number) LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		db = in(db, "customer_region", f.Regions)
		db = in(db, "gender", f.Genders)
		db = in(db, "product_category", f.Categories)
		db = in(db, "payment_method", f.PaymentMethods)
		db = tagsAny(db, f.Tags)

		if a := f.AgeRange; a != nil {
			if a.Min != nil {
				db = db.Where("age >= ?", *a.Min)
			}
			if a.Max != nil {
				db = db.Where("age <= ?", *a.Max)
			}
		}
		if d := f.DateRange; d != nil {
			if d.Start != "" {
				db = db.Where("date >= ?", d.Start)
			}
			if end := d.EndExclusive(); end != "" {
				db = db.Where("date < ?", end)
			}
		}
		return db
	}
}

func in(db *gorm.DB, column string, values []string) *gorm.DB {
	if len(values) == 0 {
		return db
	}
	return db.Where(column+" IN ?", values)
}

// tagsAny matches rows carrying at least one of tags, case-insensitively.
// Blank tags are ignored. A tag containing a comma can never equal a single
// stored tag, so it matches nothing.
func tagsAny(db *gorm.DB, tags []string) *gorm.DB {
	var clauses []string
	var args []any
	constrained := false
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		constrained = true
		if strings.Contains(t, ",") {
			continue
		}
		clauses = append(clauses, `tag_index LIKE ? ESCAPE '\'`)
		args = append(args, "%,"+escapeLike(t)+",%")
	}
	if !constrained {
		return db
	}
	if len(clauses) == 0 {
		return db.Where("1 = 0")
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func orderClause(sort model.SortSpec) string {
	dir := "DESC"
	if !sort.Descending() {
		dir = "ASC"
	}
	switch sort.Key {
	case model.SortByQuantity:
		return "quantity " + dir + ", id ASC"
	case model.SortByCustomerName:
		return "name_key " + dir + ", id ASC"
	case model.SortByDate:
		return "date " + dir + ", id ASC"
	default:
		return "id ASC"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// restore cleans a stored row the way the importer would have and derives
// its source position from the insertion id.
func restore(rec *model.SalesRecord) {
	normalizer.Sanitize(rec)
	rec.Seq = int64(rec.ID) - 1
}

func aggregateFailed(err error) error {
	return fmt.Errorf("summarize sales: %w", errors.Join(apperror.ErrAggregateFailed, err))
}

func unavailable(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, errors.Join(apperror.ErrDataSourceUnavailable, err))
}
