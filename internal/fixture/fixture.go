// Package fixture builds deterministic sales datasets for tests.
package fixture

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"salesdesk/internal/database"
	"salesdesk/internal/model"
	"salesdesk/internal/normalizer"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	names      = []string{"Asha Rao", "bharat Singh", "Chitra Iyer", "Émile Durand", "asha rao", "Dev Patel", "zoya Khan"}
	regions    = []string{"North", "South", "East", "West"}
	categories = []string{"Clothing", "Electronics", "Beauty"}
	payments   = []string{"UPI", "Credit Card", "Cash", "Wallet"}
	tagLists   = []string{"organic, Fresh", "gadgets", "Fresh,  skincare", "", "Gadgets, wireless , smart"}
)

// Raw returns n raw rows. Exactly 12 of the first 25 rows are "Female".
func Raw(n int) []model.RawRecord {
	out := make([]model.RawRecord, 0, n)
	for i := 0; i < n; i++ {
		gender := "Male"
		if i%2 == 1 {
			gender = "Female"
		}
		qty := 1 + i%5
		price := 100.0 + float64(i%7)*10.25
		total := float64(qty) * price
		disc := float64(i%4) * 5
		final := total * (1 - disc/100)
		out = append(out, model.RawRecord{
			model.ColTransactionID:      fmt.Sprintf("T%04d", i+1),
			model.ColDate:               fmt.Sprintf("2023-%02d-%02d", 1+i%12, 1+(i*7)%28),
			model.ColCustomerID:         fmt.Sprintf("C%03d", i%9),
			model.ColCustomerName:       names[i%len(names)],
			model.ColPhoneNumber:        fmt.Sprintf("98765%05d", i*37),
			model.ColGender:             gender,
			model.ColAge:                strconv.Itoa(18 + (i*5)%50),
			model.ColCustomerRegion:     regions[i%len(regions)],
			model.ColCustomerType:       "Regular",
			model.ColProductID:          fmt.Sprintf("P%03d", i%11),
			model.ColProductName:        "Item " + strconv.Itoa(i%11),
			model.ColBrand:              "Brand" + strconv.Itoa(i%3),
			model.ColProductCategory:    categories[i%len(categories)],
			model.ColTags:               tagLists[i%len(tagLists)],
			model.ColQuantity:           strconv.Itoa(qty),
			model.ColPricePerUnit:       strconv.FormatFloat(price, 'f', 2, 64),
			model.ColDiscountPercentage: strconv.FormatFloat(disc, 'f', 2, 64),
			model.ColTotalAmount:        strconv.FormatFloat(total, 'f', 2, 64),
			model.ColFinalAmount:        strconv.FormatFloat(final, 'f', 2, 64),
			model.ColPaymentMethod:      payments[i%len(payments)],
			model.ColOrderStatus:        "Completed",
			model.ColDeliveryType:       "Standard",
			model.ColStoreID:            "S" + strconv.Itoa(i%4),
			model.ColStoreLocation:      regions[(i+1)%len(regions)],
			model.ColSalespersonID:      "E" + strconv.Itoa(i%6),
			model.ColEmployeeName:       "Employee " + strconv.Itoa(i%6),
		})
	}
	return out
}

// Records returns the normalized form of Raw(n), with Seq set.
func Records(n int) []model.SalesRecord {
	recs := normalizer.NormalizeBatch(Raw(n))
	for i := range recs {
		recs[i].Seq = int64(i)
	}
	return recs
}

// SubCentAmounts rewrites the amounts of every third row with three-decimal
// values whose float sums fall on either side of a half cent.
func SubCentAmounts(rows []model.RawRecord) []model.RawRecord {
	finals := []string{"0.7", "0.1", "0.005", "10.105", "2.675", "1.015"}
	totals := []string{"0.705", "0.115", "0.015", "10.125", "2.685", "1.035"}
	for i := 0; i < len(rows); i += 3 {
		k := (i / 3) % len(finals)
		rows[i][model.ColFinalAmount] = finals[k]
		rows[i][model.ColTotalAmount] = totals[k]
	}
	return rows
}

// WriteCSV writes rows with a header line in the source column order.
func WriteCSV(w io.Writer, rows []model.RawRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Columns); err != nil {
		return err
	}
	line := make([]string, len(model.Columns))
	for _, row := range rows {
		for i, col := range model.Columns {
			v, _ := row[col].(string)
			line[i] = v
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVFile writes rows to a file under dir and returns its path.
func CSVFile(dir string, rows []model.RawRecord) (string, error) {
	path := filepath.Join(dir, "sales.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteCSV(f, rows); err != nil {
		return "", err
	}
	return path, nil
}

// SQLite opens a migrated in-memory store that lives as long as the test.
func SQLite(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open(sqlite.Open(dsn))
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}
