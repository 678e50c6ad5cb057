// Package normalizer coerces loosely typed source rows into SalesRecords.
package normalizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"salesdesk/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Normalize converts a raw row into a SalesRecord. It never fails: missing or
// malformed values become the zero value of their field.
func Normalize(raw model.RawRecord) model.SalesRecord {
	rec := model.SalesRecord{
		TransactionID:      str(raw[model.ColTransactionID]),
		Date:               str(raw[model.ColDate]),
		CustomerID:         str(raw[model.ColCustomerID]),
		CustomerName:       str(raw[model.ColCustomerName]),
		PhoneNumber:        str(raw[model.ColPhoneNumber]),
		Gender:             str(raw[model.ColGender]),
		Age:                integer(raw[model.ColAge]),
		CustomerRegion:     str(raw[model.ColCustomerRegion]),
		CustomerType:       str(raw[model.ColCustomerType]),
		ProductID:          str(raw[model.ColProductID]),
		ProductName:        str(raw[model.ColProductName]),
		Brand:              str(raw[model.ColBrand]),
		ProductCategory:    str(raw[model.ColProductCategory]),
		Tags:               str(raw[model.ColTags]),
		Quantity:           integer(raw[model.ColQuantity]),
		PricePerUnit:       number(raw[model.ColPricePerUnit]),
		DiscountPercentage: number(raw[model.ColDiscountPercentage]),
		TotalAmount:        number(raw[model.ColTotalAmount]),
		FinalAmount:        number(raw[model.ColFinalAmount]),
		PaymentMethod:      str(raw[model.ColPaymentMethod]),
		OrderStatus:        str(raw[model.ColOrderStatus]),
		DeliveryType:       str(raw[model.ColDeliveryType]),
		StoreID:            str(raw[model.ColStoreID]),
		StoreLocation:      str(raw[model.ColStoreLocation]),
		SalespersonID:      str(raw[model.ColSalespersonID]),
		EmployeeName:       str(raw[model.ColEmployeeName]),
	}
	rec.TagIndex = TagIndex(rec.Tags)
	rec.NameKey = NameKey(rec.CustomerName)
	return rec
}

// Validate reports whether the identifying fields of a record are present.
func Validate(rec model.SalesRecord) bool {
	return strings.TrimSpace(rec.TransactionID) != "" &&
		strings.TrimSpace(rec.Date) != "" &&
		strings.TrimSpace(rec.CustomerID) != "" &&
		strings.TrimSpace(rec.CustomerName) != ""
}

// NormalizeBatch normalizes every row and silently drops the invalid ones.
func NormalizeBatch(raws []model.RawRecord) []model.SalesRecord {
	out := make([]model.SalesRecord, 0, len(raws))
	for _, raw := range raws {
		rec := Normalize(raw)
		if Validate(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Sanitize re-applies normalization rules to a record that is already typed,
// such as a row read back from the store.
func Sanitize(rec *model.SalesRecord) {
	for _, f := range []*string{
		&rec.TransactionID, &rec.Date, &rec.CustomerID, &rec.CustomerName, &rec.PhoneNumber,
		&rec.Gender, &rec.CustomerRegion, &rec.CustomerType, &rec.ProductID, &rec.ProductName,
		&rec.Brand, &rec.ProductCategory, &rec.Tags, &rec.PaymentMethod, &rec.OrderStatus,
		&rec.DeliveryType, &rec.StoreID, &rec.StoreLocation, &rec.SalespersonID, &rec.EmployeeName,
	} {
		*f = strings.TrimSpace(*f)
	}
	rec.Age = max(rec.Age, 0)
	rec.Quantity = max(rec.Quantity, 0)
	rec.PricePerUnit = clean(rec.PricePerUnit)
	rec.DiscountPercentage = clean(rec.DiscountPercentage)
	rec.TotalAmount = clean(rec.TotalAmount)
	rec.FinalAmount = clean(rec.FinalAmount)
}

// SplitTags splits a comma separated tag list, trimming each tag and dropping
// empty ones. Case is preserved.
func SplitTags(tags string) []string {
	var out []string
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// TagIndex renders tags as ",a,b," in lower case, so membership of a single
// tag is a substring test for ",tag,".
func TagIndex(tags string) string {
	parts := SplitTags(tags)
	if len(parts) == 0 {
		return ""
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return "," + strings.Join(parts, ",") + ","
}

var collators = sync.Pool{
	New: func() any {
		return collate.New(language.Und, collate.IgnoreCase)
	},
}

// NameKey returns the case-insensitive collation key of a customer name.
// Comparing keys bytewise orders names the way a locale-aware comparison does.
func NameKey(name string) []byte {
	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)

	var buf collate.Buffer
	key := c.KeyFromString(&buf, strings.TrimSpace(name))
	out := make([]byte, len(key))
	copy(out, key)
	return out
}

func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func number(v any) float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	default:
		s := str(t)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	}
	return clean(f)
}

func integer(v any) int {
	return int(math.Trunc(number(v)))
}

func clean(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
