package normalizer

import (
	"bytes"
	"math"
	"testing"

	"salesdesk/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawRecord(id, name string) model.RawRecord {
	return model.RawRecord{
		model.ColTransactionID: id,
		model.ColDate:          "2023-03-01",
		model.ColCustomerID:    "C-" + id,
		model.ColCustomerName:  name,
		model.ColQuantity:      "3",
		model.ColTotalAmount:   "300",
		model.ColFinalAmount:   "270.5",
	}
}

func TestNormalize_CoercesFields(t *testing.T) {
	rec := Normalize(model.RawRecord{
		model.ColTransactionID: "  T1 ",
		model.ColDate:          "2023-01-15",
		model.ColCustomerID:    "C1",
		model.ColCustomerName:  " Asha Rao ",
		model.ColAge:           "34.9",
		model.ColQuantity:      7,
		model.ColPricePerUnit:  12.5,
		model.ColTotalAmount:   "not a number",
		model.ColFinalAmount:   nil,
		model.ColTags:          " Organic , Fresh,, ",
		model.ColGender:        nil,
	})

	assert.Equal(t, "T1", rec.TransactionID)
	assert.Equal(t, "Asha Rao", rec.CustomerName)
	assert.Equal(t, 34, rec.Age)
	assert.Equal(t, 7, rec.Quantity)
	assert.Equal(t, 12.5, rec.PricePerUnit)
	assert.Zero(t, rec.TotalAmount)
	assert.Zero(t, rec.FinalAmount)
	assert.Equal(t, "", rec.Gender)
	assert.Equal(t, ",organic,fresh,", rec.TagIndex)
	assert.NotEmpty(t, rec.NameKey)
}

func TestNormalize_NegativeAndNonFiniteBecomeZero(t *testing.T) {
	rec := Normalize(model.RawRecord{
		model.ColAge:         "-4",
		model.ColQuantity:    "-1",
		model.ColTotalAmount: math.Inf(1),
		model.ColFinalAmount: "NaN",
	})
	assert.Zero(t, rec.Age)
	assert.Zero(t, rec.Quantity)
	assert.Zero(t, rec.TotalAmount)
	assert.Zero(t, rec.FinalAmount)
}

func TestValidate_RequiresIdentifyingFields(t *testing.T) {
	assert.True(t, Validate(Normalize(rawRecord("T1", "Asha"))))

	missingName := rawRecord("T2", "")
	assert.False(t, Validate(Normalize(missingName)))

	delete(missingName, model.ColCustomerName)
	assert.False(t, Validate(Normalize(missingName)))

	blankDate := rawRecord("T3", "Ravi")
	blankDate[model.ColDate] = "   "
	assert.False(t, Validate(Normalize(blankDate)))
}

func TestNormalizeBatch_DropsInvalid(t *testing.T) {
	raws := []model.RawRecord{
		rawRecord("T1", "Asha"),
		rawRecord("", "Ravi"),
		rawRecord("T3", "Meera"),
		rawRecord("T4", " "),
		rawRecord("T5", "Kiran"),
	}

	out := NormalizeBatch(raws)
	require.Len(t, out, 3)
	assert.Equal(t, "T1", out[0].TransactionID)
	assert.Equal(t, "T3", out[1].TransactionID)
	assert.Equal(t, "T5", out[2].TransactionID)

	assert.Empty(t, NormalizeBatch(nil))
}

func TestSanitize(t *testing.T) {
	rec := model.SalesRecord{CustomerName: " Asha ", Age: -2, FinalAmount: math.NaN()}
	Sanitize(&rec)
	assert.Equal(t, "Asha", rec.CustomerName)
	assert.Zero(t, rec.Age)
	assert.Zero(t, rec.FinalAmount)
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "B", "c d"}, SplitTags(" a, B ,,c d "))
	assert.Nil(t, SplitTags(""))
	assert.Equal(t, "", TagIndex(" , "))
}

func TestNameKey_IgnoresCase(t *testing.T) {
	assert.Equal(t, NameKey("asha"), NameKey("ASHA"))
	assert.Equal(t, -1, bytes.Compare(NameKey("asha"), NameKey("Bharat")))
	assert.Equal(t, -1, bytes.Compare(NameKey("Émile"), NameKey("Zoya")))
}
