// internal/fill/coerce_test.go
package fill_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/hfadhel/tawseel-cli/api/schemas"
	"github.com/hfadhel/tawseel-cli/internal/classify"
	"github.com/hfadhel/tawseel-cli/internal/fill"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCoercePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already digits is idempotent", "07701234567", "07701234567"},
		{"dashes stripped", "077-0123-4567", "07701234567"},
		{"spaces and plus stripped", "+964 770 123 4567", "9647701234567"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fill.CoercePhone(tt.in))
		})
	}
}

func TestCoercePrice(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"thousands separator and dinar mark", "25,000 د.ع", "25000"},
		{"plain number", "20000", "20000"},
		{"decimal preserved", "1.5", "1.5"},
		{"currency word", "15000 دينار", "15000"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fill.CoercePrice(tt.in))
		})
	}
}

func TestCoerceByCategory(t *testing.T) {
	assert.Equal(t, "07701234567", fill.Coerce(classify.PhoneNumber, "077-0123-4567"))
	assert.Equal(t, "25000", fill.Coerce(classify.Price, "25,000 د.ع"))
	assert.Equal(t, "أحمد محمد", fill.Coerce(classify.SenderName, "أحمد محمد"),
		"non-numeric categories pass through unchanged")
}

func TestValueFor(t *testing.T) {
	record := schemas.Record{
		Code:        "123456",
		SenderName:  "أحمد",
		PhoneNumber: "07701234567",
		Province:    "بغداد",
		Price:       "20000",
		CompanyName: "النور",
		Notes:       "قرب الجامعة",
	}

	assert.Equal(t, "123456", fill.ValueFor(classify.Code, record))
	assert.Equal(t, "بغداد", fill.ValueFor(classify.Province, record))
	assert.Equal(t, "بغداد - قرب الجامعة", fill.ValueFor(classify.Address, record),
		"address synthesizes province and notes")
	assert.Empty(t, fill.ValueFor(classify.Unknown, record))

	record.Notes = ""
	assert.Equal(t, "بغداد", fill.ValueFor(classify.Address, record))
}
