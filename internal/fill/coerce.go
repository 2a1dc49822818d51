// internal/fill/coerce.go
package fill

import (
	"strings"

	"github.com/hfadhel/tawseel-cli/api/schemas"
	"github.com/hfadhel/tawseel-cli/internal/classify"
)

// CoercePhone strips everything but digits, so formatted numbers like
// "077-0123-4567" survive host-page numeric validation.
func CoercePhone(v string) string {
	return keepRunes(v, func(r rune) bool { return r >= '0' && r <= '9' })
}

// CoercePrice strips everything but digits and the decimal point, dropping
// thousands separators and currency suffixes. The currency mark "د.ع"
// carries a dot of its own, so dangling edge dots are trimmed after the
// strip: "25,000 د.ع" becomes "25000", while "1.5" is left intact.
func CoercePrice(v string) string {
	kept := keepRunes(v, func(r rune) bool { return (r >= '0' && r <= '9') || r == '.' })
	return strings.Trim(kept, ".")
}

// Coerce applies the category-level value transform. Only phone and price
// values are rewritten; every other category passes through unchanged.
func Coerce(category classify.Category, raw string) string {
	switch category {
	case classify.PhoneNumber:
		return CoercePhone(raw)
	case classify.Price:
		return CoercePrice(raw)
	default:
		return raw
	}
}

// ValueFor maps a category onto the record field that feeds it. The address
// category has no dedicated record field and synthesizes one from province
// and notes.
func ValueFor(category classify.Category, record schemas.Record) string {
	switch category {
	case classify.Code:
		return record.Code
	case classify.SenderName:
		return record.SenderName
	case classify.PhoneNumber:
		return record.PhoneNumber
	case classify.Province:
		return record.Province
	case classify.Price:
		return record.Price
	case classify.CompanyName:
		return record.CompanyName
	case classify.Address:
		return record.Address()
	case classify.Notes:
		return record.Notes
	default:
		return ""
	}
}

func keepRunes(v string, keep func(rune) bool) string {
	var sb strings.Builder
	sb.Grow(len(v))
	for _, r := range v {
		if keep(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
