// internal/fill/fill.go
package fill

import (
	"github.com/hfadhel/tawseel-cli/internal/classify"
	"github.com/hfadhel/tawseel-cli/internal/dom"
)

// Fill writes a raw record value into one field and reports whether a value
// was actually written. Per-field problems are answers, not errors: an empty
// value, a select with no matching option, or an unfillable element all
// return false and leave the field untouched.
//
// The raw value is coerced twice on purpose. The category pass applies the
// record-level transform (phone digits, price digits and dot); the
// element-type pass repeats it based on the input's own type attribute, as a
// safety net for fields the classifier labeled with the wrong category.
//
// After a successful write the input/change/blur/keyup sequence is
// dispatched so host-page listeners observe the change.
func Fill(f *dom.Field, category classify.Category, raw string) bool {
	value := Coerce(category, raw)
	if value == "" {
		return false
	}

	switch f.Kind {
	case dom.KindSelect:
		opt, ok := bestOption(f.Options(), value)
		if !ok {
			return false
		}
		f.SelectOption(opt)
	case dom.KindText:
		switch f.Type() {
		case "tel":
			value = CoercePhone(value)
		case "number":
			value = CoercePrice(value)
		}
		if value == "" {
			return false
		}
		f.SetValue(value)
	case dom.KindEditable:
		f.SetText(value)
	default:
		return false
	}

	f.DispatchFilled()
	return true
}
