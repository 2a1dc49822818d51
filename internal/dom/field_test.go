package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfadhel/tawseel-cli/internal/dom"
)

func fieldByName(t *testing.T, doc *dom.Document, name string) *dom.Field {
	t.Helper()
	for _, f := range dom.Discover(doc) {
		if f.Name() == name {
			return f
		}
	}
	t.Fatalf("no field named %q", name)
	return nil
}

func TestFieldValueRoundTrip(t *testing.T) {
	doc := mustParse(t, orderFormHTML, "https://forms.example.com")

	t.Run("input value", func(t *testing.T) {
		f := fieldByName(t, doc, "code")
		assert.Empty(t, f.Value())
		f.SetValue("123456")
		assert.Equal(t, "123456", f.Value())
	})

	t.Run("textarea text", func(t *testing.T) {
		f := fieldByName(t, doc, "notes")
		f.SetValue("توصيل بعد الظهر")
		assert.Equal(t, "توصيل بعد الظهر", f.Value())
	})

	t.Run("contenteditable text", func(t *testing.T) {
		var editable *dom.Field
		for _, f := range dom.Discover(doc) {
			if f.Kind == dom.KindEditable {
				editable = f
			}
		}
		require.NotNil(t, editable)
		editable.SetText("25000")
		assert.Equal(t, "25000", editable.Value())
	})
}

func TestFieldOptions(t *testing.T) {
	doc := mustParse(t, orderFormHTML, "https://forms.example.com")
	f := fieldByName(t, doc, "province")

	opts := f.Options()
	require.Len(t, opts, 3)
	assert.Equal(t, "-- اختر المحافظة --", opts[0].Value, "missing value attribute falls back to text")
	assert.Equal(t, "بغداد", opts[1].Text)
	assert.Equal(t, "bgd", opts[1].Value)

	f.SelectOption(opts[1])
	assert.Equal(t, "bgd", f.Value())

	// Re-selecting clears the previous choice.
	f.SelectOption(opts[2])
	assert.Equal(t, "bsr", f.Value())
}

func TestFieldOptionsDisabledOptgroup(t *testing.T) {
	const page = `
		<html><body><select name="area">
			<optgroup label="north" disabled>
				<option value="mosul">الموصل</option>
			</optgroup>
			<option value="bgd">بغداد</option>
		</select></body></html>`
	doc := mustParse(t, page, "https://forms.example.com")
	f := fieldByName(t, doc, "area")

	opts := f.Options()
	require.Len(t, opts, 2)
	assert.True(t, opts[0].Disabled, "option inherits optgroup disabled state")
	assert.False(t, opts[1].Disabled)
}

func TestDispatchFilledEventSequence(t *testing.T) {
	doc := mustParse(t, orderFormHTML, "https://forms.example.com")
	f := fieldByName(t, doc, "phone")

	var onTarget, onAncestor []string
	for _, eventType := range []string{"input", "change", "blur", "keyup"} {
		doc.AddEventListener(f.Node, eventType, func(e dom.Event) {
			onTarget = append(onTarget, e.Type)
		})
	}
	form, err := doc.QueryOne(`//form[@id="order"]`)
	require.NoError(t, err)
	doc.AddEventListener(form, "change", func(e dom.Event) {
		onAncestor = append(onAncestor, e.Type)
		assert.Equal(t, f.Node, e.Target)
		assert.Equal(t, form, e.CurrentTarget)
		assert.True(t, e.Bubbles)
	})

	f.SetValue("07701234567")
	f.DispatchFilled()

	assert.Equal(t, []string{"input", "change", "blur", "keyup"}, onTarget,
		"event order is part of the fill contract")
	assert.Equal(t, []string{"change"}, onAncestor, "events bubble to ancestors")
}
