// internal/autofill/service_test.go
package autofill_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hfadhel/tawseel-cli/api/schemas"
	"github.com/hfadhel/tawseel-cli/internal/autofill"
	"github.com/hfadhel/tawseel-cli/internal/classify"
	"github.com/hfadhel/tawseel-cli/internal/config"
	"github.com/hfadhel/tawseel-cli/internal/profile"
	"github.com/hfadhel/tawseel-cli/internal/script"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const serviceProfiles = `[
	{
		"id": "alnoor",
		"name": "شركة النور للتوصيل",
		"formUrl": "https://orders.alnoor.example/new",
		"fields": [
			{"name": "code", "selectors": ["//input[@name='order_ref']"]}
		]
	},
	{
		"id": "alsaree",
		"name": "السريع",
		"formUrl": "https://alsaree.example/entry",
		"isCustomScript": true,
		"autofillScript": "document.querySelector('#code').value = {{code}};"
	}
]`

func newService(t *testing.T) *autofill.Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.json")
	require.NoError(t, os.WriteFile(path, []byte(serviceProfiles), 0o644))
	store, err := profile.Load(path, nil)
	require.NoError(t, err)
	return autofill.NewService(config.NewDefaultConfig(), store, nil)
}

var record = schemas.Record{
	Code:        "TWS-100",
	SenderName:  "أحمد محمد",
	PhoneNumber: "0770 123 4567",
	Province:    "بغداد",
	Price:       "25,000 د.ع",
}

func TestBuildScript(t *testing.T) {
	svc := newService(t)

	t.Run("no profile packages the generic engine", func(t *testing.T) {
		build, err := svc.BuildScript("", record, script.DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, script.ModeInlineCall, build.Mode)
		assert.Contains(t, build.Source, "tawseelAutofill(")
	})

	t.Run("custom profile substitutes the template", func(t *testing.T) {
		build, err := svc.BuildScript("alsaree", record, script.DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, script.ModeCustomScript, build.Mode)
		assert.Contains(t, build.Source, `"TWS-100"`)
		assert.NotContains(t, build.Source, "{{code}}")
	})

	t.Run("unknown profile fails", func(t *testing.T) {
		_, err := svc.BuildScript("ghost", record, script.DefaultOptions())
		assert.ErrorIs(t, err, profile.ErrUnknownProfile)
	})
}

func TestBookmarklet(t *testing.T) {
	svc := newService(t)
	uri, err := svc.Bookmarklet("", record, script.DefaultOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "javascript:"))
}

func TestFillDocument(t *testing.T) {
	svc := newService(t)
	page := `<html><body><form>
		<input name="order_ref" placeholder="reference">
		<input name="phone" type="tel">
	</form></body></html>`

	t.Run("heuristic pass", func(t *testing.T) {
		summary, err := svc.FillDocument(strings.NewReader(page), "https://orders.alnoor.example", record, "")
		require.NoError(t, err)
		// "phone" matches by keyword; "order_ref" carries no known signal.
		assert.Equal(t, 1, summary.FilledCount)
		assert.Contains(t, summary.FilledFields, classify.PhoneNumber)
	})

	t.Run("profile hints reach unlabeled fields", func(t *testing.T) {
		summary, err := svc.FillDocument(strings.NewReader(page), "https://orders.alnoor.example", record, "alnoor")
		require.NoError(t, err)
		assert.Equal(t, 2, summary.FilledCount)
		assert.Contains(t, summary.FilledFields, classify.Code)
	})
}
