// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfadhel/tawseel-cli/internal/config"
	"github.com/hfadhel/tawseel-cli/internal/observability"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRecordFlagsLoad(t *testing.T) {
	t.Run("flags alone", func(t *testing.T) {
		rf := recordFlags{phoneNumber: "07701234567", province: "بغداد"}
		record, err := rf.load()
		require.NoError(t, err)
		assert.Equal(t, "07701234567", record.PhoneNumber)
		assert.Equal(t, "بغداد", record.Province)
	})

	t.Run("file with flag overrides", func(t *testing.T) {
		path := writeTempFile(t, "record.json",
			`{"code":"TWS-1","phoneNumber":"0770","province":"البصرة"}`)
		rf := recordFlags{file: path, province: "بغداد"}
		record, err := rf.load()
		require.NoError(t, err)
		assert.Equal(t, "TWS-1", record.Code)
		assert.Equal(t, "بغداد", record.Province, "flags override file values")
	})

	t.Run("empty record rejected", func(t *testing.T) {
		rf := recordFlags{}
		_, err := rf.load()
		assert.ErrorContains(t, err, "empty")
	})

	t.Run("bad file", func(t *testing.T) {
		rf := recordFlags{file: writeTempFile(t, "record.json", "not json")}
		_, err := rf.load()
		assert.ErrorContains(t, err, "parsing record file")
	})
}

func TestLoadRecordList(t *testing.T) {
	path := writeTempFile(t, "records.json",
		`[{"code":"A-1","phoneNumber":"0770"},{"code":"A-2","phoneNumber":"0771"}]`)
	records, err := loadRecordList(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "A-2", records[1].Code)

	_, err = loadRecordList(writeTempFile(t, "empty.json", "[]"))
	assert.ErrorContains(t, err, "empty")
}

func TestRootCommandBindsProfilesFlag(t *testing.T) {
	t.Cleanup(observability.ResetForTest)

	profiles := writeTempFile(t, "companies.json", `[
		{
			"id": "alnoor",
			"name": "شركة النور للتوصيل",
			"formUrl": "https://orders.alnoor.example/new",
			"fields": [{"name": "code", "selectors": ["//input[@name='order_ref']"]}]
		}
	]`)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--profiles", profiles, "bookmarklet", "--profile", "alnoor", "--phone", "0770 123 4567"})

	require.NoError(t, rootCmd.Execute())
	require.NotNil(t, appCfg)
	assert.Equal(t, profiles, appCfg.Profiles.Path, "the --profiles flag must reach the resolved config")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out.String()), "javascript:"))
}

func TestBookmarkletCommand(t *testing.T) {
	appCfg = config.NewDefaultConfig()

	cmd := newBookmarkletCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--phone", "0770 123 4567", "--province", "بغداد"})

	require.NoError(t, cmd.Execute())
	uri := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(uri, "javascript:"), "got %q", uri)
	assert.NotContains(t, uri, " ", "the URI must not contain raw spaces")
}

func TestInspectCommand(t *testing.T) {
	appCfg = config.NewDefaultConfig()

	page := writeTempFile(t, "form.html", `<html><body><form>
		<label for="ph">رقم الهاتف</label><input id="ph" name="phone" type="tel">
		<select name="province"><option>بغداد</option></select>
	</form></body></html>`)

	cmd := newInspectCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{page})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "phoneNumber")
	assert.Contains(t, out.String(), "province")
	assert.Contains(t, out.String(), "2 fillable fields")
}
