// internal/profile/store_test.go
package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfadhel/tawseel-cli/internal/profile"
)

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "companies.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validProfiles = `[
	{
		"id": "alnoor",
		"name": "شركة النور للتوصيل",
		"formUrl": "https://orders.alnoor.example/new",
		"fields": [
			{"name": "code", "selectors": ["//*[@id='customerCode']"]},
			{"name": "phoneNumber", "selectors": ["//input[@name='phone']"]}
		]
	},
	{
		"id": "alsaree",
		"name": "السريع",
		"formUrl": "https://alsaree.example/entry",
		"isCustomScript": true,
		"autofillScript": "controller.waitForPageLoad(); controller.typeText('#code', {{code}});"
	}
]`

func TestLoad(t *testing.T) {
	store, err := profile.Load(writeProfiles(t, validProfiles), nil)
	require.NoError(t, err)

	assert.Len(t, store.All(), 2)

	p, err := store.Get("alnoor")
	require.NoError(t, err)
	assert.False(t, p.IsCustomScript)
	require.Len(t, p.Fields, 2)
	assert.Equal(t, "code", p.Fields[0].Name)

	custom, err := store.Get("alsaree")
	require.NoError(t, err)
	assert.True(t, custom.IsCustomScript)
	assert.Contains(t, custom.AutofillScript, "{{code}}")
}

func TestLoadRejectsInvalidProfiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing file is an error", "", "reading profiles"},
		{"malformed json", `{not json`, "parsing profiles"},
		{"duplicate ids", `[
			{"id": "x", "formUrl": "https://a.example"},
			{"id": "x", "formUrl": "https://b.example"}
		]`, "duplicate profile id"},
		{"one-of violation", `[
			{"id": "x", "formUrl": "https://a.example",
			 "isCustomScript": true, "autofillScript": "f()",
			 "fields": [{"name": "code", "selectors": ["#c"]}]}
		]`, "mixes a custom script"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			if tt.content == "" {
				path = filepath.Join(t.TempDir(), "missing.json")
			} else {
				path = writeProfiles(t, tt.content)
			}
			_, err := profile.Load(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetUnknown(t *testing.T) {
	store, err := profile.Load(writeProfiles(t, `[]`), nil)
	require.NoError(t, err)

	_, err = store.Get("ghost")
	assert.ErrorIs(t, err, profile.ErrUnknownProfile)
}
