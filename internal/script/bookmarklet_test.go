// internal/script/bookmarklet_test.go
package script_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfadhel/tawseel-cli/internal/script"
)

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"safe characters pass through", "AZaz09-_.!~*'()", "AZaz09-_.!~*'()"},
		{"space", "a b", "a%20b"},
		{"newline", "a\nb", "a%0Ab"},
		{"js punctuation", `{"x":1}`, "%7B%22x%22%3A1%7D"},
		{"arabic is utf-8 percent-encoded", "بغداد", "%D8%A8%D8%BA%D8%AF%D8%A7%D8%AF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, script.EncodeURIComponent(tt.in))
		})
	}
}

func TestBookmarkletRoundTrip(t *testing.T) {
	build, err := script.NewBuilder(nil).Generic(testRecord, script.DefaultOptions())
	require.NoError(t, err)

	uri := script.Bookmarklet(build.Source)
	assert.True(t, strings.HasPrefix(uri, "javascript:"))

	decoded, err := script.DecodeBookmarklet(uri)
	require.NoError(t, err)
	assert.Equal(t, build.Source, decoded,
		"decoding must reproduce the packaged source exactly, record values included")
	assert.Contains(t, decoded, "أحمد محمد")
}

func TestDecodeBookmarkletRejectsOtherSchemes(t *testing.T) {
	_, err := script.DecodeBookmarklet("https://example.com/")
	assert.Error(t, err)
}
