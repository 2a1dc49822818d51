// internal/script/bookmarklet.go
package script

import (
	"fmt"
	"net/url"
	"strings"
)

const bookmarkletPrefix = "javascript:"

// Bookmarklet renders a packaged script as a javascript: URI suitable for a
// bookmark target. The source is escaped exactly the way the browser's
// encodeURIComponent does, so decoding the URI reproduces the source
// byte for byte.
func Bookmarklet(source string) string {
	return bookmarkletPrefix + EncodeURIComponent(source)
}

// DecodeBookmarklet reverses Bookmarklet, returning the original script.
func DecodeBookmarklet(uri string) (string, error) {
	if !strings.HasPrefix(uri, bookmarkletPrefix) {
		return "", fmt.Errorf("not a javascript: URI")
	}
	return url.PathUnescape(strings.TrimPrefix(uri, bookmarkletPrefix))
}

// EncodeURIComponent escapes a string identically to ECMAScript's
// encodeURIComponent: ASCII letters, digits and - _ . ! ~ * ' ( ) pass
// through, everything else becomes percent-encoded UTF-8 bytes.
func EncodeURIComponent(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isURIComponentSafe(c) {
			sb.WriteByte(c)
		} else {
			sb.WriteString(fmt.Sprintf("%%%02X", c))
		}
	}
	return sb.String()
}

func isURIComponentSafe(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
