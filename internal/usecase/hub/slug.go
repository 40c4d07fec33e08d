package hub

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode"
)

const (
	slugMaxLen    = 40
	slugSuffixLen = 4
)

// slugify lowers a hub name into a URL-safe slug base. Runs of
// non-alphanumeric characters collapse into single hyphens.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > slugMaxLen {
		slug = strings.Trim(slug[:slugMaxLen], "-")
	}
	if slug == "" {
		slug = "hub"
	}
	return slug
}

// randomSuffix returns a short hex suffix to disambiguate slug collisions
func randomSuffix() string {
	buf := make([]byte, slugSuffixLen/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		return "0000"
	}
	return hex.EncodeToString(buf)
}
