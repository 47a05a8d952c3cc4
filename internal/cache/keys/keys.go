// Package keys builds the Redis keys the coverage store writes under.
package keys

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
)

const (
	prefix         = "moc:"
	maxNameLen     = 120
	fingerprintTag = ":fp"
)

// NormalizeName trims and sanitizes a coverage name. Names that exceed maxNameLen
// are cut and suffixed with a hash of the full name so they stay distinct.
func NormalizeName(name string) (string, error) {
	clean := sanitizeName(strings.Join(strings.Fields(name), " "))
	if clean == "" {
		return "", geoerr.Validation("name", "coverage name is empty")
	}
	if len(clean) > maxNameLen {
		clean = fmt.Sprintf("%s-%016x", clean[:maxNameLen], xxhash.Sum64String(name))
	}
	return clean, nil
}

// MOCKey is the key holding the encoded index of a normalized name.
func MOCKey(name string) string { return prefix + name }

// FingerprintKey holds the fingerprint of whatever MOCKey(name) currently stores.
func FingerprintKey(name string) string { return prefix + name + fingerprintTag }

// Fingerprint hashes an encoded index. Equal indexes encode identically, so equal
// fingerprints identify equal coverages.
func Fingerprint(encoded []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(encoded))
}

// sanitizeName maps a name onto the key alphabet [A-Za-z0-9_.-]: spaces become
// '_', every other rune becomes '-', and repeats of either are squeezed.
func sanitizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev byte
	for _, r := range s {
		c := keyByte(r)
		if (c == '_' || c == '-') && c == prev {
			continue
		}
		b.WriteByte(c)
		prev = c
	}
	return b.String()
}

func keyByte(r rune) byte {
	switch {
	case r == ' ':
		return '_'
	case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'):
		return byte(r)
	default:
		return '-'
	}
}
