// Package checksum computes the deterministic digests used for suspect-link
// detection and review tracking.
package checksum

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Content computes the content hash of an item: SHA-256 over the item's
// text, header, lexicographically sorted parent UIDs, and type, joined with
// "|" as the field delimiter, encoded as unpadded URL-safe base64.
//
// Strings are normalized to NFC so the digest is stable across platforms.
// Link hashes, timestamps, and machine-local data never enter the input, so
// the result is identical across machines and clones.
func Content(text, header string, parents []string, typ string) string {
	sorted := make([]string, len(parents))
	copy(sorted, parents)
	sort.Strings(sorted)

	parts := []string{
		norm.NFC.String(text),
		norm.NFC.String(header),
		strings.Join(sorted, ","),
		typ,
	}
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return base64.RawURLEncoding.EncodeToString(h[:])
}

// Sum returns the hex-encoded SHA-256 digest of raw file bytes.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
