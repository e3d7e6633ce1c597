package tiddler_exporter

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/encoding/unicode"
)

// Supported fingerprint algorithms.
const (
	HashSHA1 = "sha1"
	HashXXH3 = "xxh3"
)

// Fingerprinter turns decoded file content into a hex digest.
type Fingerprinter func(content string) string

// SHA1Fingerprint is the default digest of exported content.
func SHA1Fingerprint(content string) string {
	sum := sha1.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

// XXH3Fingerprint is a faster non-cryptographic digest. Tables written with one
// algorithm never match the other, so switching re-exports everything once.
func XXH3Fingerprint(content string) string {
	sum := xxh3.HashString128(content).Bytes()
	return hex.EncodeToString(sum[:])
}

// NewFingerprinter returns the Fingerprinter for algorithm. Empty means sha1.
func NewFingerprinter(algorithm string) (Fingerprinter, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", HashSHA1:
		return SHA1Fingerprint, nil
	case HashXXH3:
		return XXH3Fingerprint, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q (want %s or %s)", algorithm, HashSHA1, HashXXH3)
	}
}

// DecodeContent decodes raw file bytes as UTF-8, replacing invalid sequences
// with U+FFFD.
func DecodeContent(raw []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "�")
	}
	return string(decoded)
}
