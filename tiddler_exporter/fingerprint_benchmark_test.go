package tiddler_exporter

import (
	"math/rand"
	"strings"
	"testing"
)

func benchmarkContents() []string {
	rng := rand.New(rand.NewSource(42))
	charset := "abcdefghijklmnopqrstuvwxyz ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789(){}\n\t"

	contents := make([]string, 100)
	for i := range contents {
		var sb strings.Builder
		size := rng.Intn(16*1024) + 512
		for j := 0; j < size; j++ {
			sb.WriteByte(charset[rng.Intn(len(charset))])
		}
		contents[i] = sb.String()
	}
	return contents
}

// BenchmarkFingerprint compares the two supported algorithms on source-sized inputs.
func BenchmarkFingerprint(b *testing.B) {
	contents := benchmarkContents()

	b.Run("SHA1", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = SHA1Fingerprint(contents[i%len(contents)])
		}
	})

	b.Run("XXH3", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = XXH3Fingerprint(contents[i%len(contents)])
		}
	})
}

func BenchmarkDecodeContent(b *testing.B) {
	raw := []byte(strings.Repeat("func main() { println(\"héllo\") }\n", 200))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = DecodeContent(raw)
	}
}
