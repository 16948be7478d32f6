package compression

import (
	"bytes"
	"testing"
)

func TestGetCompressor(t *testing.T) {
	for _, algo := range []Algorithm{None, Snappy} {
		c, err := GetCompressor(algo)
		if err != nil {
			t.Fatalf("GetCompressor(%d) failed: %v", algo, err)
		}
		if c.Algorithm() != algo {
			t.Errorf("Expected algorithm %d, got %d", algo, c.Algorithm())
		}
	}

	if _, err := GetCompressor(Algorithm(99)); err == nil {
		t.Error("Expected error for unknown algorithm")
	}
}

func TestNoneCompressor_PassThrough(t *testing.T) {
	c := &NoneCompressor{}
	original := []byte("No compression test data")

	compressed, err := c.Compress(original)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	decompressed, err := c.Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}

	if !bytes.Equal(original, compressed) || !bytes.Equal(original, decompressed) {
		t.Error("NoneCompressor should pass data through unchanged")
	}
}

func BenchmarkSnappyRoundTrip(b *testing.B) {
	compressor := NewSnappyCompressor()

	b.Run("Small", func(b *testing.B) {
		data := []byte(`{"job_id":"a1","status":"completed"}`)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			compressed, _ := compressor.Compress(data)
			_, _ = compressor.Decompress(compressed)
		}
	})

	b.Run("Medium", func(b *testing.B) {
		data := bytes.Repeat([]byte(`{"timestamp":"2024-01-01T00:00:00Z","value":42.5},`), 100)
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			compressed, _ := compressor.Compress(data)
			_, _ = compressor.Decompress(compressed)
		}
	})

	b.Run("Large", func(b *testing.B) {
		data := make([]byte, 1024*1024)
		for i := range data {
			data[i] = byte(i % 256)
		}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			compressed, _ := compressor.Compress(data)
			_, _ = compressor.Decompress(compressed)
		}
	})
}
