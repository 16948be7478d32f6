package compression

import (
	"fmt"

	"github.com/golang/snappy"
)

// SnappyCompressor uses Snappy block encoding. It is the default codec
// for stored analysis results: fast to decode and good enough on JSON.
type SnappyCompressor struct{}

func NewSnappyCompressor() *SnappyCompressor {
	return &SnappyCompressor{}
}

// Compress returns the Snappy encoding of data. Empty input passes
// through untouched so zero-length payloads stay zero-length.
func (*SnappyCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	return snappy.Encode(nil, data), nil
}

// Decompress reverses Compress.
func (*SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decompress failed: %w", err)
	}
	return out, nil
}

func (*SnappyCompressor) Algorithm() Algorithm {
	return Snappy
}
