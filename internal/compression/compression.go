// Package compression provides byte-level codecs for stored analysis
// results.
package compression

import "fmt"

// Algorithm identifies a codec. The value is persisted alongside
// compressed payloads, so existing values must not be renumbered.
type Algorithm uint8

const (
	None Algorithm = iota
	Snappy
)

// Compressor is a symmetric byte codec.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Algorithm() Algorithm
}

// GetCompressor maps an algorithm tag back to its codec.
func GetCompressor(algo Algorithm) (Compressor, error) {
	switch algo {
	case None:
		return &NoneCompressor{}, nil
	case Snappy:
		return NewSnappyCompressor(), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %d", algo)
	}
}

// NoneCompressor passes payloads through unchanged.
type NoneCompressor struct{}

func (*NoneCompressor) Compress(data []byte) ([]byte, error)   { return data, nil }
func (*NoneCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }
func (*NoneCompressor) Algorithm() Algorithm                   { return None }
