// Package compression frames cached payloads with the algorithm used to
// compress them, so readers never need to know how a writer was configured.
package compression

import (
	"errors"
	"fmt"
)

// Algorithm defines compression types
type Algorithm uint8

const (
	None   Algorithm = 0
	Snappy Algorithm = 1
)

// ErrEmptyFrame is returned when unpacking a payload without a header byte
var ErrEmptyFrame = errors.New("compression: empty frame")

// Compressor interface for compression algorithms
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Algorithm() Algorithm
}

// GetCompressor returns a compressor for the given algorithm
func GetCompressor(algo Algorithm) (Compressor, error) {
	switch algo {
	case None:
		return NoneCompressor{}, nil
	case Snappy:
		return NewSnappyCompressor(), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %d", algo)
	}
}

// NoneCompressor passes data through unchanged
type NoneCompressor struct{}

// Compress returns data unchanged
func (NoneCompressor) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data unchanged
func (NoneCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }

// Algorithm returns None
func (NoneCompressor) Algorithm() Algorithm { return None }

// Pack compresses data with c and prefixes the algorithm byte.
func Pack(c Compressor, data []byte) ([]byte, error) {
	body, err := c.Compress(data)
	if err != nil {
		return nil, err
	}
	frame := make([]byte, 0, len(body)+1)
	frame = append(frame, byte(c.Algorithm()))
	return append(frame, body...), nil
}

// Unpack reads the algorithm byte written by Pack and decompresses the rest.
func Unpack(frame []byte) ([]byte, error) {
	if len(frame) == 0 {
		return nil, ErrEmptyFrame
	}
	c, err := GetCompressor(Algorithm(frame[0]))
	if err != nil {
		return nil, err
	}
	return c.Decompress(frame[1:])
}
