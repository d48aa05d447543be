package compression

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage() []byte {
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < 200; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"data":"2025-05-10T08:00:00","frequenciaMedia":72}`)
	}
	b.WriteString("]")
	return []byte(b.String())
}

func TestSnappyCompressor_RoundTrip(t *testing.T) {
	compressor := NewSnappyCompressor()
	original := samplePage()

	compressed, err := compressor.Compress(original)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(original))

	decompressed, err := compressor.Decompress(compressed)
	require.NoError(t, err)
	if !bytes.Equal(original, decompressed) {
		t.Error("decompressed data does not match original")
	}
}

func TestSnappyCompressor_EmptyData(t *testing.T) {
	compressor := NewSnappyCompressor()

	compressed, err := compressor.Compress(nil)
	require.NoError(t, err)
	assert.Empty(t, compressed)

	decompressed, err := compressor.Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, decompressed)
}

func TestSnappyCompressor_CorruptData(t *testing.T) {
	_, err := NewSnappyCompressor().Decompress([]byte{0xff, 0xff, 0xff, 0xff, 0x01})
	assert.Error(t, err)
}

func TestPackUnpack(t *testing.T) {
	original := samplePage()

	for _, algo := range []Algorithm{None, Snappy} {
		c, err := GetCompressor(algo)
		require.NoError(t, err)

		frame, err := Pack(c, original)
		require.NoError(t, err)
		assert.Equal(t, byte(algo), frame[0])

		out, err := Unpack(frame)
		require.NoError(t, err)
		assert.Equal(t, original, out)
	}
}

func TestUnpack_Errors(t *testing.T) {
	_, err := Unpack(nil)
	assert.ErrorIs(t, err, ErrEmptyFrame)

	_, err = Unpack([]byte{42, 1, 2})
	assert.Error(t, err)

	_, err = GetCompressor(Algorithm(9))
	assert.Error(t, err)
}
