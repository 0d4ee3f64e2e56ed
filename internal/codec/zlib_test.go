package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZlib_RoundTrip(t *testing.T) {
	z := NewZlib()

	cases := map[string][]byte{
		"empty":  {},
		"small":  []byte("<html><body>report</body></html>"),
		"binary": {0x00, 0xff, 0x10, 0x80, 0x7f},
		"large":  bytes.Repeat([]byte("student activity report content "), 40000), // > 1MB
	}

	for name, original := range cases {
		t.Run(name, func(t *testing.T) {
			compressed, err := z.Compress(original)
			require.NoError(t, err)

			restored, err := z.Decompress(compressed)
			require.NoError(t, err)

			assert.Equal(t, original, restored)
		})
	}
}

func TestZlib_CompressesRepetitiveContent(t *testing.T) {
	z := NewZlib()

	original := []byte(strings.Repeat("<tr><td>Q1</td><td>saved_code</td></tr>", 1000))
	compressed, err := z.Compress(original)
	require.NoError(t, err)

	assert.Less(t, len(compressed), len(original))
}

func TestZlib_Deterministic(t *testing.T) {
	z := NewZlib()

	data := []byte("the same input must always produce the same stored bytes")
	first, err := z.Compress(data)
	require.NoError(t, err)
	second, err := z.Compress(data)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestZlib_DecompressRejectsCorruptData(t *testing.T) {
	z := NewZlib()

	_, err := z.Decompress([]byte("this was never zlib data"))
	require.Error(t, err)

	var derr *DecompressionError
	assert.ErrorAs(t, err, &derr)

	var cerr *CompressionError
	assert.False(t, errors.As(err, &cerr), "decompression failures must not look like compression failures")
}

func TestZlib_DecompressRejectsTruncatedData(t *testing.T) {
	z := NewZlib()

	compressed, err := z.Compress([]byte("some report content that will be cut short"))
	require.NoError(t, err)
	require.Greater(t, len(compressed), 4)

	_, err = z.Decompress(compressed[:len(compressed)/2])
	require.Error(t, err)

	var derr *DecompressionError
	assert.ErrorAs(t, err, &derr)
}
