package decompress

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/require"
)

const payload = `{"name":"a","size":1}
{"name":"b","size":2}
`

func readAll(r io.Reader) ([]byte, Codec, error) {
	reader, codec, err := NewReader(r)
	if err != nil {
		return nil, codec, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	return data, codec, err
}

func compressWith(t *testing.T, codec Codec, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	var w io.WriteCloser
	switch codec {
	case Zstd:
		encoder, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		w = encoder
	case LZ4:
		w = lz4.NewWriter(&buf)
	case S2:
		w = s2.NewWriter(&buf)
	case Gzip:
		w = gzip.NewWriter(&buf)
	default:
		return data
	}

	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestNewReader(t *testing.T) {
	t.Parallel()

	for _, codec := range []Codec{None, Zstd, LZ4, S2, Gzip} {
		t.Run(string(codec), func(t *testing.T) {
			t.Parallel()

			compressed := compressWith(t, codec, []byte(payload))
			if got := Detect(compressed); got != codec {
				t.Fatalf("Detect() = %s, want %s", got, codec)
			}

			data, detected, err := readAll(bytes.NewReader(compressed))
			require.NoError(t, err)
			require.Equal(t, codec, detected)
			require.Equal(t, payload, string(data))
		})
	}
}

func TestNewReaderShortInput(t *testing.T) {
	t.Parallel()

	data, codec, err := readAll(strings.NewReader("1"))
	require.NoError(t, err)
	require.Equal(t, None, codec)
	require.Equal(t, "1", string(data))

	data, codec, err = readAll(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, None, codec)
	require.Empty(t, data)
}

func TestCorruptInput(t *testing.T) {
	t.Parallel()

	corrupt := append([]byte{0x28, 0xb5, 0x2f, 0xfd}, []byte("not really zstd")...)
	_, _, err := readAll(bytes.NewReader(corrupt))
	require.Error(t, err)
}
