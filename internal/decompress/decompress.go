// Package decompress transparently unwraps compressed inputs by sniffing
// their magic bytes.
package decompress

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec names a supported compression format.
type Codec string

const (
	None Codec = "none"
	Zstd Codec = "zstd"
	LZ4  Codec = "lz4"
	S2   Codec = "s2"
	Gzip Codec = "gzip"
)

var (
	magicZstd   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4    = []byte{0x04, 0x22, 0x4d, 0x18}
	magicGzip   = []byte{0x1f, 0x8b}
	magicS2     = []byte("\xff\x06\x00\x00S2sTwO")
	magicSnappy = []byte("\xff\x06\x00\x00sNaPpY")
)

// sniffLen is the longest magic prefix.
const sniffLen = 10

// Detect identifies the codec from the first bytes of a stream.
func Detect(prefix []byte) Codec {
	switch {
	case bytes.HasPrefix(prefix, magicZstd):
		return Zstd
	case bytes.HasPrefix(prefix, magicLZ4):
		return LZ4
	case bytes.HasPrefix(prefix, magicS2), bytes.HasPrefix(prefix, magicSnappy):
		return S2
	case bytes.HasPrefix(prefix, magicGzip):
		return Gzip
	default:
		return None
	}
}

// NewReader wraps r in a decompressor when it starts with a known magic
// number, and otherwise returns a reader over the unchanged bytes. Closing
// the result releases decoder resources but never closes r.
func NewReader(r io.Reader) (io.ReadCloser, Codec, error) {
	buffered := bufio.NewReader(r)
	prefix, err := buffered.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, None, fmt.Errorf("sniff compression: %w", err)
	}

	codec := Detect(prefix)
	switch codec {
	case Zstd:
		decoder, err := zstd.NewReader(buffered, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, codec, fmt.Errorf("zstd reader: %w", err)
		}
		return decoder.IOReadCloser(), codec, nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(buffered)), codec, nil
	case S2:
		return io.NopCloser(s2.NewReader(buffered)), codec, nil
	case Gzip:
		reader, err := gzip.NewReader(buffered)
		if err != nil {
			return nil, codec, fmt.Errorf("gzip reader: %w", err)
		}
		return reader, codec, nil
	default:
		return io.NopCloser(buffered), None, nil
	}
}
