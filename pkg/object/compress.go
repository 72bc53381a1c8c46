package object

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Compression names the codec used for newly written objects.
type Compression string

const (
	CompressionZlib Compression = "zlib"
	CompressionZstd Compression = "zstd"
)

// ParseCompression validates a codec name. An empty name selects zlib.
func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case "", CompressionZlib:
		return CompressionZlib, nil
	case CompressionZstd:
		return CompressionZstd, nil
	default:
		return "", fmt.Errorf("unknown compression %q (want %q or %q)", s, CompressionZlib, CompressionZstd)
	}
}

// zstdFrameMagic contains the first 4 bytes of any zstd frame.
var zstdFrameMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// compressor encodes objects with the configured codec and decodes either
// codec, so changing the setting never strands existing objects.
type compressor struct {
	kind    Compression
	level   int
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// newCompressor builds a compressor. level 0 selects the codec default;
// zlib accepts 1..9 and zstd 1..4 (fastest..best).
func newCompressor(kind Compression, level int) (*compressor, error) {
	c := &compressor{kind: kind, level: level}

	switch kind {
	case CompressionZlib:
		if level == 0 {
			c.level = zlib.DefaultCompression
		} else if level < zlib.BestSpeed || level > zlib.BestCompression {
			return nil, fmt.Errorf("zlib compression level %d out of range 1..9", level)
		}
	case CompressionZstd:
		encLevel := zstd.SpeedDefault
		if level != 0 {
			if level < int(zstd.SpeedFastest) || level > int(zstd.SpeedBestCompression) {
				return nil, fmt.Errorf("zstd compression level %d out of range 1..4", level)
			}
			encLevel = zstd.EncoderLevel(level)
		}
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(encLevel),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil, err
		}
		c.encoder = enc
	default:
		return nil, fmt.Errorf("unknown compression %q", kind)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		if c.encoder != nil {
			c.encoder.Close()
		}
		return nil, err
	}
	c.decoder = dec
	return c, nil
}

func (c *compressor) Compress(data []byte) ([]byte, error) {
	if c.kind == CompressionZstd {
		return c.encoder.EncodeAll(data, make([]byte, 0, c.encoder.MaxEncodedSize(len(data)))), nil
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// isZstd checks whether data starts with a zstd frame.
func isZstd(data []byte) bool {
	return len(data) >= len(zstdFrameMagic) && bytes.Equal(data[:len(zstdFrameMagic)], zstdFrameMagic)
}

func (c *compressor) Decompress(data []byte) ([]byte, error) {
	if isZstd(data) {
		return c.decoder.DecodeAll(data, nil)
	}

	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func (c *compressor) Close() error {
	var err error
	if c.encoder != nil {
		err = c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
	return err
}
