package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/s2"
)

// SnappyFrameCompressor wraps data in the streaming Snappy frame format
// (RFC: https://github.com/google/snappy/blob/main/framing_format.txt).
//
// The frame format is what a stock Snappy reader on the other end expects. S2's block mode
// (S2Compressor) is not framed and isn't interchangeable with a real Snappy
// reader; s2.WriterSnappyCompat restricts the writer to the subset of the
// frame format plain Snappy readers understand.
type SnappyFrameCompressor struct{}

var _ Codec = (*SnappyFrameCompressor)(nil)

// NewSnappyFrameCompressor creates a new Snappy-frame compressor.
func NewSnappyFrameCompressor() SnappyFrameCompressor {
	return SnappyFrameCompressor{}
}

// Compress wraps data as a single Snappy frame stream.
func (c SnappyFrameCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	w := s2.NewWriter(&buf, s2.WriterSnappyCompat())
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("snappy frame: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("snappy frame: close: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress reads back a Snappy frame stream produced by Compress.
func (c SnappyFrameCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r := s2.NewReader(bytes.NewReader(data))

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("snappy frame: read: %w", err)
	}

	return out, nil
}
