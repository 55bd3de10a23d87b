// Package wire implements the RAD primitive codec: little-endian fixed-width
// integers, floats, and the type-tag byte that every higher-level section,
// record, and barcode type is built from.
package wire

import (
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/scrnaseq/radcollate/endian"
	"github.com/scrnaseq/radcollate/errs"
	"github.com/scrnaseq/radcollate/format"
)

// Reader decodes RAD primitive values from an io.Reader. The wire format is
// always little-endian regardless of host byte order. Callers that read from
// a file should wrap it in a bufio.Reader themselves; Reader does no
// buffering of its own.
type Reader struct {
	r      io.Reader
	engine endian.EndianEngine
	n      int64
	buf    [8]byte
}

// NewReader wraps r for primitive decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, engine: endian.GetLittleEndianEngine()}
}

// BytesRead returns the total number of bytes successfully consumed from
// the underlying reader so far.
func (r *Reader) BytesRead() int64 {
	return r.n
}

func (r *Reader) readFull(n int) ([]byte, error) {
	b := r.buf[:n]
	if _, err := io.ReadFull(r.r, b); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errs.ErrShortRead
		}

		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	r.n += int64(n)

	return b, nil
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.readFull(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.readFull(2)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.readFull(4)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint32(b), nil
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.readFull(8)
	if err != nil {
		return 0, err
	}

	return r.engine.Uint64(b), nil
}

// ReadUint reads a value of the given integer width and zero-extends it to
// uint64. Returns errs.ErrUnknownTypeID if width isn't one of the four
// integer widths.
func (r *Reader) ReadUint(width format.RadIntID) (uint64, error) {
	switch width {
	case format.IntU8:
		v, err := r.ReadU8()
		return uint64(v), err
	case format.IntU16:
		v, err := r.ReadU16()
		return uint64(v), err
	case format.IntU32:
		v, err := r.ReadU32()
		return uint64(v), err
	case format.IntU64:
		return r.ReadU64()
	default:
		return 0, errs.ErrUnknownTypeID
	}
}

// ReadF32 reads a little-endian IEEE 754 single-precision float.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(v), nil
}

// ReadF64 reads a little-endian IEEE 754 double-precision float.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(v), nil
}

// ReadTypeTag reads a single RAD type-tag byte. Returns
// errs.ErrUnknownTypeID if the byte is not a known RadType.
func (r *Reader) ReadTypeTag() (format.RadType, error) {
	v, err := r.ReadU8()
	if err != nil {
		return 0, err
	}

	if format.RadType(v) > format.TypeF64 {
		return 0, errs.ErrUnknownTypeID
	}

	return format.RadType(v), nil
}

// ReadString reads a length-prefixed UTF-8 string whose length prefix has
// the given integer width. Invalid UTF-8 maps to errs.ErrMalformedHeader.
func (r *Reader) ReadString(width format.RadIntID) (string, error) {
	n, err := r.ReadUint(width)
	if err != nil {
		return "", err
	}

	if n == 0 {
		return "", nil
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return "", errs.ErrShortRead
		}

		return "", fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	r.n += int64(len(buf))

	if !utf8.Valid(buf) {
		return "", errs.ErrMalformedHeader
	}

	return string(buf), nil
}
