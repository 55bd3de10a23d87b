// Package format defines the small value types shared by the wire codec: the
// RAD type-tag byte and the compression backend selector for collator
// output.
package format

// RadType is the single-byte type tag used throughout the RAD wire format for
// tag sections and for selecting the width of variable-width fields (bc, umi,
// length prefixes).
type RadType uint8

const (
	TypeBool RadType = 0
	TypeU8   RadType = 1
	TypeU16  RadType = 2
	TypeU32  RadType = 3
	TypeU64  RadType = 4
	TypeF32  RadType = 5
	TypeF64  RadType = 6
)

func (t RadType) String() string {
	switch t {
	case TypeBool:
		return "Bool"
	case TypeU8:
		return "U8"
	case TypeU16:
		return "U16"
	case TypeU32:
		return "U32"
	case TypeU64:
		return "U64"
	case TypeF32:
		return "F32"
	case TypeF64:
		return "F64"
	default:
		return "Unknown"
	}
}

// IsInt reports whether t is one of the four integer widths decodable by
// DecodeIntTypeTag.
func (t RadType) IsInt() bool {
	switch t {
	case TypeU8, TypeU16, TypeU32, TypeU64:
		return true
	default:
		return false
	}
}

// RadIntID is the width descriptor for a variable-width unsigned integer
// field (bc, umi, or a length prefix). It is the subset of RadType that
// decode_int_type_tag accepts.
type RadIntID uint8

const (
	IntU8  RadIntID = RadIntID(TypeU8)
	IntU16 RadIntID = RadIntID(TypeU16)
	IntU32 RadIntID = RadIntID(TypeU32)
	IntU64 RadIntID = RadIntID(TypeU64)
)

// BytesForType returns the number of bytes used on the wire for this width.
func (id RadIntID) BytesForType() int {
	switch id {
	case IntU8:
		return 1
	case IntU16:
		return 2
	case IntU32:
		return 4
	case IntU64:
		return 8
	default:
		return 0
	}
}

func (id RadIntID) String() string {
	return RadType(id).String()
}

// DecodeIntTypeTag maps a raw type-tag byte to a RadIntID: only 1..=4 are
// valid integer widths, everything else (including Bool, F32, F64) is
// rejected.
func DecodeIntTypeTag(typeID uint8) (RadIntID, bool) {
	switch RadType(typeID) {
	case TypeU8, TypeU16, TypeU32, TypeU64:
		return RadIntID(typeID), true
	default:
		return 0, false
	}
}

// CompressionType selects the backend used by the two-pass collator's
// optional output compression step. It has nothing to do with the RAD wire
// format itself — it only governs the bytes the collator hands to its sink
// writer.
type CompressionType uint8

const (
	CompressionNone        CompressionType = 0x1
	CompressionSnappyFrame CompressionType = 0x2
	CompressionS2          CompressionType = 0x3
	CompressionZstd        CompressionType = 0x4
	CompressionLZ4         CompressionType = 0x5
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionSnappyFrame:
		return "SnappyFrame"
	case CompressionS2:
		return "S2"
	case CompressionZstd:
		return "Zstd"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
