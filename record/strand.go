// Package record implements the ReadRecord/Chunk wire codec: decoding
// mapped-read records from a RAD chunk, with an orientation filter and
// zero-copy header-only reads for callers that only need (bc, umi, na).
package record

// Strand is the expected orientation used to filter alignments while
// decoding a record. There is no ecosystem strand type in scope here, so
// it's a plain enum.
type Strand int8

const (
	StrandUnknown Strand = iota
	StrandForward
	StrandReverse
)

func (s Strand) String() string {
	switch s {
	case StrandUnknown:
		return "Unknown"
	case StrandForward:
		return "Forward"
	case StrandReverse:
		return "Reverse"
	default:
		return "Invalid"
	}
}

// Alignment entry bit layout: top bit is the strand flag, low 31 bits are
// the reference id. The names here describe what each mask actually
// selects, rather than their historical (and confusingly inverted) names.
const (
	maskRefID     uint32 = 0x7FFF_FFFF
	maskStrandBit uint32 = 0x8000_0000
)

func strandOf(entry uint32) Strand {
	if entry&maskStrandBit != 0 {
		return StrandForward
	}

	return StrandReverse
}

func refIDOf(entry uint32) uint32 {
	return entry & maskRefID
}

func encodeEntry(refID uint32, s Strand) uint32 {
	v := refID & maskRefID
	if s == StrandForward {
		v |= maskStrandBit
	}

	return v
}
