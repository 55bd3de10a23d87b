// Package barcode implements 2-bit barcode encoding, permit-list loading,
// and BarcodeLookupMap: a prefix-bucketed sorted dictionary supporting exact
// and 1-mismatch neighbor queries over fixed-length 2-bit k-mers.
package barcode

import (
	"bufio"
	"fmt"
	"io"
	"slices"

	"github.com/scrnaseq/radcollate/errs"
)

// Encode2Bit packs a nucleotide sequence into a 2-bit-per-base unsigned
// integer: A=00, C=01, G=10, T=11, with the first base occupying the most
// significant bits. Returns false if seq contains anything outside ACGT
// (case-insensitive).
func Encode2Bit(seq string) (uint64, bool) {
	var v uint64

	for i := 0; i < len(seq); i++ {
		var code uint64

		switch seq[i] {
		case 'A', 'a':
			code = 0
		case 'C', 'c':
			code = 1
		case 'G', 'g':
			code = 2
		case 'T', 't':
			code = 3
		default:
			return 0, false
		}

		v = (v << 2) | code
	}

	return v, true
}

// LoadPermitList reads one barcode per line from r, each exactly bclen
// nucleotides long, and returns their 2-bit-encoded values in the order
// read. A line with the wrong length or a non-ACGT character is a fatal
// error: a permit list is trusted input, not best-effort.
func LoadPermitList(r io.Reader, bclen int) ([]uint64, error) {
	scanner := bufio.NewScanner(r)
	out := make([]uint64, 0, 1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		if len(line) != bclen {
			return nil, fmt.Errorf("%w: got %d nt, want %d", errs.ErrBarcodeLineLength, len(line), bclen)
		}

		v, ok := Encode2Bit(line)
		if !ok {
			return nil, fmt.Errorf("%w: %q", errs.ErrBarcodeLineChar, line)
		}

		out = append(out, v)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	return out, nil
}

// PermitListFromThreshold derives a permit list from an observed barcode
// histogram, keeping every barcode whose count is at least minFreq. This is
// the frequency-based permit-list construction policy; callers that already
// have an external permit-list file should use LoadPermitList instead.
func PermitListFromThreshold(hist map[uint64]uint64, minFreq uint64) []uint64 {
	out := make([]uint64, 0, len(hist))

	for bc, count := range hist {
		if count >= minFreq {
			out = append(out, bc)
		}
	}

	slices.Sort(out)

	return out
}

// BarcodeLookupMap is an immutable, prefix-bucketed sorted dictionary of
// 2-bit-encoded barcodes. It supports exact lookups and 1-mismatch neighbor
// search, and is safe to share read-only across goroutines once built.
type BarcodeLookupMap struct {
	Barcodes  []uint64
	offsets   []int
	bclen     int
	prefixLen int
	suffixLen int
}

// NewBarcodeLookupMap builds a BarcodeLookupMap over kv, sorting it in
// place. bclen is the nucleotide length every entry in kv is assumed to
// encode (≤ 32, so 2·bclen fits in a uint64).
func NewBarcodeLookupMap(kv []uint64, bclen int) *BarcodeLookupMap {
	prefixLen := (bclen + 1) / 2
	suffixLen := bclen - prefixLen
	suffixBits := uint(2 * suffixLen)
	numPrefixes := 1 << uint(2*prefixLen)

	slices.Sort(kv)

	offsets := make([]int, numPrefixes+1)
	prevInd := -1

	for n, v := range kv {
		ind := int(v >> suffixBits)
		if ind != prevInd {
			for item := prevInd + 1; item < ind; item++ {
				offsets[item] = n
			}

			offsets[ind] = n
			prevInd = ind
		}
	}

	for item := prevInd + 1; item < len(offsets); item++ {
		offsets[item] = len(kv)
	}

	return &BarcodeLookupMap{
		Barcodes:  kv,
		offsets:   offsets,
		bclen:     bclen,
		prefixLen: prefixLen,
		suffixLen: suffixLen,
	}
}

// BCLen returns the nucleotide length every barcode in the map encodes.
func (m *BarcodeLookupMap) BCLen() int { return m.bclen }

// FindExact returns the index of an exact match for query, if present.
func (m *BarcodeLookupMap) FindExact(query uint64) (int, bool) {
	suffixBits := uint(2 * m.suffixLen)
	pref := query >> suffixBits

	start, end := m.offsets[pref], m.offsets[pref+1]

	idx, found := slices.BinarySearch(m.Barcodes[start:end], query)
	if !found {
		return 0, false
	}

	return start + idx, true
}

// FindNeighbors searches for an exact or 1-mismatch match for query. It
// returns an exemplar index (unspecified which one, if more than one
// matches) and a count category: 0 = no match, 1 = a unique correction, 2 =
// ambiguous (two or more equally good matches exist). The search stops the
// instant count reaches 2, so a heavily ambiguous query never causes a full
// neighbor enumeration. When count is 0, idx is -1.
func (m *BarcodeLookupMap) FindNeighbors(query uint64, tryExact bool) (idx int, count int) {
	suffixBits := uint(2 * m.suffixLen)
	prefixBits := uint(2 * m.prefixLen)

	if tryExact {
		if i, ok := m.FindExact(query); ok {
			return i, 1
		}
	}

	foundIdx := -1
	numNeighbors := 0

	queryPref := query >> suffixBits
	start, end := m.offsets[queryPref], m.offsets[queryPref+1]

	if start < end {
		for i := uint(0); i < suffixBits; i += 2 {
			mask := uint64(3) << i

			for k := uint64(1); k < 4; k++ {
				nucl := 0x3 & ((query >> i) + k)
				mutated := (query &^ mask) | (nucl << i)

				if j, ok := slices.BinarySearch(m.Barcodes[start:end], mutated); ok {
					foundIdx = start + j
					numNeighbors++

					if numNeighbors >= 2 {
						return foundIdx, numNeighbors
					}
				}
			}
		}
	}

	for i := suffixBits; i < suffixBits+prefixBits; i += 2 {
		mask := uint64(3) << i

		for k := uint64(1); k < 4; k++ {
			nucl := 0x3 & ((query >> i) + k)
			mutated := (query &^ mask) | (nucl << i)

			mPref := mutated >> suffixBits
			mStart, mEnd := m.offsets[mPref], m.offsets[mPref+1]

			if j, ok := slices.BinarySearch(m.Barcodes[mStart:mEnd], mutated); ok {
				foundIdx = mStart + j
				numNeighbors++

				if numNeighbors >= 2 {
					return foundIdx, numNeighbors
				}
			}
		}
	}

	return foundIdx, numNeighbors
}

// CheckInvariants verifies the offsets table is non-decreasing and spans
// the full barcode slice. It exists for tests and debug assertions, not the
// hot lookup path.
func (m *BarcodeLookupMap) CheckInvariants() error {
	if len(m.offsets) == 0 || m.offsets[0] != 0 {
		return fmt.Errorf("%w: offsets[0] must be 0", errs.ErrInvariantViolation)
	}

	if m.offsets[len(m.offsets)-1] != len(m.Barcodes) {
		return fmt.Errorf("%w: offsets[last] must equal len(barcodes)", errs.ErrInvariantViolation)
	}

	for i := 1; i < len(m.offsets); i++ {
		if m.offsets[i] < m.offsets[i-1] {
			return fmt.Errorf("%w: offsets not non-decreasing at index %d", errs.ErrInvariantViolation, i)
		}
	}

	return nil
}
