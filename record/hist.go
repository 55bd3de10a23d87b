package record

// UpdateBarcodeHist accumulates a barcode→count histogram from chunk,
// counting only reads compatible with expectedOri (StrandUnknown counts
// every read). maxAmbiguityRead is updated to the largest alignment count
// seen across any counted read. This is read-side bookkeeping for permit-list
// construction from raw input, not part of the quantification model.
func UpdateBarcodeHist(hist map[uint64]uint64, maxAmbiguityRead *int, chunk *Chunk, expectedOri Strand) {
	for _, r := range chunk.Reads {
		if !strandCompatible(r, expectedOri) {
			continue
		}

		if len(r.Refs) > *maxAmbiguityRead {
			*maxAmbiguityRead = len(r.Refs)
		}

		hist[r.BC]++
	}
}

// UpdateBarcodeHistUnfiltered is like UpdateBarcodeHist but treats hist as a
// fixed, pre-seeded set of known barcodes: a read whose barcode isn't
// already a key in hist is appended to unmatchedBC instead of inserting a
// new entry. Returns the number of strand-compatible reads processed.
func UpdateBarcodeHistUnfiltered(hist map[uint64]uint64, unmatchedBC *[]uint64, maxAmbiguityRead *int, chunk *Chunk, expectedOri Strand) int {
	numStrandCompat := 0

	for _, r := range chunk.Reads {
		if !strandCompatible(r, expectedOri) {
			continue
		}

		numStrandCompat++

		if len(r.Refs) > *maxAmbiguityRead {
			*maxAmbiguityRead = len(r.Refs)
		}

		if _, ok := hist[r.BC]; ok {
			hist[r.BC]++
		} else {
			*unmatchedBC = append(*unmatchedBC, r.BC)
		}
	}

	return numStrandCompat
}

func strandCompatible(r ReadRecord, expectedOri Strand) bool {
	switch expectedOri {
	case StrandUnknown:
		return true
	case StrandForward:
		return slicesAny(r.Dirs, true)
	case StrandReverse:
		return slicesAny(r.Dirs, false)
	default:
		return false
	}
}

func slicesAny(dirs []bool, want bool) bool {
	for _, d := range dirs {
		if d == want {
			return true
		}
	}

	return false
}
