package collate

// CorrectionStats counts per-record soft failures (ambiguous correction,
// unknown barcode) alongside successes, so a caller can report a summary
// without the core logging anything itself.
type CorrectionStats struct {
	Corrected uint64
	Ambiguous uint64
	Unmapped  uint64
}

// RecordCorrected increments the count of records whose barcode was
// successfully corrected (exact match or unique neighbor).
func (s *CorrectionStats) RecordCorrected() { s.Corrected++ }

// RecordAmbiguous increments the count of records dropped because
// find_neighbors reported two or more equally good corrections.
func (s *CorrectionStats) RecordAmbiguous() { s.Ambiguous++ }

// RecordUnmapped increments the count of records whose barcode had no
// correction at all.
func (s *CorrectionStats) RecordUnmapped() { s.Unmapped++ }

// Total returns the number of records this summary has observed.
func (s CorrectionStats) Total() uint64 {
	return s.Corrected + s.Ambiguous + s.Unmapped
}
