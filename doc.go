// Package radcollate is a thin facade over the RAD file codec: section.RadHeader,
// section.FileTags, and section.TagSection are always read and written
// together in this order at file-open time, so OpenRadHeader and
// WriteRadHeader sequence the three calls once instead of leaving every
// caller to repeat them.
//
// The rest of the pipeline — record decoding, barcode correction, and the
// two collation strategies — lives in the record, barcode, collate, and
// shard packages and is used directly; there is nothing else for this
// package to wrap.
package radcollate
