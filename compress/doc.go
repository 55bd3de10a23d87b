// Package compress provides the pluggable compression backends used by the
// two-pass collator's optional output compression step.
//
// The collation pipeline has exactly one place compression applies: the
// concatenated per-cell regions the two-pass collator produces. This package
// supplies five interchangeable Codec implementations for that single knob:
//
//   - None:        bypass, for incompressible or already-small buckets
//   - SnappyFrame: streaming Snappy-compatible frame format
//   - S2:          block-mode S2 (Snappy's faster, better-compressing cousin)
//   - Zstd:        best ratio, costs more CPU per bucket
//   - LZ4:         fastest decompression, used when read-back latency matters
//     more than on-disk size
//
// Swapping the codec never changes the RAD wire format itself — it only
// changes what bytes follow the two-pass collator's internal buffer on disk,
// and the reader must be told out of band (or via a tag) which one was used.
package compress
