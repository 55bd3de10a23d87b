package shard

import (
	"strconv"

	"github.com/scrnaseq/radcollate/internal/hash"
)

// BucketRouter maps a corrected barcode to a bucket id in [0, numBuckets).
// A caller that already maintains a corrected-id -> bucket table (e.g.
// built alongside the permit list) can supply it directly; otherwise the
// router falls back to a hash of the barcode so assignment is deterministic
// without requiring a precomputed table.
type BucketRouter struct {
	numBuckets uint32
	explicit   map[uint64]uint32
}

// NewBucketRouter creates a router over numBuckets buckets. explicit may be
// nil, in which case every lookup falls back to hashing.
func NewBucketRouter(numBuckets uint32, explicit map[uint64]uint32) *BucketRouter {
	return &BucketRouter{numBuckets: numBuckets, explicit: explicit}
}

// BucketFor returns the bucket id for a corrected barcode.
func (r *BucketRouter) BucketFor(correctedBC uint64) uint32 {
	if r.explicit != nil {
		if id, ok := r.explicit[correctedBC]; ok {
			return id
		}
	}

	return uint32(hash.ID(strconv.FormatUint(correctedBC, 36)) % uint64(r.numBuckets))
}
