// Copyright © 2014-2017 Lawrence E. Bakst. All rights reserved.

package cuckoo

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"

	"github.com/detailyang/fastrand-go"
)

// SeedSource supplies the 64 bit seeds for each new table. It does not need to
// be cryptographically strong, only uniform and independent from call to call.
type SeedSource interface {
	Uint64() uint64
}

// NewSeedSource returns a deterministic source. Two maps built with the same
// seed and fed the same operations end up with identical tables.
func NewSeedSource(seed int64) SeedSource {
	return rand.New(rand.NewSource(seed))
}

// randomSeedSource is a math/rand source seeded once from crypto/rand.
// math/rand.Rand is not safe for concurrent use; neither is the map.
func randomSeedSource() SeedSource {
	var rb [8]byte
	if _, err := crand.Read(rb[:]); err != nil {
		panic(err)
	}
	return NewSeedSource(int64(binary.LittleEndian.Uint64(rb[:])))
}

type fastSource struct{}

// FastSeedSource returns a source backed by the runtime's fastrand.
func FastSeedSource() SeedSource {
	return fastSource{}
}

func (fastSource) Uint64() uint64 {
	return uint64(fastrand.FastRand())<<32 | uint64(fastrand.FastRand())
}
