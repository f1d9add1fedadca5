// Copyright © 2014-2017 Lawrence E. Bakst. All rights reserved.

package cuckoo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedSources(t *testing.T) {
	a, b := NewSeedSource(9), NewSeedSource(9)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}

	for _, src := range []SeedSource{randomSeedSource(), FastSeedSource()} {
		seen := make(map[uint64]bool)
		for i := 0; i < 100; i++ {
			seen[src.Uint64()] = true
		}
		assert.Greater(t, len(seen), 95)
	}
}

func TestFastSeedSourceMap(t *testing.T) {
	c := newMap(t, 4, 4, WithSeedSource(FastSeedSource()))
	for k := uint32(0); k < 1000; k++ {
		c.Put(u32(k), u32(k))
	}
	assert.Equal(t, 1000, c.Len())
	checkInvariants(t, c)
}
