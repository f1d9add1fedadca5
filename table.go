// Copyright © 2014-2017 Lawrence E. Bakst. All rights reserved.

package cuckoo

import (
	"bytes"

	"github.com/willf/bitset"
	"leb.io/cuckoo/v2/digest"
)

// A table is one side of the cuckoo pair. Slot i owns keys[i*ks:(i+1)*ks] and
// vals[i*vs:(i+1)*vs], and it is occupied exactly when bit i of used is set.
// An empty slot's bytes are always zero.
type table struct {
	keys     []byte
	vals     []byte
	used     *bitset.BitSet
	ks, vs   int
	n        uint64
	seed0    uint64
	seed1    uint64
	h        digest.Hasher
	elements int // occupied slots
	bumps    int // evictions out of this table
}

// newTable draws a fresh seed pair for the table from src.
func newTable(n, ks, vs int, src SeedSource, keyed digest.Keyed) *table {
	t := &table{
		keys:  make([]byte, n*ks),
		vals:  make([]byte, n*vs),
		used:  bitset.New(uint(n)),
		ks:    ks,
		vs:    vs,
		n:     uint64(n),
		seed0: src.Uint64(),
		seed1: src.Uint64(),
	}
	t.h = keyed(t.seed0, t.seed1)
	return t
}

func (t *table) index(key []byte) uint {
	return uint(t.h.Hash64(key) % t.n)
}

func (t *table) occupied(i uint) bool {
	return t.used.Test(i)
}

func (t *table) key(i uint) []byte {
	return t.keys[int(i)*t.ks : int(i+1)*t.ks]
}

func (t *table) val(i uint) []byte {
	return t.vals[int(i)*t.vs : int(i+1)*t.vs]
}

func (t *table) match(i uint, key []byte) bool {
	return t.occupied(i) && bytes.Equal(t.key(i), key)
}

func (t *table) store(i uint, key, val []byte) {
	copy(t.key(i), key)
	copy(t.val(i), val)
	t.used.Set(i)
	t.elements++
}

func (t *table) release(i uint) {
	zero(t.key(i))
	zero(t.val(i))
	t.used.Clear(i)
	t.elements--
}

// swap exchanges the occupant of slot i with key and val, which then hold the
// evicted pair.
func (t *table) swap(i uint, key, val []byte) {
	swapBytes(t.key(i), key)
	swapBytes(t.val(i), val)
	t.bumps++
}

// each calls fn for every occupied slot until fn returns true.
// It reports whether fn stopped the walk.
func (t *table) each(fn func(key, val []byte) (stop bool)) bool {
	for i, ok := t.used.NextSet(0); ok; i, ok = t.used.NextSet(i + 1) {
		if fn(t.key(i), t.val(i)) {
			return true
		}
	}
	return false
}

func (t *table) free() {
	t.keys, t.vals, t.used, t.h = nil, nil, nil, nil
	t.elements = 0
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func swapBytes(a, b []byte) {
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}
