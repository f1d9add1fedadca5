// Copyright © 2014 Lawrence E. Bakst. All rights reserved.
// See http://burtleburtle.net/bob/c/lookup8.c and http://burtleburtle.net/bob/hash/evahash.html

package digest

import "encoding/binary"

// The 64-bit golden ratio.
const golden = 0x9e3779b97f4a7c13

// Jenkins' second generation 64 bit hash (lookup8). Bob's version takes one
// 64 bit level; here seed0 is the level and seed1 perturbs the two golden ratio
// registers.
type jenkins264 struct {
	seed0, seed1 uint64
}

func newJenkins264(seed0, seed1 uint64) Hasher {
	return jenkins264{seed0: seed0, seed1: seed1}
}

func mix64(a, b, c uint64) (uint64, uint64, uint64) {
	a -= b
	a -= c
	a ^= c >> 43
	b -= c
	b -= a
	b ^= a << 9
	c -= a
	c -= b
	c ^= b >> 8
	a -= b
	a -= c
	a ^= c >> 38
	b -= c
	b -= a
	b ^= a << 23
	c -= a
	c -= b
	c ^= b >> 5
	a -= b
	a -= c
	a ^= c >> 35
	b -= c
	b -= a
	b ^= a << 49
	c -= a
	c -= b
	c ^= b >> 11
	a -= b
	a -= c
	a ^= c >> 12
	b -= c
	b -= a
	b ^= a << 18
	c -= a
	c -= b
	c ^= b >> 22
	return a, b, c
}

func (j jenkins264) Hash64(k []byte) uint64 {
	length := uint64(len(k))
	a := uint64(golden) ^ j.seed1
	b := uint64(golden) ^ mix(j.seed1)
	c := j.seed0

	for len(k) >= 24 {
		a += binary.LittleEndian.Uint64(k[0:])
		b += binary.LittleEndian.Uint64(k[8:])
		c += binary.LittleEndian.Uint64(k[16:])
		a, b, c = mix64(a, b, c)
		k = k[24:]
	}

	// the first byte of c is reserved for the length
	c += length
	var tail [24]byte
	copy(tail[:], k)
	switch {
	case len(k) > 16:
		c += binary.LittleEndian.Uint64(tail[16:]) << 8
		fallthrough
	case len(k) > 8:
		b += binary.LittleEndian.Uint64(tail[8:])
		fallthrough
	case len(k) > 0:
		a += binary.LittleEndian.Uint64(tail[0:])
	}
	_, _, c = mix64(a, b, c)
	return c
}
