// Copyright © 2014-2017 Lawrence E. Bakst. All rights reserved.

package digest

import (
	"github.com/dataence/cityhash"
	"github.com/dchest/siphash"
	"github.com/minio/highwayhash"
	"github.com/shivakar/metrohash"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
)

// SipHash-2-4, both seeds form the 128 bit key.
type sip struct {
	k0, k1 uint64
}

func newSip(seed0, seed1 uint64) Hasher {
	return sip{k0: seed0, k1: seed1}
}

func (s sip) Hash64(b []byte) uint64 {
	return siphash.Hash(s.k0, s.k1, b)
}

// CityHash64 takes two seeds natively.
type city struct {
	seed0, seed1 uint64
}

func newCity(seed0, seed1 uint64) Hasher {
	return city{seed0: seed0, seed1: seed1}
}

func (c city) Hash64(b []byte) uint64 {
	return cityhash.CityHash64WithSeeds(b, uint32(len(b)), c.seed0, c.seed1)
}

// murmur3 only has a 32 bit seed, so the full seed pair is also written as a
// salt ahead of the data.
type murmur struct {
	seed uint32
	salt [16]byte
}

func newMurmur3(seed0, seed1 uint64) Hasher {
	return murmur{seed: uint32(seed0 ^ seed0>>32), salt: seedBytes(seed0, seed1)}
}

func (m murmur) Hash64(b []byte) uint64 {
	h := murmur3.New64WithSeed(m.seed)
	h.Write(m.salt[:])
	h.Write(b)
	return h.Sum64()
}

// HighwayHash wants a 256 bit key; blake3 stretches the 128 bits of seed into one.
type highway struct {
	key [32]byte
}

func newHighway(seed0, seed1 uint64) Hasher {
	s := seedBytes(seed0, seed1)
	return highway{key: blake3.Sum256(s[:])}
}

func (h highway) Hash64(b []byte) uint64 {
	return highwayhash.Sum64(b, h.key[:])
}

// MetroHash64 is unseeded here, the seeds are a salt prefix.
type metro struct {
	salt [16]byte
}

func newMetro(seed0, seed1 uint64) Hasher {
	return metro{salt: seedBytes(seed0, seed1)}
}

func (m metro) Hash64(b []byte) uint64 {
	h := metrohash.NewMetroHash64()
	h.Write(m.salt[:])
	h.Write(b)
	return h.Sum64()
}

// xxh3 takes one 64 bit seed; seed1 is mixed before folding so that pairs which
// differ only in seed1 still pick different functions.
type xx3 struct {
	seed uint64
}

func newXXH3(seed0, seed1 uint64) Hasher {
	return xx3{seed: seed0 ^ mix(seed1)}
}

func (x xx3) Hash64(b []byte) uint64 {
	return xxh3.HashSeed(b, x.seed)
}
