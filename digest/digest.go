// Copyright © 2014 Lawrence E. Bakst. All rights reserved.

// Package digest provides keyed 64 bit hash functions for the cuckoo tables.
// Every digest takes a byte slice and a pair of 64 bit seeds. Two different seed
// pairs must produce what look like independent hash functions, which is what lets
// the two cuckoo tables disagree about where a key lives.
package digest

import (
	"sort"

	"github.com/pkg/errors"
)

// Default is the digest used when none is named.
const Default = "sip"

var ErrUnknownDigest = errors.New("digest: unknown digest")

// Hasher is a digest bound to one seed pair.
type Hasher interface {
	Hash64(b []byte) uint64
}

// Keyed returns the Hasher for a seed pair.
type Keyed func(seed0, seed1 uint64) Hasher

var registry = map[string]Keyed{
	"sip":     newSip,
	"city":    newCity,
	"murmur3": newMurmur3,
	"highway": newHighway,
	"metro":   newMetro,
	"xxh3":    newXXH3,
	"j264":    newJenkins264,
}

// New returns the digest registered under name.
func New(name string) (Keyed, error) {
	if name == "" {
		name = Default
	}
	k, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownDigest, "%q", name)
	}
	return k, nil
}

// Register adds or replaces a digest. Not safe to call concurrently with New.
func Register(name string, k Keyed) {
	if name == "" || k == nil {
		panic("digest: Register with empty name or nil digest")
	}
	registry[name] = k
}

// Names returns the registered digest names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sum64 computes the digest of b under the seed pair.
func Sum64(k Keyed, b []byte, seed0, seed1 uint64) uint64 {
	return k(seed0, seed1).Hash64(b)
}

// seedBytes lays the two seeds out little endian, used as a salt prefix by the
// digests that only take a single seed or none at all.
func seedBytes(seed0, seed1 uint64) (b [16]byte) {
	for i := 0; i < 8; i++ {
		b[i] = byte(seed0 >> (8 * i))
		b[8+i] = byte(seed1 >> (8 * i))
	}
	return
}

// mix is the splitmix64 finalizer.
func mix(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
