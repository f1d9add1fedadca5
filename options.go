// Copyright © 2014-2017 Lawrence E. Bakst. All rights reserved.

package cuckoo

import (
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"leb.io/cuckoo/v2/digest"
	"leb.io/cuckoo/v2/internal/primes"
)

var (
	ErrKeySize    = errors.New("cuckoo: bad key size")
	ErrValueSize  = errors.New("cuckoo: bad value size")
	ErrCapacity   = errors.New("cuckoo: bad capacity")
	ErrLoadFactor = errors.New("cuckoo: load factor out of range")
	ErrFreed      = errors.New("cuckoo: map has been freed")
)

// Configuration info for the cuckoo map is collected in this structure.
// It is filled in by New and the options and should be treated as read only.
type Config struct {
	KeySize         int     // length of every key in bytes
	ValueSize       int     // length of every value in bytes, may be 0
	InitialCapacity int     // slots per table when the map is created
	MaxLoadFactor   float64 // grow when Elements > capacity * MaxLoadFactor
	DigestName      string  // name of the digest, see package digest
}

// Option configures a map in New.
type Option func(c *Cuckoo) error

// WithCapacity sets the initial number of slots in each table.
// A negative n asks for the next prime >= -n.
func WithCapacity(n int) Option {
	return func(c *Cuckoo) error {
		if n < 0 {
			n = primes.NextPrime(-n)
		}
		if n < 1 {
			return errors.Wrapf(ErrCapacity, "%d", n)
		}
		c.InitialCapacity = n
		return nil
	}
}

// WithDigest selects the digest by name.
func WithDigest(name string) Option {
	return func(c *Cuckoo) error {
		if _, err := digest.New(name); err != nil {
			return errors.Wrap(err, "cuckoo")
		}
		c.DigestName = name
		return nil
	}
}

// WithSeedSource sets where table seeds come from.
func WithSeedSource(src SeedSource) Option {
	return func(c *Cuckoo) error {
		if src == nil {
			return errors.New("cuckoo: nil seed source")
		}
		c.src = src
		return nil
	}
}

// WithSeed makes table seeds, and therefore slot placement, reproducible.
func WithSeed(seed int64) Option {
	return WithSeedSource(NewSeedSource(seed))
}

// WithMaxLoadFactor sets the growth threshold, 0 < f <= 1.
func WithMaxLoadFactor(f float64) Option {
	return func(c *Cuckoo) error {
		if !(f > 0 && f <= 1) {
			return errors.Wrapf(ErrLoadFactor, "%v", f)
		}
		c.MaxLoadFactor = f
		return nil
	}
}

// WithLogger sets the logger used to report growth.
func WithLogger(l logr.Logger) Option {
	return func(c *Cuckoo) error {
		c.log = l
		return nil
	}
}
