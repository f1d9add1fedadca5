// Copyright © 2014 Lawrence E. Bakst. All rights reserved.

// Package cuckoo implements a two table cuckoo hash map for fixed size keys and values.
// Keys and values are opaque byte slices whose lengths are fixed when the map is created.
// Every key has exactly one candidate slot in each of the two tables, chosen by a keyed
// digest with a per table seed pair, so Get and Remove always look at exactly two slots.
// Put evicts occupants back and forth between the tables for at most 2n steps before
// giving up on the current tables, doubling them under fresh seeds and trying again.
//
// The map is not safe for concurrent use.
package cuckoo

import (
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"leb.io/cuckoo/v2/digest"
)

const (
	// InitialCapacity is the default number of slots in each table.
	InitialCapacity = 32
	// DefaultMaxLoadFactor grows the map once more than n/2 keys are stored.
	DefaultMaxLoadFactor = 0.5
)

// Counters. All public but there is also an API to access them.
type Counters struct {
	Elements   int // number of keys currently stored
	Inserts    int // number of puts that added a new key
	Updates    int // number of puts that overwrote a value
	Lookups    int // number of gets
	Hits       int // number of gets that found the key
	Deletes    int // number of removes that found the key
	Bumps      int // number of evictions
	Grows      int // number of times the tables doubled
	Cycles     int // number of eviction chains that ran out of steps
	MaxPathLen int // longest chain of bumps
}

// The main data structure for the cuckoo map.
// Most fields are private but the config and counters are public.
type Cuckoo struct {
	tbs      [2]*table // left and right
	n        int       // slots per table
	Config             // config data
	Counters           // stats
	keyed    digest.Keyed
	src      SeedSource
	log      logr.Logger
	hk, hv   []byte // the homeless pair of an eviction chain
	freed    bool
}

// New creates an empty map for keys of keySize bytes and values of valueSize bytes.
func New(keySize, valueSize int, opts ...Option) (*Cuckoo, error) {
	if keySize <= 0 {
		return nil, errors.Wrapf(ErrKeySize, "%d", keySize)
	}
	if valueSize < 0 {
		return nil, errors.Wrapf(ErrValueSize, "%d", valueSize)
	}
	c := &Cuckoo{
		Config: Config{
			KeySize:         keySize,
			ValueSize:       valueSize,
			InitialCapacity: InitialCapacity,
			MaxLoadFactor:   DefaultMaxLoadFactor,
			DigestName:      digest.Default,
		},
		log: logr.Discard(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	keyed, err := digest.New(c.DigestName)
	if err != nil {
		return nil, errors.Wrap(err, "cuckoo")
	}
	c.keyed = keyed
	if c.src == nil {
		c.src = randomSeedSource()
	}
	c.hk = make([]byte, keySize)
	c.hv = make([]byte, valueSize)
	c.n = c.InitialCapacity
	c.tbs = c.newTables(c.n)
	return c, nil
}

// newTables allocates an empty pair, drawing four seeds.
func (c *Cuckoo) newTables(n int) [2]*table {
	return [2]*table{
		newTable(n, c.KeySize, c.ValueSize, c.src, c.keyed),
		newTable(n, c.KeySize, c.ValueSize, c.src, c.keyed),
	}
}

func (c *Cuckoo) checkKey(key []byte) {
	if c.freed {
		panic(ErrFreed)
	}
	if len(key) != c.KeySize {
		panic(errors.Wrapf(ErrKeySize, "key is %d bytes, want %d", len(key), c.KeySize))
	}
}

func (c *Cuckoo) checkValue(val []byte) {
	if len(val) != c.ValueSize {
		panic(errors.Wrapf(ErrValueSize, "value is %d bytes, want %d", len(val), c.ValueSize))
	}
}

// find probes the left then the right table.
func (c *Cuckoo) find(key []byte) (*table, uint, bool) {
	for _, t := range c.tbs {
		if i := t.index(key); t.match(i, key) {
			return t, i, true
		}
	}
	return nil, 0, false
}

// Get copies the value stored for key into buf and reports whether key was found.
// buf must be ValueSize bytes long. buf is left untouched on a miss.
func (c *Cuckoo) Get(key, buf []byte) bool {
	c.checkKey(key)
	c.checkValue(buf)
	c.Lookups++
	t, i, ok := c.find(key)
	if !ok {
		return false
	}
	copy(buf, t.val(i))
	c.Hits++
	return true
}

// Lookup is Get returning a freshly allocated copy of the value.
func (c *Cuckoo) Lookup(key []byte) ([]byte, bool) {
	buf := make([]byte, c.ValueSize)
	if !c.Get(key, buf) {
		return nil, false
	}
	return buf, true
}

// Remove deletes key and reports whether it was present.
func (c *Cuckoo) Remove(key []byte) bool {
	c.checkKey(key)
	t, i, ok := c.find(key)
	if !ok {
		return false
	}
	t.release(i)
	c.Elements--
	c.Deletes++
	if c.Elements < 0 {
		panic("Remove")
	}
	return true
}

// Put stores val under key, replacing the value if key is already present.
// Both buffers are copied; the map never keeps a reference to them.
func (c *Cuckoo) Put(key, val []byte) {
	c.checkKey(key)
	c.checkValue(val)

	if c.overloaded() {
		c.grow()
	}

	// An overwrite does not change the number of keys.
	if t, i, ok := c.find(key); ok {
		copy(t.val(i), val)
		c.Updates++
		return
	}

	c.Inserts++
	copy(c.hk, key)
	copy(c.hv, val)
	for !c.insert() {
		// The chain cycled and some key, not necessarily this one, is homeless.
		// grow reuses the scratch pair, so hold on to it.
		k := append([]byte(nil), c.hk...)
		v := append([]byte(nil), c.hv...)
		c.Cycles++
		c.log.V(1).Info("eviction chain exhausted", "n", c.n, "elements", c.Elements)
		c.grow()
		copy(c.hk, k)
		copy(c.hv, v)
	}
}

func (c *Cuckoo) overloaded() bool {
	return float64(c.Elements) > float64(c.n)*c.MaxLoadFactor
}

// insert places the pair held in c.hk, c.hv, which must not already be in the map.
// It first tries the key's two slots, then runs the eviction chain: the homeless
// pair goes into its slot in the target table, the occupant becomes homeless and
// the target flips. After 2n steps it gives up and returns false, with whatever
// pair is still homeless left in c.hk, c.hv.
func (c *Cuckoo) insert() bool {
	for _, t := range c.tbs {
		if i := t.index(c.hk); !t.occupied(i) {
			t.store(i, c.hk, c.hv)
			c.Elements++
			return true
		}
	}

	limit := 2 * c.n
	for step := 0; step < limit; step++ {
		t := c.tbs[step&1]
		i := t.index(c.hk)
		if !t.occupied(i) {
			t.store(i, c.hk, c.hv)
			c.Elements++
			c.pathLen(step)
			return true
		}
		t.swap(i, c.hk, c.hv)
		c.Bumps++
	}
	c.pathLen(limit)
	return false
}

func (c *Cuckoo) pathLen(bumps int) {
	if bumps > c.MaxPathLen {
		c.MaxPathLen = bumps
	}
}

// grow doubles the tables under fresh seeds and reinserts every key. The old pair
// is only read, so if a reinsertion cycles the rehash starts over from it at the
// next size up. The old pair is released once the new one is complete.
func (c *Cuckoo) grow() {
	old := c.tbs
	from, n := c.n, c.n
	for {
		n *= 2
		c.Grows++
		if c.rehash(old, n) {
			break
		}
		c.Cycles++
		c.log.V(1).Info("rehash cycled", "n", n)
	}
	c.log.V(1).Info("grow", "from", from, "to", c.n, "elements", c.Elements)
	old[0].free()
	old[1].free()
}

func (c *Cuckoo) rehash(old [2]*table, n int) bool {
	c.tbs = c.newTables(n)
	c.n = n
	c.Elements = 0
	for _, t := range old {
		stopped := t.each(func(key, val []byte) bool {
			copy(c.hk, key)
			copy(c.hv, val)
			return !c.insert()
		})
		if stopped {
			c.tbs[0].free()
			c.tbs[1].free()
			return false
		}
	}
	return true
}

// Free releases both tables. The map cannot be used afterwards.
func (c *Cuckoo) Free() {
	if c.freed {
		return
	}
	for _, t := range c.tbs {
		t.free()
	}
	c.tbs = [2]*table{}
	c.hk, c.hv = nil, nil
	c.Elements = 0
	c.freed = true
}

// Len returns the number of keys in the map.
func (c *Cuckoo) Len() int {
	return c.Elements
}

// Cap returns the number of slots in each table.
func (c *Cuckoo) Cap() int {
	return c.n
}

// LoadFactor returns the fraction of all slots in use.
func (c *Cuckoo) LoadFactor() float64 {
	return float64(c.Elements) / float64(2*c.n)
}

// Map calls iter for every key and value until iter returns true. The order is
// unspecified. The slices alias the tables: they are only valid during the call
// and must not be modified, and iter must not modify the map.
func (c *Cuckoo) Map(iter func(key, val []byte) (stop bool)) {
	if c.freed {
		panic(ErrFreed)
	}
	for _, t := range c.tbs {
		if t.each(iter) {
			return
		}
	}
}

// Get the value of a counter by name.
func (c *Cuckoo) GetCounter(s string) int {
	switch s {
	case "elements":
		return c.Elements
	case "inserts":
		return c.Inserts
	case "updates":
		return c.Updates
	case "lookups":
		return c.Lookups
	case "hits":
		return c.Hits
	case "deletes":
		return c.Deletes
	case "bumps":
		return c.Bumps
	case "grows":
		return c.Grows
	case "cycles":
		return c.Cycles
	case "MaxPathLen":
		return c.MaxPathLen
	case "size":
		return 2 * c.n
	default:
		panic("GetCounter: " + s)
	}
}

// Get the value of a per table counter, t is 0 for left and 1 for right.
func (c *Cuckoo) GetTableCounter(t int, s string) int {
	if t < 0 || t >= len(c.tbs) || c.freed {
		panic("GetTableCounter")
	}
	switch s {
	case "size":
		return c.n
	case "elements":
		return c.tbs[t].elements
	case "bumps":
		return c.tbs[t].bumps
	default:
		panic("GetTableCounter: " + s)
	}
}
