// Copyright © 2014-2017 Lawrence E. Bakst. All rights reserved.

// Package dstest drives a fixed key and value size map through fill, verify,
// probe, delete and churn runs and checks what comes back.
package dstest

import (
	"bytes"
	"math/rand"

	"github.com/alecthomas/binary"
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

// DSTester is what a data structure must provide to be tested.
type DSTester interface {
	Put(key, val []byte)
	Get(key, buf []byte) bool
	Remove(key []byte) bool
	Len() int
	GetCounter(stat string) int
}

// FalsePositive is the bloom filter error rate used to pick absent keys for Probe.
const FalsePositive = 0.001

// return information about what happened during a fill
type FillStats struct {
	Base       int     // first key
	N          int     // keys put
	Load       float64 // elements / size after the fill
	Grows      int
	Cycles     int
	Bumps      int
	MaxPathLen int
	Bpi        float64 // bumps per insert
}

type DSTest struct {
	Seed      int64      // seed used to control the key streams
	FillStats            // stats of the last fill
	I         DSTester   // functions
	R         *rand.Rand // random number generator with no lock
	Log       logr.Logger
	keys      *codec
	vals      *codec
	filter    *bloom.BloomFilter
}

// NewTester returns a tester for i whose keys are keySize bytes and values valueSize bytes.
func NewTester(i DSTester, keySize, valueSize int, seed int64) *DSTest {
	return &DSTest{
		Seed: seed,
		I:    i,
		R:    rand.New(rand.NewSource(seed)),
		Log:  logr.Discard(),
		keys: newCodec(keySize),
		vals: newCodec(valueSize),
	}
}

// A codec writes integers into a fixed size buffer, little endian, using the
// widest of 1, 2, 4 or 8 bytes that fits and zero padding the rest. Integers too
// wide for a small buffer are truncated.
type codec struct {
	width int
	buf   bytes.Buffer
	enc   *binary.Encoder
	out   []byte
}

func newCodec(size int) *codec {
	c := &codec{out: make([]byte, size)}
	for _, w := range []int{8, 4, 2, 1} {
		if w <= size {
			c.width = w
			break
		}
	}
	c.enc = binary.NewEncoder(&c.buf)
	return c
}

// encode returns the encoding of v. The slice is reused by the next call.
func (c *codec) encode(v uint64) []byte {
	c.buf.Reset()
	var err error
	switch c.width {
	case 0:
		return c.out
	case 1:
		err = c.enc.Encode(uint8(v))
	case 2:
		err = c.enc.Encode(uint16(v))
	case 4:
		err = c.enc.Encode(uint32(v))
	case 8:
		err = c.enc.Encode(v)
	}
	if err != nil {
		panic(err)
	}
	n := copy(c.out, c.buf.Bytes())
	for i := n; i < len(c.out); i++ {
		c.out[i] = 0
	}
	return c.out
}

// Key returns the key the tester uses for i.
func (d *DSTest) Key(i int) []byte {
	return d.keys.encode(uint64(i))
}

func (d *DSTest) rbetween(a int, b int) int {
	return a + d.R.Intn(b-a+1)
}

func (d *DSTest) remember(key []byte) {
	if d.filter == nil {
		d.filter = bloom.NewWithEstimates(1<<20, FalsePositive)
	}
	d.filter.Add(key)
}

// Fill puts n keys starting at base, or at a random base when random is set.
// The value of the i'th key put is i, counting from 1.
func (d *DSTest) Fill(base, n int, random bool) *FillStats {
	if random {
		base = d.rbetween(1, 1<<29)
	}
	grows, cycles, bumps := d.I.GetCounter("grows"), d.I.GetCounter("cycles"), d.I.GetCounter("bumps")
	inserts := d.I.GetCounter("inserts")

	d.Log.V(1).Info("fill", "base", base, "n", n)
	for i := 0; i < n; i++ {
		key := d.Key(base + i)
		d.I.Put(key, d.vals.encode(uint64(i+1)))
		d.remember(key)
	}

	fs := FillStats{
		Base:       base,
		N:          n,
		Load:       float64(d.I.GetCounter("elements")) / float64(d.I.GetCounter("size")),
		Grows:      d.I.GetCounter("grows") - grows,
		Cycles:     d.I.GetCounter("cycles") - cycles,
		Bumps:      d.I.GetCounter("bumps") - bumps,
		MaxPathLen: d.I.GetCounter("MaxPathLen"),
	}
	if ins := d.I.GetCounter("inserts") - inserts; ins > 0 {
		fs.Bpi = float64(fs.Bumps) / float64(ins)
	}
	d.FillStats = fs
	d.Log.V(1).Info("fill done", "load", fs.Load, "grows", fs.Grows, "cycles", fs.Cycles, "bpi", fs.Bpi)
	return &fs
}

// Verify checks that the n keys from base are present with the values Fill gave them.
func (d *DSTest) Verify(base, n int) error {
	buf := make([]byte, len(d.vals.out))
	for i := 0; i < n; i++ {
		if !d.I.Get(d.Key(base+i), buf) {
			return errors.Errorf("verify: key %d missing", base+i)
		}
		if want := d.vals.encode(uint64(i + 1)); !bytes.Equal(buf, want) {
			return errors.Errorf("verify: key %d has %x want %x", base+i, buf, want)
		}
	}
	return nil
}

// Probe looks up n random keys that were never put and checks each one misses.
// Keys the bloom filter of put keys might contain are skipped. It returns the
// number of keys actually probed.
func (d *DSTest) Probe(n int) (int, error) {
	buf := make([]byte, len(d.vals.out))
	probed := 0
	for i := 0; i < n; i++ {
		key := d.keys.encode(d.R.Uint64())
		if d.filter != nil && d.filter.Test(key) {
			continue
		}
		if d.I.Get(key, buf) {
			return probed, errors.Errorf("probe: absent key %x found", key)
		}
		probed++
	}
	return probed, nil
}

// Delete removes the n keys from base, each of which must be present.
func (d *DSTest) Delete(base, n int) error {
	for i := 0; i < n; i++ {
		if !d.I.Remove(d.Key(base + i)) {
			return errors.Errorf("delete: key %d missing", base+i)
		}
	}
	return nil
}

// Churn runs ops random puts, updates, removes and gets over keys [0, keys)
// and checks every result, and Len, against a Go map. The map must start empty.
func (d *DSTest) Churn(ops, keys int) error {
	model := make(map[int]uint64, keys)
	buf := make([]byte, len(d.vals.out))
	for op := 0; op < ops; op++ {
		k := d.R.Intn(keys)
		switch d.R.Intn(4) {
		case 0, 1:
			v := d.R.Uint64()
			d.I.Put(d.Key(k), d.vals.encode(v))
			d.remember(d.Key(k))
			model[k] = v
		case 2:
			_, present := model[k]
			if d.I.Remove(d.Key(k)) != present {
				return errors.Errorf("churn: op %d remove %d got %v", op, k, !present)
			}
			delete(model, k)
		case 3:
			v, present := model[k]
			if d.I.Get(d.Key(k), buf) != present {
				return errors.Errorf("churn: op %d get %d got %v", op, k, !present)
			}
			if present && !bytes.Equal(buf, d.vals.encode(v)) {
				return errors.Errorf("churn: op %d key %d has %x", op, k, buf)
			}
		}
		if d.I.Len() != len(model) {
			return errors.Errorf("churn: op %d len %d want %d", op, d.I.Len(), len(model))
		}
	}
	return nil
}
