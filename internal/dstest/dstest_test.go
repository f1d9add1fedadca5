// Copyright © 2014-2017 Lawrence E. Bakst. All rights reserved.

package dstest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"leb.io/cuckoo/v2"
)

func newTester(t *testing.T, ks, vs int, opts ...cuckoo.Option) (*cuckoo.Cuckoo, *DSTest) {
	c, err := cuckoo.New(ks, vs, opts...)
	require.NoError(t, err)
	return c, NewTester(c, ks, vs, 1)
}

func TestCodec(t *testing.T) {
	tests := []struct {
		size int
		v    uint64
		want []byte
	}{
		{0, 7, []byte{}},
		{1, 0x1234, []byte{0x34}},
		{3, 0x010203, []byte{0x03, 0x02, 0x00}},
		{4, 0x01020304, []byte{4, 3, 2, 1}},
		{12, 0x0102, []byte{2, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, newCodec(tt.size).encode(tt.v), "size %d", tt.size)
	}
}

func TestFillVerifyDelete(t *testing.T) {
	for _, ks := range []int{4, 8, 16} {
		c, d := newTester(t, ks, 8)
		fs := d.Fill(1, 5000, false)
		assert.Equal(t, 5000, c.Len())
		assert.Equal(t, 1, fs.Base)
		assert.Greater(t, fs.Grows, 0)
		assert.LessOrEqual(t, fs.MaxPathLen, 2*c.Cap())
		assert.InDelta(t, c.LoadFactor(), fs.Load, 1e-9)

		require.NoError(t, d.Verify(fs.Base, fs.N))
		assert.Error(t, d.Verify(fs.Base, fs.N+1))

		probed, err := d.Probe(1000)
		require.NoError(t, err)
		assert.Greater(t, probed, 900)

		require.NoError(t, d.Delete(fs.Base, fs.N))
		assert.Equal(t, 0, c.Len())
		assert.Error(t, d.Delete(fs.Base, 1))
		assert.Error(t, d.Verify(fs.Base, 1))
	}
}

func TestRandomBase(t *testing.T) {
	c, d := newTester(t, 8, 4)
	fs := d.Fill(0, 1000, true)
	assert.GreaterOrEqual(t, fs.Base, 1)
	require.NoError(t, d.Verify(fs.Base, 1000))
	assert.Equal(t, 1000, c.Len())
}

func TestChurn(t *testing.T) {
	_, d := newTester(t, 4, 8, cuckoo.WithDigest("xxh3"))
	require.NoError(t, d.Churn(20000, 3000))

	_, d = newTester(t, 8, 0, cuckoo.WithDigest("j264"))
	require.NoError(t, d.Churn(5000, 500))
}
