// Copyright © 2014 Lawrence E. Bakst. All rights reserved.

package primes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// sieve returns the primes below n the slow way.
func sieve(n int) []bool {
	composite := make([]bool, n)
	for i := 2; i*i < n; i++ {
		if composite[i] {
			continue
		}
		for j := i * i; j < n; j += i {
			composite[j] = true
		}
	}
	return composite
}

func TestIsPrime(t *testing.T) {
	const n = 20000
	composite := sieve(n)
	for i := 0; i < n; i++ {
		want := i >= 2 && !composite[i]
		assert.Equal(t, want, IsPrime(i), "%d", i)
	}
	assert.False(t, IsPrime(-7))
	assert.True(t, IsPrime(1000003))
	assert.False(t, IsPrime(1000001))
}

func TestNextPrime(t *testing.T) {
	tests := []struct{ in, want int }{
		{-5, 2}, {0, 2}, {2, 2}, {3, 3}, {4, 5}, {31, 31}, {32, 37},
		{100, 101}, {1000, 1009}, {1 << 10, 1031},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextPrime(tt.in), "NextPrime(%d)", tt.in)
	}
}
