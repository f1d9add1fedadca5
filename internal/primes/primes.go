// Copyright © 2014 Lawrence E. Bakst. All rights reserved.

// Package primes finds primes for table sizes.
package primes

// small primes used to sieve before the 6k±1 wheel takes over
var pt = []int{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

// IsPrime reports whether n is prime.
func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	for _, p := range pt {
		if n == p {
			return true
		}
		if n%p == 0 {
			return false
		}
	}
	for k := 41; k*k <= n; k += 6 {
		if n%k == 0 || n%(k+2) == 0 {
			return false
		}
	}
	return true
}

// NextPrime returns the smallest prime >= n.
func NextPrime(n int) int {
	if n <= 2 {
		return 2
	}
	if n%2 == 0 {
		n++
	}
	for !IsPrime(n) {
		n += 2
	}
	return n
}
