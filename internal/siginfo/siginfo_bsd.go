// Copyright © 2014 Lawrence E. Bakst. All rights reserved.

//go:build darwin || freebsd || netbsd || openbsd

package siginfo

import "golang.org/x/sys/unix"

// SetHandler calls f on every SIGINFO until stop is called.
func SetHandler(f func()) (stop func()) {
	return setHandler(unix.SIGINFO, f)
}
