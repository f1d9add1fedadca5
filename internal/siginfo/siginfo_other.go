// Copyright © 2014 Lawrence E. Bakst. All rights reserved.

//go:build !darwin && !freebsd && !netbsd && !openbsd

package siginfo

// SetHandler is a no-op where there is no SIGINFO.
func SetHandler(f func()) (stop func()) {
	return func() {}
}
