// Copyright © 2014 Lawrence E. Bakst. All rights reserved.

// Package siginfo runs a function each time the process gets SIGINFO (^T on BSD and macOS).
// Linux has no SIGINFO, so there SetHandler does nothing.
package siginfo

import (
	"os"
	"os/signal"
)

// setHandler calls f on every sig until stop is called.
func setHandler(sig os.Signal, f func()) (stop func()) {
	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, sig)

	go func() {
		for {
			select {
			case <-ch:
				f()
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}
