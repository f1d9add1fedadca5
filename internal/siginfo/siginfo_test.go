// Copyright © 2014 Lawrence E. Bakst. All rights reserved.

//go:build !windows && !plan9

package siginfo

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	called := make(chan struct{}, 1)
	stop := setHandler(syscall.SIGUSR1, func() {
		select {
		case called <- struct{}{}:
		default:
		}
	})
	defer stop()

	p, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, p.Signal(syscall.SIGUSR1))

	select {
	case <-called:
	case <-time.After(5 * time.Second):
		t.Fatal("handler not called")
	}
}

func TestSetHandlerStop(t *testing.T) {
	stop := SetHandler(func() {})
	require.NotPanics(t, stop)
}
