//go:build !windows

package main

import "golang.org/x/sys/unix"

// SIGTERM is the termination signal on unix platforms.
const SIGTERM = unix.SIGTERM
