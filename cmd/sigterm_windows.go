package main

import "syscall"

// SIGTERM is never delivered on windows but keeps signal.Notify happy.
const SIGTERM = syscall.SIGTERM
