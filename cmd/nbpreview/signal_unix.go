//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals stop a preview batch before its next notebook. SIGHUP
// covers a closed terminal during a long pandoc run.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
