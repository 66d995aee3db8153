//go:build windows

package main

import "os"

// shutdownSignals stop a preview batch. Windows only delivers os.Interrupt.
var shutdownSignals = []os.Signal{os.Interrupt}
