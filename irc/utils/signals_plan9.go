//go:build plan9

// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package utils

import (
	"os"
	"syscall"
)

// ExitSignals are the signals `ircwire run` disconnects and exits on.
// (no SIGQUIT on plan9)
var ExitSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}
