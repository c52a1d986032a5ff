// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package flock

import (
	"errors"
)

var (
	CouldntAcquire = errors.New("Couldn't acquire flock (is another ircwire using this transcript?)")
)

// documentation for github.com/gofrs/flock incorrectly claims that
// Flock implements sync.Locker; it does not because the Unlock method
// has a return type (err).
type Flocker interface {
	Unlock() error
}

// NoopFlocker stands in for a lock that was never needed, such as for
// an in-memory transcript.
type NoopFlocker struct{}

func (n NoopFlocker) Unlock() error {
	return nil
}
