//go:build !(plan9 || solaris)

// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package flock

import (
	"github.com/gofrs/flock"
)

// TryAcquireFlock takes an exclusive advisory lock on path without
// blocking. It fails with CouldntAcquire if someone else holds it.
func TryAcquireFlock(path string) (fl Flocker, err error) {
	f := flock.New(path)
	success, err := f.TryLock()
	if err != nil {
		return nil, err
	} else if !success {
		return nil, CouldntAcquire
	}
	return f, nil
}
