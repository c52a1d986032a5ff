//go:build plan9 || solaris

// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package flock

// gofrs/flock doesn't build on these platforms; transcripts go unlocked.
func TryAcquireFlock(path string) (fl Flocker, err error) {
	return NoopFlocker{}, nil
}
