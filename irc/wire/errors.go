// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package wire

import "errors"

var (
	// ErrTruncated is reported when the stream ends while a partial
	// message is still buffered.
	ErrTruncated = errors.New("Stream closed with a partial message buffered")
)
