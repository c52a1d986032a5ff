// Copyright (c) 2026 ircwire contributors
// released under the MIT license

// Package wire frames and parses IRC lines.
//
// Inbound, TryFrame (or a Framer) splits a byte stream on CRLF and Parse
// turns each line into a Message. Outbound, WriteLine appends CRLF to an
// already-formatted command. Parsing never fails; only the end of the
// stream in the middle of a line is reported, as ErrTruncated.
package wire
