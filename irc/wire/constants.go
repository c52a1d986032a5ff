// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package wire

const (
	CR              byte = '\r'
	LF              byte = '\n'
	Space           byte = ' '
	Colon           byte = ':'
	AtSign          byte = '@'
	ExclamationMark byte = '!'

	// CRLF terminates every line on the wire, in both directions.
	CRLF = "\r\n"
)

var crlf = []byte(CRLF)
