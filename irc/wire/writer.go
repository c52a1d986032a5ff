// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package wire

import "io"

// AppendLine appends line and the CRLF terminator to dst. The line is
// written as-is: no escaping, no length checks.
func AppendLine(dst []byte, line string) []byte {
	dst = append(dst, line...)
	return append(dst, CRLF...)
}

// WriteLine writes line followed by CRLF to sink in a single Write call.
func WriteLine(line string, sink io.Writer) (err error) {
	_, err = sink.Write(AppendLine(make([]byte, 0, len(line)+len(CRLF)), line))
	return
}
