// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package wire

import "bytes"

// TryFrame looks for the first CRLF in buf. If there is one, it returns
// the bytes before it and the number of bytes up to and including it,
// which the caller may discard. Otherwise ok is false and the caller
// should wait for more input. A lone CR or LF does not end a line.
func TryFrame(buf []byte) (payload []byte, consumed int, ok bool) {
	end := bytes.Index(buf, crlf)
	if end == -1 {
		return nil, 0, false
	}
	return buf[:end], end + len(crlf), true
}

// TryFrameCursor is TryFrame over a Cursor. On success the cursor is
// left just past the terminator; otherwise it is not moved.
func TryFrameCursor(c Cursor) (payload []byte, ok bool) {
	return c.TryReadTo(crlf)
}

// Framer accumulates bytes from a stream and hands back one parsed
// message per complete line. It is not safe for concurrent use.
type Framer struct {
	buf []byte
	// start of the bytes not yet handed out as messages
	start int
	// end of the region already searched without finding a terminator
	examined int
}

// Feed appends bytes read from the transport.
func (f *Framer) Feed(p []byte) {
	// compact once the consumed prefix is most of the buffer
	if f.start != 0 && len(f.buf) < 2*f.start {
		remaining := copy(f.buf, f.buf[f.start:])
		f.buf = f.buf[:remaining]
		f.examined -= f.start
		f.start = 0
	}
	f.buf = append(f.buf, p...)
}

// Next returns the next complete message, or false if no complete line
// is buffered yet.
func (f *Framer) Next() (msg Message, ok bool) {
	// a CR at the end of the examined region may pair with a new LF
	from := f.examined - 1
	if from < f.start {
		from = f.start
	}
	_, consumed, ok := TryFrame(f.buf[from:])
	if !ok {
		f.examined = len(f.buf)
		return msg, false
	}
	end := from + consumed
	msg = Parse(f.buf[f.start : end-len(crlf)])
	f.start, f.examined = end, end
	if f.start == len(f.buf) {
		f.reset(f.buf[:0])
	}
	return msg, true
}

func (f *Framer) reset(buf []byte) {
	f.buf = buf
	f.start = 0
	f.examined = 0
}

// Buffered returns the number of bytes held that do not yet form a line.
func (f *Framer) Buffered() int {
	return len(f.buf) - f.start
}

// Close releases the buffer. It returns ErrTruncated if a partial line
// was still buffered.
func (f *Framer) Close() (err error) {
	if f.Buffered() != 0 {
		err = ErrTruncated
	}
	f.reset(nil)
	return
}
