// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package wire

import (
	"bytes"
	"sort"
)

// Cursor is a read position over a byte sequence that may be split
// across several discontiguous chunks.
type Cursor interface {
	// TryReadTo returns the bytes between the current position and the
	// next occurrence of delim, and advances past delim. If delim does
	// not occur, it returns false and the position is unchanged.
	TryReadTo(delim []byte) (seq []byte, ok bool)
	// Peek returns the next unread byte without advancing.
	Peek() (b byte, ok bool)
	// Remaining is the number of unread bytes.
	Remaining() int
	// Consumed is the number of bytes read so far.
	Consumed() int
	// Rewind moves the position back by n bytes.
	Rewind(n int)
	// AdvanceToEnd marks every remaining byte as read.
	AdvanceToEnd()
}

// ChunkCursor implements Cursor over a list of chunks. Reads that stay
// within one chunk return subslices of it; reads that span chunks
// return a newly assembled slice.
type ChunkCursor struct {
	chunks [][]byte
	starts []int
	length int
	pos    int
}

// NewCursor returns a cursor over a single contiguous buffer.
func NewCursor(b []byte) *ChunkCursor {
	return NewChunkCursor(b)
}

// NewChunkCursor returns a cursor over the concatenation of chunks.
func NewChunkCursor(chunks ...[]byte) *ChunkCursor {
	c := &ChunkCursor{}
	for _, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		c.chunks = append(c.chunks, chunk)
		c.starts = append(c.starts, c.length)
		c.length += len(chunk)
	}
	return c
}

// chunkOf returns the index of the chunk holding the absolute offset
// abs, or len(c.chunks) if abs is at or past the end.
func (c *ChunkCursor) chunkOf(abs int) int {
	if abs >= c.length {
		return len(c.chunks)
	}
	return sort.Search(len(c.starts), func(i int) bool { return c.starts[i] > abs }) - 1
}

func (c *ChunkCursor) byteAt(abs int) byte {
	i := c.chunkOf(abs)
	return c.chunks[i][abs-c.starts[i]]
}

func (c *ChunkCursor) hasAt(abs int, delim []byte) bool {
	if c.length < abs+len(delim) {
		return false
	}
	for k, b := range delim {
		if c.byteAt(abs+k) != b {
			return false
		}
	}
	return true
}

// indexFrom returns the absolute offset of the first occurrence of delim
// at or after from, or -1.
func (c *ChunkCursor) indexFrom(delim []byte, from int) int {
	if len(delim) == 0 {
		return from
	}
	for i := c.chunkOf(from); i < len(c.chunks); i++ {
		chunk := c.chunks[i]
		off := 0
		if c.starts[i] < from {
			off = from - c.starts[i]
		}
		for off < len(chunk) {
			j := bytes.IndexByte(chunk[off:], delim[0])
			if j == -1 {
				break
			}
			abs := c.starts[i] + off + j
			if c.hasAt(abs, delim) {
				return abs
			}
			off += j + 1
		}
	}
	return -1
}

// slice returns the bytes in [from, to).
func (c *ChunkCursor) slice(from, to int) []byte {
	if from == to {
		return []byte{}
	}
	first, last := c.chunkOf(from), c.chunkOf(to-1)
	if first == last {
		base := c.starts[first]
		return c.chunks[first][from-base : to-base : to-base]
	}
	result := make([]byte, 0, to-from)
	for i := first; i <= last; i++ {
		chunk := c.chunks[i]
		lo, hi := 0, len(chunk)
		if i == first {
			lo = from - c.starts[i]
		}
		if i == last {
			hi = to - c.starts[i]
		}
		result = append(result, chunk[lo:hi]...)
	}
	return result
}

func (c *ChunkCursor) TryReadTo(delim []byte) (seq []byte, ok bool) {
	end := c.indexFrom(delim, c.pos)
	if end == -1 {
		return nil, false
	}
	seq = c.slice(c.pos, end)
	c.pos = end + len(delim)
	return seq, true
}

func (c *ChunkCursor) Peek() (b byte, ok bool) {
	if c.length <= c.pos {
		return 0, false
	}
	return c.byteAt(c.pos), true
}

// Advance skips n unread bytes, stopping at the end.
func (c *ChunkCursor) Advance(n int) {
	c.pos += n
	if c.length < c.pos {
		c.pos = c.length
	}
}

func (c *ChunkCursor) Remaining() int {
	return c.length - c.pos
}

func (c *ChunkCursor) Consumed() int {
	return c.pos
}

func (c *ChunkCursor) Rewind(n int) {
	if c.pos < n {
		panic("wire: rewind past the start of the cursor")
	}
	c.pos -= n
}

func (c *ChunkCursor) AdvanceToEnd() {
	c.pos = c.length
}

// Unread returns the bytes that have not been read yet.
func (c *ChunkCursor) Unread() []byte {
	return c.slice(c.pos, c.length)
}
