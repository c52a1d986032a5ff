// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package wire

import (
	"bytes"
	"strings"

	"github.com/ergochat/irc-go/ircmsg"
)

var (
	space = []byte{Space}
)

// Message is a single parsed IRC line. It is built once by Parse and
// never modified afterwards; it holds its own copies of the parsed bytes.
type Message struct {
	from    string
	user    string
	host    string
	hasFrom bool
	hasUser bool
	hasHost bool

	command string
	params  []string
	raw     []byte
}

// From returns the nickname or server name from the prefix, if there was one.
func (m Message) From() (from string, present bool) {
	return m.from, m.hasFrom
}

// User returns the user part of the prefix, if there was one.
func (m Message) User() (user string, present bool) {
	return m.user, m.hasUser
}

// Host returns the host part of the prefix, if there was one.
func (m Message) Host() (host string, present bool) {
	return m.host, m.hasHost
}

func (m Message) Command() string {
	return m.command
}

// Params returns a copy of the parameters, trailing parameter included.
func (m Message) Params() []string {
	if len(m.params) == 0 {
		return nil
	}
	result := make([]string, len(m.params))
	copy(result, m.params)
	return result
}

// Param returns the i'th parameter, or "" if there are not that many.
func (m Message) Param(i int) string {
	if i < 0 || len(m.params) <= i {
		return ""
	}
	return m.params[i]
}

// Trailing returns the last parameter, or "" if there are none.
func (m Message) Trailing() string {
	if len(m.params) == 0 {
		return ""
	}
	return m.params[len(m.params)-1]
}

// Raw returns a copy of the bytes the message was parsed from.
func (m Message) Raw() []byte {
	result := make([]byte, len(m.raw))
	copy(result, m.raw)
	return result
}

func (m Message) String() string {
	return string(m.raw)
}

// Source reassembles the prefix as name[!user][@host], or returns ""
// if the message had no prefix.
func (m Message) Source() string {
	if !m.hasFrom {
		return ""
	}
	var out strings.Builder
	out.Grow(len(m.from) + len(m.user) + len(m.host) + 2)
	out.WriteString(m.from)
	if m.hasUser {
		out.WriteByte(ExclamationMark)
		out.WriteString(m.user)
	}
	if m.hasHost {
		out.WriteByte(AtSign)
		out.WriteString(m.host)
	}
	return out.String()
}

// IRCMsg converts the message into an ircmsg.Message, e.g. to reserialize it.
func (m Message) IRCMsg() ircmsg.Message {
	return ircmsg.MakeMessage(nil, m.Source(), m.command, m.Params()...)
}

// ParseString is Parse for a line already held as a string.
func ParseString(line string) Message {
	return Parse([]byte(line))
}

// Parse builds a Message from one line of input, with or without its
// terminator. It never fails: malformed input degrades to the closest
// field split, and an empty line yields an empty command.
func Parse(payload []byte) (msg Message) {
	msg.raw = make([]byte, len(payload))
	copy(msg.raw, payload)

	r := NewCursor(payload)
	msg.parsePrefix(r)
	msg.parseCommand(r)
	return
}

func (m *Message) parsePrefix(r *ChunkCursor) {
	if b, ok := r.Peek(); !ok || b != Colon {
		return
	}
	r.Advance(1)

	prefix, ok := r.TryReadTo(space)
	if !ok {
		// no command follows; the whole remainder is the prefix
		prefix = trimTerminator(r.Unread())
		r.AdvanceToEnd()
	}

	if userHost, host, found := bytes.Cut(prefix, []byte{AtSign}); found {
		m.host, m.hasHost = string(host), true
		prefix = userHost
	}
	if from, user, found := bytes.Cut(prefix, []byte{ExclamationMark}); found {
		m.user, m.hasUser = string(user), true
		prefix = from
	}
	m.from, m.hasFrom = string(prefix), true
}

func (m *Message) parseCommand(r *ChunkCursor) {
	rest := r.Unread()
	if bytes.IndexByte(rest, Space) == -1 {
		m.command = string(trimTerminator(rest))
		r.AdvanceToEnd()
		return
	}

	command, _ := r.TryReadTo(space)
	m.command = string(command)

	for {
		token, ok := r.TryReadTo(space)
		if !ok {
			break
		}
		if len(token) != 0 && token[0] == Colon {
			// trailing parameter: runs to the end, spaces and all
			r.Rewind(len(token) + len(space))
			m.params = append(m.params, string(trimTerminator(r.Unread()[1:])))
			r.AdvanceToEnd()
			return
		}
		if len(token) != 0 {
			m.params = append(m.params, string(token))
		}
	}

	if r.Remaining() == 0 {
		return
	}
	last := r.Unread()
	r.AdvanceToEnd()
	if last[0] == Colon {
		m.params = append(m.params, string(trimTerminator(last[1:])))
	} else if last = trimTerminator(last); len(last) != 0 {
		m.params = append(m.params, string(last))
	}
}

// trimTerminator strips a CRLF, CR or LF left at the end of b.
func trimTerminator(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte{LF})
	return bytes.TrimSuffix(b, []byte{CR})
}
