// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package ircconn

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	"github.com/ergochat/ircwire/irc/wire"
)

const (
	// size of a single read from a stream connection
	readChunkSize = 4096

	// websocket subprotocol for plain-text IRC lines
	textSubprotocol = "text.ircv3.net"
)

var (
	ErrReadQ = errors.New("ReadQ Exceeded")
)

// IRCConn abstracts away the distinction between a regular
// net.Conn and a websocket. It doesn't expose Read and Write because
// websockets are message-oriented, not stream-oriented.
type IRCConn interface {
	RemoteAddr() net.Addr

	// ReadMessage blocks until one full message has arrived. At the end
	// of the stream it returns io.EOF, or wire.ErrTruncated if the
	// stream ended partway through a line.
	ReadMessage() (msg wire.Message, err error)
	// WriteLine sends one line; the terminator is added by the conn.
	WriteLine(line string) error
	WriteLines(lines []string) error

	Close() error
}

// IRCStreamConn is an IRCConn over a regular stream connection.
type IRCStreamConn struct {
	conn     net.Conn
	framer   wire.Framer
	buf      []byte
	maxReadQ int
	readErr  error
}

// NewIRCStreamConn wraps conn. If maxReadQBytes is nonzero, ReadMessage
// fails with ErrReadQ once that many bytes are buffered with no line
// terminator among them.
func NewIRCStreamConn(conn net.Conn, maxReadQBytes int) *IRCStreamConn {
	return &IRCStreamConn{
		conn:     conn,
		maxReadQ: maxReadQBytes,
	}
}

func (cc *IRCStreamConn) RemoteAddr() net.Addr {
	return cc.conn.RemoteAddr()
}

func (cc *IRCStreamConn) WriteLine(line string) (err error) {
	return wire.WriteLine(line, cc.conn)
}

func (cc *IRCStreamConn) WriteLines(lines []string) (err error) {
	buffers := make([][]byte, len(lines))
	for i, line := range lines {
		buffers[i] = wire.AppendLine(nil, line)
	}
	// on Linux, with a plaintext TCP or Unix domain socket,
	// the Go runtime will optimize this into a single writev(2) call:
	_, err = (*net.Buffers)(&buffers).WriteTo(cc.conn)
	return
}

func (cc *IRCStreamConn) ReadMessage() (msg wire.Message, err error) {
	// lazy initialize the buffer in case we never read
	if cc.buf == nil {
		cc.buf = make([]byte, readChunkSize)
	}

	for {
		msg, ok := cc.framer.Next()
		if ok {
			return msg, nil
		}
		if cc.readErr != nil {
			if cc.readErr == io.EOF && cc.framer.Close() != nil {
				cc.readErr = wire.ErrTruncated
			}
			return msg, cc.readErr
		}
		if cc.maxReadQ != 0 && cc.maxReadQ < cc.framer.Buffered() {
			return msg, ErrReadQ
		}

		n, err := cc.conn.Read(cc.buf)
		if 0 < n {
			cc.framer.Feed(cc.buf[:n])
		}
		if err != nil {
			// deliver any complete lines before the error
			cc.readErr = err
		}
	}
}

func (cc *IRCStreamConn) Close() (err error) {
	return cc.conn.Close()
}

// IRCWSConn is an IRCConn over a websocket.
type IRCWSConn struct {
	conn *websocket.Conn
}

// NewIRCWSConn wraps conn. If maxReadQBytes is nonzero, it bounds the size
// of a single incoming frame.
func NewIRCWSConn(conn *websocket.Conn, maxReadQBytes int) IRCWSConn {
	if maxReadQBytes != 0 {
		// avoid buffering excessively large messages:
		conn.SetReadLimit(int64(maxReadQBytes))
	}
	return IRCWSConn{conn: conn}
}

func (wc IRCWSConn) RemoteAddr() net.Addr {
	return wc.conn.RemoteAddr()
}

func (wc IRCWSConn) WriteLine(line string) (err error) {
	line = strings.TrimSuffix(line, wire.CRLF)
	// there's not much we can do about this;
	// silently drop the message
	if !utf8.ValidString(line) {
		return nil
	}
	return wc.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (wc IRCWSConn) WriteLines(lines []string) (err error) {
	for _, line := range lines {
		err = wc.WriteLine(line)
		if err != nil {
			return
		}
	}
	return
}

func (wc IRCWSConn) ReadMessage() (msg wire.Message, err error) {
	for {
		messageType, line, err := wc.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				err = io.EOF
			}
			return msg, err
		}
		// one frame is one line; tolerate peers that terminate it anyway
		line = bytes.TrimSuffix(line, []byte(wire.CRLF))
		// on empty message or non-text message, try again, block if necessary
		if messageType == websocket.TextMessage && len(line) != 0 {
			return wire.Parse(line), nil
		}
	}
}

func (wc IRCWSConn) Close() (err error) {
	return wc.conn.Close()
}

// Dial connects to address, which is either host:port for a plain
// stream connection or a ws:// or wss:// URL for a websocket.
func Dial(ctx context.Context, address string, maxReadQBytes int) (IRCConn, error) {
	if strings.HasPrefix(address, "ws://") || strings.HasPrefix(address, "wss://") {
		dialer := websocket.Dialer{
			Proxy:        websocket.DefaultDialer.Proxy,
			Subprotocols: []string{textSubprotocol},
		}
		conn, _, err := dialer.DialContext(ctx, address, nil)
		if err != nil {
			return nil, err
		}
		return NewIRCWSConn(conn, maxReadQBytes), nil
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	return NewIRCStreamConn(conn, maxReadQBytes), nil
}
