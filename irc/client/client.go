// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package client

import (
	"context"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ergochat/irc-go/ircfmt"
	"github.com/ergochat/irc-go/ircmsg"

	"github.com/ergochat/ircwire/irc/config"
	"github.com/ergochat/ircwire/irc/ircconn"
	"github.com/ergochat/ircwire/irc/logger"
	"github.com/ergochat/ircwire/irc/transcript"
	"github.com/ergochat/ircwire/irc/wire"
)

// Handler reacts to one received message. Returning true ends Run.
type Handler func(client *Client, msg wire.Message) (exiting bool)

// Client drives one connection: it registers, answers keepalives, and
// passes every received message to the handlers for its command.
type Client struct {
	conn       ircconn.IRCConn
	config     config.ClientConfig
	logger     *logger.Manager
	transcript *transcript.Store

	writeMutex sync.Mutex // tier 1
	handlers   map[string][]Handler
	nick       atomic.Value
	registered atomic.Bool
}

// New returns a Client over conn. The transcript may be nil.
func New(conn ircconn.IRCConn, config config.ClientConfig, logger *logger.Manager, store *transcript.Store) *Client {
	client := &Client{
		conn:       conn,
		config:     config,
		logger:     logger,
		transcript: store,
		handlers:   make(map[string][]Handler),
	}
	client.nick.Store(config.Nick)
	for command, handler := range defaultHandlers {
		client.Handle(command, handler)
	}
	return client
}

// Handle adds a handler for command. Handlers run in the order they were
// added, on the goroutine calling Run; they must be added before Run.
func (client *Client) Handle(command string, handler Handler) {
	command = strings.ToUpper(command)
	client.handlers[command] = append(client.handlers[command], handler)
}

// Nick returns the nickname we currently hold or are trying for.
func (client *Client) Nick() string {
	return client.nick.Load().(string)
}

// Registered returns whether the server has welcomed us.
func (client *Client) Registered() bool {
	return client.registered.Load()
}

// Register sends the connection registration commands.
func (client *Client) Register() (err error) {
	if client.config.Password != "" {
		if err = client.Send("PASS", client.config.Password); err != nil {
			return
		}
	}
	if err = client.Send("NICK", client.Nick()); err != nil {
		return
	}
	return client.Send("USER", client.config.User, "0", "*", client.config.Realname)
}

// Send serializes a command and its parameters and sends it. The final
// parameter is sent as a trailing parameter if it needs to be.
func (client *Client) Send(command string, params ...string) error {
	msg := ircmsg.MakeMessage(nil, "", command, params...)
	line, err := msg.Line()
	if err != nil {
		return err
	}
	return client.SendLine(strings.TrimSuffix(line, wire.CRLF))
}

// SendLine sends an already-formatted line.
func (client *Client) SendLine(line string) error {
	client.writeMutex.Lock()
	defer client.writeMutex.Unlock()

	logged := redact(line)
	if client.logger.IsLoggingRawIO() {
		client.logger.Debug(logger.TypeUserOutput, ircfmt.Escape(logged))
	}
	client.record(transcript.Outbound, []byte(logged))
	return client.conn.WriteLine(line)
}

// redact hides credentials in a line bound for the log or the transcript.
func redact(line string) string {
	if strings.EqualFold(wire.ParseString(line).Command(), "PASS") {
		return "PASS *****"
	}
	return line
}

func (client *Client) record(direction transcript.Direction, line []byte) {
	if client.transcript == nil {
		return
	}
	if err := client.transcript.Record(direction, line); err != nil {
		client.logger.Warning(logger.TypeTranscript, "could not record line", err.Error())
	}
}

// Run reads and dispatches messages until the server ends the
// connection, a handler asks to exit, or ctx is done. A clean close or
// cancellation returns nil; a stream that ends mid-line returns
// wire.ErrTruncated.
func (client *Client) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// unblock the pending read
			client.conn.Close()
		case <-done:
		}
	}()

	for {
		msg, err := client.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if err == io.EOF {
				client.logger.Info(logger.TypeConnect, "connection closed by server")
				return nil
			}
			client.logger.Error(logger.TypeConnect, "read failed", err.Error())
			return err
		}

		if client.logger.IsLoggingRawIO() {
			client.logger.Debug(logger.TypeUserInput, ircfmt.Escape(msg.String()))
		}
		client.record(transcript.Inbound, msg.Raw())

		if client.dispatch(msg) {
			return nil
		}
	}
}

func (client *Client) dispatch(msg wire.Message) (exiting bool) {
	for _, handler := range client.handlers[strings.ToUpper(msg.Command())] {
		if handler(client, msg) {
			exiting = true
		}
	}
	return
}
