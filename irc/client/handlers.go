// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package client

import (
	"strings"

	"github.com/okzk/sdnotify"

	"github.com/ergochat/ircwire/irc/logger"
	"github.com/ergochat/ircwire/irc/wire"
)

const (
	RPL_WELCOME       = "001"
	ERR_NICKNAMEINUSE = "433"
)

var defaultHandlers = map[string]Handler{
	"PING":            pingHandler,
	"ERROR":           errorHandler,
	"NICK":            nickHandler,
	RPL_WELCOME:       welcomeHandler,
	ERR_NICKNAMEINUSE: nickInUseHandler,
}

// PING <token>
func pingHandler(client *Client, msg wire.Message) bool {
	if err := client.SendLine("PONG :" + msg.Trailing()); err != nil {
		client.logger.Error(logger.TypeClient, "could not answer PING", err.Error())
	}
	return false
}

// ERROR :<reason>
func errorHandler(client *Client, msg wire.Message) bool {
	client.logger.Warning(logger.TypeConnect, "server closed the link", msg.Trailing())
	return true
}

// :<old>!<user>@<host> NICK <new>
func nickHandler(client *Client, msg wire.Message) bool {
	from, ok := msg.From()
	if ok && nicksEqual(from, client.Nick()) && msg.Trailing() != "" {
		client.nick.Store(msg.Trailing())
		client.logger.Info(logger.TypeClient, "nickname changed", msg.Trailing())
	}
	return false
}

// 001 <nick> :Welcome ...
func welcomeHandler(client *Client, msg wire.Message) bool {
	if nick := msg.Param(0); nick != "" {
		client.nick.Store(nick)
	}
	client.registered.Store(true)
	client.logger.Info(logger.TypeClient, "registered", client.Nick(), msg.Source())

	if err := sdnotify.Ready(); err != nil {
		client.logger.Debug(logger.TypeClient, "could not notify service manager", err.Error())
	}

	if len(client.config.Autojoin) != 0 {
		if err := client.Send("JOIN", strings.Join(client.config.Autojoin, ",")); err != nil {
			client.logger.Error(logger.TypeClient, "could not autojoin", err.Error())
		}
	}
	return false
}

// 433 * <nick> :Nickname is already in use
func nickInUseHandler(client *Client, msg wire.Message) bool {
	// once registered, a failed NICK just leaves us where we were
	if client.Registered() {
		return false
	}
	nick := client.Nick() + "_"
	client.nick.Store(nick)
	if err := client.Send("NICK", nick); err != nil {
		client.logger.Error(logger.TypeClient, "could not retry nickname", err.Error())
	}
	return false
}
