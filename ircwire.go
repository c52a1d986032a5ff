// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/docopt/docopt-go"
	"github.com/ergochat/irc-go/ircfmt"
	"golang.org/x/term"

	"github.com/ergochat/ircwire/irc/client"
	"github.com/ergochat/ircwire/irc/config"
	"github.com/ergochat/ircwire/irc/ircconn"
	"github.com/ergochat/ircwire/irc/logger"
	"github.com/ergochat/ircwire/irc/transcript"
	"github.com/ergochat/ircwire/irc/utils"
	"github.com/ergochat/ircwire/irc/wire"
)

// get a password from stdin from the user
func getPasswordFromTerminal() string {
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatal("Error reading password:", err.Error())
	}
	return string(bytePassword)
}

// describe renders one message for `ircwire parse`
func describe(msg wire.Message) string {
	var out strings.Builder
	fmt.Fprintf(&out, "command=%q", ircfmt.Escape(msg.Command()))
	if from, ok := msg.From(); ok {
		fmt.Fprintf(&out, " from=%q", ircfmt.Escape(from))
	}
	if user, ok := msg.User(); ok {
		fmt.Fprintf(&out, " user=%q", ircfmt.Escape(user))
	}
	if host, ok := msg.Host(); ok {
		fmt.Fprintf(&out, " host=%q", ircfmt.Escape(host))
	}
	params := msg.Params()
	for i := range params {
		params[i] = ircfmt.Escape(params[i])
	}
	fmt.Fprintf(&out, " params=%q", params)
	return out.String()
}

// implements the `ircwire parse` command
func doParse(input io.Reader, output io.Writer) error {
	var framer wire.Framer
	buf := make([]byte, 4096)
	for {
		n, err := input.Read(buf)
		framer.Feed(buf[:n])
		for {
			msg, ok := framer.Next()
			if !ok {
				break
			}
			fmt.Fprintln(output, describe(msg))
		}
		if err == io.EOF {
			return framer.Close()
		} else if err != nil {
			return err
		}
	}
}

// implements the `ircwire run` command
func doRun(conf *config.Config, logman *logger.Manager, quiet bool) error {
	if !quiet {
		logman.Info(logger.TypeClient, fmt.Sprintf("%s starting", Ver))
	}

	if conf.Client.PasswordPrompt && conf.Client.Password == "" && term.IsTerminal(int(syscall.Stdin)) {
		fmt.Print("Enter Password: ")
		conf.Client.Password = getPasswordFromTerminal()
		fmt.Print("\n")
	}

	var store *transcript.Store
	if conf.Transcript.Enabled {
		var err error
		store, err = transcript.Open(conf.Transcript.Path)
		if err != nil {
			return fmt.Errorf("could not open transcript: %w", err)
		}
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), utils.ExitSignals...)
	defer stop()

	conn, err := ircconn.Dial(ctx, conf.Client.Address, conf.Limits.ReadQ)
	if err != nil {
		return fmt.Errorf("could not connect to %s: %w", conf.Client.Address, err)
	}
	defer conn.Close()
	logman.Info(logger.TypeConnect, "connected", conf.Client.Address, conn.RemoteAddr().String())

	irc := client.New(conn, conf.Client, logman, store)
	if err := irc.Register(); err != nil {
		return err
	}
	err = irc.Run(ctx)
	if !quiet {
		logman.Info(logger.TypeClient, fmt.Sprintf("%s exiting", Ver))
	}
	return err
}

func main() {
	setVersionString(version, commit)
	usage := `ircwire.
Usage:
	ircwire run [--conf <filename>] [--quiet]
	ircwire parse
	ircwire -h | --help
	ircwire --version
Options:
	--conf <filename>  Configuration file to use [default: ircwire.yaml].
	--quiet            Don't show startup/shutdown lines.
	-h --help          Show this screen.
	--version          Show version.`

	arguments, _ := docopt.ParseArgs(usage, nil, Ver)

	// parse doesn't need a config file
	if arguments["parse"].(bool) {
		if err := doParse(os.Stdin, os.Stdout); err != nil {
			log.Fatal(err.Error())
		}
		return
	}

	configfile := arguments["--conf"].(string)
	conf, err := config.LoadConfig(configfile)
	if err != nil {
		log.Fatal("Config file did not load successfully: ", err.Error())
	}

	logman, err := logger.NewManager(conf.Logging)
	if err != nil {
		log.Fatal("Logger did not load successfully:", err.Error())
	}
	defer logman.Close()

	if arguments["run"].(bool) {
		if err := doRun(conf, logman, arguments["--quiet"].(bool)); err != nil {
			logman.Error(logger.TypeClient, err.Error())
			logman.Close()
			os.Exit(1)
		}
	}
}
