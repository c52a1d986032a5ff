// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/ergochat/irc-go/ircmsg"
	"gopkg.in/yaml.v2"

	"github.com/ergochat/ircwire/irc/logger"
)

const (
	// environment variables with this prefix override config keys,
	// e.g. IRCWIRE__CLIENT__NICK=Fredi
	envPrefix = "IRCWIRE__"

	// room for a full line with maximal tags, plus slack
	defaultReadQBytes = ircmsg.MaxlenTags + 512 + 1024

	// would end or corrupt the registration line they're sent in
	lineBreakingChars = "\r\n\x00"
)

// Config Errors
var (
	ErrAddressMissing         = errors.New("Client address missing")
	ErrNickMissing            = errors.New("Client nickname missing")
	ErrNickInvalid            = errors.New("Client nickname may not contain spaces, CR, LF or NUL, or start with ':'")
	ErrClientFieldInvalid     = errors.New("Client user, realname and password may not contain CR, LF or NUL, and user may not contain spaces")
	ErrTranscriptPathMissing  = errors.New("Transcript is enabled but its path is empty")
	ErrLoggerExcludeEmpty     = errors.New("Encountered logging type '-' with no type to exclude")
	ErrLoggerFilenameMissing  = errors.New("Logging configuration specifies 'file' method but 'filename' is empty")
	ErrLoggerHasNoTypes       = errors.New("Logger has no types to log")
	ErrInvalidEnvironmentPair = errors.New("Environment override is not of the form KEY=VALUE")
)

// ClientConfig controls how the client connects and registers.
type ClientConfig struct {
	// host:port, or a ws:// or wss:// URL
	Address        string
	Nick           string
	User           string
	Realname       string
	Password       string
	PasswordPrompt bool `yaml:"password-prompt"`
	Autojoin       []string
}

// Config is the whole of ircwire's configuration file.
type Config struct {
	Client ClientConfig

	Limits struct {
		ReadQString string `yaml:"readq"`
		// parsed from ReadQString; 0 disables the limit
		ReadQ int `yaml:"-"`
	}

	Transcript struct {
		Enabled bool
		Path    string
	}

	Logging []logger.LoggingConfig

	Filename string `yaml:"-"`
}

// LoadRawConfig reads and unmarshals filename without validating it.
func LoadRawConfig(filename string) (config *Config, err error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = new(Config)
	}
	config.Filename = filename
	return config, nil
}

// LoadConfig reads filename, applies environment overrides, validates the
// result and fills in defaults.
func LoadConfig(filename string) (config *Config, err error) {
	config, err = LoadRawConfig(filename)
	if err != nil {
		return nil, err
	}

	for _, envPair := range os.Environ() {
		if _, _, err := mungeFromEnvironment(config, envPair); err != nil {
			return nil, err
		}
	}

	err = config.prepare()
	if err != nil {
		return nil, err
	}
	return config, nil
}

// prepare validates a loaded config and derives its computed fields.
func (config *Config) prepare() (err error) {
	if config.Client.Address == "" {
		return ErrAddressMissing
	}
	if config.Client.Nick == "" {
		return ErrNickMissing
	}
	if strings.ContainsAny(config.Client.Nick, " "+lineBreakingChars) || config.Client.Nick[0] == ':' {
		return ErrNickInvalid
	}
	for _, field := range []string{config.Client.User, config.Client.Realname, config.Client.Password} {
		if strings.ContainsAny(field, lineBreakingChars) {
			return ErrClientFieldInvalid
		}
	}
	if strings.IndexByte(config.Client.User, ' ') != -1 {
		return ErrClientFieldInvalid
	}
	if config.Client.User == "" {
		config.Client.User = config.Client.Nick
	}
	if config.Client.Realname == "" {
		config.Client.Realname = config.Client.Nick
	}

	if config.Limits.ReadQString == "" {
		config.Limits.ReadQ = defaultReadQBytes
	} else {
		readQ, err := bytefmt.ToBytes(config.Limits.ReadQString)
		if err != nil {
			return fmt.Errorf("Could not parse readq limit [%s]: %w", config.Limits.ReadQString, err)
		}
		config.Limits.ReadQ = int(readQ)
	}

	if config.Transcript.Enabled && config.Transcript.Path == "" {
		return ErrTranscriptPathMissing
	}

	var newLogConfigs []logger.LoggingConfig
	for _, logConfig := range config.Logging {
		// methods
		methods := make(map[string]bool)
		for _, method := range strings.Split(logConfig.Method, " ") {
			if len(method) > 0 {
				methods[strings.ToLower(method)] = true
			}
		}
		if methods["file"] && logConfig.Filename == "" {
			return ErrLoggerFilenameMissing
		}
		logConfig.MethodFile = methods["file"]
		logConfig.MethodStdout = methods["stdout"]
		logConfig.MethodStderr = methods["stderr"]

		// levels
		level, exists := logger.LogLevelNames[strings.ToLower(logConfig.LevelString)]
		if !exists {
			return fmt.Errorf("Could not translate log level [%s]", logConfig.LevelString)
		}
		logConfig.Level = level

		// types
		logConfig.Types, logConfig.ExcludedTypes = nil, nil
		for _, typeStr := range strings.Split(logConfig.TypeString, " ") {
			if len(typeStr) == 0 {
				continue
			}
			if typeStr == "-" {
				return ErrLoggerExcludeEmpty
			}
			if typeStr[0] == '-' {
				logConfig.ExcludedTypes = append(logConfig.ExcludedTypes, typeStr[1:])
			} else {
				logConfig.Types = append(logConfig.Types, typeStr)
			}
		}
		if len(logConfig.Types) < 1 {
			return ErrLoggerHasNoTypes
		}

		newLogConfigs = append(newLogConfigs, logConfig)
	}
	config.Logging = newLogConfigs

	return nil
}

// mungeFromEnvironment applies one IRCWIRE__SECTION__KEY=value pair to
// config. The value is parsed as YAML. Underscores within a key
// segment become hyphens, matching the config file's key style.
func mungeFromEnvironment(config *Config, envPair string) (applied bool, name string, err error) {
	if !strings.HasPrefix(envPair, envPrefix) {
		return false, "", nil
	}
	equalsIdx := strings.IndexByte(envPair, '=')
	if equalsIdx == -1 {
		return false, "", ErrInvalidEnvironmentPair
	}
	name, value := envPair[:equalsIdx], envPair[equalsIdx+1:]

	path := strings.Split(strings.TrimPrefix(name, envPrefix), "__")
	for i, segment := range path {
		if segment == "" {
			return false, name, fmt.Errorf("Empty key segment in environment override %s", name)
		}
		path[i] = strings.ReplaceAll(strings.ToLower(segment), "_", "-")
	}

	var parsed interface{}
	if err = yaml.Unmarshal([]byte(value), &parsed); err != nil {
		return false, name, fmt.Errorf("Could not parse value of %s: %w", name, err)
	}
	var override interface{} = parsed
	for i := len(path) - 1; i >= 0; i-- {
		override = map[string]interface{}{path[i]: override}
	}

	// round-trip through YAML so the override lands on the same fields
	// a config file would
	serialized, err := yaml.Marshal(override)
	if err != nil {
		return false, name, err
	}
	if err = yaml.Unmarshal(serialized, config); err != nil {
		return false, name, fmt.Errorf("Could not apply %s: %w", name, err)
	}
	return true, name, nil
}
