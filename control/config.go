// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Relay configuration: defaults, environment overrides, flag parsing and
// validation of the "<mode> <port>" invocation.

package control

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// DefaultBufferSize is the receive buffer capacity used per read.
	DefaultBufferSize = 8192

	// DefaultBacklog is the listen(2) backlog of the dump endpoint.
	DefaultBacklog = 100

	DefaultLogLevel = "info"

	// StdStream selects stdin for Input and stdout for Output.
	StdStream = "-"
)

// Environment variables consulted for defaults. Flags override them.
const (
	EnvLogLevel    = "STATRELAY_LOG_LEVEL"
	EnvBufferSize  = "STATRELAY_BUFFER_SIZE"
	EnvMetricsAddr = "STATRELAY_METRICS_ADDR"
)

// ErrUsage marks a malformed invocation.
var ErrUsage = errors.New("usage error")

// Mode selects the direction of the relay.
type Mode int

const (
	ModeUnknown Mode = iota
	// ModeLoad streams input records to the collector.
	ModeLoad
	// ModeDump copies received bytes to the output.
	ModeDump
)

func (m Mode) String() string {
	switch m {
	case ModeLoad:
		return "load"
	case ModeDump:
		return "dump"
	}
	return "unknown"
}

// ParseMode matches the first four characters of tok case-insensitively,
// so "DUMP" and "dumpfile" select ModeDump while "dum" is rejected.
func ParseMode(tok string) (Mode, error) {
	if len(tok) >= 4 {
		switch strings.ToLower(tok[:4]) {
		case "dump":
			return ModeDump, nil
		case "load":
			return ModeLoad, nil
		}
	}
	return ModeUnknown, fmt.Errorf("%w: unrecognized mode %q", ErrUsage, tok)
}

// Config holds one run's parameters. It is fixed for the process lifetime.
type Config struct {
	Mode        Mode
	Port        int
	Input       string // load: record source, "-" for stdin
	Output      string // dump: byte sink, "-" for stdout
	BufferSize  int
	Backlog     int
	LogLevel    string
	MetricsAddr string // empty disables the /metrics endpoint
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Input:      StdStream,
		Output:     StdStream,
		BufferSize: DefaultBufferSize,
		Backlog:    DefaultBacklog,
		LogLevel:   DefaultLogLevel,
	}
}

// Usage returns the one-line invocation synopsis.
func Usage(prog string) string {
	return fmt.Sprintf("usage: %s [flags] <'dump'|'load'> <port>", prog)
}

// Parse builds a Config from args (without the program name). lookupEnv may
// be nil. Flag diagnostics go to out. Malformed invocations return an error
// wrapping ErrUsage; -h returns flag.ErrHelp.
func Parse(prog string, args []string, lookupEnv func(string) (string, bool), out io.Writer) (Config, error) {
	cfg := DefaultConfig()
	if err := cfg.applyEnv(lookupEnv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintln(out, Usage(prog))
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.Input, "in", cfg.Input, "load: record source file, '-' for stdin")
	fs.StringVar(&cfg.Output, "out", cfg.Output, "dump: output file, '-' for stdout")
	fs.IntVar(&cfg.BufferSize, "buffer-size", cfg.BufferSize, "dump: bytes read per readiness event")
	fs.IntVar(&cfg.Backlog, "backlog", cfg.Backlog, "dump: listen backlog")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "diagnostic level (debug, info, warn, error)")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 2 {
		return Config{}, fmt.Errorf("%w: expected 2 arguments, got %d", ErrUsage, fs.NArg())
	}

	mode, err := ParseMode(fs.Arg(0))
	if err != nil {
		return Config{}, err
	}
	cfg.Mode = mode

	port, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return Config{}, fmt.Errorf("%w: invalid port %q", ErrUsage, fs.Arg(1))
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) error {
	if lookupEnv == nil {
		return nil
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookupEnv(EnvMetricsAddr); ok {
		c.MetricsAddr = v
	}
	if v, ok := lookupEnv(EnvBufferSize); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrUsage, EnvBufferSize, v)
		}
		c.BufferSize = n
	}
	return nil
}

// Validate checks ranges of all fields.
func (c Config) Validate() error {
	if c.Mode != ModeLoad && c.Mode != ModeDump {
		return fmt.Errorf("%w: mode is not set", ErrUsage)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range 1-65535", ErrUsage, c.Port)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("%w: buffer size must be positive, got %d", ErrUsage, c.BufferSize)
	}
	if c.Backlog <= 0 {
		return fmt.Errorf("%w: backlog must be positive, got %d", ErrUsage, c.Backlog)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed zerolog level.
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log level: %v", ErrUsage, err)
	}
	return lvl, nil
}
