// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Command statrelay relays opaque newline-delimited records over loopback TCP.
//
//	statrelay [flags] load <port>   read records from stdin and send them to 127.0.0.1:<port>
//	statrelay [flags] dump <port>   listen on 127.0.0.1:<port> and copy received bytes to stdout
//
// Diagnostics go to stderr. Exit status is 0 when load mode reaches the end
// of its input, 1 on any failure or usage error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/momentics/statrelay/control"
	"github.com/momentics/statrelay/relay"
	"github.com/rs/zerolog"
)

const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr, os.LookupEnv))
}

// run is main without process globals.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer, lookupEnv func(string) (string, bool)) int {
	prog := "statrelay"
	if len(args) > 0 {
		prog = filepath.Base(args[0])
		args = args[1:]
	}

	cfg, err := control.Parse(prog, args, lookupEnv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n%s\n", prog, err, control.Usage(prog))
		return exitFailure
	}

	lvl, _ := cfg.Level()
	log := newLogger(stderr, lvl).With().Str("mode", cfg.Mode.String()).Logger()

	metrics := control.NewMetricsRegistry()
	probes := control.NewDebugProbes()
	control.RegisterPlatformProbes(probes)
	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, metrics, log)
		defer stop()
	}

	opts := []relay.Option{
		relay.WithLogger(log),
		relay.WithMetrics(metrics),
		relay.WithBufferSize(cfg.BufferSize),
		relay.WithBacklog(cfg.Backlog),
	}

	ctx := context.Background()
	switch cfg.Mode {
	case control.ModeLoad:
		err = runLoad(ctx, cfg, stdin, log, probes, opts)
	case control.ModeDump:
		err = runDump(ctx, cfg, stdout, log, probes, opts)
	}

	probes.Log(log)
	logSnapshot(log, metrics)
	if err != nil {
		return exitFailure
	}
	return exitOK
}

func newLogger(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func runLoad(ctx context.Context, cfg control.Config, stdin io.Reader, log zerolog.Logger,
	probes *control.DebugProbes, opts []relay.Option) error {
	in := stdin
	if cfg.Input != control.StdStream {
		f, err := os.Open(cfg.Input)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.Input).Msg("unable to open input")
			return err
		}
		defer f.Close()
		in = f
	}

	s := relay.NewSender(cfg.Port, opts...)
	defer s.Close()
	probes.RegisterProbe("relay.handle", func() any { return s.Handle().State() })

	st, err := relay.Load(ctx, in, s)
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Int("records", st.Records).Int64("bytes", st.Bytes).Int("port", cfg.Port).Msg("load finished")
	return err
}

func runDump(ctx context.Context, cfg control.Config, stdout io.Writer, log zerolog.Logger,
	probes *control.DebugProbes, opts []relay.Option) error {
	out := stdout
	if cfg.Output != control.StdStream {
		f, err := os.OpenFile(cfg.Output, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.Output).Msg("unable to open output")
			return err
		}
		defer f.Close()
		out = f
	}

	r := relay.NewReceiver(cfg.Port, out, opts...)
	defer r.Close()
	probes.RegisterProbe("relay.handle", func() any { return r.Handle().State() })

	err := relay.Dump(ctx, r)
	log.Error().Err(err).Int("port", cfg.Port).Msg("dump loop aborted")
	return err
}

// serveMetrics exposes /metrics on addr in the background and returns a
// function shutting the server down.
func serveMetrics(addr string, m *control.MetricsRegistry, log zerolog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	log.Info().Str("addr", addr).Msg("serving metrics")
	return func() { _ = srv.Close() }
}

func logSnapshot(log zerolog.Logger, m *control.MetricsRegistry) {
	snap := m.GetSnapshot()
	fields := make(map[string]any, len(snap))
	for k, v := range snap {
		fields[k] = v
	}
	log.Debug().Fields(fields).Msg("metrics")
}
