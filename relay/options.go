// File: relay/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package relay

import (
	"github.com/momentics/statrelay/api"
	"github.com/momentics/statrelay/control"
	"github.com/momentics/statrelay/internal/transport"
	"github.com/momentics/statrelay/reactor"
	"github.com/rs/zerolog"
)

type settings struct {
	sockets    api.SocketFactory
	reactors   api.ReactorFactory
	log        zerolog.Logger
	metrics    *control.MetricsRegistry
	bufferSize int
	backlog    int
}

func defaultSettings() settings {
	return settings{
		sockets:    transport.Loopback{},
		reactors:   reactor.Factory,
		log:        zerolog.Nop(),
		bufferSize: control.DefaultBufferSize,
		backlog:    control.DefaultBacklog,
	}
}

func buildSettings(opts []Option) settings {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option customizes a Sender or Receiver.
type Option func(*settings)

// WithSocketFactory replaces the loopback socket factory.
func WithSocketFactory(f api.SocketFactory) Option {
	return func(s *settings) {
		s.sockets = f
	}
}

// WithReactorFactory replaces the epoll reactor factory.
func WithReactorFactory(f api.ReactorFactory) Option {
	return func(s *settings) {
		s.reactors = f
	}
}

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) {
		s.log = l
	}
}

// WithMetrics records counters into m.
func WithMetrics(m *control.MetricsRegistry) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// WithBufferSize sets the receive buffer capacity. Non-positive values keep
// the default.
func WithBufferSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.bufferSize = n
		}
	}
}

// WithBacklog sets the listen backlog. Non-positive values keep the default.
func WithBacklog(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.backlog = n
		}
	}
}
