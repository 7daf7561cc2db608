// File: relay/sender.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Client send path: drain one record to the connected socket, re-waiting for
// write readiness after every partial write.

package relay

import "context"

// pendingRecord tracks how much of one record the kernel has accepted.
type pendingRecord struct {
	buf []byte
	off int
}

func (p *pendingRecord) unsent() []byte { return p.buf[p.off:] }
func (p *pendingRecord) done() bool     { return p.off >= len(p.buf) }

// advance moves the offset by n accepted bytes.
func (p *pendingRecord) advance(n int) {
	p.off += n
	if p.off > len(p.buf) {
		p.off = len(p.buf)
	}
}

// Sender owns the client connection handle.
type Sender struct {
	dialer *Dialer
	h      Handle
	s      settings
}

// NewSender returns a Sender for 127.0.0.1:port. It does not connect until
// the first record is sent.
func NewSender(port int, opts ...Option) *Sender {
	s := buildSettings(opts)
	return &Sender{dialer: newDialer(port, s), s: s}
}

// Handle exposes the connection handle for inspection.
func (s *Sender) Handle() *Handle { return &s.h }

// Send writes every byte of record to the collector, connecting first if the
// handle is invalid. A failed send leaves the handle invalid; the record is
// not retried, the next Send reconnects. ctx is only checked on entry.
func (s *Sender) Send(ctx context.Context, record []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.h.Valid() {
		if err := s.dialer.Open(&s.h); err != nil {
			return err
		}
	}

	p := pendingRecord{buf: record}
	for !p.done() {
		ready, err := s.h.poll.Wait()
		if err != nil {
			return s.fail("wait", err)
		}
		if ready == 0 {
			continue
		}
		n, err := s.h.conn.Write(p.unsent())
		if err != nil {
			return s.fail("write", err)
		}
		s.s.metrics.WriteCall(n)
		if n < len(p.unsent()) {
			s.s.log.Debug().
				Str("conn", s.h.id).
				Int("written", n).
				Int("remaining", len(p.unsent())-n).
				Msg("short write")
		}
		p.advance(n)
	}
	s.s.metrics.RecordSent()
	return nil
}

func (s *Sender) fail(op string, err error) error {
	err = runtimeErr(op, err)
	s.s.log.Error().
		Err(err).
		Str("op", op).
		Str("conn", s.h.id).
		Int("fd", s.h.FD()).
		Msg("send failed, dropping connection")
	s.s.metrics.Error(op)
	s.s.metrics.Disconnected()
	if cerr := s.h.teardown(); cerr != nil {
		s.s.log.Debug().Err(cerr).Msg("teardown")
	}
	return err
}

// Close tears down the handle if it is valid. The Sender stays usable and
// reconnects on the next Send.
func (s *Sender) Close() error {
	if !s.h.Valid() {
		return nil
	}
	s.s.metrics.Disconnected()
	return s.h.teardown()
}

// Connected reports whether the handle is valid.
func (s *Sender) Connected() bool { return s.h.Valid() }
