// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package relay implements the single-threaded, readiness-driven I/O engine
// of statrelay.
//
// A Sender lazily connects to 127.0.0.1:port and drains one record at a time,
// waiting for write readiness between partial writes. Load feeds it
// newline-delimited records. A Receiver binds and listens on the same port,
// accepts one peer at a time and forwards every byte it reads to an output
// stream; Dump drives it forever.
//
// Both sides own their connection Handle exclusively. Any wait, read or write
// failure tears the whole handle down; the next call starts from scratch.
package relay
