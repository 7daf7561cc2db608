// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the single-descriptor readiness reactor used by
// the relay: an epoll(7) instance watching one socket for one event class
// with an infinite wait.
package reactor
