// File: internal/transport/doc.go
// Package transport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw loopback TCP descriptors for statrelay. Sockets are created blocking and
// driven directly by read(2)/write(2); readiness is the reactor's concern.
// Platform code is strictly separated by build tags.

package transport
