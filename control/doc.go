// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics and debug introspection for statrelay.
//
// Provides:
//   - Invocation parsing into an immutable Config with defaults and validation
//   - A Prometheus-backed metrics registry with a plain snapshot view
//   - Debug probe registration and state export
package control
