// Package resource provides a keyed cache for expensive, explicitly
// disposable runtime resources. Creation is deferred behind a one-shot
// readiness gate so callers can request a resource before the
// environment permits constructing one.
package resource
