// Package component defines lifecycle interfaces for long-lived pieces such
// as transport engines and telemetry exporters.
//
// A Registry starts components in registration order and stops them in
// reverse, so register dependencies first.
package component
