// Package app contains the application logic behind the CLI: configuration,
// logger construction, and the load-build-resolve-print lifecycle, decoupled
// from any specific entrypoint.
package app
