// Package connectors provides implementations of the driven ports for
// upstream services. Each connector knows how to fetch gist listings and
// raw file content from a specific upstream (currently GitHub only).
package connectors
