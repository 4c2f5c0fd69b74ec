// Package services implements the driving ports.
//
// GistSearch is the orchestrator for one search request: it obtains the
// full gist listing, fans file fetches out under a bounded concurrency
// cap, classifies and matches the fetched content, and folds the
// outcomes back into per-gist results in listing order.
package services
