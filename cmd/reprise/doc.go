// Package main hosts the reprise CLI entrypoint and command graph.
//
// The Cobra command tree opens the catalog database directly and drives the
// same internal services the daemon exposes over HTTP: collection and video
// management, folder import, schedule preview, study sessions, statistics,
// database health and configuration scaffolding. SQLite WAL mode lets the
// CLI run next to a live reprised.
//
// Keep this package lean: add behavior to the internal packages first, then
// surface it through commands or flags here.
package main
