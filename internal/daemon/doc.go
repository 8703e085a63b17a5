// Package daemon coordinates the long-running reprised process.
//
// It wires configuration, the catalog store, the playlist manager, the media
// library and the folder importer into a single lifecycle guarded by a flock
// lock file, so only one daemon owns a data directory at a time. Run serves
// the HTTP API and one watcher per configured import directory until its
// context is cancelled, then shuts everything down in order.
//
// Keep orchestration here: scheduling, persistence and HTTP routing live in
// their own packages.
package daemon
