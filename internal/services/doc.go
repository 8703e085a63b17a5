// Package services defines shared plumbing consumed by the catalog, playlist
// and transport layers.
//
// Key responsibilities:
//   - Context helpers that stamp playlist, video and collection IDs plus
//     correlation identifiers for logging.
//   - Structured error markers, the Wrap helper and Kind, which classify
//     failures so the HTTP API and CLI report them consistently.
package services
