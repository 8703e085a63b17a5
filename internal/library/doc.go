// Package library manages collections and the videos inside them.
//
// It is the only writer of catalog rows besides playlist completion. Every
// operation keeps the denormalized collection counters in step with the
// video rows inside the same transaction, and pairs catalog changes with the
// matching media copy or release.
package library
