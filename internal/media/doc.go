// Package media identifies study video files and manages the copies Reprise
// keeps under the configured media directory.
//
// Probe sniffs content with mimetype and reads embedded titles with
// dhowden/tag, falling back to a title derived from the filename. Library
// copies accepted files into per-collection folders with optional SHA-256
// verification and a free-space guard, and releases them when videos or
// collections are deleted.
package media
