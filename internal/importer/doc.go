// Package importer bulk-adds video files from a directory into a collection
// and keeps watched inbox directories synchronized while the daemon runs.
//
// Files are matched by configured extension and confirmed by content
// sniffing. A file whose base name already appears as a source name in the
// target collection is skipped, so re-running an import or restarting a
// watcher never duplicates videos.
package importer
