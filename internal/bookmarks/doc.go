// Package bookmarks reads a browser's bookmark tree and serves it as a flat list.
//
// Chrome keeps bookmarks in a JSON file with three roots (bookmark bar, other, synced).
// Flatten walks those roots depth-first; every folder name becomes a segment of the
// folder path, and only http, https and ftp links are kept.
//
// Source caches the flattened list in storage for a TTL (15 minutes by default) so that
// repeated searches do not re-read the file. Watcher invalidates that cache as soon as
// the file changes.
package bookmarks
