// Package filesystem provides document sources backed by local files.
//
// A FileSource reads one file and hands its bytes to the text extractor
// registered for the file's MIME type. Discover expands a directory into
// FileSources in a deterministic order, naming each by its path relative to
// the directory.
package filesystem
