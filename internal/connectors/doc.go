// Package connectors holds the document sources the index builder reads from.
//
// Each subpackage implements driven.DocumentSource for one origin:
//
//   - filesystem: local files and directory discovery
//   - web: single URLs and same-host site crawls
//
// Sources hand raw bytes to the extractors in the normalisers package and
// return plain text; chunking happens in the builder.
package connectors
