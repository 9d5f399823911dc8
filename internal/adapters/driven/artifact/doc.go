// Package artifact persists index artifacts on the local filesystem.
//
// The artifact directory is laid out as
//
//	CURRENT            name of the live build
//	builds/<name>/     index.bin and corpus.db written by one build
//
// A build writes both files into a staging directory, renames it under
// builds/ and then replaces CURRENT with a rename, so the live build changes
// in a single step and a published build directory is never modified.
// Readers resolve CURRENT once and take both files from the build it names.
// index.bin records the build id, which Load checks against the manifest in
// corpus.db. The build replaced by the latest swap is kept for readers that
// are still on it; older ones are removed.
//
// A lock file next to the directory keeps builds from different processes
// apart.
package artifact
