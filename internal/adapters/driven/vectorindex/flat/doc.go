// Package flat provides an exact nearest-neighbour index that scans every
// vector and ranks by squared Euclidean distance. Rows are addressed by their
// insertion position, which keeps them aligned with the corpus.
//
// The index persists to a compact little-endian blob:
//
//	magic "SQAF" | version u32 | dim u32 | n u32 | n*dim float32 | crc32 u32
package flat
