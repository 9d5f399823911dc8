// Package file stores sercha-ask settings in a TOML file, by default
// ~/.sercha-ask/config.toml. Tables map to dotted keys, so
//
//	[retrieval]
//	k_return = 3
//
// is read back as "retrieval.k_return".
package file
