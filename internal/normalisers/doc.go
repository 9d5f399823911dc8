// Package normalisers turns raw document bytes into plain text.
//
// Each subpackage implements driven.TextExtractor for one family of MIME types.
// The Registry in this package selects the highest priority extractor for a MIME type,
// and DetectMIMEType maps file names and content to the MIME types the extractors register.
package normalisers
