// Package html provides a TextExtractor for HTML documents.
//
// Boilerplate elements (script, style, nav, footer, header, aside) are removed,
// then the text of the first main, article or div#content element is used,
// falling back to the body. When neither yields text, go-readability's
// article extraction is tried before giving up.
package html
