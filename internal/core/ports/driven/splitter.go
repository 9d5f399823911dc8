package driven

// TextSplitter turns one document's text into the chunks worth indexing.
type TextSplitter interface {
	// Split returns retained chunks in reading order and the number rejected
	// by quality filtering.
	Split(text string) (kept []string, rejected int)
}
