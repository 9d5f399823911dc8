package domain

// SourceKind identifies the origin type of a document.
type SourceKind string

// Supported source kinds.
const (
	// SourceKindFile is a local file (PDF, HTML, Markdown, text).
	SourceKindFile SourceKind = "file"

	// SourceKindURL is a single web page.
	SourceKindURL SourceKind = "url"

	// SourceKindCrawl is a page discovered by crawling a site.
	SourceKindCrawl SourceKind = "crawl"
)

// IsValid returns true if the kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceKindFile, SourceKindURL, SourceKindCrawl:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// BuildRequest names the documents an index build reads.
type BuildRequest struct {
	// Dirs are directories expanded into their supported files.
	Dirs []string

	// Recursive descends into subdirectories of Dirs.
	Recursive bool

	// Files are individual local files.
	Files []string

	// URLs are single pages fetched as-is.
	URLs []string

	// CrawlBase starts a same-host crawl when non-empty.
	CrawlBase string

	// MaxPages bounds the crawl; zero uses the configured limit.
	MaxPages int
}

// IsEmpty reports whether the request names no documents at all.
func (r BuildRequest) IsEmpty() bool {
	return len(r.Dirs) == 0 && len(r.Files) == 0 && len(r.URLs) == 0 && r.CrawlBase == ""
}
