package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// samplePreviewChars is how much of each sample chunk the index report prints.
const samplePreviewChars = 500

var (
	indexDirs      []string
	indexFiles     []string
	indexURLs      []string
	indexCrawl     string
	indexMaxPages  int
	indexRecursive bool
)

var indexCmd = &cobra.Command{
	Use:   "index [path|url...]",
	Short: "Build the index from files and web pages",
	Long: `Extracts text from the given documents, chunks it, embeds every chunk and
replaces the current index.

Positional arguments are sorted by kind: directories are scanned for supported
files (PDF, HTML, Markdown, DOCX, text), files are read directly, and http(s)
URLs are fetched as single pages. Use --crawl to follow same-site links from a
start page.

Documents that fail extraction are skipped and listed in the report. Any
embedding failure aborts the build and leaves the previous index in place.`,
	Example: `  sercha-ask index ./handbook
  sercha-ask index --file fees.pdf --url https://example.edu/hostel
  sercha-ask index --crawl https://example.edu --max-pages 50`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringSliceVar(&indexDirs, "dir", nil, "directory to scan (repeatable)")
	indexCmd.Flags().StringSliceVar(&indexFiles, "file", nil, "file to index (repeatable)")
	indexCmd.Flags().StringSliceVar(&indexURLs, "url", nil, "single web page to index (repeatable)")
	indexCmd.Flags().StringVar(&indexCrawl, "crawl", "", "crawl same-site pages starting at this URL")
	indexCmd.Flags().IntVar(&indexMaxPages, "max-pages", 0, "crawl page limit (0 = configured limit)")
	indexCmd.Flags().BoolVarP(&indexRecursive, "recursive", "r", true, "descend into subdirectories")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errNotConfigured("index")
	}

	req, err := buildRequest(args)
	if err != nil {
		return err
	}
	if req.IsEmpty() {
		return errors.New("nothing to index: pass a path or URL, or use --dir, --file, --url or --crawl")
	}

	cmd.Printf("Building index in %s...\n", indexService.Location())

	report, err := indexService.Index(cmd.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrBuildInProgress) {
			return errors.New("another build is running; try again when it finishes")
		}
		return fmt.Errorf("index failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

// buildRequest merges positional arguments into the flag-based request.
func buildRequest(args []string) (domain.BuildRequest, error) {
	req := domain.BuildRequest{
		Dirs:      append([]string(nil), indexDirs...),
		Files:     append([]string(nil), indexFiles...),
		URLs:      append([]string(nil), indexURLs...),
		CrawlBase: indexCrawl,
		MaxPages:  indexMaxPages,
		Recursive: indexRecursive,
	}

	for _, arg := range args {
		if isURL(arg) {
			req.URLs = append(req.URLs, arg)
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			return req, fmt.Errorf("cannot index %s: %w", arg, err)
		}
		if info.IsDir() {
			req.Dirs = append(req.Dirs, arg)
		} else {
			req.Files = append(req.Files, arg)
		}
	}

	return req, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func printReport(cmd *cobra.Command, report *domain.BuildReport) {
	m := report.Manifest
	cmd.Printf("Indexed %d chunks from %d documents in %s\n",
		m.ChunkCount, report.Documents, report.Duration.Round(time.Millisecond))
	cmd.Printf("  Build: %s\n", m.BuildID)
	cmd.Printf("  Model: %s (%d dimensions)\n", m.EmbeddingModel, m.Dimensions)
	if report.Rejected > 0 {
		cmd.Printf("  Rejected: %d chunks below the quality threshold\n", report.Rejected)
	}

	if len(report.Skipped) > 0 {
		cmd.Println()
		cmd.Printf("Skipped %d documents:\n", len(report.Skipped))
		for _, s := range report.Skipped {
			cmd.Printf("  %s: %s\n", s.Location, s.Reason)
		}
	}

	if len(report.Samples) > 0 {
		cmd.Println()
		cmd.Println("Sample chunks:")
		for i, c := range report.Samples {
			cmd.Printf("\n  [%d] %s\n", i+1, c.Source)
			cmd.Printf("      %s\n", preview(c.Text, samplePreviewChars))
		}
	}
}

// preview returns the first n characters of text on one line.
func preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}
