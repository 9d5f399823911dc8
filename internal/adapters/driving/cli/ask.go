package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

var (
	askJSON       bool
	askShowChunks bool
	askKSearch    int
	askKReturn    int
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the index",
	Long: `Retrieves the chunks nearest to the question and asks the configured
language model to answer using only that context.

When nothing relevant is indexed the answer is "` + domain.NoAnswer + `"
and the model is not called.`,
	Example: `  sercha-ask ask "What is the hostel fee?"
  sercha-ask ask --json --k-return 3 What is the hostel fee`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVar(&askShowChunks, "show-chunks", false, "print the retrieved chunks")
	askCmd.Flags().IntVar(&askKSearch, "k-search", 0, "neighbours to examine (0 = configured)")
	askCmd.Flags().IntVar(&askKReturn, "k-return", 0, "chunks to keep as context (0 = configured)")
	rootCmd.AddCommand(askCmd)
}

// answerJSON is the --json shape of an answer.
type answerJSON struct {
	Question string      `json:"question"`
	Answer   string      `json:"answer"`
	Answered bool        `json:"answered"`
	Sources  []string    `json:"sources"`
	Chunks   []chunkJSON `json:"chunks"`
}

// chunkJSON is the --json shape of a retrieved chunk.
type chunkJSON struct {
	ID       int     `json:"id"`
	Source   string  `json:"source"`
	Distance float32 `json:"distance"`
	Text     string  `json:"text"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return errNotConfigured("ask")
	}

	question := strings.Join(args, " ")
	opts := domain.RetrieveOptions{KSearch: askKSearch, KReturn: askKReturn}

	answer, err := askService.Ask(cmd.Context(), question, opts)
	if err != nil {
		return queryError("ask", err)
	}

	if askJSON {
		return printJSON(cmd, answerJSON{
			Question: question,
			Answer:   answer.Text,
			Answered: answer.Answered(),
			Sources:  answer.Sources,
			Chunks:   chunksJSON(answer.Retrieval),
		})
	}

	cmd.Println(answer.Text)
	if answer.Answered() {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range answer.Sources {
			cmd.Printf("  - %s\n", src)
		}
	}
	if askShowChunks {
		printChunks(cmd, answer.Retrieval)
	}
	return nil
}

// queryError maps service errors to actionable messages.
func queryError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		return errors.New("question is empty")
	case errors.Is(err, domain.ErrArtifactNotFound):
		return errors.New("no index found; run 'sercha-ask index' first")
	case errors.Is(err, domain.ErrEmbeddingMismatch):
		return fmt.Errorf("%w; rebuild the index with 'sercha-ask index'", err)
	default:
		return fmt.Errorf("%s failed: %w", op, err)
	}
}

func chunksJSON(r *domain.Retrieval) []chunkJSON {
	out := []chunkJSON{}
	if r == nil {
		return out
	}
	for _, c := range r.Chunks {
		out = append(out, chunkJSON{ID: c.ID, Source: c.Source, Distance: c.Distance, Text: c.Text})
	}
	return out
}

func printChunks(cmd *cobra.Command, r *domain.Retrieval) {
	if r.IsEmpty() {
		cmd.Println("No chunks retrieved.")
		return
	}
	cmd.Println()
	cmd.Println("Chunks:")
	for i, c := range r.Chunks {
		cmd.Printf("\n  [%d] %s (%.4f)\n", i+1, c.Source, c.Distance)
		cmd.Printf("      %s\n", preview(c.Text, samplePreviewChars))
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
