package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show details of the current index",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output the manifest as JSON")
	rootCmd.AddCommand(statsCmd)
}

// manifestJSON is the --json shape of the manifest.
type manifestJSON struct {
	BuildID          string `json:"build_id"`
	CreatedAt        string `json:"created_at"`
	EmbeddingModel   string `json:"embedding_model"`
	Dimensions       int    `json:"dimensions"`
	Chunks           int    `json:"chunks"`
	Documents        int    `json:"documents"`
	SkippedDocuments int    `json:"skipped_documents"`
	ChunkSize        int    `json:"chunk_size"`
	ChunkOverlap     int    `json:"chunk_overlap"`
	MinChars         int    `json:"min_chars"`
	MinWords         int    `json:"min_words"`
}

func runStats(cmd *cobra.Command, _ []string) error {
	if askService == nil {
		return errNotConfigured("ask")
	}

	m, err := askService.Stats(cmd.Context())
	if err != nil {
		return queryError("stats", err)
	}

	if statsJSON {
		return printJSON(cmd, manifestJSON{
			BuildID:          m.BuildID,
			CreatedAt:        m.CreatedAt.UTC().Format(time.RFC3339),
			EmbeddingModel:   m.EmbeddingModel,
			Dimensions:       m.Dimensions,
			Chunks:           m.ChunkCount,
			Documents:        m.DocumentCount,
			SkippedDocuments: m.SkippedDocuments,
			ChunkSize:        m.ChunkSize,
			ChunkOverlap:     m.ChunkOverlap,
			MinChars:         m.MinChars,
			MinWords:         m.MinWords,
		})
	}

	cmd.Println("Index")
	cmd.Println("=====")
	if indexDir != "" {
		cmd.Printf("  Location: %s\n", indexDir)
	}
	cmd.Printf("  Build: %s\n", m.BuildID)
	cmd.Printf("  Created: %s\n", m.CreatedAt.Local().Format(time.DateTime))
	cmd.Printf("  Model: %s (%d dimensions)\n", m.EmbeddingModel, m.Dimensions)
	cmd.Printf("  Chunks: %d\n", m.ChunkCount)
	cmd.Printf("  Documents: %d (%d skipped)\n", m.DocumentCount, m.SkippedDocuments)
	cmd.Printf("  Chunking: size %d, overlap %d, min %d chars / %d words\n",
		m.ChunkSize, m.ChunkOverlap, m.MinChars, m.MinWords)
	return nil
}
