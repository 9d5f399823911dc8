package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

var (
	retrieveJSON    bool
	retrieveKSearch int
	retrieveKReturn int
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Show the chunks nearest to a query",
	Long: `Embeds the query and prints the nearest indexed chunks, closest first,
without calling the language model. Useful for checking what context a
question would receive.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output chunks as JSON")
	retrieveCmd.Flags().IntVar(&retrieveKSearch, "k-search", 0, "neighbours to examine (0 = configured)")
	retrieveCmd.Flags().IntVar(&retrieveKReturn, "k-return", 0, "chunks to return (0 = configured)")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return errNotConfigured("ask")
	}

	query := strings.Join(args, " ")
	opts := domain.RetrieveOptions{KSearch: retrieveKSearch, KReturn: retrieveKReturn}

	retrieval, err := askService.Retrieve(cmd.Context(), query, opts)
	if err != nil {
		return queryError("retrieve", err)
	}

	if retrieveJSON {
		return printJSON(cmd, chunksJSON(retrieval))
	}

	if retrieval.IsEmpty() {
		cmd.Println("No chunks found.")
		return nil
	}
	printChunks(cmd, retrieval)
	return nil
}
