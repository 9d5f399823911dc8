package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ask/internal/adapters/driving/tui"
	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

var (
	chatKSearch int
	chatKReturn int
	chatWatch   bool
)

// chatCmd represents the chat command.
var chatCmd = &cobra.Command{
	Use:     "chat",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive chat",
	Long: `Launch an interactive terminal chat over the indexed documents.

Each question is answered from the index; the retrieved chunks behind the
last answer can be browsed with tab. A rebuild from another terminal is
picked up automatically.

Controls:
  Enter    - Ask
  ↑/↓      - Recall previous questions
  Tab      - Browse retrieved chunks
  PgUp/Dn  - Scroll the transcript
  Ctrl+R   - Reload the index
  F1       - Toggle help
  Ctrl+C   - Quit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().IntVar(&chatKSearch, "k-search", 0, "neighbours to examine (0 = configured)")
	chatCmd.Flags().IntVar(&chatKReturn, "k-return", 0, "chunks to keep as context (0 = configured)")
	chatCmd.Flags().BoolVar(&chatWatch, "watch", true, "reload when the index is rebuilt")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("chat crashed: %v", r)
		}
	}()

	if askService == nil {
		return errNotConfigured("ask")
	}

	app, err := tui.NewApp(&tui.Ports{
		Ask:     askService,
		Options: domain.RetrieveOptions{KSearch: chatKSearch, KReturn: chatKReturn},
	})
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	app.WithContext(cmd.Context())

	if chatWatch {
		stop := watchIndex(cmd.Context(), indexDir, askService)
		defer stop()
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}
