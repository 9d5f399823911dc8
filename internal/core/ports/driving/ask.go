package driving

import (
	"context"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// AskService answers questions from the indexed corpus.
type AskService interface {
	// Ask retrieves context for question and returns the synthesised answer
	// with its sources. With nothing retrieved the answer is domain.NoAnswer.
	Ask(ctx context.Context, question string, opts domain.RetrieveOptions) (*domain.Answer, error)

	// Retrieve returns the ranked chunks for question without calling the model.
	Retrieve(ctx context.Context, question string, opts domain.RetrieveOptions) (*domain.Retrieval, error)

	// Stats returns the manifest of the artifact being served.
	Stats(ctx context.Context) (*domain.Manifest, error)

	// Reload swaps in the artifact currently on disk.
	Reload(ctx context.Context) error
}
