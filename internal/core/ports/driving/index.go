package driving

import (
	"context"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
)

// IndexService builds the index artifact.
type IndexService interface {
	// Index extracts, chunks and embeds the requested documents and replaces
	// the current artifact. Returns domain.ErrBuildInProgress if a build is running.
	Index(ctx context.Context, req domain.BuildRequest) (*domain.BuildReport, error)

	// Location returns where the artifact is written.
	Location() string
}
