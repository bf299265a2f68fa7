package driven

import (
	"context"

	"github.com/frozenisback/sp-src/internal/core/domain"
)

// RunStore persists completed probe runs and their captured secrets.
type RunStore interface {
	// SaveRun stores a run and its secrets. Assigns run.ID and
	// run.CreatedAt if unset.
	SaveRun(ctx context.Context, run *domain.ProbeRun) error

	// ListRuns returns up to limit runs, most recent first.
	// A limit <= 0 returns all runs.
	ListRuns(ctx context.Context, limit int) ([]domain.ProbeRun, error)
}
