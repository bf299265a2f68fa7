package driving

import (
	"context"

	"github.com/frozenisback/sp-src/internal/core/domain"
)

// ProbeOptions configures a single probe run.
type ProbeOptions struct {
	// Source is the bundle text to probe. When empty, the bundle is
	// fetched from its remote origin.
	Source string

	// SourceName labels a locally supplied bundle (typically its file
	// path) for diagnostics and run history.
	SourceName string

	// Force probes a fetched bundle even when its URL matches the
	// last-seen marker.
	Force bool
}

// ProbeReport is the outcome of one probe run.
type ProbeReport struct {
	// BundleURL is the processed bundle's URL, or the SourceName for
	// local bundles.
	BundleURL string

	// Skipped is true when the fetched bundle URL matched the
	// last-seen marker and the run exited early without probing.
	Skipped bool

	// ModuleCount is the number of eligible module table entries.
	ModuleCount int

	// Candidates are the signal-matched modules, best first.
	Candidates []domain.Candidate

	// Secrets are the validated records, sorted ascending by version.
	// Empty when Skipped.
	Secrets []domain.SecretRecord
}

// Prober runs the secret extraction pipeline.
type Prober interface {
	// Probe runs the full pipeline: acquire bundle, locate and parse
	// the module table, rank candidates, execute the harness, and
	// validate the captured secrets.
	Probe(ctx context.Context, opts ProbeOptions) (*ProbeReport, error)

	// Extract locates the module table in the given bundle source and
	// returns its byte-exact fragment.
	Extract(ctx context.Context, source string) (domain.Fragment, error)

	// Rank locates and parses the module table, then returns the
	// signal-matched candidates, best first.
	Rank(ctx context.Context, source string) ([]domain.Candidate, error)

	// FetchBundle discovers and downloads the current remote bundle.
	FetchBundle(ctx context.Context) (url, source string, err error)

	// History returns recorded runs, most recent first.
	History(ctx context.Context, limit int) ([]domain.ProbeRun, error)
}
