package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frozenisback/sp-src/internal/core/domain"
	"github.com/frozenisback/sp-src/internal/core/ports/driven"
	"github.com/frozenisback/sp-src/internal/core/ports/driving"
	"github.com/frozenisback/sp-src/internal/harness"
	"github.com/frozenisback/sp-src/internal/logger"
	"github.com/frozenisback/sp-src/internal/modtable"
	"github.com/frozenisback/sp-src/internal/rank"
	"github.com/frozenisback/sp-src/internal/scan"
)

// DefaultSandboxTimeout bounds harness execution when no timeout is
// configured.
const DefaultSandboxTimeout = 10 * time.Second

// Ensure ProbeService implements the interface.
var _ driving.Prober = (*ProbeService)(nil)

// ProbeService runs the secret extraction pipeline.
type ProbeService struct {
	source  driven.BundleSource
	interp  driven.Interpreter
	markers driven.MarkerStore
	runs    driven.RunStore
	config  driven.ConfigStore
}

// NewProbeService creates a new probe service.
// source, runs and config are optional - without source only local
// bundles can be probed, without runs history is disabled, and without
// config compiled-in defaults apply.
func NewProbeService(
	source driven.BundleSource,
	interp driven.Interpreter,
	markers driven.MarkerStore,
	runs driven.RunStore,
	config driven.ConfigStore,
) *ProbeService {
	return &ProbeService{
		source:  source,
		interp:  interp,
		markers: markers,
		runs:    runs,
		config:  config,
	}
}

// Probe runs the full pipeline.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (s *ProbeService) Probe(ctx context.Context, opts driving.ProbeOptions) (*driving.ProbeReport, error) {
	// 1. Acquire the bundle
	source := opts.Source
	bundleURL := opts.SourceName
	fetched := false

	if source == "" {
		url, text, skipped, err := s.acquireRemote(ctx, opts.Force)
		if err != nil {
			return nil, err
		}
		if skipped {
			return &driving.ProbeReport{BundleURL: url, Skipped: true}, nil
		}
		source, bundleURL = text, url
		fetched = true
	}

	logger.Section("Probe")
	logger.Info("Probing bundle %s (%d bytes)", bundleURL, len(source))

	// 2. Locate the module table fragment
	frag, err := s.locate(source)
	if err != nil {
		return nil, fmt.Errorf("locate module table: %w", err)
	}

	// 3. Parse it into module entries
	entries, err := modtable.Parse(source, frag)
	if err != nil {
		return nil, fmt.Errorf("parse module table: %w", err)
	}

	// 4. Rank candidates by signal patterns
	candidates, err := rank.Rank(entries, s.signalPatterns())
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}

	// 5. Build and execute the harness
	script := harness.Build(frag.Text, candidates)
	evalCtx, cancel := context.WithTimeout(ctx, s.sandboxTimeout())
	defer cancel()

	raw, err := s.interp.Eval(evalCtx, script)
	if err != nil {
		return nil, fmt.Errorf("execute harness: %w", err)
	}

	// 6. Validate the captured records
	secrets, err := domain.DecodeSecretRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("validate secrets: %w", err)
	}
	logger.Info("Captured %d secrets from %d candidates", len(secrets), len(candidates))

	report := &driving.ProbeReport{
		BundleURL:   bundleURL,
		ModuleCount: len(entries),
		Candidates:  candidates,
		Secrets:     secrets,
	}

	// 7. Persist run history (best effort)
	if s.runs != nil {
		run := domain.ProbeRun{
			BundleURL:      bundleURL,
			ModuleCount:    report.ModuleCount,
			CandidateCount: len(candidates),
			Secrets:        secrets,
		}
		if err := s.runs.SaveRun(ctx, &run); err != nil {
			logger.Warn("Failed to record run: %v", err)
		}
	}

	// 8. Write the last-seen marker, only now that the run succeeded
	if fetched && s.markers != nil {
		if err := s.markers.Write(bundleURL); err != nil {
			return nil, fmt.Errorf("write marker: %w", err)
		}
	}

	return report, nil
}

// Extract locates the module table fragment in the given source.
func (s *ProbeService) Extract(_ context.Context, source string) (domain.Fragment, error) {
	frag, err := s.locate(source)
	if err != nil {
		return domain.Fragment{}, fmt.Errorf("locate module table: %w", err)
	}
	return frag, nil
}

// Rank locates, parses and ranks the module table in the given source.
func (s *ProbeService) Rank(_ context.Context, source string) ([]domain.Candidate, error) {
	frag, err := s.locate(source)
	if err != nil {
		return nil, fmt.Errorf("locate module table: %w", err)
	}
	entries, err := modtable.Parse(source, frag)
	if err != nil {
		return nil, fmt.Errorf("parse module table: %w", err)
	}
	candidates, err := rank.Rank(entries, s.signalPatterns())
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}
	return candidates, nil
}

// FetchBundle discovers and downloads the current remote bundle,
// ignoring the last-seen marker.
func (s *ProbeService) FetchBundle(ctx context.Context) (string, string, error) {
	if s.source == nil {
		return "", "", errors.New("bundle source not configured")
	}
	url, err := s.source.PlayerURL(ctx)
	if err != nil {
		return "", "", fmt.Errorf("discover bundle URL: %w", err)
	}
	text, err := s.source.Fetch(ctx, url)
	if err != nil {
		return "", "", fmt.Errorf("fetch bundle: %w", err)
	}
	return url, text, nil
}

// History returns recorded runs, most recent first.
func (s *ProbeService) History(ctx context.Context, limit int) ([]domain.ProbeRun, error) {
	if s.runs == nil {
		return nil, errors.New("run store not configured")
	}
	return s.runs.ListRuns(ctx, limit)
}

// acquireRemote discovers the current bundle URL, applies the
// last-seen marker short-circuit, and downloads the bundle.
func (s *ProbeService) acquireRemote(ctx context.Context, force bool) (url, text string, skipped bool, err error) {
	if s.source == nil {
		return "", "", false, errors.New("bundle source not configured")
	}

	url, err = s.source.PlayerURL(ctx)
	if err != nil {
		return "", "", false, fmt.Errorf("discover bundle URL: %w", err)
	}

	if s.markers != nil && !force {
		last, err := s.markers.Read()
		if err != nil {
			return "", "", false, fmt.Errorf("read marker: %w", err)
		}
		if last == url {
			logger.Info("Bundle unchanged since last run: %s", url)
			return url, "", true, nil
		}
	}

	text, err = s.source.Fetch(ctx, url)
	if err != nil {
		return "", "", false, fmt.Errorf("fetch bundle: %w", err)
	}
	return url, text, false, nil
}

// locate builds a locator from configuration and runs it.
func (s *ProbeService) locate(source string) (domain.Fragment, error) {
	locator := &scan.Locator{}
	if s.config != nil {
		locator.MinFragmentSize = s.config.GetInt("scan.min_fragment_size")
	}
	return locator.Locate(source)
}

// signalPatterns returns the configured signal list, or the defaults.
func (s *ProbeService) signalPatterns() []string {
	if s.config != nil {
		if patterns := s.config.GetStringSlice("probe.signal_patterns"); len(patterns) > 0 {
			return patterns
		}
	}
	return domain.DefaultSignalPatterns
}

// sandboxTimeout returns the configured harness deadline, or the default.
func (s *ProbeService) sandboxTimeout() time.Duration {
	if s.config != nil {
		if ms := s.config.GetInt("sandbox.timeout_ms"); ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return DefaultSandboxTimeout
}
