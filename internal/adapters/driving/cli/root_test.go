package cli

import (
	"context"

	"github.com/frozenisback/sp-src/internal/core/domain"
	"github.com/frozenisback/sp-src/internal/core/ports/driving"
)

// mockProber implements driving.Prober for testing.
type mockProber struct {
	report     *driving.ProbeReport
	probeErr   error
	lastOpts   driving.ProbeOptions
	frag       domain.Fragment
	extractErr error
	candidates []domain.Candidate
	rankErr    error
	fetchURL   string
	fetchText  string
	fetchErr   error
	runs       []domain.ProbeRun
	historyErr error
	lastLimit  int
}

func (m *mockProber) Probe(_ context.Context, opts driving.ProbeOptions) (*driving.ProbeReport, error) {
	m.lastOpts = opts
	if m.probeErr != nil {
		return nil, m.probeErr
	}
	return m.report, nil
}

func (m *mockProber) Extract(_ context.Context, _ string) (domain.Fragment, error) {
	if m.extractErr != nil {
		return domain.Fragment{}, m.extractErr
	}
	return m.frag, nil
}

func (m *mockProber) Rank(_ context.Context, _ string) ([]domain.Candidate, error) {
	if m.rankErr != nil {
		return nil, m.rankErr
	}
	return m.candidates, nil
}

func (m *mockProber) FetchBundle(_ context.Context) (string, string, error) {
	if m.fetchErr != nil {
		return "", "", m.fetchErr
	}
	return m.fetchURL, m.fetchText, nil
}

func (m *mockProber) History(_ context.Context, limit int) ([]domain.ProbeRun, error) {
	m.lastLimit = limit
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.runs, nil
}

func setupProbeTest(mock *mockProber) func() {
	oldProber := prober
	prober = mock
	return func() {
		prober = oldProber
	}
}
