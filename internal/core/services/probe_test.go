package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frozenisback/sp-src/internal/adapters/driven/sandbox"
	"github.com/frozenisback/sp-src/internal/core/domain"
	"github.com/frozenisback/sp-src/internal/core/ports/driving"
)

// fixtureBundle is a minimal webpack-shaped bundle. Module 11 computes
// the secret material; module 10 wires it onto an object together with
// a version, which is what the capture hook observes.
const fixtureBundle = `"use strict";var __webpack_modules__=` +
	`{10:function(e,t,n){var r=n(11);var o={};o.version=7;o.secret=r.word;o.validUntil=123},` +
	`11:function(e,t,n){t.word="xyz";t.secrets="abc"}};`

// --- Mock implementations ---

// mockBundleSource implements driven.BundleSource for testing.
type mockBundleSource struct {
	url        string
	urlErr     error
	bundle     string
	fetchErr   error
	fetchCalls int
}

func (m *mockBundleSource) PlayerURL(_ context.Context) (string, error) {
	if m.urlErr != nil {
		return "", m.urlErr
	}
	return m.url, nil
}

func (m *mockBundleSource) Fetch(_ context.Context, _ string) (string, error) {
	m.fetchCalls++
	if m.fetchErr != nil {
		return "", m.fetchErr
	}
	return m.bundle, nil
}

// mockMarkerStore implements driven.MarkerStore for testing.
type mockMarkerStore struct {
	value  string
	writes []string
}

func (m *mockMarkerStore) Read() (string, error) {
	return m.value, nil
}

func (m *mockMarkerStore) Write(url string) error {
	m.writes = append(m.writes, url)
	return nil
}

// mockRunStore implements driven.RunStore for testing.
type mockRunStore struct {
	saved   []domain.ProbeRun
	saveErr error
	runs    []domain.ProbeRun
}

func (m *mockRunStore) SaveRun(_ context.Context, run *domain.ProbeRun) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, *run)
	return nil
}

func (m *mockRunStore) ListRuns(_ context.Context, _ int) ([]domain.ProbeRun, error) {
	return m.runs, nil
}

// mockInterpreter implements driven.Interpreter for testing.
type mockInterpreter struct {
	raw        json.RawMessage
	err        error
	lastScript string
}

func (m *mockInterpreter) Eval(_ context.Context, script string) (json.RawMessage, error) {
	m.lastScript = script
	if m.err != nil {
		return nil, m.err
	}
	return m.raw, nil
}

// mockConfig implements driven.ConfigStore for testing.
type mockConfig struct {
	data map[string]any
}

func (m *mockConfig) Get(key string) (any, bool) {
	val, ok := m.data[key]
	return val, ok
}

func (m *mockConfig) GetString(key string) string {
	s, _ := m.data[key].(string)
	return s
}

func (m *mockConfig) GetInt(key string) int {
	i, _ := m.data[key].(int)
	return i
}

func (m *mockConfig) GetStringSlice(key string) []string {
	s, _ := m.data[key].([]string)
	return s
}

func (m *mockConfig) Set(key string, value any) error {
	m.data[key] = value
	return nil
}

func (m *mockConfig) Save() error { return nil }
func (m *mockConfig) Load() error { return nil }
func (m *mockConfig) Path() string {
	return ""
}

// --- Tests ---

func TestProbe_LocalBundle_EndToEnd(t *testing.T) {
	markers := &mockMarkerStore{}
	runs := &mockRunStore{}
	svc := NewProbeService(nil, sandbox.New(), markers, runs, nil)

	report, err := svc.Probe(context.Background(), driving.ProbeOptions{
		Source:     fixtureBundle,
		SourceName: "fixture.js",
	})
	require.NoError(t, err)

	assert.Equal(t, "fixture.js", report.BundleURL)
	assert.False(t, report.Skipped)
	assert.Equal(t, 2, report.ModuleCount)

	// Module 11 matches ".secrets" (index 2), module 10 matches
	// ".validUntil" (index 1); higher index ranks first.
	require.Equal(t, []domain.Candidate{
		{Key: 11, Priority: 2},
		{Key: 10, Priority: 1},
	}, report.Candidates)

	require.Equal(t, []domain.SecretRecord{{Version: 7, Secret: "xyz"}}, report.Secrets)

	// Local bundles never touch the marker.
	assert.Empty(t, markers.writes)

	// The run is recorded.
	require.Len(t, runs.saved, 1)
	assert.Equal(t, "fixture.js", runs.saved[0].BundleURL)
	assert.Equal(t, 2, runs.saved[0].CandidateCount)
	assert.Equal(t, report.Secrets, runs.saved[0].Secrets)
}

func TestProbe_FetchedBundle_WritesMarker(t *testing.T) {
	source := &mockBundleSource{url: "https://cdn/web-player.new.js", bundle: fixtureBundle}
	markers := &mockMarkerStore{value: "https://cdn/web-player.old.js"}
	svc := NewProbeService(source, sandbox.New(), markers, nil, nil)

	report, err := svc.Probe(context.Background(), driving.ProbeOptions{})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn/web-player.new.js", report.BundleURL)
	assert.Equal(t, 1, source.fetchCalls)
	assert.Equal(t, []string{"https://cdn/web-player.new.js"}, markers.writes)
}

func TestProbe_UnchangedBundle_SkipsEarly(t *testing.T) {
	source := &mockBundleSource{url: "https://cdn/web-player.same.js", bundle: fixtureBundle}
	markers := &mockMarkerStore{value: "https://cdn/web-player.same.js"}
	svc := NewProbeService(source, sandbox.New(), markers, nil, nil)

	report, err := svc.Probe(context.Background(), driving.ProbeOptions{})
	require.NoError(t, err)

	assert.True(t, report.Skipped)
	assert.Empty(t, report.Secrets)
	assert.Equal(t, 0, source.fetchCalls)
	assert.Empty(t, markers.writes)
}

func TestProbe_ForceBypassesMarker(t *testing.T) {
	source := &mockBundleSource{url: "https://cdn/web-player.same.js", bundle: fixtureBundle}
	markers := &mockMarkerStore{value: "https://cdn/web-player.same.js"}
	svc := NewProbeService(source, sandbox.New(), markers, nil, nil)

	report, err := svc.Probe(context.Background(), driving.ProbeOptions{Force: true})
	require.NoError(t, err)

	assert.False(t, report.Skipped)
	assert.Equal(t, 1, source.fetchCalls)
	require.Len(t, report.Secrets, 1)
}

func TestProbe_FailedRun_DoesNotWriteMarker(t *testing.T) {
	source := &mockBundleSource{url: "https://cdn/web-player.new.js", bundle: fixtureBundle}
	markers := &mockMarkerStore{}
	interp := &mockInterpreter{err: domain.ErrInterpreterFailure}
	svc := NewProbeService(source, interp, markers, nil, nil)

	_, err := svc.Probe(context.Background(), driving.ProbeOptions{})
	require.ErrorIs(t, err, domain.ErrInterpreterFailure)
	assert.Empty(t, markers.writes)
}

func TestProbe_InvalidSandboxResult(t *testing.T) {
	interp := &mockInterpreter{raw: json.RawMessage(`[]`)}
	svc := NewProbeService(nil, interp, nil, nil, nil)

	_, err := svc.Probe(context.Background(), driving.ProbeOptions{Source: fixtureBundle})
	assert.ErrorIs(t, err, domain.ErrInvalidSecretFormat)
}

func TestProbe_NoModuleTable(t *testing.T) {
	svc := NewProbeService(nil, &mockInterpreter{}, nil, nil, nil)

	_, err := svc.Probe(context.Background(), driving.ProbeOptions{Source: "var x = 1;"})
	assert.ErrorIs(t, err, domain.ErrModuleTableNotFound)
}

func TestProbe_NoBundleSource(t *testing.T) {
	svc := NewProbeService(nil, &mockInterpreter{}, nil, nil, nil)

	_, err := svc.Probe(context.Background(), driving.ProbeOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bundle source not configured")
}

func TestProbe_ConfiguredSignalPatterns(t *testing.T) {
	config := &mockConfig{data: map[string]any{
		"probe.signal_patterns": []string{".validUntil"},
	}}
	svc := NewProbeService(nil, sandbox.New(), nil, nil, config)

	report, err := svc.Probe(context.Background(), driving.ProbeOptions{
		Source:     fixtureBundle,
		SourceName: "fixture.js",
	})
	require.NoError(t, err)

	// Only module 10 matches the narrowed pattern list.
	assert.Equal(t, []domain.Candidate{{Key: 10, Priority: 0}}, report.Candidates)
	require.Len(t, report.Secrets, 1)
}

func TestProbe_RunStoreFailureIsNotFatal(t *testing.T) {
	runs := &mockRunStore{saveErr: errors.New("disk full")}
	svc := NewProbeService(nil, sandbox.New(), nil, runs, nil)

	report, err := svc.Probe(context.Background(), driving.ProbeOptions{Source: fixtureBundle})
	require.NoError(t, err)
	require.Len(t, report.Secrets, 1)
}

func TestExtract_ReturnsByteExactFragment(t *testing.T) {
	svc := NewProbeService(nil, &mockInterpreter{}, nil, nil, nil)

	frag, err := svc.Extract(context.Background(), fixtureBundle)
	require.NoError(t, err)
	assert.Equal(t, fixtureBundle[frag.Span.Start:frag.Span.End], frag.Text)
}

func TestRank_ReturnsCandidatesBestFirst(t *testing.T) {
	svc := NewProbeService(nil, &mockInterpreter{}, nil, nil, nil)

	candidates, err := svc.Rank(context.Background(), fixtureBundle)
	require.NoError(t, err)
	assert.Equal(t, []domain.Candidate{
		{Key: 11, Priority: 2},
		{Key: 10, Priority: 1},
	}, candidates)
}

func TestFetchBundle(t *testing.T) {
	source := &mockBundleSource{url: "https://cdn/web-player.x.js", bundle: "bundle text"}
	svc := NewProbeService(source, &mockInterpreter{}, nil, nil, nil)

	url, text, err := svc.FetchBundle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/web-player.x.js", url)
	assert.Equal(t, "bundle text", text)
}

func TestHistory_NoStoreConfigured(t *testing.T) {
	svc := NewProbeService(nil, &mockInterpreter{}, nil, nil, nil)

	_, err := svc.History(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run store not configured")
}

func TestHistory_ReturnsRuns(t *testing.T) {
	runs := &mockRunStore{runs: []domain.ProbeRun{{ID: "a"}, {ID: "b"}}}
	svc := NewProbeService(nil, &mockInterpreter{}, nil, runs, nil)

	listed, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "a", listed[0].ID)
	assert.Equal(t, "b", listed[1].ID)
}
