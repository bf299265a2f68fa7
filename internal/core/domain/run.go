package domain

import "time"

// ProbeRun records one successful pipeline run for the history store.
type ProbeRun struct {
	// ID is a unique run identifier, assigned by the store if empty.
	ID string

	// BundleURL is the bundle the run processed. For local files this
	// is the file path.
	BundleURL string

	// ModuleCount is the number of eligible module table entries.
	ModuleCount int

	// CandidateCount is the number of signal-matched candidates.
	CandidateCount int

	// Secrets are the validated records the run captured.
	Secrets []SecretRecord

	// CreatedAt is when the run completed.
	CreatedAt time.Time
}
