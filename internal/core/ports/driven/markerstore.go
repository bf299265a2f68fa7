package driven

// MarkerStore persists the last successfully processed bundle URL.
//
// The marker is read once at the start of a run and written once at
// the end of a successful run. A failed run must never write it, so a
// subsequent run retries from scratch against the same input.
type MarkerStore interface {
	// Read returns the stored marker, or "" if none has been written
	// yet. Absence of the marker is not an error.
	Read() (string, error)

	// Write replaces the stored marker.
	Write(url string) error
}
