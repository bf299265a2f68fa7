package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// SecretRecord is one versioned secret captured by the sandbox harness.
type SecretRecord struct {
	// Version is the rotation counter, always positive. Versions are
	// expected to be unique but duplicates are not merged, only sorted.
	Version int `json:"version"`

	// Secret is the captured value, never empty.
	Secret string `json:"secret"`
}

// SecretBytes is a SecretRecord with the secret expanded to its
// character codepoints. Used by the byte-array output projection.
type SecretBytes struct {
	Version int   `json:"version"`
	Secret  []int `json:"secret"`
}

// DecodeSecretRecords decodes and validates the raw sandbox result.
// The result must be a non-empty array; each element must carry a
// non-empty string "secret" and a positive-integer "version", else
// ErrInvalidSecretFormat. The returned records are sorted ascending
// by version; duplicate versions are kept.
func DecodeSecretRecords(raw []byte) ([]SecretRecord, error) {
	var items []struct {
		Version json.Number `json:"version"`
		Secret  string      `json:"secret"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: decode result: %v", ErrInvalidSecretFormat, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty result set", ErrInvalidSecretFormat)
	}

	records := make([]SecretRecord, 0, len(items))
	for i, item := range items {
		version, err := item.Version.Int64()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: version is not an integer", ErrInvalidSecretFormat, i)
		}
		if version <= 0 {
			return nil, fmt.Errorf("%w: record %d: version %d is not positive", ErrInvalidSecretFormat, i, version)
		}
		if item.Secret == "" {
			return nil, fmt.Errorf("%w: record %d: empty secret", ErrInvalidSecretFormat, i)
		}
		records = append(records, SecretRecord{Version: int(version), Secret: item.Secret})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Version < records[j].Version
	})
	return records, nil
}

// SecretsToBytes converts records to the byte-array projection,
// preserving order.
func SecretsToBytes(records []SecretRecord) []SecretBytes {
	out := make([]SecretBytes, 0, len(records))
	for _, r := range records {
		out = append(out, SecretBytes{Version: r.Version, Secret: codepoints(r.Secret)})
	}
	return out
}

// SecretsToDict converts records to a stringified-version keyed map of
// codepoint arrays.
func SecretsToDict(records []SecretRecord) map[string][]int {
	out := make(map[string][]int, len(records))
	for _, r := range records {
		out[fmt.Sprintf("%d", r.Version)] = codepoints(r.Secret)
	}
	return out
}

func codepoints(s string) []int {
	points := make([]int, 0, len(s))
	for _, r := range s {
		points = append(points, int(r))
	}
	return points
}
