package library

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mmartin/mediashelf/internal/domain"
)

// Export serializes the full collection as a plain JSON array of
// records, verbatim and without an envelope, suitable for a later
// round-trip through Import. Records are ordered by AddedAt for
// readable diffs; import does not rely on order.
func (s *Service) Export() ([]byte, error) {
	recs := s.Library()
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].AddedAt != recs[j].AddedAt {
			return recs[i].AddedAt < recs[j].AddedAt
		}
		return recs[i].ID < recs[j].ID
	})
	return json.MarshalIndent(recs, "", "  ")
}

// Import validates an untrusted snapshot and fully replaces the
// library with it. Anything that does not deserialize to an array is
// rejected and the library is left untouched. Individual record shape
// is not further validated: import is a restore operation and
// malformed records are an accepted risk of restoring.
func (s *Service) Import(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return domain.ErrNotAnArray
	}

	var recs []domain.Record
	if err := json.Unmarshal(trimmed, &recs); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}

	return s.Overwrite(recs)
}
