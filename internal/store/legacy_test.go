package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mmartin/mediashelf/internal/domain"
)

func writeLegacy(t *testing.T, dir, payload string) string {
	t.Helper()
	path := filepath.Join(dir, legacyFileName)
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}
	return path
}

func TestMigrateLegacyNoFile(t *testing.T) {
	s, _ := openTestStore(t)
	if err := s.MigrateLegacy(); err != nil {
		t.Fatalf("migrate with no legacy file: %v", err)
	}
}

func TestMigrateLegacyImportsAndDeletes(t *testing.T) {
	s, dir := openTestStore(t)
	path := writeLegacy(t, dir, `[
		{"id":"old-1","title":"The Matrix","year":1999,"status":"completed","rating":9,"addedAt":500,"posterSeed":7},
		{"title":"Dune","mediaType":"book","status":"backlog"}
	]`)

	if err := s.MigrateLegacy(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	recs, err := s.GetAll()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 migrated records, got %d", len(recs))
	}

	byTitle := make(map[string]domain.Record)
	for _, rec := range recs {
		byTitle[rec.Title] = rec
	}

	matrix := byTitle["The Matrix"]
	if matrix.ID != "old-1" {
		t.Fatalf("legacy id not preserved: %q", matrix.ID)
	}
	if matrix.Type != domain.MediaTypeFilm {
		t.Fatalf("missing mediaType should default to film, got %s", matrix.Type)
	}
	if matrix.Year != "1999" {
		t.Fatalf("numeric year should normalize to string, got %q", matrix.Year)
	}
	if matrix.Rating != 9 || matrix.PosterSeed != 7 || matrix.AddedAt != 500 {
		t.Fatalf("legacy fields not carried over: %+v", matrix)
	}

	dune := byTitle["Dune"]
	if dune.Type != domain.MediaTypeBook {
		t.Fatalf("explicit mediaType not kept: %s", dune.Type)
	}
	if dune.ID == "" || dune.PosterSeed == 0 || dune.AddedAt == 0 {
		t.Fatalf("missing legacy defaults not assigned: %+v", dune)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("legacy file should be deleted after migration")
	}
}

func TestMigrateLegacyIdempotent(t *testing.T) {
	s, dir := openTestStore(t)
	writeLegacy(t, dir, `[{"id":"old-1","title":"The Matrix"}]`)

	if err := s.MigrateLegacy(); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := s.MigrateLegacy(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	recs, err := s.GetAll()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("repeat migration duplicated records: %d", len(recs))
	}
}

func TestMigrateLegacyStableIDsWithoutID(t *testing.T) {
	payload := `[
		{"title":"The Matrix","year":1999,"addedAt":500},
		{"title":"Dune","mediaType":"book","addedAt":600}
	]`

	s, dir := openTestStore(t)
	writeLegacy(t, dir, payload)
	if err := s.MigrateLegacy(); err != nil {
		t.Fatalf("first migrate: %v", err)
	}

	first, err := s.GetAll()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 records, got %d", len(first))
	}
	if first[0].ID == first[1].ID {
		t.Fatalf("distinct legacy records share an ID: %q", first[0].ID)
	}

	// If removing the migrated file fails, the next run re-imports the
	// same payload. ID-less records must land on the same IDs so the
	// re-import upserts instead of duplicating.
	writeLegacy(t, dir, payload)
	if err := s.MigrateLegacy(); err != nil {
		t.Fatalf("re-migrate: %v", err)
	}

	second, err := s.GetAll()
	if err != nil {
		t.Fatalf("get all after re-migrate: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("re-migration duplicated ID-less records: %d", len(second))
	}

	ids := map[string]bool{first[0].ID: true, first[1].ID: true}
	for _, rec := range second {
		if !ids[rec.ID] {
			t.Fatalf("re-migration changed an ID: %q", rec.ID)
		}
	}
}

func TestMigrateLegacyMalformedKeepsFile(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"truncated json", `[{"title":"The Mat`},
		{"not an array", `{"title":"The Matrix"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, dir := openTestStore(t)
			path := writeLegacy(t, dir, tt.payload)

			if err := s.MigrateLegacy(); err != nil {
				t.Fatalf("malformed payload should not error: %v", err)
			}

			if _, err := os.Stat(path); err != nil {
				t.Fatalf("legacy file must be preserved on parse failure: %v", err)
			}
			recs, err := s.GetAll()
			if err != nil {
				t.Fatalf("get all: %v", err)
			}
			if len(recs) != 0 {
				t.Fatalf("store must be unchanged on parse failure, got %d records", len(recs))
			}
		})
	}
}

func TestMigrateLegacyEmptyFile(t *testing.T) {
	s, dir := openTestStore(t)
	path := writeLegacy(t, dir, "  \n")

	if err := s.MigrateLegacy(); err != nil {
		t.Fatalf("empty payload: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("empty legacy file should be left alone: %v", err)
	}
}

func TestMigrateLegacyLiftsRawCatalogID(t *testing.T) {
	s, dir := openTestStore(t)
	writeLegacy(t, dir, `[{"id":"old-1","title":"The Matrix","tmdbId":603}]`)

	if err := s.MigrateLegacy(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	recs, _ := s.GetAll()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if !recs[0].Ref.Equal(domain.ScreenRef(603)) {
		t.Fatalf("raw catalog id not lifted to ref: %+v", recs[0].Ref)
	}
}

func TestMigrateLegacyClearsPlannedDateOffBacklog(t *testing.T) {
	s, dir := openTestStore(t)
	writeLegacy(t, dir, `[{"id":"old-1","title":"The Matrix","status":"completed","plannedDate":"2024-05-01"}]`)

	if err := s.MigrateLegacy(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	recs, _ := s.GetAll()
	if recs[0].PlannedDate != "" {
		t.Fatalf("planned date must be cleared for non-backlog records")
	}
}
