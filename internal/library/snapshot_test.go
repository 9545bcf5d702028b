package library

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/mmartin/mediashelf/internal/domain"
	"github.com/mmartin/mediashelf/internal/log"
	"github.com/mmartin/mediashelf/internal/store"
)

func TestExportImportRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	full := backlogRecord("a", "Alien", domain.MediaTypeFilm)
	full.Ref = domain.ScreenRef(348)
	full.Genres = []string{"Horror", "Science Fiction"}
	full.Rating = 9
	full.Notes = "rewatch with commentary"
	full.PlannedDate = "2024-10-31"
	full.Providers = &domain.ProviderAvailability{Stream: []domain.Provider{{Name: "StreamCo"}}}

	series := backlogRecord("b", "Mr. Robot", domain.MediaTypeSeries)
	series.Seasons = []domain.Season{{Number: 1, EpisodeCount: 10, Episodes: []domain.Episode{{Number: 1, Watched: true}}}}

	book := backlogRecord("c", "The Hobbit", domain.MediaTypeBook)
	book.Ref = domain.BookRef("OL27448W")
	book.PageCount = 310

	for _, rec := range []domain.Record{full, series, book} {
		if err := svc.Save(rec); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	before := sortedByID(svc.Library())

	data, err := svc.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := svc.Import(data); err != nil {
		t.Fatalf("import: %v", err)
	}

	after := sortedByID(svc.Library())
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("round trip changed the collection:\nbefore: %+v\nafter:  %+v", before, after)
	}
}

func TestImportRejectsNonArray(t *testing.T) {
	svc, fs := newTestService(t)
	if err := svc.Save(backlogRecord("a", "Alien", domain.MediaTypeFilm)); err != nil {
		t.Fatalf("save: %v", err)
	}

	tests := []struct {
		name    string
		payload string
	}{
		{"object", `{"records":[]}`},
		{"string", `"hello"`},
		{"empty", ``},
		{"garbage", `not json at all`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Import([]byte(tt.payload)); !errors.Is(err, domain.ErrNotAnArray) {
				t.Fatalf("expected ErrNotAnArray, got %v", err)
			}
		})
	}

	// The library must be left untouched by rejected imports.
	if fs.replaces != 0 {
		t.Fatalf("rejected import must never reach the store")
	}
	if len(svc.Library()) != 1 {
		t.Fatalf("library changed by rejected import")
	}
}

func TestImportBrokenArrayLeavesLibraryUntouched(t *testing.T) {
	svc, fs := newTestService(t)
	if err := svc.Save(backlogRecord("a", "Alien", domain.MediaTypeFilm)); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := svc.Import([]byte(`[{"id":"x"`)); err == nil {
		t.Fatalf("expected parse error")
	}
	if fs.replaces != 0 || len(svc.Library()) != 1 {
		t.Fatalf("library changed by unparseable import")
	}
}

func TestImportOverwritesNotMerges(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.Save(backlogRecord("a", "Alien", domain.MediaTypeFilm)); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := svc.Import([]byte(`[{"id":"z","title":"Zardoz","mediaType":"film","status":"backlog","addedAt":1}]`)); err != nil {
		t.Fatalf("import: %v", err)
	}

	recs := svc.Library()
	if len(recs) != 1 || recs[0].ID != "z" {
		t.Fatalf("import must replace, not merge: %+v", recs)
	}
}

// End-to-end against the real store: migrate, mutate, export, wipe,
// restore.
func TestSnapshotRestoreAgainstBoltStore(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(dir, log.NullLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	svc := NewService(st, nil, nil, log.NullLogger())
	if err := svc.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	added, err := svc.AddFromSearch(domain.SearchResult{
		Ref:   domain.ScreenRef(603),
		Title: "The Matrix",
		Type:  domain.MediaTypeFilm,
	}, domain.StatusBacklog)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.SetRating(added.ID, 9); err != nil {
		t.Fatalf("rate: %v", err)
	}

	snapshot, err := svc.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if err := svc.Overwrite(nil); err != nil {
		t.Fatalf("wipe: %v", err)
	}
	if len(svc.Library()) != 0 {
		t.Fatalf("expected empty library after wipe")
	}

	if err := svc.Import(snapshot); err != nil {
		t.Fatalf("restore: %v", err)
	}
	recs := svc.Library()
	if len(recs) != 1 || recs[0].Title != "The Matrix" || recs[0].Rating != 9 {
		t.Fatalf("restore incomplete: %+v", recs)
	}
}

func sortedByID(recs []domain.Record) []domain.Record {
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs
}
