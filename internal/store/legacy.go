package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mmartin/mediashelf/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// legacyFileName is the flat JSON collection the application persisted
// before the BoltDB store existed.
const legacyFileName = "library.json"

// flexString decodes a JSON string or number into a display string.
// Legacy records stored the year either way.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// legacyRecord is the loosely-typed shape of a pre-store record.
// Absent fields fall back to current-schema defaults.
type legacyRecord struct {
	ID            string                       `json:"id"`
	Ref           domain.ExternalRef           `json:"ref"`
	ScreenID      int64                        `json:"tmdbId"` // oldest records carried the raw catalog id
	Title         string                       `json:"title"`
	Year          flexString                   `json:"year"`
	Genres        []string                     `json:"genres"`
	Description   string                       `json:"description"`
	Creator       string                       `json:"creator"`
	Type          domain.MediaType             `json:"mediaType"`
	Status        domain.Status                `json:"status"`
	Rating        int                          `json:"rating"`
	Notes         string                       `json:"notes"`
	PosterRef     string                       `json:"poster"`
	PosterSeed    int                          `json:"posterSeed"`
	AddedAt       int64                        `json:"addedAt"`
	CatalogRating float64                      `json:"catalogRating"`
	PageCount     int                          `json:"pageCount"`
	PlannedDate   string                       `json:"plannedDate"`
	Providers     *domain.ProviderAvailability `json:"providers"`
	Seasons       []domain.Season              `json:"seasons"`
}

// MigrateLegacy imports the pre-store flat collection exactly once.
// Absent or empty payload is a no-op. A payload that fails to parse is
// left on disk untouched so it can be inspected or retried; the store
// proceeds with whatever it already holds. The legacy file is deleted
// only after every normalized record is committed in one transaction,
// which makes a second call a permanent no-op.
func (s *Store) MigrateLegacy() error {
	path := filepath.Join(s.dir, legacyFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		s.logger.Warn("legacy library unreadable, skipping migration", "path", path, "error", err)
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var legacy []legacyRecord
	if err := json.Unmarshal(data, &legacy); err != nil {
		s.logger.Warn("legacy library malformed, leaving file in place", "path", path, "error", err)
		return nil
	}

	recs := make([]domain.Record, 0, len(legacy))
	for _, l := range legacy {
		recs = append(recs, normalizeLegacy(l))
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRecords)
		for _, rec := range recs {
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(rec.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		// Normalization yields stable IDs, so a re-run upserts the same
		// rows instead of duplicating them. Not fatal.
		s.logger.Warn("failed to remove migrated legacy file", "path", path, "error", err)
	}

	s.logger.Info("migrated legacy library", "count", len(recs))
	return nil
}

// normalizeLegacy lifts a loosely-typed legacy record to the current
// schema. The legacy format predates multi-type support, so a missing
// media type means film.
func normalizeLegacy(l legacyRecord) domain.Record {
	rec := domain.Record{
		ID:            l.ID,
		Ref:           l.Ref,
		Title:         l.Title,
		Year:          string(l.Year),
		Genres:        l.Genres,
		Description:   l.Description,
		Creator:       l.Creator,
		Type:          l.Type,
		Status:        l.Status,
		Rating:        l.Rating,
		Notes:         l.Notes,
		PosterRef:     l.PosterRef,
		PosterSeed:    l.PosterSeed,
		AddedAt:       l.AddedAt,
		CatalogRating: l.CatalogRating,
		PageCount:     l.PageCount,
		PlannedDate:   l.PlannedDate,
		Providers:     l.Providers,
		Seasons:       l.Seasons,
	}

	if rec.Type == "" {
		rec.Type = domain.MediaTypeFilm
	}
	if !rec.Status.Valid() {
		rec.Status = domain.StatusBacklog
	}
	if rec.Ref.IsZero() && l.ScreenID != 0 {
		rec.Ref = domain.ScreenRef(l.ScreenID)
	}
	if rec.ID == "" {
		rec.ID = legacyID(l)
	}
	if rec.PosterSeed == 0 {
		rec.PosterSeed = domain.NewPosterSeed()
	}
	if rec.AddedAt == 0 {
		rec.AddedAt = domain.NowMillis()
	}
	if rec.Rating < 0 {
		rec.Rating = 0
	} else if rec.Rating > 10 {
		rec.Rating = 10
	}
	if rec.Status != domain.StatusBacklog {
		rec.PlannedDate = ""
	}
	return rec
}

// legacyID derives a stable ID for legacy records that predate IDs.
// If removing the migrated file fails, the next run regenerates the
// same IDs and the import upserts instead of duplicating.
func legacyID(l legacyRecord) string {
	seed := fmt.Sprintf("legacy:%s:%s:%d", l.Title, l.Year, l.AddedAt)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}
