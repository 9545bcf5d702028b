package library

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmartin/mediashelf/internal/domain"
)

// Service is the façade the rest of the application calls for library
// state. It owns the in-memory mirror of the record store and is the
// single source of truth for reads; every mutation persists first and
// updates the mirror only once the write is known to have succeeded.
type Service struct {
	store     domain.RecordStore
	providers domain.ProviderClient
	series    domain.SeriesClient
	logger    *slog.Logger

	mu      sync.RWMutex
	records map[string]domain.Record
}

// NewService creates a new library service. The provider and series
// clients may be nil; the corresponding lazy fetches then degrade to
// "no data".
func NewService(store domain.RecordStore, providers domain.ProviderClient, series domain.SeriesClient, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		providers: providers,
		series:    series,
		logger:    logger,
		records:   make(map[string]domain.Record),
	}
}

// Initialize runs the one-shot legacy migration and then loads the
// full collection into memory. Migration must complete before the first
// load, else freshly-migrated records would be missed.
func (s *Service) Initialize() error {
	if err := s.store.MigrateLegacy(); err != nil {
		return fmt.Errorf("legacy migration: %w", err)
	}

	recs, err := s.store.GetAll()
	if err != nil {
		return fmt.Errorf("load library: %w", err)
	}

	s.mu.Lock()
	s.records = make(map[string]domain.Record, len(recs))
	for _, rec := range recs {
		s.records[rec.ID] = rec
	}
	s.mu.Unlock()

	s.logger.Info("library loaded", "count", len(recs))
	return nil
}

// Library returns a snapshot of the full collection, order unspecified.
func (s *Service) Library() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]domain.Record, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	return recs
}

// Get returns a single record by ID.
func (s *Service) Get(id string) (domain.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	return rec, ok
}

// Save persists a record and, on success, updates the mirror.
func (s *Service) Save(rec domain.Record) error {
	if err := s.store.Put(rec); err != nil {
		s.logger.Error("failed to save record", "id", rec.ID, "error", err)
		return err
	}

	s.mu.Lock()
	s.records[rec.ID] = rec
	s.mu.Unlock()
	return nil
}

// Remove deletes a record. Removing an unknown ID is a no-op.
func (s *Service) Remove(id string) error {
	if err := s.store.Delete(id); err != nil {
		s.logger.Error("failed to delete record", "id", id, "error", err)
		return err
	}

	s.mu.Lock()
	delete(s.records, id)
	s.mu.Unlock()
	return nil
}

// Overwrite replaces the entire collection. Import is a restore
// operation, not a merge; callers confirm destructive intent before
// invoking it.
func (s *Service) Overwrite(recs []domain.Record) error {
	if err := s.store.ReplaceAll(recs); err != nil {
		s.logger.Error("failed to overwrite library", "error", err)
		return err
	}

	s.mu.Lock()
	s.records = make(map[string]domain.Record, len(recs))
	for _, rec := range recs {
		s.records[rec.ID] = rec
	}
	s.mu.Unlock()

	s.logger.Info("library overwritten", "count", len(recs))
	return nil
}

// AddManual creates a record from manually entered fields. Manual
// entries carry no external reference and are never deduplicated.
func (s *Service) AddManual(rec domain.Record) (domain.Record, error) {
	rec.ID = domain.NewID()
	rec.Ref = domain.ExternalRef{}
	rec.AddedAt = domain.NowMillis()
	rec.PosterSeed = domain.NewPosterSeed()
	if !rec.Status.Valid() {
		rec.Status = domain.StatusBacklog
	}
	if rec.Status != domain.StatusBacklog {
		rec.PlannedDate = ""
	}

	if err := s.Save(rec); err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}

// SetStatus transitions a record's lifecycle status. All transitions
// between the three statuses are allowed; the planned date is cleared
// whenever the new status is not backlog.
func (s *Service) SetStatus(id string, status domain.Status) (domain.Record, error) {
	if !status.Valid() {
		return domain.Record{}, domain.ErrInvalidStatus
	}
	return s.update(id, func(rec *domain.Record) error {
		rec.Status = status
		if status != domain.StatusBacklog {
			rec.PlannedDate = ""
		}
		return nil
	})
}

// SetRating sets the user rating. Zero means unrated.
func (s *Service) SetRating(id string, rating int) (domain.Record, error) {
	if rating < 0 || rating > 10 {
		return domain.Record{}, domain.ErrInvalidRating
	}
	return s.update(id, func(rec *domain.Record) error {
		rec.Rating = rating
		return nil
	})
}

// SetNotes replaces the free-text notes.
func (s *Service) SetNotes(id, notes string) (domain.Record, error) {
	return s.update(id, func(rec *domain.Record) error {
		rec.Notes = notes
		return nil
	})
}

// SetPlannedDate schedules a backlog record for a future date
// (YYYY-MM-DD). An empty date clears the schedule. Records outside the
// backlog cannot carry a planned date.
func (s *Service) SetPlannedDate(id, date string) (domain.Record, error) {
	return s.update(id, func(rec *domain.Record) error {
		if date != "" && rec.Status != domain.StatusBacklog {
			return domain.ErrNotInBacklog
		}
		rec.PlannedDate = date
		return nil
	})
}

// ToggleEpisode flips the watched flag of one episode of a series.
func (s *Service) ToggleEpisode(id string, seasonNumber, episodeNumber int) (domain.Record, error) {
	return s.update(id, func(rec *domain.Record) error {
		for si := range rec.Seasons {
			if rec.Seasons[si].Number != seasonNumber {
				continue
			}
			for ei := range rec.Seasons[si].Episodes {
				if rec.Seasons[si].Episodes[ei].Number == episodeNumber {
					rec.Seasons[si].Episodes[ei].Watched = !rec.Seasons[si].Episodes[ei].Watched
					return nil
				}
			}
		}
		return fmt.Errorf("S%02dE%02d: %w", seasonNumber, episodeNumber, domain.ErrEpisodeNotFound)
	})
}

// EnsureProviders fills the cached where-to-watch data for a record,
// fetching it at most once. Fetch failures degrade to "no data": the
// record is returned unchanged and the failure is only logged.
func (s *Service) EnsureProviders(ctx context.Context, id string) (domain.Record, error) {
	rec, ok := s.Get(id)
	if !ok {
		return domain.Record{}, domain.ErrRecordNotFound
	}
	if rec.Providers != nil || rec.Ref.Kind != domain.RefScreen || s.providers == nil {
		return rec, nil
	}

	avail, err := s.providers.Providers(ctx, rec.Ref.ScreenID, rec.Type)
	if err != nil {
		s.logger.Warn("provider lookup failed", "id", id, "ref", rec.Ref.String(), "error", err)
		return rec, nil
	}

	return s.update(id, func(rec *domain.Record) error {
		rec.Providers = avail
		return nil
	})
}

// EnsureSeasons fills the season summaries for a series, fetching them
// at most once. Same degradation contract as EnsureProviders.
func (s *Service) EnsureSeasons(ctx context.Context, id string) (domain.Record, error) {
	rec, ok := s.Get(id)
	if !ok {
		return domain.Record{}, domain.ErrRecordNotFound
	}
	if len(rec.Seasons) > 0 || rec.Type != domain.MediaTypeSeries || rec.Ref.Kind != domain.RefScreen || s.series == nil {
		return rec, nil
	}

	seasons, err := s.series.Seasons(ctx, rec.Ref.ScreenID)
	if err != nil {
		s.logger.Warn("season lookup failed", "id", id, "ref", rec.Ref.String(), "error", err)
		return rec, nil
	}

	return s.update(id, func(rec *domain.Record) error {
		rec.Seasons = seasons
		return nil
	})
}

// EnsureEpisodes expands one season of a series with its episode list,
// fetching it at most once. Watched flags on already-expanded seasons
// are never touched.
func (s *Service) EnsureEpisodes(ctx context.Context, id string, seasonNumber int) (domain.Record, error) {
	rec, ok := s.Get(id)
	if !ok {
		return domain.Record{}, domain.ErrRecordNotFound
	}
	if rec.Ref.Kind != domain.RefScreen || s.series == nil {
		return rec, nil
	}
	for _, season := range rec.Seasons {
		if season.Number == seasonNumber && len(season.Episodes) > 0 {
			return rec, nil
		}
	}

	episodes, err := s.series.Episodes(ctx, rec.Ref.ScreenID, seasonNumber)
	if err != nil {
		s.logger.Warn("episode lookup failed", "id", id, "season", seasonNumber, "error", err)
		return rec, nil
	}

	return s.update(id, func(rec *domain.Record) error {
		for si := range rec.Seasons {
			if rec.Seasons[si].Number == seasonNumber {
				rec.Seasons[si].Episodes = episodes
				return nil
			}
		}
		return fmt.Errorf("season %d: %w", seasonNumber, domain.ErrEpisodeNotFound)
	})
}

// update applies fn to a copy of the record, persists it, and installs
// it in the mirror only after the write succeeds.
func (s *Service) update(id string, fn func(rec *domain.Record) error) (domain.Record, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return domain.Record{}, domain.ErrRecordNotFound
	}

	if err := fn(&rec); err != nil {
		return domain.Record{}, err
	}

	if err := s.Save(rec); err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}
