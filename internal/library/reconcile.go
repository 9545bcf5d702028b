package library

import "github.com/mmartin/mediashelf/internal/domain"

// AddFromSearch reconciles a chosen catalog search result against the
// library. Re-adding a title that is already tracked must not create a
// duplicate row: the existing record's status transitions instead and
// every other field is left untouched. Exactly one persistence write
// occurs per call, whichever branch is taken.
func (s *Service) AddFromSearch(result domain.SearchResult, target domain.Status) (domain.Record, error) {
	if !target.Valid() {
		return domain.Record{}, domain.ErrInvalidStatus
	}

	candidate := domain.Record{
		ID:            domain.NewID(),
		Ref:           result.Ref,
		Title:         result.Title,
		Year:          result.Year,
		Genres:        result.Genres,
		Description:   result.Description,
		Creator:       result.Creator,
		Type:          result.Type,
		Status:        target,
		PosterRef:     result.PosterRef,
		PosterSeed:    domain.NewPosterSeed(),
		AddedAt:       domain.NowMillis(),
		CatalogRating: result.CatalogRating,
		PageCount:     result.PageCount,
	}

	if existing, ok := s.findByRef(candidate.Ref); ok {
		s.logger.Debug("search add matched existing record", "id", existing.ID, "ref", candidate.Ref.String(), "status", target)
		return s.SetStatus(existing.ID, target)
	}

	if err := s.Save(candidate); err != nil {
		return domain.Record{}, err
	}
	s.logger.Debug("search add created record", "id", candidate.ID, "ref", candidate.Ref.String(), "status", target)
	return candidate, nil
}

// findByRef scans the collection for a record holding the same catalog
// reference. Manual entries (no reference) never match.
func (s *Service) findByRef(ref domain.ExternalRef) (domain.Record, bool) {
	if ref.IsZero() {
		return domain.Record{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.Ref.Equal(ref) {
			return rec, true
		}
	}
	return domain.Record{}, false
}
