package library

import "github.com/mmartin/mediashelf/internal/domain"

// Stats aggregates the collection for the statistics screen.
type Stats struct {
	Total     int
	ByStatus  map[domain.Status]int
	ByType    map[domain.MediaType]int
	Rated     int
	AvgRating float64 // over rated records only; 0 when nothing is rated
	Scheduled int     // backlog records carrying a planned date
}

// Stats derives aggregate statistics from the current collection.
func (s *Service) Stats() Stats {
	st := Stats{
		ByStatus: make(map[domain.Status]int),
		ByType:   make(map[domain.MediaType]int),
	}

	var ratingSum int
	for _, rec := range s.Library() {
		st.Total++
		st.ByStatus[rec.Status]++
		st.ByType[rec.Type]++
		if rec.Rated() {
			st.Rated++
			ratingSum += rec.Rating
		}
		if rec.PlannedDate != "" {
			st.Scheduled++
		}
	}
	if st.Rated > 0 {
		st.AvgRating = float64(ratingSum) / float64(st.Rated)
	}
	return st
}
