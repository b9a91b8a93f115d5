package search

import (
	"errors"

	"soturidash/internal/logging"
	"soturidash/internal/logic"
	"soturidash/internal/ui/services/events"
)

// Service owns the query settings and the last published result set
type Service struct {
	store    logic.EntityReader
	bus      events.EventBus
	settings Settings
	results  []Result
	rejected error // compile error of the latest input, nil when it was accepted
}

// NewService creates a new search service
func NewService(store logic.EntityReader, bus events.EventBus) *Service {
	if bus == nil {
		bus = &events.NullBus{}
	}
	return &Service{
		store:   store,
		bus:     bus,
		results: []Result{},
	}
}

// Update replaces the settings and runs a filter pass synchronously.
// An invalid pattern leaves the published results untouched and is
// reported through the returned error, which is never fatal.
func (s *Service) Update(settings Settings) error {
	s.settings = settings
	return s.performSearch()
}

// Refresh re-runs the current query against the store
func (s *Service) Refresh() error {
	return s.performSearch()
}

// Settings returns the current query settings
func (s *Service) Settings() Settings {
	return s.settings
}

// Results returns the published results
func (s *Service) Results() []Result {
	return s.results
}

// Rejected returns the compile error of the latest input, if any
func (s *Service) Rejected() error {
	return s.rejected
}

// Internal methods
func (s *Service) performSearch() error {
	log := logging.Component("search").WithField("query", s.settings.SearchValue)

	results, err := Filter(s.settings, s.store)
	if err != nil {
		if errors.Is(err, ErrInvalidPattern) {
			s.rejected = err
			log.WithError(err).Debug("Keeping previous results")
			s.bus.Publish(SearchRejectedEvent{Query: s.settings.SearchValue, Err: err})
		}
		return err
	}

	s.rejected = nil
	s.results = results

	if s.settings.SearchValue == "" {
		s.bus.Publish(SearchClearedEvent{})
		return nil
	}

	players, enemies := Counts(results)
	log.WithField("players", players).WithField("enemies", enemies).Debug("Search completed")
	s.bus.Publish(SearchCompletedEvent{
		Query:       s.settings.SearchValue,
		PlayerCount: players,
		EnemyCount:  enemies,
	})
	return nil
}
