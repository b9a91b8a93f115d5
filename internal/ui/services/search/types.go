package search

import "soturidash/internal/domain"

// Settings holds the query typed by the operator. It is replaced as a
// whole on every input change.
type Settings struct {
	SearchValue string
}

// Result is the display-ready projection of a matched entity
type Result struct {
	Kind     domain.EntityKind
	Name     string
	Position domain.Position
	Entity   domain.Entity
}

// Event types
type SearchCompletedEvent struct {
	Query       string
	PlayerCount int
	EnemyCount  int
}

type SearchClearedEvent struct{}

// SearchRejectedEvent is published when a query failed to compile and the
// previous results were kept
type SearchRejectedEvent struct {
	Query string
	Err   error
}
