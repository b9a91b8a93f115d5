package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/dlclark/regexp2"

	"soturidash/internal/logging"
	"soturidash/internal/logic"
)

// ErrInvalidPattern is returned when the query is not a valid regular expression
var ErrInvalidPattern = errors.New("invalid search pattern")

// matchTimeout bounds a single name test so a pathological pattern cannot
// stall the UI loop
const matchTimeout = 50 * time.Millisecond

// Pattern is a compiled query
type Pattern struct {
	source string
	re     *regexp2.Regexp
}

// Compile compiles a query with JavaScript regular expression semantics.
// The match is unanchored: "Ar" matches "Aria" and "Bart".
func Compile(query string) (*Pattern, error) {
	re, err := regexp2.Compile(query, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, query, err)
	}
	re.MatchTimeout = matchTimeout
	return &Pattern{source: query, re: re}, nil
}

// Match reports whether name satisfies the pattern. A match that times out
// counts as no match.
func (p *Pattern) Match(name string) bool {
	ok, err := p.re.MatchString(name)
	if err != nil {
		logging.Component("search").WithError(err).WithField("query", p.source).Warn("Match aborted")
		return false
	}
	return ok
}

func (p *Pattern) String() string {
	return p.source
}

// Filter runs one filter pass over the store. An empty query yields no
// results. Player matches come first, then enemy matches, each group in
// store order. On ErrInvalidPattern the returned slice is nil and callers
// keep whatever they showed before.
func Filter(settings Settings, store logic.EntityReader) ([]Result, error) {
	if settings.SearchValue == "" {
		return []Result{}, nil
	}

	pattern, err := Compile(settings.SearchValue)
	if err != nil {
		return nil, err
	}

	return FilterWith(pattern, store), nil
}

// FilterWith runs a pass with an already compiled pattern
func FilterWith(pattern *Pattern, store logic.EntityReader) []Result {
	players := store.Players()
	enemies := store.Enemies()

	results := make([]Result, 0)
	for _, p := range players {
		if pattern.Match(p.Name) {
			results = append(results, OfPlayer(p))
		}
	}
	for _, e := range enemies {
		if pattern.Match(e.Name) {
			results = append(results, OfEnemy(e))
		}
	}
	return results
}
