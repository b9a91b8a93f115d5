package search

import "soturidash/internal/domain"

// OfPlayer projects a matched player
func OfPlayer(p domain.Player) Result {
	return Result{
		Kind:     domain.KindPlayer,
		Name:     p.Name,
		Position: p.Position,
		Entity:   p,
	}
}

// OfEnemy projects a matched enemy
func OfEnemy(e domain.Enemy) Result {
	return Result{
		Kind:     domain.KindEnemy,
		Name:     e.Name,
		Position: e.Position,
		Entity:   e,
	}
}

// Project projects any entity. Unknown implementations cannot exist since
// domain.Entity is sealed.
func Project(entity domain.Entity) Result {
	switch e := entity.(type) {
	case domain.Player:
		return OfPlayer(e)
	case domain.Enemy:
		return OfEnemy(e)
	default:
		panic("search: unhandled entity type")
	}
}

// Counts splits a result list by kind
func Counts(results []Result) (players, enemies int) {
	for _, r := range results {
		switch r.Kind {
		case domain.KindPlayer:
			players++
		case domain.KindEnemy:
			enemies++
		}
	}
	return players, enemies
}
