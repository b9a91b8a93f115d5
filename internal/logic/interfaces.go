package logic

import "soturidash/internal/domain"

// EntityReader is the read-only view of the live entity collections.
// Both methods return snapshots in insertion order.
type EntityReader interface {
	Players() []domain.Player
	Enemies() []domain.Enemy
}

// EntityStore is the mutable store fed by the transport
type EntityStore interface {
	EntityReader
	Player(name string) (domain.Player, bool)
	Enemy(id domain.EnemyID) (domain.Enemy, bool)
	UpsertPlayer(player domain.Player)
	RemovePlayer(name string) bool
	UpsertEnemies(enemies ...domain.Enemy)
	RemoveEnemies(ids ...domain.EnemyID) int
	Replace(players []domain.Player, enemies []domain.Enemy)
	Counts() (players, enemies int)
}
