package domain

import "fmt"

// Position is a point on the map in geographic coordinates
type Position struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

func (p Position) String() string {
	return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lng)
}

// EntityKind discriminates the two entity variants
type EntityKind string

const (
	KindPlayer EntityKind = "Player"
	KindEnemy  EntityKind = "Enemy"
)

// Entity is implemented only by Player and Enemy. Consumers switch on the
// concrete type and must handle both cases.
type Entity interface {
	Kind() EntityKind
	DisplayName() string
	Location() Position
	sealed()
}

// EnemyID identifies an enemy on the server
type EnemyID int64

// Player is a connected player with its last reported position
type Player struct {
	Name     string   `json:"name"`
	Lvl      int      `json:"lvl"`
	XP       int64    `json:"xp"`
	HP       int64    `json:"hp"`
	MaxHP    int64    `json:"maxHp"`
	Attack   int64    `json:"attack"`
	Defense  int64    `json:"defense"`
	Position Position `json:"position"`
}

func (p Player) Kind() EntityKind    { return KindPlayer }
func (p Player) DisplayName() string { return p.Name }
func (p Player) Location() Position  { return p.Position }
func (Player) sealed()               {}

// Enemy is a monster spawned on the map
type Enemy struct {
	ID       EnemyID  `json:"enemyId"`
	Name     string   `json:"name"`
	Lvl      int      `json:"lvl"`
	Position Position `json:"position"`
}

func (e Enemy) Kind() EntityKind    { return KindEnemy }
func (e Enemy) DisplayName() string { return e.Name }
func (e Enemy) Location() Position  { return e.Position }
func (Enemy) sealed()               {}

// ConnectionState describes the observer stream
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}
