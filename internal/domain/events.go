package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventPlayerUpdated      EventType = "PlayerUpdated"
	EventPlayerRemoved      EventType = "PlayerRemoved"
	EventEnemiesAppeared    EventType = "EnemiesAppeared"
	EventEnemiesDisappeared EventType = "EnemiesDisappeared"
	EventSnapshotLoaded     EventType = "SnapshotLoaded"
	EventEntitiesCleared    EventType = "EntitiesCleared"
	EventConnectionChanged  EventType = "ConnectionChanged"
	EventServerVersion      EventType = "ServerVersion"
	EventError              EventType = "Error"
	EventConfigChanged      EventType = "ConfigChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// PlayerUpdatedEvent is emitted when a player's data or position changes
type PlayerUpdatedEvent struct {
	Player Player
}

func (e PlayerUpdatedEvent) Type() EventType { return EventPlayerUpdated }

// PlayerRemovedEvent is emitted when a player leaves the game
type PlayerRemovedEvent struct {
	Name string
}

func (e PlayerRemovedEvent) Type() EventType { return EventPlayerRemoved }

// EnemiesAppearedEvent is emitted when the server spawns enemies
type EnemiesAppearedEvent struct {
	Enemies []Enemy
}

func (e EnemiesAppearedEvent) Type() EventType { return EventEnemiesAppeared }

// EnemiesDisappearedEvent is emitted when enemies are killed or despawned
type EnemiesDisappearedEvent struct {
	IDs []EnemyID
}

func (e EnemiesDisappearedEvent) Type() EventType { return EventEnemiesDisappeared }

// SnapshotLoadedEvent is emitted after a full snapshot replaced the store contents
type SnapshotLoadedEvent struct {
	Players int
	Enemies int
}

func (e SnapshotLoadedEvent) Type() EventType { return EventSnapshotLoaded }

// EntitiesClearedEvent is emitted when the store was emptied, before a new
// session replays the game state
type EntitiesClearedEvent struct{}

func (e EntitiesClearedEvent) Type() EventType { return EventEntitiesCleared }

// ConnectionChangedEvent is emitted when the observer stream connects or drops
type ConnectionChangedEvent struct {
	State ConnectionState
}

func (e ConnectionChangedEvent) Type() EventType { return EventConnectionChanged }

// ServerVersionEvent carries the version string reported by the server
type ServerVersionEvent struct {
	Version string
}

func (e ServerVersionEvent) Type() EventType { return EventServerVersion }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigChangedEvent is emitted when the config file changed on disk
type ConfigChangedEvent struct {
	Path string
}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }
