package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"soturidash/internal/domain"
	"soturidash/internal/eventbus"
	"soturidash/internal/logic"
)

// Snapshot is a full set of entities, loaded from a seed file or fetched
// from the server
type Snapshot struct {
	Players []domain.Player `json:"players"`
	Enemies []domain.Enemy  `json:"enemies"`
}

// LoadSnapshot reads a snapshot from a JSON file
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return snap, nil
}

// FetchSnapshot downloads a snapshot from path
func FetchSnapshot(ctx context.Context, c *Client, path string) (Snapshot, error) {
	var snap Snapshot
	if err := c.GetJSON(ctx, path, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Apply replaces the content of store with the snapshot
func (s Snapshot) Apply(store logic.EntityStore, bus eventbus.EventBus) {
	store.Replace(s.Players, s.Enemies)
	bus.Publish(eventbus.SnapshotLoadedEvent{Players: len(s.Players), Enemies: len(s.Enemies)})
}
