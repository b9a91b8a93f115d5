package logic

import (
	"sync"

	"soturidash/internal/domain"
)

// orderedMap keeps values in insertion order. Updating an existing key keeps
// its slot; deleting and re-adding a key moves it to the end.
type orderedMap[K comparable, V any] struct {
	index  map[K]int
	keys   []K
	values []V
}

func newOrderedMap[K comparable, V any]() *orderedMap[K, V] {
	return &orderedMap[K, V]{index: make(map[K]int)}
}

func (m *orderedMap[K, V]) get(k K) (V, bool) {
	if i, ok := m.index[k]; ok {
		return m.values[i], true
	}
	var zero V
	return zero, false
}

func (m *orderedMap[K, V]) set(k K, v V) {
	if i, ok := m.index[k]; ok {
		m.values[i] = v
		return
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, k)
	m.values = append(m.values, v)
}

func (m *orderedMap[K, V]) delete(k K) bool {
	i, ok := m.index[k]
	if !ok {
		return false
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.values = append(m.values[:i], m.values[i+1:]...)
	delete(m.index, k)
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}
	return true
}

func (m *orderedMap[K, V]) snapshot() []V {
	out := make([]V, len(m.values))
	copy(out, m.values)
	return out
}

func (m *orderedMap[K, V]) len() int {
	return len(m.keys)
}

// MemoryEntityStore is an in-memory implementation of EntityStore
type MemoryEntityStore struct {
	mu      sync.RWMutex
	players *orderedMap[string, domain.Player]
	enemies *orderedMap[domain.EnemyID, domain.Enemy]
}

// NewMemoryEntityStore creates an empty entity store
func NewMemoryEntityStore() *MemoryEntityStore {
	return &MemoryEntityStore{
		players: newOrderedMap[string, domain.Player](),
		enemies: newOrderedMap[domain.EnemyID, domain.Enemy](),
	}
}

func (s *MemoryEntityStore) Players() []domain.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.players.snapshot()
}

func (s *MemoryEntityStore) Enemies() []domain.Enemy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enemies.snapshot()
}

func (s *MemoryEntityStore) Player(name string) (domain.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.players.get(name)
}

func (s *MemoryEntityStore) Enemy(id domain.EnemyID) (domain.Enemy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enemies.get(id)
}

func (s *MemoryEntityStore) UpsertPlayer(player domain.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players.set(player.Name, player)
}

func (s *MemoryEntityStore) RemovePlayer(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players.delete(name)
}

func (s *MemoryEntityStore) UpsertEnemies(enemies ...domain.Enemy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range enemies {
		s.enemies.set(e.ID, e)
	}
}

// RemoveEnemies deletes the given enemies and reports how many existed
func (s *MemoryEntityStore) RemoveEnemies(ids ...domain.EnemyID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, id := range ids {
		if s.enemies.delete(id) {
			removed++
		}
	}
	return removed
}

// Replace swaps the whole contents for a snapshot, keeping the given order
func (s *MemoryEntityStore) Replace(players []domain.Player, enemies []domain.Enemy) {
	p := newOrderedMap[string, domain.Player]()
	for _, player := range players {
		p.set(player.Name, player)
	}
	e := newOrderedMap[domain.EnemyID, domain.Enemy]()
	for _, enemy := range enemies {
		e.set(enemy.ID, enemy)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = p
	s.enemies = e
}

func (s *MemoryEntityStore) Counts() (players, enemies int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.players.len(), s.enemies.len()
}
