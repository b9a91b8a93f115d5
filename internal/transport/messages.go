package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"soturidash/internal/domain"
)

// ErrUnknownMessage is returned for message types the dashboard ignores
var ErrUnknownMessage = errors.New("unknown message type")

// Message is a decoded observer message
type Message interface {
	messageType() string
}

// PlayerUpdate carries the data and position of a player
type PlayerUpdate struct {
	Player domain.Player
}

// PlayerDisappears is sent when a player logs out
type PlayerDisappears struct {
	Name string
}

// EnemiesAppear is sent when enemies spawn, and on connect for every enemy
type EnemiesAppear struct {
	Enemies []domain.Enemy
}

// EnemiesDisappear is sent when enemies are killed or despawn
type EnemiesDisappear struct {
	IDs []domain.EnemyID
}

// Ping is a keepalive
type Ping struct{}

// ServerError is an error reported by the server
type ServerError struct {
	Message string
}

// Disconnect asks the observer to go away
type Disconnect struct{}

func (PlayerUpdate) messageType() string     { return "PlayerUpdate" }
func (PlayerDisappears) messageType() string { return "PlayerDisappears" }
func (EnemiesAppear) messageType() string    { return "EnemiesAppear" }
func (EnemiesDisappear) messageType() string { return "EnemiesDisappear" }
func (Ping) messageType() string             { return "Ping" }
func (ServerError) messageType() string      { return "Error" }
func (Disconnect) messageType() string       { return "Disconnect" }

// wire formats

type envelope struct {
	Type string `json:"type"`
}

type wirePlayer struct {
	Name    string `json:"name"`
	Lvl     int    `json:"lvl"`
	XP      int64  `json:"xp"`
	HP      int64  `json:"hp"`
	MaxHP   int64  `json:"maxHp"`
	Attack  int64  `json:"attack"`
	Defense int64  `json:"defense"`
}

type wirePlayerUpdate struct {
	PlayerData     wirePlayer      `json:"playerData"`
	PlayerPosition domain.Position `json:"playerPosition"`
}

// wireEnemyID is either a bare number or {"id": number}
type wireEnemyID domain.EnemyID

func (id *wireEnemyID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*id = wireEnemyID(obj.ID)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("enemy id: %w", err)
	}
	*id = wireEnemyID(n)
	return nil
}

type wireEnemy struct {
	EnemyID  wireEnemyID     `json:"enemyId"`
	Name     string          `json:"name"`
	Lvl      int             `json:"lvl"`
	Position domain.Position `json:"position"`
}

func (e wireEnemy) toDomain() domain.Enemy {
	return domain.Enemy{ID: domain.EnemyID(e.EnemyID), Name: e.Name, Lvl: e.Lvl, Position: e.Position}
}

// DecodeMessage decodes one observer message
func DecodeMessage(data []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Type {
	case "PlayerUpdate":
		var m wirePlayerUpdate
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		p := m.PlayerData
		return PlayerUpdate{Player: domain.Player{
			Name: p.Name, Lvl: p.Lvl, XP: p.XP, HP: p.HP, MaxHP: p.MaxHP,
			Attack: p.Attack, Defense: p.Defense, Position: m.PlayerPosition,
		}}, nil
	case "PlayerDisappears":
		var m struct {
			PlayerName string `json:"playerName"`
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return PlayerDisappears{Name: m.PlayerName}, nil
	case "EnemiesAppear":
		var m struct {
			Enemies []wireEnemy `json:"enemies"`
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		enemies := make([]domain.Enemy, len(m.Enemies))
		for i, e := range m.Enemies {
			enemies[i] = e.toDomain()
		}
		return EnemiesAppear{Enemies: enemies}, nil
	case "EnemiesDisappear":
		var m struct {
			EnemyIDs []wireEnemyID `json:"enemyIds"`
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		ids := make([]domain.EnemyID, len(m.EnemyIDs))
		for i, id := range m.EnemyIDs {
			ids[i] = domain.EnemyID(id)
		}
		return EnemiesDisappear{IDs: ids}, nil
	case "Ping":
		return Ping{}, nil
	case "Error":
		var m struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return ServerError{Message: m.Error}, nil
	case "Disconnect":
		return Disconnect{}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMessage, env.Type)
	}
}
