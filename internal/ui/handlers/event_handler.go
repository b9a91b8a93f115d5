package handlers

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"soturidash/internal/domain"
	"soturidash/internal/eventbus"
	"soturidash/internal/logging"
	"soturidash/internal/ui/state"
)

// StatusTimeout is how long a status message stays in the footer
const StatusTimeout = 4 * time.Second

// EntitiesChangedMsg tells the model that the entity store changed and
// everything derived from it must be recomputed
type EntitiesChangedMsg struct{}

// ClearStatusMsg clears the status message with the given id
type ClearStatusMsg struct {
	ID int
}

// EventHandler handles domain events and updates state
type EventHandler struct {
	state *state.AppState
}

// NewEventHandler creates a new event handler
func NewEventHandler(appState *state.AppState) *EventHandler {
	return &EventHandler{state: appState}
}

// HandleEvent processes domain events and returns any necessary commands
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.PlayerUpdatedEvent, eventbus.PlayerRemovedEvent,
		eventbus.EnemiesAppearedEvent, eventbus.EnemiesDisappearedEvent,
		eventbus.EntitiesClearedEvent:
		return entitiesChanged

	case eventbus.SnapshotLoadedEvent:
		cmd := h.status(fmt.Sprintf("Loaded %d players and %d enemies", e.Players, e.Enemies), false)
		return tea.Batch(entitiesChanged, cmd)

	case eventbus.ConnectionChangedEvent:
		previous := h.state.Connection
		h.state.Connection = e.State
		if e.State == domain.Disconnected && previous == domain.Connected {
			return h.status("Connection lost, reconnecting...", true)
		}

	case eventbus.ServerVersionEvent:
		h.state.ServerVersion = e.Version

	case eventbus.ErrorEvent:
		logging.Component("ui").WithError(e.Err).Warn(e.Message)
		return h.status(fmt.Sprintf("Error: %s", e.Message), true)

	case eventbus.ConfigChangedEvent:
		return h.status("Config reloaded", false)
	}

	return nil
}

// status sets the footer message and schedules its removal
func (h *EventHandler) status(message string, isError bool) tea.Cmd {
	id := h.state.SetStatus(message, isError)
	return tea.Tick(StatusTimeout, func(time.Time) tea.Msg {
		return ClearStatusMsg{ID: id}
	})
}

func entitiesChanged() tea.Msg {
	return EntitiesChangedMsg{}
}
