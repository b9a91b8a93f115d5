package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soturidash/internal/domain"
	"soturidash/internal/eventbus"
	"soturidash/internal/ui/state"
	"soturidash/internal/ui/views"
)

func newHandler() (*EventHandler, *state.AppState) {
	s := state.NewAppState(views.Viewport{Zoom: views.DefaultZoom})
	return NewEventHandler(s), s
}

func TestEntityEventsReportChanges(t *testing.T) {
	h, _ := newHandler()
	for _, event := range []eventbus.DomainEvent{
		eventbus.PlayerUpdatedEvent{Player: domain.Player{Name: "Aria"}},
		eventbus.PlayerRemovedEvent{Name: "Aria"},
		eventbus.EnemiesAppearedEvent{},
		eventbus.EnemiesDisappearedEvent{},
		eventbus.EntitiesClearedEvent{},
	} {
		cmd := h.HandleEvent(event)
		require.NotNil(t, cmd, "%T", event)
		assert.Equal(t, EntitiesChangedMsg{}, cmd(), "%T", event)
	}
}

func TestConnectionEvents(t *testing.T) {
	h, s := newHandler()

	assert.Nil(t, h.HandleEvent(eventbus.ConnectionChangedEvent{State: domain.Connecting}))
	assert.Nil(t, h.HandleEvent(eventbus.ConnectionChangedEvent{State: domain.Connected}))
	assert.Equal(t, domain.Connected, s.Connection)
	assert.Empty(t, s.StatusMessage)

	assert.NotNil(t, h.HandleEvent(eventbus.ConnectionChangedEvent{State: domain.Disconnected}))
	assert.Equal(t, "Connection lost, reconnecting...", s.StatusMessage)
	assert.True(t, s.StatusIsError)

	h.HandleEvent(eventbus.ServerVersionEvent{Version: "1.4.2"})
	assert.Equal(t, "1.4.2", s.ServerVersion)
}

func TestErrorEventSetsStatus(t *testing.T) {
	h, s := newHandler()
	cmd := h.HandleEvent(eventbus.ErrorEvent{Message: "stream: refused", Err: errors.New("refused")})
	assert.NotNil(t, cmd, "the message is cleared by a timer")
	assert.Equal(t, "Error: stream: refused", s.StatusMessage)
	assert.True(t, s.StatusIsError)
}

func TestSnapshotLoadedSetsStatus(t *testing.T) {
	h, s := newHandler()
	assert.NotNil(t, h.HandleEvent(eventbus.SnapshotLoadedEvent{Players: 2, Enemies: 3}))
	assert.Equal(t, "Loaded 2 players and 3 enemies", s.StatusMessage)
	assert.False(t, s.StatusIsError)
}
