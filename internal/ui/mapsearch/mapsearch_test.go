package mapsearch

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soturidash/internal/domain"
	"soturidash/internal/logic"
	"soturidash/internal/ui/pointer"
	"soturidash/internal/ui/services/search"
	"soturidash/internal/ui/services/visibility"
	"soturidash/internal/ui/views"
)

var (
	aria     = domain.Player{Name: "Aria", Lvl: 5, Position: domain.Position{Lat: 60.17, Lng: 24.94}}
	bob      = domain.Player{Name: "Bob", Lvl: 2, Position: domain.Position{Lat: 60.18, Lng: 24.95}}
	ariaWolf = domain.Enemy{ID: 7, Name: "Aria Wolf", Lvl: 3, Position: domain.Position{Lat: 60.19, Lng: 24.96}}
)

const originX, originY = 40, 0

func newTestModel(t *testing.T) (*Model, *logic.MemoryEntityStore, *[]domain.Position) {
	t.Helper()
	store := logic.NewMemoryEntityStore()
	store.UpsertPlayer(aria)
	store.UpsertPlayer(bob)
	store.UpsertEnemies(ariaWolf)

	zoomed := &[]domain.Position{}
	m := New(store, func(p domain.Position) { *zoomed = append(*zoomed, p) })
	m.SetOrigin(originX, originY)
	return m, store, zoomed
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, true)
	}
}

func click(x, y int) pointer.Event {
	return pointer.Event{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

func names(results []search.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = string(r.Kind) + ":" + r.Name
	}
	return out
}

func TestEveryKeystrokeRefilters(t *testing.T) {
	m, _, _ := newTestModel(t)

	typeText(m, "B")
	assert.Equal(t, []string{"Player:Bob"}, names(m.Results()))

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace}, true)
	assert.Equal(t, "", m.Settings().SearchValue)
	assert.Empty(t, m.Results(), "empty query clears results")

	typeText(m, "Aria")
	assert.Equal(t, search.Settings{SearchValue: "Aria"}, m.Settings())
	assert.Equal(t, []string{"Player:Aria", "Enemy:Aria Wolf"}, names(m.Results()))
}

func TestInvalidPatternKeepsResults(t *testing.T) {
	m, _, _ := newTestModel(t)

	typeText(m, "Ar")
	before := names(m.Results())
	require.Len(t, before, 2)

	typeText(m, "[")
	assert.Equal(t, "Ar[", m.Settings().SearchValue)
	assert.Equal(t, before, names(m.Results()))
	assert.Contains(t, views.StripANSI(m.View(true)), "invalid pattern")

	typeText(m, "i]")
	assert.Equal(t, []string{"Player:Aria", "Enemy:Aria Wolf"}, names(m.Results()))
	assert.NotContains(t, views.StripANSI(m.View(true)), "invalid pattern")
}

func TestEnterZoomsToResult(t *testing.T) {
	m, _, zoomed := newTestModel(t)
	typeText(m, "Aria")

	m.Update(tea.KeyMsg{Type: tea.KeyDown}, true)
	assert.Equal(t, 1, m.Cursor())

	cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}, true)
	require.NotNil(t, cmd)
	assert.Equal(t, []domain.Position{ariaWolf.Position}, *zoomed)

	msg, ok := cmd().(EntitySelectedMsg)
	require.True(t, ok)
	assert.Equal(t, domain.KindEnemy, msg.Result.Kind)
	assert.Equal(t, ariaWolf, msg.Result.Entity)
}

func TestCursorWraps(t *testing.T) {
	m, _, _ := newTestModel(t)
	typeText(m, "Aria")

	m.Update(tea.KeyMsg{Type: tea.KeyUp}, true)
	assert.Equal(t, 1, m.Cursor())
	m.Update(tea.KeyMsg{Type: tea.KeyTab}, true)
	assert.Equal(t, 0, m.Cursor())
}

func TestEnterWithoutResultsDoesNothing(t *testing.T) {
	m, _, zoomed := newTestModel(t)
	typeText(m, "zzz")
	assert.Nil(t, m.Update(tea.KeyMsg{Type: tea.KeyEnter}, true))
	assert.Empty(t, *zoomed)
}

func TestEscRequestsExplicitClose(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(visibility.OpenRequestedMsg{Source: Source}, true)

	cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc}, true)
	require.NotNil(t, cmd)
	assert.Equal(t, visibility.CloseRequestedMsg{Source: Source, Reason: visibility.ReasonExplicit}, cmd())
}

func TestInactiveIgnoresKeys(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, false)
	assert.Equal(t, "", m.Settings().SearchValue)
}

func TestRefreshFollowsStore(t *testing.T) {
	m, store, _ := newTestModel(t)
	typeText(m, "Aria")

	store.UpsertPlayer(domain.Player{Name: "Arian"})
	store.RemoveEnemies(ariaWolf.ID)
	m.Refresh()

	assert.Equal(t, []string{"Player:Aria", "Player:Arian"}, names(m.Results()))
}

func TestViewCollapsedWhenInactive(t *testing.T) {
	m, _, _ := newTestModel(t)
	typeText(m, "Aria")

	collapsed := m.View(false)
	assert.Equal(t, 3, lipgloss.Height(collapsed))
	assert.Equal(t, m.Width(), lipgloss.Width(collapsed))
	assert.NotContains(t, views.StripANSI(collapsed), "Aria Wolf")

	expanded := views.StripANSI(m.View(true))
	assert.Contains(t, expanded, "2 results")
	assert.Contains(t, expanded, "Aria Wolf")
	assert.Equal(t, lipgloss.Height(expanded), m.Region(true).Height)
	assert.Equal(t, m.Width(), lipgloss.Width(expanded))
}

func TestOutsideClickRequestsCloseOnce(t *testing.T) {
	m, _, _ := newTestModel(t)
	d := pointer.NewDispatcher()
	m.Mount(d)
	defer m.Unmount()

	for _, active := range []bool{true, false} {
		m.View(active)
		cmd := d.Dispatch(click(5, 20))
		require.NotNil(t, cmd, "active=%v", active)
		assert.Equal(t, visibility.CloseRequestedMsg{Source: Source, Reason: visibility.ReasonOutside}, cmd(), "active=%v", active)
	}
}

func TestClickOnBarOpensWithoutClosing(t *testing.T) {
	m, _, _ := newTestModel(t)
	d := pointer.NewDispatcher()
	m.Mount(d)
	defer m.Unmount()

	m.View(false)
	cmd := d.Dispatch(click(originX+3, originY+1))
	require.NotNil(t, cmd)
	assert.Equal(t, visibility.OpenRequestedMsg{Source: Source}, cmd())

	m.View(true)
	cmd = d.Dispatch(click(originX+3, originY+1))
	require.NotNil(t, cmd)
	assert.IsType(t, visibility.OpenRequestedMsg{}, cmd(), "clicking the input while open is inside")
}

func TestClickOnResultZooms(t *testing.T) {
	m, _, zoomed := newTestModel(t)
	d := pointer.NewDispatcher()
	m.Mount(d)
	defer m.Unmount()

	typeText(m, "Aria")
	m.View(true)

	// bar (3) + modal border (1) + status line (1), then the second row
	cmd := d.Dispatch(click(originX+5, originY+6))
	require.NotNil(t, cmd)
	msg, ok := cmd().(EntitySelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "Aria Wolf", msg.Result.Name)
	assert.Equal(t, []domain.Position{ariaWolf.Position}, *zoomed)
}

func TestClickOnCloseButton(t *testing.T) {
	m, _, _ := newTestModel(t)
	d := pointer.NewDispatcher()
	m.Mount(d)
	defer m.Unmount()

	view := views.StripANSI(m.View(true))
	lines := strings.Split(view, "\n")
	status := []rune(lines[4])
	x := m.Width() - 5
	require.Equal(t, "[x]", string(status[x:x+3]))

	cmd := d.Dispatch(click(originX+x+1, originY+4))
	require.NotNil(t, cmd)
	assert.Equal(t, visibility.CloseRequestedMsg{Source: Source, Reason: visibility.ReasonExplicit}, cmd())
}

func TestUnmountReleasesListeners(t *testing.T) {
	m, _, _ := newTestModel(t)
	d := pointer.NewDispatcher()

	for i := 0; i < 3; i++ {
		m.Mount(d)
		m.Mount(d)
		assert.True(t, m.Mounted())
		assert.Equal(t, 2, d.Len())
		m.Unmount()
		assert.False(t, m.Mounted())
	}
	assert.Equal(t, 0, d.Len())
	assert.Nil(t, d.Dispatch(click(5, 20)), "no close requests after unmount")
}

func TestSelectionPublishesOnBus(t *testing.T) {
	store := logic.NewMemoryEntityStore()
	store.UpsertPlayer(aria)
	bus := &recordingBus{}
	m := New(store, nil, WithBus(bus), WithWidth(40), WithMaxRows(3))
	typeText(m, "A")

	require.NotEmpty(t, bus.events)
	assert.Equal(t, search.SearchCompletedEvent{Query: "A", PlayerCount: 1}, bus.events[len(bus.events)-1])
	assert.Equal(t, 42, m.Width())
}

type recordingBus struct {
	events []interface{}
}

func (b *recordingBus) Publish(event interface{}) { b.events = append(b.events, event) }
func (b *recordingBus) Subscribe(string, func(interface{})) func() {
	return func() {}
}

func TestWideNamesKeepOneLinePerRow(t *testing.T) {
	store := logic.NewMemoryEntityStore()
	store.UpsertPlayer(domain.Player{Name: strings.Repeat("狼", 20)})
	store.UpsertPlayer(domain.Player{Name: strings.Repeat("狼", 19) + "x"})
	m := New(store, nil)
	m.SetOrigin(originX, originY)
	d := pointer.NewDispatcher()
	m.Mount(d)
	defer m.Unmount()

	typeText(m, "狼")
	require.Len(t, m.Results(), 2)

	view := m.View(true)
	region := m.Region(true)
	assert.Equal(t, lipgloss.Height(view), region.Height)
	assert.Equal(t, lipgloss.Width(view), region.Width)

	// last drawn line is the bottom border of the modal
	bottom := originY + lipgloss.Height(view) - 1
	assert.Nil(t, d.Dispatch(click(originX+1, bottom)))

	// second result row: bar (3) + modal border (1) + status line (1) + 1
	cmd := d.Dispatch(click(originX+5, originY+6))
	require.NotNil(t, cmd)
	msg, ok := cmd().(EntitySelectedMsg)
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("狼", 19)+"x", msg.Result.Name)
}

func TestCollapsedBarTruncatesWideQuery(t *testing.T) {
	store := logic.NewMemoryEntityStore()
	m := New(store, nil)
	typeText(m, strings.Repeat("狼", 30))

	collapsed := m.View(false)
	assert.Equal(t, barHeight, lipgloss.Height(collapsed))
	assert.Equal(t, m.Width(), lipgloss.Width(collapsed))
}

func TestStatusLineFollowsSearchEvents(t *testing.T) {
	m, store, _ := newTestModel(t)
	assert.Contains(t, views.StripANSI(m.View(true)), hintText)

	typeText(m, "Aria")
	assert.Contains(t, views.StripANSI(m.View(true)), "2 results")

	store.RemovePlayer("Aria")
	m.Refresh()
	assert.Contains(t, views.StripANSI(m.View(true)), "1 result")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("(")}, true)
	assert.Contains(t, views.StripANSI(m.View(true)), "invalid pattern")

	for range "Aria(" {
		m.Update(tea.KeyMsg{Type: tea.KeyBackspace}, true)
	}
	require.Empty(t, m.Settings().SearchValue)
	assert.Contains(t, views.StripANSI(m.View(true)), hintText)
}
