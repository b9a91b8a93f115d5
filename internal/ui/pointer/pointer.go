package pointer

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Region is a rectangle of terminal cells
type Region struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the region covers no cell
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the cell at (x, y) lies inside the region
func (r Region) Contains(x, y int) bool {
	if r.Empty() {
		return false
	}
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Union returns the bounding box of both regions
func Union(a, b Region) Region {
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	x0, y0 := min(a.X, b.X), min(a.Y, b.Y)
	x1 := max(a.X+a.Width, b.X+b.Width)
	y1 := max(a.Y+a.Height, b.Y+b.Height)
	return Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Event is a pointer event in screen coordinates
type Event struct {
	X, Y   int
	Button tea.MouseButton
	Action tea.MouseAction
}

// FromMouse converts a Bubble Tea mouse message
func FromMouse(msg tea.MouseMsg) Event {
	return Event{X: msg.X, Y: msg.Y, Button: msg.Button, Action: msg.Action}
}

// IsInteraction reports whether the event is a click. Motion, release and
// wheel events are not.
func (e Event) IsInteraction() bool {
	return e.Action == tea.MouseActionPress && e.Button == tea.MouseButtonLeft
}

// Listener reacts to a pointer event and may return a command
type Listener func(Event) tea.Cmd

type entry struct {
	id       uint64
	listener Listener
}

// Dispatcher is the screen-wide pointer event stream. Every event from the
// terminal is offered to every installed listener in installation order.
type Dispatcher struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []entry
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Listen installs a listener. The returned release function uninstalls it
// and may be called more than once.
func (d *Dispatcher) Listen(l Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.listeners = append(d.listeners, entry{id: id, listener: l})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, e := range d.listeners {
			if e.id == id {
				d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch offers the event to all listeners and batches their commands
func (d *Dispatcher) Dispatch(e Event) tea.Cmd {
	d.mu.Lock()
	ls := make([]entry, len(d.listeners))
	copy(ls, d.listeners)
	d.mu.Unlock()

	var cmds []tea.Cmd
	for _, l := range ls {
		if cmd := l.listener(e); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

// Len returns the number of installed listeners
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}
