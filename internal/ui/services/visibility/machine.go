package visibility

import (
	tea "github.com/charmbracelet/bubbletea"

	"soturidash/internal/ui/pointer"
)

// Apply performs a requested transition. The owner of the state is the only
// caller. It reports whether the state changed, so closing a closed overlay
// and opening an open one are no-ops.
func Apply(s State, r Request) (State, bool) {
	switch r {
	case RequestOpen:
		return Open, s != Open
	case RequestClose:
		return Closed, s != Closed
	default:
		return s, false
	}
}

// RequestOpenCmd emits an open request
func RequestOpenCmd(source string) tea.Cmd {
	return func() tea.Msg {
		return OpenRequestedMsg{Source: source}
	}
}

// RequestCloseCmd emits a close request
func RequestCloseCmd(source string, reason CloseReason) tea.Cmd {
	return func() tea.Msg {
		return CloseRequestedMsg{Source: source, Reason: reason}
	}
}

// IsOutside reports whether an interaction targets a cell outside root.
// Non-interaction events are never outside.
func IsOutside(e pointer.Event, root pointer.Region) bool {
	if !e.IsInteraction() {
		return false
	}
	return !root.Contains(e.X, e.Y)
}

// OutsideDetector requests a close whenever the user clicks outside a
// component. It fires regardless of the current state; the owner ignores
// closes while closed. The listener stays installed while the overlay is
// closed and is removed only by Release.
type OutsideDetector struct {
	source  string
	root    func() pointer.Region
	release func()
}

// NewOutsideDetector creates a detector for the component named source whose
// current root region is returned by root
func NewOutsideDetector(source string, root func() pointer.Region) *OutsideDetector {
	return &OutsideDetector{source: source, root: root}
}

// Install registers the detector on the dispatcher. A detector holds at most
// one registration; installing again is a no-op.
func (d *OutsideDetector) Install(dispatcher *pointer.Dispatcher) {
	if d.release != nil {
		return
	}
	d.release = dispatcher.Listen(d.Handle)
}

// Release removes the registration
func (d *OutsideDetector) Release() {
	if d.release == nil {
		return
	}
	d.release()
	d.release = nil
}

// Installed reports whether the detector is registered
func (d *OutsideDetector) Installed() bool {
	return d.release != nil
}

// Handle returns a close request for an outside interaction, nil otherwise
func (d *OutsideDetector) Handle(e pointer.Event) tea.Cmd {
	if !IsOutside(e, d.root()) {
		return nil
	}
	return RequestCloseCmd(d.source, ReasonOutside)
}
