package visibility

// State is the open/closed state of an overlay
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Active converts the state into the flag handed to components
func (s State) Active() bool {
	return s == Open
}

// Request is a transition asked for by a component
type Request int

const (
	RequestOpen Request = iota
	RequestClose
)

func (r Request) String() string {
	if r == RequestOpen {
		return "open"
	}
	return "close"
}

// CloseReason tells the owner why a close was requested
type CloseReason int

const (
	ReasonExplicit CloseReason = iota
	ReasonOutside
)

// OpenRequestedMsg asks the owner of the state to open the overlay
type OpenRequestedMsg struct {
	Source string
}

// CloseRequestedMsg asks the owner of the state to close the overlay
type CloseRequestedMsg struct {
	Source string
	Reason CloseReason
}
