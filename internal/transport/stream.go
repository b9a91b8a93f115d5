package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"soturidash/internal/domain"
	"soturidash/internal/eventbus"
	"soturidash/internal/logging"
	"soturidash/internal/logic"
)

// DashboardPath is the observer route
const DashboardPath = "/dashboard"

// Websocket settings
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20

	minBackoff = 500 * time.Millisecond
	maxBackoff = 30 * time.Second
)

// errDisconnect ends a session when the server asks to
var errDisconnect = errors.New("server requested disconnect")

// Stream keeps the entity store in sync with the dashboard observer feed
type Stream struct {
	url    string
	creds  CredentialStore
	store  logic.EntityStore
	bus    eventbus.EventBus
	dialer *websocket.Dialer

	minBackoff time.Duration
	maxBackoff time.Duration

	mu    sync.Mutex
	state domain.ConnectionState
}

// NewStream creates a stream for the observer route of endpoints
func NewStream(endpoints Endpoints, creds CredentialStore, store logic.EntityStore, bus eventbus.EventBus) *Stream {
	if creds == nil {
		creds = StaticCredentials("")
	}
	return &Stream{
		url:        endpoints.WSPath(DashboardPath),
		creds:      creds,
		store:      store,
		bus:        bus,
		dialer:     &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		minBackoff: minBackoff,
		maxBackoff: maxBackoff,
	}
}

// URL returns the websocket URL the stream dials
func (s *Stream) URL() string {
	return s.url
}

// State returns the connection state
func (s *Stream) State() domain.ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Stream) setState(state domain.ConnectionState) {
	s.mu.Lock()
	changed := s.state != state
	s.state = state
	s.mu.Unlock()

	if changed {
		s.bus.Publish(eventbus.ConnectionChangedEvent{State: state})
	}
}

// Run connects and reconnects until ctx is cancelled
func (s *Stream) Run(ctx context.Context) error {
	log := logging.Component("stream").WithField("url", s.url)
	backoff := s.minBackoff

	for {
		s.setState(domain.Connecting)
		connected, err := s.session(ctx)
		s.setState(domain.Disconnected)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			backoff = s.minBackoff
		}
		if err != nil {
			log.WithError(err).Warn("Observer stream lost")
			s.bus.Publish(eventbus.ErrorEvent{Message: "stream: " + err.Error(), Err: err})
		}

		log.WithField("retry_in", backoff).Debug("Reconnecting")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, s.maxBackoff)
	}
}

// session runs one connection. connected reports whether the handshake
// succeeded.
func (s *Stream) session(ctx context.Context) (connected bool, err error) {
	header := http.Header{}
	if err := authorize(header, s.creds); err != nil {
		return false, err
	}

	conn, resp, err := s.dialer.DialContext(ctx, s.url, header)
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("dial: %w (status %d)", err, resp.StatusCode)
		}
		return false, fmt.Errorf("dial: %w", err)
	}
	log := logging.Component("stream")
	log.Info("Observer stream connected")

	// the server replays every player and enemy to a new observer
	s.store.Replace(nil, nil)
	s.bus.Publish(eventbus.EntitiesClearedEvent{})
	s.setState(domain.Connected)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.keepalive(ctx, conn, done)
	}()
	defer func() {
		close(done)
		wg.Wait()
		if err := conn.Close(); err != nil {
			log.WithError(err).Debug("failed to close websocket connection")
		}
	}()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.WithError(err).Warn("failed to set read deadline")
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return true, nil
			}
			return true, fmt.Errorf("read: %w", err)
		}
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.WithError(err).Warn("failed to set read deadline")
		}

		msg, err := DecodeMessage(data)
		if err != nil {
			log.WithError(err).Warn("Skipping observer message")
			continue
		}
		if _, ok := msg.(Disconnect); ok {
			return true, errDisconnect
		}
		s.Apply(msg)
	}
}

// keepalive pings the server and closes the connection when ctx ends, which
// unblocks the reader
func (s *Stream) keepalive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	log := logging.Component("stream")

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			deadline := time.Now().Add(writeWait)
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			if err := conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
				log.WithError(err).Debug("write close message failed")
			}
			conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

// Apply applies a message to the store and publishes the matching event.
// It reports whether the entities changed.
func (s *Stream) Apply(msg Message) bool {
	return ApplyMessage(msg, s.store, s.bus)
}

// ApplyMessage applies a message to store and publishes the matching event
// on bus. It reports whether the entities changed.
func ApplyMessage(msg Message, store logic.EntityStore, bus eventbus.EventBus) bool {
	switch m := msg.(type) {
	case PlayerUpdate:
		store.UpsertPlayer(m.Player)
		bus.Publish(eventbus.PlayerUpdatedEvent{Player: m.Player})
		return true
	case PlayerDisappears:
		if !store.RemovePlayer(m.Name) {
			return false
		}
		bus.Publish(eventbus.PlayerRemovedEvent{Name: m.Name})
		return true
	case EnemiesAppear:
		if len(m.Enemies) == 0 {
			return false
		}
		store.UpsertEnemies(m.Enemies...)
		bus.Publish(eventbus.EnemiesAppearedEvent{Enemies: m.Enemies})
		return true
	case EnemiesDisappear:
		if store.RemoveEnemies(m.IDs...) == 0 {
			return false
		}
		bus.Publish(eventbus.EnemiesDisappearedEvent{IDs: m.IDs})
		return true
	case ServerError:
		bus.Publish(eventbus.ErrorEvent{Message: "server: " + m.Message})
		return false
	case Ping, Disconnect:
		return false
	default:
		logging.Component("stream").Warnf("Unhandled message %T", msg)
		return false
	}
}
