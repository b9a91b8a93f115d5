package transport

import (
	"fmt"
	"net/url"
	"strings"
)

// Mode selects how backend URLs are derived
type Mode string

const (
	// ModeLocal talks to a development server on port 8080 of host
	ModeLocal Mode = "local"
	// ModeProduction talks to the public server
	ModeProduction Mode = "production"
	// ModeOrigin derives the URLs from the origin the dashboard is served from
	ModeOrigin Mode = "origin"
)

const productionHost = "soturi.online"

// Endpoints are the base URLs of the backend
type Endpoints struct {
	HTTP string
	WS   string
	// Rel is the prefix of links handed to the operator. It is empty when
	// links are relative to the origin.
	Rel string
}

// ParseMode accepts a mode name, "localhost" being an alias of local
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "localhost":
		return ModeLocal, nil
	case "production", "prod":
		return ModeProduction, nil
	case "origin", "":
		return ModeOrigin, nil
	default:
		return "", fmt.Errorf("unknown backend mode %q", s)
	}
}

// Resolve computes the endpoints for a mode. For ModeLocal target is a host
// name; for ModeOrigin it is the origin URL, such as http://example.org:3000.
func Resolve(mode Mode, target string) (Endpoints, error) {
	switch mode {
	case ModeLocal:
		host := target
		if host == "" {
			host = "localhost"
		}
		return Endpoints{
			HTTP: fmt.Sprintf("http://%s:8080", host),
			WS:   fmt.Sprintf("ws://%s:8080", host),
			Rel:  fmt.Sprintf("http://%s:8080", host),
		}, nil
	case ModeProduction:
		return Endpoints{
			HTTP: "https://" + productionHost,
			WS:   "wss://" + productionHost,
			Rel:  "https://" + productionHost,
		}, nil
	case ModeOrigin:
		return resolveOrigin(target)
	default:
		return Endpoints{}, fmt.Errorf("unknown backend mode %q", mode)
	}
}

func resolveOrigin(origin string) (Endpoints, error) {
	if !strings.Contains(origin, "://") {
		origin = "http://" + origin
	}
	u, err := url.Parse(origin)
	if err != nil {
		return Endpoints{}, fmt.Errorf("parse origin %q: %w", origin, err)
	}
	if u.Host == "" {
		return Endpoints{}, fmt.Errorf("origin %q has no host", origin)
	}

	protocol := u.Scheme + ":"
	wsProtocol := "wss"
	if protocol == "http:" {
		wsProtocol = "ws"
	}
	return Endpoints{
		HTTP: fmt.Sprintf("%s//%s", protocol, u.Host),
		WS:   fmt.Sprintf("%s://%s", wsProtocol, u.Host),
		Rel:  "",
	}, nil
}

// HTTPPath returns the absolute URL of an API path
func (e Endpoints) HTTPPath(path string) string {
	return e.HTTP + path
}

// RelPath returns a link to path, relative to the origin in origin mode
func (e Endpoints) RelPath(path string) string {
	return e.Rel + path
}

// WSPath returns the websocket URL of path. Websocket routes live under /ws.
func (e Endpoints) WSPath(path string) string {
	return e.WS + "/ws" + path
}
