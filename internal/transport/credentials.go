package transport

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoToken is returned when no bearer token is stored
var ErrNoToken = errors.New("no auth token")

// CredentialStore provides the bearer token sent with every request
type CredentialStore interface {
	Token() (string, error)
}

// FileCredentials reads the token from a file on every call, so a token
// written by another tool is picked up without a restart
type FileCredentials struct {
	Path string
}

// Token implements CredentialStore
func (f FileCredentials) Token() (string, error) {
	if f.Path == "" {
		return "", ErrNoToken
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// StaticCredentials is a fixed token
type StaticCredentials string

// Token implements CredentialStore
func (s StaticCredentials) Token() (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}
