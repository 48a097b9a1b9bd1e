// Package session issues the signed tokens that tie htmx menu requests to
// the page instance that rendered them.
package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	tokenName       = "page"
	defaultLifetime = 12 * time.Hour
	minHashKeyLen   = 32
)

// ErrExpired indicates the token outlived its lifetime.
var ErrExpired = errors.New("session: token expired")

// ErrInvalidToken indicates the token failed decoding or signature checks.
var ErrInvalidToken = errors.New("session: invalid token")

// ErrInvalidConfig indicates the manager was initialised with missing or invalid options.
var ErrInvalidConfig = errors.New("session: invalid config")

// Data is the payload carried by a page token.
type Data struct {
	Instance string    `json:"i"`
	IssuedAt time.Time `json:"t"`
}

// Config controls token signing and lifetime.
type Config struct {
	HashKey  []byte
	BlockKey []byte
	Lifetime time.Duration
	Now      func() time.Time
}

// Manager encodes and verifies page tokens.
type Manager struct {
	cfg   Config
	codec *securecookie.SecureCookie
	now   func() time.Time
}

// NewManager constructs a Manager using the provided configuration.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.HashKey) < minHashKeyLen {
		return nil, fmt.Errorf("%w: hash key must be at least %d bytes", ErrInvalidConfig, minHashKeyLen)
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = defaultLifetime
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	codec := securecookie.New(cfg.HashKey, cfg.BlockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	// Expiry is checked against IssuedAt in Verify.
	codec.MaxAge(0)

	return &Manager{cfg: cfg, codec: codec, now: nowFn}, nil
}

// Issue returns a signed token naming the page instance.
func (m *Manager) Issue(instance string) (string, error) {
	instance = strings.TrimSpace(instance)
	if instance == "" {
		return "", errors.New("session: empty instance")
	}
	token, err := m.codec.Encode(tokenName, Data{Instance: instance, IssuedAt: m.now().UTC()})
	if err != nil {
		return "", fmt.Errorf("encode token: %w", err)
	}
	return token, nil
}

// Verify decodes token and checks its lifetime.
func (m *Manager) Verify(token string) (Data, error) {
	var d Data
	if err := m.codec.Decode(tokenName, token, &d); err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if d.Instance == "" {
		return Data{}, ErrInvalidToken
	}
	if m.now().UTC().Sub(d.IssuedAt) > m.cfg.Lifetime {
		return d, ErrExpired
	}
	return d, nil
}

// GenerateKey returns n random bytes for use as an ephemeral hash key.
func GenerateKey(n int) ([]byte, error) {
	if n <= 0 {
		n = minHashKeyLen
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return b, nil
}
