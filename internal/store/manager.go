// Package store owns the single reusable connection to the backing Redis
// store. Every dispatch gates on its health; nothing else in the process
// opens connections of its own.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/taskdeck/taskdeck/internal/config"
)

// State describes the manager's position in its lifecycle.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "disconnected"
}

// Manager is the single point of truth for store connectivity. It is an
// explicit dependency: construct one, pass it in, never reach for a global.
type Manager struct {
	client *backend.Client
	log    *slog.Logger

	mu    sync.Mutex
	state State

	pingTimeout time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithPingTimeout bounds each health-check ping.
func WithPingTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.pingTimeout = d
	}
}

// New builds a Manager from configuration. REDIS_URL, when present, wins
// over the discrete address settings.
func New(cfg config.RedisConfig, log *slog.Logger, opts ...Option) (*Manager, error) {
	var ropts *backend.Options
	if cfg.URL != "" {
		parsed, err := backend.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		ropts = parsed
	} else {
		ropts = &backend.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	ropts.PoolSize = cfg.PoolSize
	ropts.DialTimeout = cfg.DialTimeout
	ropts.ReadTimeout = cfg.ReadTimeout

	return NewFromClient(backend.NewClient(ropts), log, opts...), nil
}

// NewFromClient builds a Manager around an existing client. Used by tests
// to point at miniredis.
func NewFromClient(client *backend.Client, log *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		client:      client,
		log:         log,
		state:       Disconnected,
		pingTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Client exposes the underlying connection for the domain services.
func (m *Manager) Client() *backend.Client {
	return m.client
}

// State reports the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Healthy reports whether dispatches may proceed.
func (m *Manager) Healthy() bool {
	return m.State() == Connected
}

// Connect establishes the connection. Calling it while already connected is
// a no-op, logged at debug.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	if m.state == Connected {
		m.mu.Unlock()
		m.log.Debug("store already connected, ignoring connect")
		return nil
	}
	m.state = Connecting
	m.mu.Unlock()

	if err := m.ping(ctx); err != nil {
		m.setState(Disconnected)
		return fmt.Errorf("connect to store: %w", err)
	}

	m.setState(Connected)
	m.log.Info("store connected")
	return nil
}

// Disconnect closes the connection. Idempotent: disconnecting while already
// disconnected is a no-op.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	if m.state == Disconnected {
		m.mu.Unlock()
		m.log.Debug("store already disconnected, ignoring disconnect")
		return nil
	}
	m.state = Disconnected
	m.mu.Unlock()

	if err := m.client.Close(); err != nil {
		return fmt.Errorf("close store connection: %w", err)
	}
	m.log.Info("store disconnected")
	return nil
}

// Monitor pings the store on the given interval until ctx is cancelled,
// flipping health on failure and restoring it on recovery. This stands in
// for driver disconnect/reconnect events: a mid-life outage makes calls
// fail fast until the store answers pings again, with no operator action.
func (m *Manager) Monitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckNow(ctx)
		}
	}
}

// CheckNow runs a single health probe immediately, applying the same state
// transitions the periodic monitor would.
func (m *Manager) CheckNow(ctx context.Context) {
	err := m.ping(ctx)

	m.mu.Lock()
	prev := m.state
	if err != nil && prev == Connected {
		m.state = Disconnected
	}
	if err == nil && prev == Disconnected {
		m.state = Connected
	}
	next := m.state
	m.mu.Unlock()

	if prev == next {
		return
	}
	if next == Disconnected {
		m.log.Error("store connection lost", "error", err)
	} else {
		m.log.Info("store reconnected")
	}
}

func (m *Manager) ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, m.pingTimeout)
	defer cancel()
	return m.client.Ping(pingCtx).Err()
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}
