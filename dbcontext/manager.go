package dbcontext

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/metailurini/sqlcontext/apperrors"
	"github.com/metailurini/sqlcontext/storage"
)

// Manager owns the pool behind one ConnectionDescriptor and hands out
// dedicated connections after checking the database is reachable.
type Manager struct {
	desc   ConnectionDescriptor
	pool   storage.Pool
	logger *slog.Logger
	open   atomic.Int64
}

// Descriptor returns the resolved connection descriptor.
func (m *Manager) Descriptor() ConnectionDescriptor { return m.desc }

// Dialect returns the descriptor's dialect.
func (m *Manager) Dialect() storage.Dialect { return m.desc.Dialect }

// IsOnline takes a connection, pings the server and gives the connection
// back. Nothing is cached: every call probes again. Failures are logged and
// reported as false.
func (m *Manager) IsOnline(ctx context.Context) bool {
	conn, err := m.pool.Conn(ctx)
	if err != nil {
		m.logger.Debug("liveness probe failed", "conn", m.desc.Name, "step", "connect", "err", err)
		return false
	}
	defer conn.Close()
	if err := conn.PingContext(ctx); err != nil {
		m.logger.Debug("liveness probe failed", "conn", m.desc.Name, "step", "ping", "err", err)
		return false
	}
	return true
}

// OpenConnection probes the database and returns a dedicated connection.
// The caller must Close it.
func (m *Manager) OpenConnection(ctx context.Context) (*Connection, error) {
	if !m.IsOnline(ctx) {
		return nil, fmt.Errorf("%s is offline: %w", m.desc, apperrors.ErrConnectionUnavailable)
	}
	conn, err := m.pool.Conn(ctx)
	if err != nil {
		return nil, storage.NewDriverError("open", err)
	}
	m.open.Add(1)
	return &Connection{conn: conn, release: func() { m.open.Add(-1) }}, nil
}

// OpenConnections is the number of connections handed out and not yet closed.
func (m *Manager) OpenConnections() int64 { return m.open.Load() }

// Close releases the pool. Connections still open are closed by the pool.
func (m *Manager) Close() error {
	return m.pool.Close()
}
