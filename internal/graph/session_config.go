package graph

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// SessionConfig describes how a session is opened. Build it with
// NewSessionConfig; the zero value targets the default database in read mode.
type SessionConfig struct {
	database   string
	accessMode neo4j.AccessMode
	fetchSize  int
	txTimeout  time.Duration
}

// SessionOption mutates a SessionConfig under construction.
type SessionOption func(*SessionConfig)

// NewSessionConfig returns a read-mode config against the driver's default
// database with the supplied options applied in order.
func NewSessionConfig(opts ...SessionOption) SessionConfig {
	cfg := SessionConfig{accessMode: neo4j.AccessModeRead}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithDatabase scopes the session to a logical database. An empty name keeps
// the driver default.
func WithDatabase(name string) SessionOption {
	return func(c *SessionConfig) {
		c.database = name
	}
}

// WithWriteAccess marks the session as write-mode for routing purposes.
func WithWriteAccess() SessionOption {
	return func(c *SessionConfig) {
		c.accessMode = neo4j.AccessModeWrite
	}
}

// WithFetchSize sets the number of records pulled per batch.
func WithFetchSize(n int) SessionOption {
	return func(c *SessionConfig) {
		c.fetchSize = n
	}
}

// WithTxTimeout bounds each transaction run in the session on the server side.
func WithTxTimeout(d time.Duration) SessionOption {
	return func(c *SessionConfig) {
		c.txTimeout = d
	}
}

// Database returns the target database, empty for the driver default.
func (c SessionConfig) Database() string { return c.database }

// AccessMode returns the routing access mode.
func (c SessionConfig) AccessMode() neo4j.AccessMode { return c.accessMode }

// FetchSize returns the configured fetch size, zero for the driver default.
func (c SessionConfig) FetchSize() int { return c.fetchSize }

// TxTimeout returns the transaction timeout, zero for the server default.
func (c SessionConfig) TxTimeout() time.Duration { return c.txTimeout }

func (c SessionConfig) toNeo4j() neo4j.SessionConfig {
	return neo4j.SessionConfig{
		DatabaseName: c.database,
		AccessMode:   c.accessMode,
		FetchSize:    c.fetchSize,
	}
}

