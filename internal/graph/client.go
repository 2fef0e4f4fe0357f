package graph

import (
	"context"
	"errors"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/log"
)

// Driver is the slice of the graph driver the repositories depend on. It
// exists so that sessions, transactions and cursors can be replaced in tests.
type Driver interface {
	NewSession(ctx context.Context, cfg SessionConfig) Session
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Session is a logical connection used to run managed transactions.
type Session interface {
	ExecuteRead(ctx context.Context, work TransactionWork) (any, error)
	ExecuteWrite(ctx context.Context, work TransactionWork) (any, error)
	Close(ctx context.Context) error
}

// TransactionWork is a unit of work executed inside a managed transaction.
type TransactionWork func(tx Transaction) (any, error)

// Transaction runs parameterized cypher inside a managed transaction.
type Transaction interface {
	Run(ctx context.Context, cypher string, params map[string]any) (Cursor, error)
}

// Cursor is a forward-only, single-pass view over result records.
// neo4j.ResultWithContext satisfies it.
type Cursor interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
	Err() error
}

// Options configures a graph driver implementation.
type Options struct {
	URI            string
	Username       string
	Password       string
	MaxConnections int
	FetchSize      int
	// MaxRetryTime bounds managed transaction retries. Zero means a single attempt.
	MaxRetryTime time.Duration
	Log          log.Logger
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
