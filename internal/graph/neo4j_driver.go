package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// NewNeo4jDriver establishes a Bolt connection using the official Neo4j driver
// and verifies connectivity before returning.
func NewNeo4jDriver(ctx context.Context, opts Options) (Driver, error) {
	if opts.URI == "" {
		return nil, ErrMissingURI
	}

	auth := neo4j.NoAuth()
	if opts.Username != "" {
		auth = neo4j.BasicAuth(opts.Username, opts.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(opts.URI, auth, func(c *neo4j.Config) {
		if opts.MaxConnections > 0 {
			c.MaxConnectionPoolSize = opts.MaxConnections
		}
		if opts.FetchSize != 0 {
			c.FetchSize = opts.FetchSize
		}
		if opts.Log != nil {
			c.Log = opts.Log
		}
		c.MaxTransactionRetryTime = opts.MaxRetryTime
	})
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}

	return &neo4jDriver{driver: driver}, nil
}

type neo4jDriver struct {
	driver neo4j.DriverWithContext
}

func (d *neo4jDriver) NewSession(ctx context.Context, cfg SessionConfig) Session {
	return &neo4jSession{
		session:   d.driver.NewSession(ctx, cfg.toNeo4j()),
		txTimeout: cfg.TxTimeout(),
	}
}

func (d *neo4jDriver) VerifyConnectivity(ctx context.Context) error {
	return d.driver.VerifyConnectivity(ctx)
}

func (d *neo4jDriver) Close(ctx context.Context) error {
	return d.driver.Close(ctx)
}

type neo4jSession struct {
	session   neo4j.SessionWithContext
	txTimeout time.Duration
}

func (s *neo4jSession) ExecuteRead(ctx context.Context, work TransactionWork) (any, error) {
	if s.txTimeout > 0 {
		return s.session.ExecuteRead(ctx, managed(work), neo4j.WithTxTimeout(s.txTimeout))
	}
	return s.session.ExecuteRead(ctx, managed(work))
}

func (s *neo4jSession) ExecuteWrite(ctx context.Context, work TransactionWork) (any, error) {
	if s.txTimeout > 0 {
		return s.session.ExecuteWrite(ctx, managed(work), neo4j.WithTxTimeout(s.txTimeout))
	}
	return s.session.ExecuteWrite(ctx, managed(work))
}

func (s *neo4jSession) Close(ctx context.Context) error {
	return s.session.Close(ctx)
}

func managed(work TransactionWork) neo4j.ManagedTransactionWork {
	return func(tx neo4j.ManagedTransaction) (any, error) {
		return work(neo4jTransaction{tx: tx})
	}
}

type neo4jTransaction struct {
	tx neo4j.ManagedTransaction
}

func (t neo4jTransaction) Run(ctx context.Context, cypher string, params map[string]any) (Cursor, error) {
	res, err := t.tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return res, nil
}
