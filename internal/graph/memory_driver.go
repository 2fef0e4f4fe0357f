package graph

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// MemoryDriver is an in-memory implementation of the Driver interface used for
// unit testing repository logic without a running graph database. It records
// every session, transaction, query and cursor advance it serves.
type MemoryDriver struct {
	mu           sync.Mutex
	sessions     []*SessionStats
	queries      []ExecutedQuery
	results      [][]*neo4j.Record
	nextCalls    int
	executeErr   error
	runErr       error
	cursorErr    error
	closeErr     error
	connectivity error
}

// ExecutedQuery captures a cypher statement and parameters run against the graph.
type ExecutedQuery struct {
	Query    string
	Params   map[string]any
	Database string
	Write    bool
}

// SessionStats is a snapshot of what happened on one session.
type SessionStats struct {
	Config SessionConfig
	Reads  int
	Writes int
	Closes int
}

// NewMemoryDriver instantiates an empty in-memory driver.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{}
}

// WithExecuteError makes transaction functions fail before any work runs, as a
// connection acquisition failure would.
func (m *MemoryDriver) WithExecuteError(err error) *MemoryDriver {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.executeErr = err
	return m
}

// WithRunError makes Transaction.Run return err.
func (m *MemoryDriver) WithRunError(err error) *MemoryDriver {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runErr = err
	return m
}

// WithCursorError makes cursors report err once their records are exhausted.
func (m *MemoryDriver) WithCursorError(err error) *MemoryDriver {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursorErr = err
	return m
}

// WithCloseError makes Session.Close return err.
func (m *MemoryDriver) WithCloseError(err error) *MemoryDriver {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeErr = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return the supplied error.
func (m *MemoryDriver) WithConnectivityError(err error) *MemoryDriver {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// PushResult appends the records returned by the next Run call. Calls with no
// queued result get an empty cursor.
func (m *MemoryDriver) PushResult(records ...*neo4j.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, records)
}

func (m *MemoryDriver) NewSession(_ context.Context, cfg SessionConfig) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &SessionStats{Config: cfg}
	m.sessions = append(m.sessions, stats)
	return &memorySession{driver: m, stats: stats}
}

func (m *MemoryDriver) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryDriver) Close(context.Context) error {
	return nil
}

// Sessions returns a snapshot of every session opened so far.
func (m *MemoryDriver) Sessions() []SessionStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SessionStats, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, *s)
	}
	return out
}

// Queries returns a snapshot of executed queries.
func (m *MemoryDriver) Queries() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.queries...)
}

// NextCalls returns how many times Next was called across all cursors.
func (m *MemoryDriver) NextCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextCalls
}

type memorySession struct {
	driver *MemoryDriver
	stats  *SessionStats
}

func (s *memorySession) ExecuteRead(_ context.Context, work TransactionWork) (any, error) {
	return s.execute(work, false)
}

func (s *memorySession) ExecuteWrite(_ context.Context, work TransactionWork) (any, error) {
	return s.execute(work, true)
}

func (s *memorySession) execute(work TransactionWork, write bool) (any, error) {
	s.driver.mu.Lock()
	if write {
		s.stats.Writes++
	} else {
		s.stats.Reads++
	}
	err := s.driver.executeErr
	s.driver.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return work(&memoryTransaction{session: s, write: write})
}

func (s *memorySession) Close(context.Context) error {
	s.driver.mu.Lock()
	defer s.driver.mu.Unlock()
	s.stats.Closes++
	return s.driver.closeErr
}

type memoryTransaction struct {
	session *memorySession
	write   bool
}

func (t *memoryTransaction) Run(_ context.Context, cypher string, params map[string]any) (Cursor, error) {
	m := t.session.driver
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries = append(m.queries, ExecutedQuery{
		Query:    cypher,
		Params:   cloneMap(params),
		Database: t.session.stats.Config.Database(),
		Write:    t.write,
	})

	if m.runErr != nil {
		return nil, m.runErr
	}

	var records []*neo4j.Record
	if len(m.results) > 0 {
		records = m.results[0]
		m.results = m.results[1:]
	}
	return &memoryCursor{driver: m, records: records, err: m.cursorErr}, nil
}

type memoryCursor struct {
	driver  *MemoryDriver
	records []*neo4j.Record
	current   *neo4j.Record
	pos       int
	exhausted bool
	err       error
}

func (c *memoryCursor) Next(context.Context) bool {
	c.driver.mu.Lock()
	c.driver.nextCalls++
	c.driver.mu.Unlock()

	if c.pos >= len(c.records) {
		c.current = nil
		c.exhausted = true
		return false
	}
	c.current = c.records[c.pos]
	c.pos++
	return true
}

func (c *memoryCursor) Record() *neo4j.Record {
	return c.current
}

// Err reports the injected cursor error only once Next has returned false.
func (c *memoryCursor) Err() error {
	if !c.exhausted {
		return nil
	}
	return c.err
}

// RecordOf builds a single-column record, handy for canned results.
func RecordOf(column string, value any) *neo4j.Record {
	return &neo4j.Record{Keys: []string{column}, Values: []any{value}}
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
