package graph

import (
	"context"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionConfig_Defaults(t *testing.T) {
	cfg := NewSessionConfig()

	assert.Equal(t, "", cfg.Database())
	assert.Equal(t, neo4j.AccessModeRead, cfg.AccessMode())
	assert.Zero(t, cfg.FetchSize())
	assert.Zero(t, cfg.TxTimeout())
}

func TestNewSessionConfig_AppliesOptionsInOrder(t *testing.T) {
	cfg := NewSessionConfig(
		WithDatabase("catalog"),
		WithFetchSize(100),
		nil,
		WithDatabase("movies"),
		WithWriteAccess(),
		WithTxTimeout(2*time.Second),
	)

	assert.Equal(t, "movies", cfg.Database())
	assert.Equal(t, neo4j.AccessModeWrite, cfg.AccessMode())
	assert.Equal(t, 100, cfg.FetchSize())
	assert.Equal(t, 2*time.Second, cfg.TxTimeout())

	native := cfg.toNeo4j()
	assert.Equal(t, "movies", native.DatabaseName)
	assert.Equal(t, neo4j.AccessModeWrite, native.AccessMode)
	assert.Equal(t, 100, native.FetchSize)
}

func TestNewNeo4jDriver_RequiresURI(t *testing.T) {
	driver, err := NewNeo4jDriver(context.Background(), Options{})
	require.ErrorIs(t, err, ErrMissingURI)
	assert.Nil(t, driver)
}
