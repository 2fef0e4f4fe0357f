package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDriver_ServesQueuedResults(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryDriver()
	mem.PushResult(RecordOf("n", 1), RecordOf("n", 2))

	session := mem.NewSession(ctx, NewSessionConfig(WithDatabase("movies")))
	out, err := session.ExecuteRead(ctx, func(tx Transaction) (any, error) {
		cursor, err := tx.Run(ctx, "RETURN $x AS n", map[string]any{"x": 1})
		if err != nil {
			return nil, err
		}
		var values []any
		for cursor.Next(ctx) {
			values = append(values, cursor.Record().Values[0])
		}
		assert.Nil(t, cursor.Record())
		return values, cursor.Err()
	})
	require.NoError(t, err)
	require.NoError(t, session.Close(ctx))

	assert.Equal(t, []any{1, 2}, out)
	assert.Equal(t, 3, mem.NextCalls())

	queries := mem.Queries()
	require.Len(t, queries, 1)
	assert.Equal(t, ExecutedQuery{Query: "RETURN $x AS n", Params: map[string]any{"x": 1}, Database: "movies"}, queries[0])

	sessions := mem.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, 1, sessions[0].Reads)
	assert.Equal(t, 0, sessions[0].Writes)
	assert.Equal(t, 1, sessions[0].Closes)
}

func TestMemoryDriver_EmptyCursorWithoutQueuedResult(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryDriver()

	session := mem.NewSession(ctx, NewSessionConfig(WithWriteAccess()))
	_, err := session.ExecuteWrite(ctx, func(tx Transaction) (any, error) {
		cursor, err := tx.Run(ctx, "CREATE (n)", nil)
		require.NoError(t, err)
		assert.False(t, cursor.Next(ctx))
		return nil, cursor.Err()
	})
	require.NoError(t, err)

	assert.True(t, mem.Queries()[0].Write)
	assert.Equal(t, 1, mem.Sessions()[0].Writes)
}

func TestMemoryDriver_InjectedFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("execute", func(t *testing.T) {
		mem := NewMemoryDriver().WithExecuteError(boom)
		called := false
		_, err := mem.NewSession(ctx, NewSessionConfig()).ExecuteRead(ctx, func(Transaction) (any, error) {
			called = true
			return nil, nil
		})
		assert.ErrorIs(t, err, boom)
		assert.False(t, called)
	})

	t.Run("run", func(t *testing.T) {
		mem := NewMemoryDriver().WithRunError(boom)
		_, err := mem.NewSession(ctx, NewSessionConfig()).ExecuteRead(ctx, func(tx Transaction) (any, error) {
			return tx.Run(ctx, "RETURN 1", nil)
		})
		assert.ErrorIs(t, err, boom)
		assert.Len(t, mem.Queries(), 1)
	})

	t.Run("cursor error surfaces after exhaustion", func(t *testing.T) {
		mem := NewMemoryDriver().WithCursorError(boom)
		mem.PushResult(RecordOf("n", 1))
		_, err := mem.NewSession(ctx, NewSessionConfig()).ExecuteRead(ctx, func(tx Transaction) (any, error) {
			cursor, err := tx.Run(ctx, "RETURN 1", nil)
			require.NoError(t, err)
			require.True(t, cursor.Next(ctx))
			assert.NoError(t, cursor.Err())
			require.False(t, cursor.Next(ctx))
			return nil, cursor.Err()
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("close and connectivity", func(t *testing.T) {
		mem := NewMemoryDriver().WithCloseError(boom).WithConnectivityError(boom)
		assert.ErrorIs(t, mem.NewSession(ctx, NewSessionConfig()).Close(ctx), boom)
		assert.ErrorIs(t, mem.VerifyConnectivity(ctx), boom)
		assert.NoError(t, mem.Close(ctx))
	})
}
