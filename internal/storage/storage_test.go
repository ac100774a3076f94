package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenMigrates(t *testing.T) {
	db := openTemp(t)
	version, err := db.CurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)

	// reapplying is a no-op
	require.NoError(t, db.MigrateUp())
}

func TestSessionLifecycle(t *testing.T) {
	db := openTemp(t)
	sessions := NewSessionRepository(db)

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := sessions.Create(3, "R U F", start)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	require.NoError(t, sessions.End(id, start.Add(1500*time.Millisecond), true, 12))

	s, err := sessions.Get(id)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 3, s.Order)
	assert.True(t, s.Solved)
	assert.Equal(t, 12, s.MoveCount)
	require.NotNil(t, s.DurationMs)
	assert.Equal(t, int64(1500), *s.DurationMs)
	require.NotNil(t, s.ScrambleText)
	assert.Equal(t, "R U F", *s.ScrambleText)

	missing, err := sessions.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListNewestFirst(t *testing.T) {
	db := openTemp(t)
	sessions := NewSessionRepository(db)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := sessions.Create(3, "", start)
	require.NoError(t, err)
	second, err := sessions.Create(4, "", start.Add(time.Minute))
	require.NoError(t, err)

	list, err := sessions.List(10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].SessionID)
	assert.Equal(t, first, list[1].SessionID)
	assert.Nil(t, list[1].ScrambleText)

	last, err := sessions.GetLast()
	require.NoError(t, err)
	assert.Equal(t, second, last.SessionID)
}

func TestMovesAndCascade(t *testing.T) {
	db := openTemp(t)
	sessions := NewSessionRepository(db)
	moves := NewMoveRepository(db)

	id, err := sessions.Create(3, "", time.Now())
	require.NoError(t, err)

	r := notation.Move{Axis: notation.Z, Layer: 2, Clockwise: true}
	_, err = moves.Create(MoveRecord{SessionID: id, MoveIndex: 0, TsMs: 10, Letter: "R", Move: r, Source: "manual"})
	require.NoError(t, err)
	require.NoError(t, moves.CreateBatch([]MoveRecord{
		{SessionID: id, MoveIndex: 1, TsMs: 20, Letter: "R'", Move: r.Inverse(), Source: "letters"},
		{SessionID: id, MoveIndex: 2, TsMs: 30, Letter: "R'", Move: r.Inverse(), Source: "letters"},
	}))

	got, err := moves.GetBySession(id)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []notation.Move{r, r.Inverse(), r.Inverse()}, Moves(got))

	next, err := moves.GetNextIndex(id)
	require.NoError(t, err)
	assert.Equal(t, 3, next)

	bySource, err := moves.CountBySource(id)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"manual": 1, "letters": 2}, bySource)

	// duplicate index violates the unique index
	_, err = moves.Create(MoveRecord{SessionID: id, MoveIndex: 1, Letter: "R", Move: r, Source: "manual"})
	assert.Error(t, err)

	require.NoError(t, sessions.Delete(id))
	n, err := moves.Count(id)
	require.NoError(t, err)
	assert.Zero(t, n)
}
