package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/db/dbtest"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
)

func TestReadWriteUnitBeginsImmediately(t *testing.T) {
	conn := dbtest.NewFakeConn()

	unit, err := db.NewUnitFromConn(context.Background(), conn, false)
	require.NoError(t, err)

	assert.True(t, conn.Tx.Began)
	assert.False(t, unit.ReadOnly())
	assert.False(t, unit.Completed())
}

func TestReadOnlyUnitNeverBegins(t *testing.T) {
	conn := dbtest.NewFakeConn()

	unit, err := db.NewUnitFromConn(context.Background(), conn, true)
	require.NoError(t, err)

	assert.False(t, conn.Tx.Began)
	assert.True(t, unit.ReadOnly())

	require.NoError(t, unit.Complete(context.Background(), nil))
	assert.Equal(t, 1, conn.Releases)
	assert.Zero(t, conn.Tx.Commits)
	assert.Zero(t, conn.Tx.Rollbacks)
}

func TestBeginFailureReleasesConnection(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.BeginErr = errors.New("boom")

	_, err := db.NewUnitFromConn(context.Background(), conn, false)
	require.Error(t, err)
	assert.Equal(t, 1, conn.Releases)
}

func TestCommitReleasesExactlyOnce(t *testing.T) {
	conn := dbtest.NewFakeConn()
	unit, err := db.NewUnitFromConn(context.Background(), conn, false)
	require.NoError(t, err)

	require.NoError(t, unit.Commit(context.Background()))
	assert.Equal(t, 1, conn.Tx.Commits)
	assert.Equal(t, 1, conn.Releases)
	assert.True(t, unit.Completed())
}

func TestCompleteIsIdempotent(t *testing.T) {
	conn := dbtest.NewFakeConn()
	unit, err := db.NewUnitFromConn(context.Background(), conn, false)
	require.NoError(t, err)

	require.NoError(t, unit.Commit(context.Background()))

	// The deferred cleanup path calls Rollback after a successful Commit.
	require.NoError(t, unit.Rollback(context.Background()))
	require.NoError(t, unit.Complete(context.Background(), nil))

	assert.Equal(t, 1, conn.Tx.Commits)
	assert.Zero(t, conn.Tx.Rollbacks)
	assert.Equal(t, 1, conn.Releases)
}

func TestMissingCommitDecisionFailsLoudly(t *testing.T) {
	conn := dbtest.NewFakeConn()
	unit, err := db.NewUnitFromConn(context.Background(), conn, false)
	require.NoError(t, err)

	err = unit.Complete(context.Background(), nil)
	require.ErrorIs(t, err, apperrors.ErrCommitDecisionRequired)

	// Never a silent commit; the transaction is discarded and the
	// connection still goes back to the pool.
	assert.Zero(t, conn.Tx.Commits)
	assert.Equal(t, 1, conn.Tx.Rollbacks)
	assert.Equal(t, 1, conn.Releases)
}

func TestCommitErrorStillReleases(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.Tx.CommitErr = errors.New("connection reset")

	unit, err := db.NewUnitFromConn(context.Background(), conn, false)
	require.NoError(t, err)

	err = unit.Commit(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, conn.Releases)
	assert.True(t, unit.Completed())
}

func TestExecuteAfterCompletionFails(t *testing.T) {
	conn := dbtest.NewFakeConn()
	unit, err := db.NewUnitFromConn(context.Background(), conn, false)
	require.NoError(t, err)
	require.NoError(t, unit.Rollback(context.Background()))

	_, err = unit.Exec(context.Background(), `DELETE FROM favourite`)
	assert.ErrorIs(t, err, apperrors.ErrUnitCompleted)

	_, err = unit.Query(context.Background(), `SELECT 1`)
	assert.ErrorIs(t, err, apperrors.ErrUnitCompleted)

	err = unit.QueryRow(context.Background(), `SELECT 1`).Scan(new(int))
	assert.ErrorIs(t, err, apperrors.ErrUnitCompleted)

	// Still released exactly once.
	assert.Equal(t, 1, conn.Releases)
}

func TestStatementsRouteThroughTransaction(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.ExecResults = []dbtest.ExecResult{{Tag: dbtest.Tag("UPDATE 1")}}

	unit, err := db.NewUnitFromConn(context.Background(), conn, false)
	require.NoError(t, err)

	tag, err := unit.Exec(context.Background(), `UPDATE internship SET click_counter = click_counter + 1 WHERE id = $1`, int64(7))
	require.NoError(t, err)
	assert.EqualValues(t, 1, tag.RowsAffected())

	require.Len(t, conn.Statements, 1)
	assert.Equal(t, []any{int64(7)}, conn.Statements[0].Args)

	require.NoError(t, unit.Commit(context.Background()))
}

func TestQueryErrorThenCompleteStillReleases(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.QueryResults = []dbtest.QueryResult{{Err: errors.New("syntax error")}}

	unit, err := db.NewUnitFromConn(context.Background(), conn, false)
	require.NoError(t, err)

	_, err = unit.Query(context.Background(), `SELECT nope`)
	require.Error(t, err)

	require.NoError(t, unit.Rollback(context.Background()))
	assert.Equal(t, 1, conn.Tx.Rollbacks)
	assert.Equal(t, 1, conn.Releases)
}
