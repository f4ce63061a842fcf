package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertdogan/internhub/internal/app/services"
	"github.com/mertdogan/internhub/internal/db/dbtest"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
)

func TestUpsertViewedReportsInsert(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.RowResults = []dbtest.RowResult{{Values: []any{true}}}
	unit := newTestUnit(t, conn, false)

	inserted, err := services.NewTrackingService(unit).UpsertViewed(context.Background(), 7, 42)
	require.NoError(t, err)
	assert.True(t, inserted)

	require.Len(t, conn.Statements, 1)
	stmt := conn.Statements[0]
	assert.Contains(t, stmt.SQL, "INSERT INTO viewed_internships")
	assert.Contains(t, stmt.SQL, "ON CONFLICT (student_id, internship_id) DO UPDATE SET created_at = EXCLUDED.created_at")
	assert.Contains(t, stmt.SQL, "RETURNING (xmax = 0) AS inserted")
	assert.Equal(t, []any{int64(7), int64(42)}, stmt.Args)
}

func TestUpsertClickedReportsRefresh(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.RowResults = []dbtest.RowResult{{Values: []any{false}}}
	unit := newTestUnit(t, conn, false)

	inserted, err := services.NewTrackingService(unit).UpsertClicked(context.Background(), 7, 42)
	require.NoError(t, err)
	assert.False(t, inserted)

	require.Len(t, conn.Statements, 1)
	assert.Contains(t, conn.Statements[0].SQL, "INSERT INTO clicked_apply_internships")
}

func TestUpsertRejectsUnknownPair(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.RowResults = []dbtest.RowResult{{Err: &pgconn.PgError{Code: "23503"}}}
	unit := newTestUnit(t, conn, false)

	_, err := services.NewTrackingService(unit).UpsertViewed(context.Background(), 7, 9999)
	assert.ErrorIs(t, err, apperrors.ErrInvalidReference)
}

func TestClickedCountSince(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.RowResults = []dbtest.RowResult{{Values: []any{int64(4)}}}
	unit := newTestUnit(t, conn, true)

	count, err := services.NewTrackingService(unit).ClickedCountSince(context.Background(), 42, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	require.Len(t, conn.Statements, 1)
	stmt := conn.Statements[0]
	assert.Contains(t, stmt.SQL, "clicked_apply_internships")
	assert.Contains(t, stmt.SQL, "make_interval(days =>")
	assert.Contains(t, stmt.Args, 30)
}

func TestGetViewedByStudent(t *testing.T) {
	now := time.Now()
	conn := dbtest.NewFakeConn()
	conn.QueryResults = []dbtest.QueryResult{{Rows: []dbtest.RowValues{
		{int64(7), int64(42), now},
		{int64(7), int64(41), now.Add(-time.Hour)},
	}}}
	unit := newTestUnit(t, conn, true)

	views, err := services.NewTrackingService(unit).GetViewedByStudent(context.Background(), 7, 2)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, int64(42), views[0].InternshipID)
	assert.Equal(t, int64(41), views[1].InternshipID)

	require.Len(t, conn.Statements, 1)
	stmt := conn.Statements[0]
	assert.Contains(t, stmt.SQL, "ORDER BY created_at DESC")
	assert.Contains(t, stmt.SQL, "LIMIT 2")
}
