package services_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertdogan/internhub/internal/app/services"
	"github.com/mertdogan/internhub/internal/db/dbtest"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
)

func TestFavouriteExists(t *testing.T) {
	tests := []struct {
		name  string
		count int64
		want  bool
	}{
		{"no row", 0, false},
		{"one row", 1, true},
		{"broken unique constraint", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dbtest.NewFakeConn()
			conn.RowResults = []dbtest.RowResult{{Values: []any{tt.count}}}
			unit := newTestUnit(t, conn, true)

			exists, err := services.NewFavouriteService(unit).Exists(context.Background(), 7, 42)
			require.NoError(t, err)
			assert.Equal(t, tt.want, exists)
		})
	}
}

func TestFavouriteCreate(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.ExecResults = []dbtest.ExecResult{{Tag: dbtest.Tag("INSERT 0 1")}}
	unit := newTestUnit(t, conn, false)

	id, err := services.NewFavouriteService(unit).Create(context.Background(), 7, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	require.Len(t, conn.Statements, 1)
	stmt := conn.Statements[0]
	assert.Contains(t, stmt.SQL, "INSERT INTO favourite")
	assert.Contains(t, stmt.SQL, "ON CONFLICT (student_id, internship_id) DO NOTHING")
	assert.Equal(t, []any{int64(7), int64(42)}, stmt.Args)
}

func TestFavouriteCreateRejectsUnknownReference(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.ExecResults = []dbtest.ExecResult{{Err: &pgconn.PgError{Code: "23503"}}}
	unit := newTestUnit(t, conn, false)

	_, err := services.NewFavouriteService(unit).Create(context.Background(), 7, 9999)
	assert.ErrorIs(t, err, apperrors.ErrInvalidReference)
}

func TestFavouriteDelete(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.ExecResults = []dbtest.ExecResult{{Tag: dbtest.Tag("DELETE 1")}}
	unit := newTestUnit(t, conn, false)

	id, err := services.NewFavouriteService(unit).Delete(context.Background(), 7, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestFavouriteDeleteMissingRowReturnsSentinel(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.ExecResults = []dbtest.ExecResult{{Tag: dbtest.Tag("DELETE 0")}}
	unit := newTestUnit(t, conn, false)

	id, err := services.NewFavouriteService(unit).Delete(context.Background(), 7, 42)
	require.NoError(t, err)
	assert.Equal(t, services.FavouriteNotFound, id)
}
