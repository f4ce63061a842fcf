package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertdogan/internhub/internal/app/models"
	"github.com/mertdogan/internhub/internal/app/services"
	"github.com/mertdogan/internhub/internal/db/dbtest"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
)

// listingRow lays out values in the column order of the listing select.
func listingRow(id int64, category []string, views int64) dbtest.RowValues {
	now := time.Now()
	return dbtest.RowValues{
		id, "Backend Intern", "Build APIs", 1200, now.AddDate(0, 1, 0), 2,
		int64(3), int64(1), int64(2),
		nil, int64(15), now,
		int64(5), "Acme GmbH", nil,
		"Hauptstr. 1", "10115", "Berlin",
		"Remote", "6 months",
		category, views,
	}
}

func TestGetAllCurrentFiltersByDeadline(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.QueryResults = []dbtest.QueryResult{{Rows: []dbtest.RowValues{
		listingRow(42, []string{"Informatik", "Elektronik"}, 12),
	}}}
	unit := newTestUnit(t, conn, true)

	listings, err := services.NewInternshipService(unit).GetAllCurrent(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, listings, 1)

	listing := listings[0]
	assert.Equal(t, int64(42), listing.ID)
	assert.Equal(t, "Acme GmbH", listing.CompanyName)
	assert.Equal(t, []string{"Informatik", "Elektronik"}, listing.Category)
	assert.Equal(t, int64(12), listing.Views)
	assert.Nil(t, listing.DocumentPath)

	require.Len(t, conn.Statements, 1)
	stmt := conn.Statements[0]
	assert.Contains(t, stmt.SQL, "i.application_end >= CURRENT_DATE")
	assert.Contains(t, stmt.SQL, "ORDER BY i.application_end ASC")
	assert.Contains(t, stmt.SQL, "LIMIT 10")
}

func TestGetAllOrdersByNewest(t *testing.T) {
	conn := dbtest.NewFakeConn()
	unit := newTestUnit(t, conn, true)

	listings, err := services.NewInternshipService(unit).GetAll(context.Background(), 20, 10)
	require.NoError(t, err)
	assert.Empty(t, listings)

	require.Len(t, conn.Statements, 1)
	stmt := conn.Statements[0]
	assert.NotContains(t, stmt.SQL, "CURRENT_DATE")
	assert.Contains(t, stmt.SQL, "ORDER BY i.created_at DESC")
	assert.Contains(t, stmt.SQL, "LIMIT 10 OFFSET 20")
}

func TestCountCurrentOnly(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.RowResults = []dbtest.RowResult{{Values: []any{int64(7)}}}
	unit := newTestUnit(t, conn, true)

	count, err := services.NewInternshipService(unit).Count(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)

	require.Len(t, conn.Statements, 1)
	stmt := conn.Statements[0]
	assert.Contains(t, stmt.SQL, "SELECT COUNT(*) FROM internship")
	assert.Contains(t, stmt.SQL, "application_end >= CURRENT_DATE")
}

func TestGetByIDNormalizesEmptyCategory(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.RowResults = []dbtest.RowResult{{Values: listingRow(42, nil, 0)}}
	unit := newTestUnit(t, conn, true)

	listing, err := services.NewInternshipService(unit).GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, []string{}, listing.Category)
	assert.Equal(t, int64(0), listing.Views)
}

func TestGetByIDNotFound(t *testing.T) {
	conn := dbtest.NewFakeConn()
	unit := newTestUnit(t, conn, true)

	_, err := services.NewInternshipService(unit).GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, apperrors.ErrInternshipNotFound)
}

func TestInternshipExists(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.RowResults = []dbtest.RowResult{{Values: []any{int64(1)}}}
	unit := newTestUnit(t, conn, true)

	exists, err := services.NewInternshipService(unit).Exists(context.Background(), 42)
	require.NoError(t, err)
	assert.True(t, exists)

	require.Len(t, conn.Statements, 1)
	assert.Contains(t, conn.Statements[0].SQL, "SELECT COUNT(*) FROM internship")
}

func TestCreateRejectsUnknownReference(t *testing.T) {
	conn := dbtest.NewFakeConn()
	// Site exists, worktype does not. The insert must never run.
	conn.RowResults = []dbtest.RowResult{
		{Values: []any{int64(1)}},
		{Values: []any{int64(0)}},
	}
	unit := newTestUnit(t, conn, false)

	internship := &models.Internship{
		Title:          "Backend Intern",
		Description:    "Build APIs",
		ApplicationEnd: time.Now().AddDate(0, 1, 0),
		SiteID:         3,
		WorktypeID:     9999,
		DurationID:     2,
	}

	_, err := services.NewInternshipService(unit).Create(context.Background(), internship, []int64{1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidReference)

	require.Len(t, conn.Statements, 2)
	for _, stmt := range conn.Statements {
		assert.NotContains(t, stmt.SQL, "INSERT")
	}
}

func TestOwnedByCompany(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.RowResults = []dbtest.RowResult{{Values: []any{int64(0)}}}
	unit := newTestUnit(t, conn, true)

	owned, err := services.NewInternshipService(unit).OwnedByCompany(context.Background(), 42, 5)
	require.NoError(t, err)
	assert.False(t, owned)

	require.Len(t, conn.Statements, 1)
	stmt := conn.Statements[0]
	assert.Contains(t, stmt.SQL, "JOIN site s ON s.id = i.site_id")
}
