package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertdogan/internhub/internal/app/models"
	"github.com/mertdogan/internhub/internal/app/services"
	"github.com/mertdogan/internhub/internal/db/dbtest"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
)

func TestSiteCreate(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.RowResults = []dbtest.RowResult{{Values: []any{int64(3)}}}
	unit := newTestUnit(t, conn, false)

	site := &models.Site{Address: "Hauptstr. 1", PostalCode: "10115", CityID: 1, CompanyID: 5}
	id, err := services.NewSiteService(unit).Create(context.Background(), site)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)

	require.Len(t, conn.Statements, 1)
	assert.Contains(t, conn.Statements[0].SQL, "INSERT INTO site")
}

func TestSiteCreateRejectsBadPostalCode(t *testing.T) {
	conn := dbtest.NewFakeConn()
	unit := newTestUnit(t, conn, false)

	site := &models.Site{Address: "Hauptstr. 1", PostalCode: "1011", CityID: 1, CompanyID: 5}
	_, err := services.NewSiteService(unit).Create(context.Background(), site)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	// Rejected before any statement reaches the database.
	assert.Empty(t, conn.Statements)
}

func TestSiteUpdateRejectsShortAddress(t *testing.T) {
	conn := dbtest.NewFakeConn()
	unit := newTestUnit(t, conn, false)

	site := &models.Site{ID: 3, Address: "x", PostalCode: "10115", CityID: 1}
	err := services.NewSiteService(unit).Update(context.Background(), site)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, conn.Statements)
}
