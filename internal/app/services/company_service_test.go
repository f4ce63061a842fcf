package services_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertdogan/internhub/internal/app/models"
	"github.com/mertdogan/internhub/internal/app/services"
	"github.com/mertdogan/internhub/internal/db/dbtest"
	"github.com/mertdogan/internhub/internal/pkg/apperrors"
)

func TestCompanyCreateRejectsBadPhone(t *testing.T) {
	conn := dbtest.NewFakeConn()
	unit := newTestUnit(t, conn, false)

	company := &models.Company{Name: "Acme GmbH", Email: "jobs@acme.example", Phone: "call-me"}
	_, err := services.NewCompanyService(unit).Create(context.Background(), company)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, conn.Statements)
}

func TestCompanyCreateAllowsEmptyPhone(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.RowResults = []dbtest.RowResult{{Values: []any{int64(5)}}}
	unit := newTestUnit(t, conn, false)

	company := &models.Company{Name: "Acme GmbH", Email: "jobs@acme.example"}
	id, err := services.NewCompanyService(unit).Create(context.Background(), company)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
}

func TestCompanyUpdateRejectsShortName(t *testing.T) {
	conn := dbtest.NewFakeConn()
	unit := newTestUnit(t, conn, false)

	company := &models.Company{ID: 5, Name: "A", Email: "jobs@acme.example"}
	err := services.NewCompanyService(unit).Update(context.Background(), company)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, conn.Statements)
}

func TestCompanyGetAllPaginates(t *testing.T) {
	conn := dbtest.NewFakeConn()
	unit := newTestUnit(t, conn, true)

	companies, err := services.NewCompanyService(unit).GetAll(context.Background(), 10, 10)
	require.NoError(t, err)
	assert.Empty(t, companies)

	require.Len(t, conn.Statements, 1)
	stmt := conn.Statements[0]
	assert.Contains(t, stmt.SQL, "ORDER BY name")
	assert.Contains(t, stmt.SQL, "LIMIT 10 OFFSET 10")
}

func TestCompanyCount(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.RowResults = []dbtest.RowResult{{Values: []any{int64(42)}}}
	unit := newTestUnit(t, conn, true)

	count, err := services.NewCompanyService(unit).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)

	require.Len(t, conn.Statements, 1)
	assert.Contains(t, conn.Statements[0].SQL, "SELECT COUNT(*) FROM company")
}

func TestSetLogoPathClearsOnEmpty(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.ExecResults = []dbtest.ExecResult{{Tag: dbtest.Tag("UPDATE 1")}}
	unit := newTestUnit(t, conn, false)

	err := services.NewCompanyService(unit).SetLogoPath(context.Background(), 5, "")
	require.NoError(t, err)

	require.Len(t, conn.Statements, 1)
	require.Len(t, conn.Statements[0].Args, 2)
	assert.Equal(t, sql.NullString{}, conn.Statements[0].Args[0])
}
