package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mertdogan/internhub/internal/app/models"
	"github.com/mertdogan/internhub/internal/app/services"
	"github.com/mertdogan/internhub/internal/db/dbtest"
)

func TestRevokeAllForSubject(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.ExecResults = []dbtest.ExecResult{{Tag: dbtest.Tag("UPDATE 2")}}
	unit := newTestUnit(t, conn, false)

	err := services.NewTokenService(unit).RevokeAllForSubject(context.Background(), models.SubjectPerson, 7)
	require.NoError(t, err)

	require.Len(t, conn.Statements, 1)
	stmt := conn.Statements[0]
	assert.Contains(t, stmt.SQL, "UPDATE refresh_tokens SET revoked =")
	// Only live tokens of this exact subject are touched.
	assert.Contains(t, stmt.Args, "PERSON")
	assert.Contains(t, stmt.Args, int64(7))
	assert.Contains(t, stmt.Args, false)
}

func TestDeleteExpired(t *testing.T) {
	conn := dbtest.NewFakeConn()
	conn.ExecResults = []dbtest.ExecResult{{Tag: dbtest.Tag("DELETE 3")}}
	unit := newTestUnit(t, conn, false)

	removed, err := services.NewTokenService(unit).DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	require.Len(t, conn.Statements, 1)
	assert.Contains(t, conn.Statements[0].SQL, "DELETE FROM refresh_tokens WHERE expires_at < NOW()")
}
