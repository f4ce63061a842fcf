package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mertdogan/internhub/internal/db"
	"github.com/mertdogan/internhub/internal/db/dbtest"
)

// newTestUnit wires a unit of work to a fake connection. Read-write units
// begin a transaction on creation, so queued results are served through the
// fake transaction; read-only units stay on the connection itself.
func newTestUnit(t *testing.T, conn *dbtest.FakeConn, readOnly bool) *db.Unit {
	t.Helper()
	unit, err := db.NewUnitFromConn(context.Background(), conn, readOnly)
	require.NoError(t, err)
	return unit
}
