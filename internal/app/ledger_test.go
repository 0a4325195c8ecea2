package app

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/backloop/internal/adapters/sqlite"
	"github.com/example/backloop/internal/db"
	"github.com/example/backloop/internal/ports/primary"
	"github.com/example/backloop/internal/ports/secondary"
)

func setupLedgerDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.InitSchema(database))
	require.NoError(t, db.SeedFixtures(database))
	return database
}

func runFaultyTrack(t *testing.T, svc *ReturnServiceImpl, itemID string) *primary.Confirmation {
	t.Helper()
	ctx := context.Background()

	_, err := svc.StartSession(ctx, primary.StartSessionRequest{ItemID: itemID, Intent: "faulty"})
	require.NoError(t, err)

	steps := []func() (*primary.StepResult, error){
		func() (*primary.StepResult, error) { return svc.AcceptInstructions(ctx, true) },
		func() (*primary.StepResult, error) { return svc.ContinueToProblem(ctx) },
		func() (*primary.StepResult, error) { return svc.SelectProblem(ctx, "damaged") },
		func() (*primary.StepResult, error) { return svc.ContinueToSolution(ctx) },
		func() (*primary.StepResult, error) { return svc.SelectResolution(ctx, "refund") },
		func() (*primary.StepResult, error) { return svc.ContinueToConfirm(ctx) },
		func() (*primary.StepResult, error) { return svc.SchedulePickup(ctx) },
	}
	for i, step := range steps {
		r, err := step()
		require.NoError(t, err)
		require.True(t, r.Allowed, "step %d refused: %s", i, r.Reason)
	}

	c, err := svc.CloseSession(ctx)
	require.NoError(t, err)
	return c
}

func TestCloseSession_RepeatedRequestIDIsStored(t *testing.T) {
	database := setupLedgerDB(t)
	confirmations := sqlite.NewConfirmationRepository(database)

	now := inWindow
	cfg := testWizardConfig(now)
	cfg.Now = func() time.Time { return now }

	executor := NewEffectExecutor(confirmations, discardLogger(), nil)
	svc := NewReturnService(sqlite.NewOrderRepository(database), confirmations, executor, cfg, discardLogger())

	first := runFaultyTrack(t, svc, "1")

	// Same last six millisecond digits.
	now = now.Add(1_000_000 * time.Millisecond)
	second := runFaultyTrack(t, svc, "2")

	assert.Equal(t, "BL-200000", first.RequestID)
	assert.Equal(t, first.RequestID, second.RequestID)

	stored, err := confirmations.List(context.Background(), secondary.ConfirmationFilters{})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "2", stored[0].ItemID)
	assert.Equal(t, "1", stored[1].ItemID)
	assert.NotEqual(t, stored[0].SessionID, stored[1].SessionID)
}
