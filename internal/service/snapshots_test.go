package service_test

import (
	"context"
	"testing"

	"startup-sim/internal/models"
	"startup-sim/internal/oracle"
	"startup-sim/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSnapshots(t *testing.T) {
	ctx := context.Background()

	t.Run("Save and list round trip", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		summary, err := engine.SaveSnapshot(ctx, "pre-pivot")
		assert.NoError(t, err)
		assert.NotEmpty(t, summary.ID)
		assert.Equal(t, "pre-pivot", summary.Name)
		assert.Equal(t, 0, summary.SimulationMonth)

		snapshots, err := engine.ListSnapshots(ctx)
		assert.NoError(t, err)
		assert.Len(t, snapshots, 1)
		assert.Equal(t, summary.ID, snapshots[0].ID)
	})

	t.Run("Load restores the full state", func(t *testing.T) {
		engine, mockOracle := initializedEngine(t, 0)

		summary, err := engine.SaveSnapshot(ctx, "month zero")
		assert.NoError(t, err)

		outcome := &oracle.RawMonthlyOutcome{
			CalculatedRevenue: floatPtr(5000),
			ExpenseBreakdown:  &oracle.RawExpenseBreakdown{Operational: floatPtr(1000)},
		}
		mockOracle.On("RequestMonth", mock.Anything, mock.Anything).Return(outcome, nil).Once()

		state, err := engine.AdvanceMonth(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, state.SimulationMonth)

		state, err = engine.LoadSnapshot(ctx, summary.ID)
		assert.NoError(t, err)
		assert.Equal(t, 0, state.SimulationMonth)
		assert.Equal(t, 50000.0, state.Financials.CashOnHand)
		assert.Len(t, state.HistoricalRevenue, 1)
	})

	t.Run("Load then re-save yields an equivalent snapshot", func(t *testing.T) {
		engine, mockOracle := initializedEngine(t, 0)

		outcome := &oracle.RawMonthlyOutcome{
			CalculatedRevenue: floatPtr(5000),
			ExpenseBreakdown:  &oracle.RawExpenseBreakdown{Operational: floatPtr(1000)},
		}
		mockOracle.On("RequestMonth", mock.Anything, mock.Anything).Return(outcome, nil).Once()
		_, err := engine.AdvanceMonth(ctx)
		assert.NoError(t, err)

		original, err := engine.SaveSnapshot(ctx, "original")
		assert.NoError(t, err)

		restored, err := engine.LoadSnapshot(ctx, original.ID)
		assert.NoError(t, err)

		copySummary, err := engine.SaveSnapshot(ctx, "copy")
		assert.NoError(t, err)
		assert.NotEqual(t, original.ID, copySummary.ID)

		reloaded, err := engine.LoadSnapshot(ctx, copySummary.ID)
		assert.NoError(t, err)
		assert.Equal(t, restored, reloaded)
	})

	t.Run("Loading a snapshot discards an active sandbox", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		summary, err := engine.SaveSnapshot(ctx, "clean")
		assert.NoError(t, err)

		_, err = engine.StartSandbox(ctx)
		assert.NoError(t, err)

		state, err := engine.LoadSnapshot(ctx, summary.ID)
		assert.NoError(t, err)
		assert.False(t, state.IsSandboxing)
		assert.Nil(t, state.SandboxState)
	})

	t.Run("Snapshot is immune to later changes", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		summary, err := engine.SaveSnapshot(ctx, "frozen")
		assert.NoError(t, err)

		_, err = engine.UpdateDecisions(ctx, service.DecisionLevers{MarketingSpend: floatPtr(9999)})
		assert.NoError(t, err)

		state, err := engine.LoadSnapshot(ctx, summary.ID)
		assert.NoError(t, err)
		assert.Equal(t, 1500.0, state.Resources.MarketingSpend)
	})

	t.Run("Save while sandboxing is rejected", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		_, err := engine.StartSandbox(ctx)
		assert.NoError(t, err)

		_, err = engine.SaveSnapshot(ctx, "mid-branch")
		assert.ErrorIs(t, err, models.ErrSandboxActive)
	})

	t.Run("Save on an uninitialized session is rejected", func(t *testing.T) {
		engine, _, _ := newTestEngine(t, 0)

		_, err := engine.SaveSnapshot(ctx, "nothing yet")
		assert.ErrorIs(t, err, models.ErrNotInitialized)
	})

	t.Run("Unknown snapshot ids are not found", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		_, err := engine.LoadSnapshot(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrSnapshotNotFound)

		err = engine.DeleteSnapshot(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrSnapshotNotFound)
	})

	t.Run("Delete removes only the targeted snapshot", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		first, _ := engine.SaveSnapshot(ctx, "first")
		second, _ := engine.SaveSnapshot(ctx, "second")

		assert.NoError(t, engine.DeleteSnapshot(ctx, first.ID))

		snapshots, _ := engine.ListSnapshots(ctx)
		assert.Len(t, snapshots, 1)
		assert.Equal(t, second.ID, snapshots[0].ID)
	})
}
