package service

import (
	"context"
	"strings"
	"time"

	"startup-sim/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaveSnapshot stores a named copy of the main state in the registry.
// Snapshots are taken only from the main timeline, never mid-branch.
func (e *simulationEngine) SaveSnapshot(ctx context.Context, name string) (*models.SnapshotSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrInvalidInput
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil || !e.state.IsInitialized {
		return nil, models.ErrNotInitialized
	}
	if e.state.IsSandboxing {
		return nil, models.ErrSandboxActive
	}
	if e.advancing {
		return nil, models.ErrSimulationBusy
	}

	frozen := e.state.Clone()
	frozen.SandboxState = nil
	frozen.IsSandboxing = false
	frozen.SandboxRelativeMonth = 0
	frozen.ActiveSurpriseEvent = nil
	frozen.CurrentAiReasoning = nil

	snap := models.SimulationSnapshot{
		ID:              uuid.NewString(),
		Name:            name,
		CreatedAt:       time.Now().UTC(),
		SimulationState: frozen,
	}
	e.snapshots = append(e.snapshots, snap)

	e.logger.Info("Snapshot saved",
		zap.String("snapshotId", snap.ID),
		zap.String("name", name),
		zap.Int("month", frozen.SimulationMonth),
	)
	e.persist(ctx, e.buildDocumentLocked())

	summary := snap.Summary()
	return &summary, nil
}

// LoadSnapshot replaces the entire main state with a stored copy. Any
// active sandbox is discarded; the pending surprise event, if any, is
// dropped with the state it belonged to.
func (e *simulationEngine) LoadSnapshot(ctx context.Context, snapshotID string) (*models.DigitalTwinState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.advancing || e.sandboxAdvancing {
		return nil, models.ErrSimulationBusy
	}

	var found *models.SimulationSnapshot
	for i := range e.snapshots {
		if e.snapshots[i].ID == snapshotID {
			found = &e.snapshots[i]
			break
		}
	}
	if found == nil {
		return nil, models.ErrSnapshotNotFound
	}

	e.state = found.SimulationState.Clone()
	e.logger.Info("Snapshot loaded",
		zap.String("snapshotId", snapshotID),
		zap.String("name", found.Name),
		zap.Int("month", e.state.SimulationMonth),
	)
	e.persist(ctx, e.buildDocumentLocked())
	return e.state.Clone(), nil
}

// DeleteSnapshot removes a snapshot from the registry.
func (e *simulationEngine) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.snapshots {
		if e.snapshots[i].ID == snapshotID {
			e.snapshots = append(e.snapshots[:i], e.snapshots[i+1:]...)
			e.logger.Info("Snapshot deleted", zap.String("snapshotId", snapshotID))
			e.persist(ctx, e.buildDocumentLocked())
			return nil
		}
	}
	return models.ErrSnapshotNotFound
}

// ListSnapshots lists snapshot metadata in creation order.
func (e *simulationEngine) ListSnapshots(ctx context.Context) ([]models.SnapshotSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	summaries := make([]models.SnapshotSummary, 0, len(e.snapshots))
	for _, snap := range e.snapshots {
		summaries = append(summaries, snap.Summary())
	}
	return summaries, nil
}
