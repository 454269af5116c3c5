package service

import (
	"context"

	"startup-sim/internal/models"

	"go.uber.org/zap"
)

// StartSandbox branches the main state into an isolated what-if copy.
// The branch starts with empty event and reward logs so its history only
// reflects what happens inside it.
func (e *simulationEngine) StartSandbox(ctx context.Context) (*models.DigitalTwinState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil || !e.state.IsInitialized {
		return nil, models.ErrNotInitialized
	}
	if e.state.IsSandboxing || e.state.SandboxState != nil {
		return nil, models.ErrSandboxActive
	}
	if e.advancing {
		return nil, models.ErrSimulationBusy
	}

	branch := e.state.Clone()
	branch.SandboxState = nil
	branch.IsSandboxing = false
	branch.SandboxRelativeMonth = 0
	branch.KeyEvents = []models.StructuredKeyEvent{}
	branch.Rewards = []models.Reward{}
	branch.ActiveSurpriseEvent = nil
	branch.CurrentAiReasoning = nil

	e.state.SandboxState = branch
	e.state.IsSandboxing = true
	e.state.SandboxRelativeMonth = 0

	e.logger.Info("Sandbox started", zap.Int("branchedAtMonth", e.state.SimulationMonth))
	e.persist(ctx, e.buildDocumentLocked())
	return e.state.Clone(), nil
}

// ApplySandboxDecisions copies the sandbox's decision levers into the
// main state and discards the branch. Computed outcomes (cash, users,
// score) never leak back to the main timeline.
func (e *simulationEngine) ApplySandboxDecisions(ctx context.Context) (*models.DigitalTwinState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil || !e.state.IsInitialized {
		return nil, models.ErrNotInitialized
	}
	if !e.state.IsSandboxing || e.state.SandboxState == nil {
		return nil, models.ErrSandboxNotActive
	}
	if e.sandboxAdvancing {
		return nil, models.ErrSimulationBusy
	}

	sandbox := e.state.SandboxState
	e.state.Resources.MarketingSpend = sandbox.Resources.MarketingSpend
	e.state.Resources.RnDSpend = sandbox.Resources.RnDSpend
	e.state.Product.PricePerUser = sandbox.Product.PricePerUser
	e.state.Resources.Team = append([]models.TeamMember(nil), sandbox.Resources.Team...)

	e.dropSandboxLocked()
	e.logger.Info("Sandbox decisions applied to main timeline")
	e.persist(ctx, e.buildDocumentLocked())
	return e.state.Clone(), nil
}

// DiscardSandbox drops the branch without touching the main state.
func (e *simulationEngine) DiscardSandbox(ctx context.Context) (*models.DigitalTwinState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil || !e.state.IsInitialized {
		return nil, models.ErrNotInitialized
	}
	if !e.state.IsSandboxing || e.state.SandboxState == nil {
		return nil, models.ErrSandboxNotActive
	}

	e.dropSandboxLocked()
	e.logger.Info("Sandbox discarded")
	e.persist(ctx, e.buildDocumentLocked())
	return e.state.Clone(), nil
}

func (e *simulationEngine) dropSandboxLocked() {
	e.state.SandboxState = nil
	e.state.IsSandboxing = false
	e.state.SandboxRelativeMonth = 0
}
