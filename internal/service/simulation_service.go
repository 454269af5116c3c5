package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"startup-sim/internal/models"
	"startup-sim/internal/oracle"
	"startup-sim/internal/repository"

	"go.uber.org/zap"
)

// DecisionLevers are the user-controlled inputs of the simulation, as
// opposed to computed outcomes. Nil fields are left untouched.
type DecisionLevers struct {
	MarketingSpend *float64            `json:"marketingSpend"`
	RnDSpend       *float64            `json:"rndSpend"`
	PricePerUser   *float64            `json:"pricePerUser"`
	Team           []models.TeamMember `json:"team"`
}

// SimulationService defines the operations of the simulation engine.
// The engine is a single-writer state machine: the main timeline and an
// active sandbox are independent serial contexts, and overlapping advances
// within one context are rejected with models.ErrSimulationBusy. While an
// advance is suspended on the oracle, reads stay available but every other
// mutator is rejected as busy too.
type SimulationService interface {
	// Bootstrap loads persisted state for the session, if any.
	Bootstrap(ctx context.Context) error

	// GetState returns a deep copy of the current main state. An
	// uninitialized session yields a zero state with IsInitialized false.
	GetState(ctx context.Context) (*models.DigitalTwinState, error)

	// InitializeSimulation creates the digital twin from founder inputs
	// and oracle-proposed initial conditions.
	InitializeSimulation(ctx context.Context, req oracle.SetupRequirements) (*models.DigitalTwinState, error)

	// AdvanceMonth advances the main timeline by one simulated month.
	AdvanceMonth(ctx context.Context) (*models.DigitalTwinState, error)

	// ResetSimulation discards the twin and any sandbox. The snapshot
	// registry survives.
	ResetSimulation(ctx context.Context) error

	// UpdateDecisions sets decision levers on the active context (the
	// sandbox when one is active, otherwise the main state).
	UpdateDecisions(ctx context.Context, levers DecisionLevers) (*models.DigitalTwinState, error)

	// CompleteMission marks a mission of the current batch as completed.
	CompleteMission(ctx context.Context, missionID string) (*models.DigitalTwinState, error)

	// ResolveSurpriseEvent applies the accept or reject transform of the
	// pending surprise event and folds it into history.
	ResolveSurpriseEvent(ctx context.Context, accepted bool) (*models.DigitalTwinState, error)

	// SurpriseEventHistory lists resolved surprise events, oldest first.
	SurpriseEventHistory(ctx context.Context) ([]models.SurpriseEventHistoryItem, error)

	// StartSandbox branches the main state into an isolated sandbox.
	StartSandbox(ctx context.Context) (*models.DigitalTwinState, error)

	// AdvanceSandboxMonth advances the sandbox branch by one month.
	AdvanceSandboxMonth(ctx context.Context) (*models.DigitalTwinState, error)

	// ApplySandboxDecisions copies the sandbox's decision levers into the
	// main state and discards the sandbox.
	ApplySandboxDecisions(ctx context.Context) (*models.DigitalTwinState, error)

	// DiscardSandbox drops the sandbox without touching the main state.
	DiscardSandbox(ctx context.Context) (*models.DigitalTwinState, error)

	// SaveSnapshot stores a named copy of the main state in the registry.
	SaveSnapshot(ctx context.Context, name string) (*models.SnapshotSummary, error)

	// LoadSnapshot replaces the main state with a stored snapshot.
	LoadSnapshot(ctx context.Context, snapshotID string) (*models.DigitalTwinState, error)

	// DeleteSnapshot removes a snapshot from the registry.
	DeleteSnapshot(ctx context.Context, snapshotID string) error

	// ListSnapshots lists snapshot metadata, oldest first.
	ListSnapshots(ctx context.Context) ([]models.SnapshotSummary, error)

	// Advise forwards a read-only consultation to the advisor oracle.
	Advise(ctx context.Context, topic, question string) (string, error)
}

// EngineConfig carries the engine's own settings.
type EngineConfig struct {
	SessionID           string
	SurpriseEventChance float64
}

// simulationEngine is the single-session implementation of
// SimulationService. All state mutation happens under mu; the only
// suspension points are the oracle calls, during which the state stays
// unchanged and readable.
type simulationEngine struct {
	cfg    EngineConfig
	oracle oracle.ScenarioOracle
	repo   repository.StateRepository
	logger *zap.Logger
	rng    *rand.Rand

	mu               sync.Mutex
	state            *models.DigitalTwinState
	snapshots        []models.SimulationSnapshot
	eventHistory     []models.SurpriseEventHistoryItem
	advancing        bool // main context: advance or initialize in flight
	sandboxAdvancing bool // sandbox context: advance in flight
}

// NewSimulationEngine creates the engine. The rng drives surprise event
// rolls and is injected so tests can pin a seed.
func NewSimulationEngine(
	cfg EngineConfig,
	scenarioOracle oracle.ScenarioOracle,
	repo repository.StateRepository,
	rng *rand.Rand,
	logger *zap.Logger,
) SimulationService {
	return &simulationEngine{
		cfg:    cfg,
		oracle: scenarioOracle,
		repo:   repo,
		logger: logger.Named("SimulationEngine"),
		rng:    rng,
	}
}

// Bootstrap loads the persisted session document. A missing document is
// the default uninitialized session, not an error.
func (e *simulationEngine) Bootstrap(ctx context.Context) error {
	doc, err := e.repo.Load(ctx, e.cfg.SessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			e.logger.Info("No persisted state, starting uninitialized", zap.String("sessionID", e.cfg.SessionID))
			return nil
		}
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = doc.Simulation
	e.snapshots = doc.Snapshots
	e.eventHistory = doc.EventHistory
	month := -1
	if e.state != nil {
		month = e.state.SimulationMonth
	}
	e.logger.Info("Persisted state loaded",
		zap.String("sessionID", e.cfg.SessionID),
		zap.Int("simulationMonth", month),
		zap.Int("snapshots", len(e.snapshots)),
	)
	return nil
}

func (e *simulationEngine) GetState(ctx context.Context) (*models.DigitalTwinState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return &models.DigitalTwinState{}, nil
	}
	return e.state.Clone(), nil
}

func (e *simulationEngine) ResetSimulation(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.advancing || e.sandboxAdvancing {
		return models.ErrSimulationBusy
	}
	e.state = nil

	e.logger.Info("Simulation reset", zap.String("sessionID", e.cfg.SessionID))
	e.persist(ctx, e.buildDocumentLocked())
	return nil
}

func (e *simulationEngine) UpdateDecisions(ctx context.Context, levers DecisionLevers) (*models.DigitalTwinState, error) {
	if err := validateLevers(levers); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil || !e.state.IsInitialized {
		return nil, models.ErrNotInitialized
	}
	if e.advancing || e.sandboxAdvancing {
		return nil, models.ErrSimulationBusy
	}

	// Levers land on the sandbox while one is active, so experiments
	// never leak into the main timeline.
	target := e.state
	if e.state.IsSandboxing && e.state.SandboxState != nil {
		target = e.state.SandboxState
	}

	applyLevers(target, levers)
	e.logger.Info("Decision levers updated",
		zap.Bool("sandbox", target != e.state),
		zap.Float64("marketingSpend", target.Resources.MarketingSpend),
		zap.Float64("rndSpend", target.Resources.RnDSpend),
		zap.Float64("pricePerUser", target.Product.PricePerUser),
	)

	e.persist(ctx, e.buildDocumentLocked())
	return e.state.Clone(), nil
}

func (e *simulationEngine) CompleteMission(ctx context.Context, missionID string) (*models.DigitalTwinState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil || !e.state.IsInitialized {
		return nil, models.ErrNotInitialized
	}
	if e.advancing || e.sandboxAdvancing {
		return nil, models.ErrSimulationBusy
	}

	target := e.state
	if e.state.IsSandboxing && e.state.SandboxState != nil {
		target = e.state.SandboxState
	}

	found := false
	for i := range target.Missions {
		if target.Missions[i].ID == missionID {
			target.Missions[i].IsCompleted = true
			found = true
			break
		}
	}
	if !found {
		return nil, models.ErrMissionNotFound
	}

	e.logger.Info("Mission completed", zap.String("missionID", missionID), zap.Bool("sandbox", target != e.state))
	e.persist(ctx, e.buildDocumentLocked())
	return e.state.Clone(), nil
}

func (e *simulationEngine) SurpriseEventHistory(ctx context.Context) ([]models.SurpriseEventHistoryItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.SurpriseEventHistoryItem(nil), e.eventHistory...), nil
}

func (e *simulationEngine) Advise(ctx context.Context, topic, question string) (string, error) {
	e.mu.Lock()
	if e.state == nil || !e.state.IsInitialized {
		e.mu.Unlock()
		return "", models.ErrNotInitialized
	}
	query := oracle.AdvisorQuery{
		Topic:        topic,
		Question:     question,
		Month:        e.state.SimulationMonth,
		CompanyName:  e.state.CompanyName,
		ProductStage: e.state.Product.Stage,
		CashOnHand:   e.state.Financials.CashOnHand,
	}
	e.mu.Unlock()

	// Advisors are pure consultations; no state is touched.
	return e.oracle.Advise(ctx, query)
}

// buildDocumentLocked assembles the persistence document. Callers must
// hold mu. Ephemeral fields are stripped from the stored copy.
func (e *simulationEngine) buildDocumentLocked() *repository.StateDocument {
	var stored *models.DigitalTwinState
	if e.state != nil {
		stored = e.state.Clone()
		stored.ActiveSurpriseEvent = nil
		stored.CurrentAiReasoning = nil
		if stored.SandboxState != nil {
			stored.SandboxState.ActiveSurpriseEvent = nil
			stored.SandboxState.CurrentAiReasoning = nil
		}
	}
	return &repository.StateDocument{
		Simulation:   stored,
		Snapshots:    append([]models.SimulationSnapshot(nil), e.snapshots...),
		EventHistory: append([]models.SurpriseEventHistoryItem(nil), e.eventHistory...),
	}
}

// persist writes the document. A persistence failure does not roll back
// the in-memory commit: the session owns the state and the next save
// retries the full document.
func (e *simulationEngine) persist(ctx context.Context, doc *repository.StateDocument) {
	if err := e.repo.Save(ctx, e.cfg.SessionID, doc); err != nil {
		e.logger.Error("Failed to persist state document", zap.String("sessionID", e.cfg.SessionID), zap.Error(err))
	}
}

func validateLevers(levers DecisionLevers) error {
	if levers.MarketingSpend != nil && *levers.MarketingSpend < 0 {
		return models.ErrInvalidInput
	}
	if levers.RnDSpend != nil && *levers.RnDSpend < 0 {
		return models.ErrInvalidInput
	}
	if levers.PricePerUser != nil && *levers.PricePerUser < 0 {
		return models.ErrInvalidInput
	}
	seen := map[string]bool{}
	for _, m := range levers.Team {
		if m.Role == "" || m.Count < 0 || m.Salary < 0 || seen[m.Role] {
			return models.ErrInvalidInput
		}
		seen[m.Role] = true
	}
	return nil
}

func applyLevers(st *models.DigitalTwinState, levers DecisionLevers) {
	if levers.MarketingSpend != nil {
		st.Resources.MarketingSpend = *levers.MarketingSpend
	}
	if levers.RnDSpend != nil {
		st.Resources.RnDSpend = *levers.RnDSpend
	}
	if levers.PricePerUser != nil {
		st.Product.PricePerUser = *levers.PricePerUser
	}
	if levers.Team != nil {
		st.Resources.Team = append([]models.TeamMember(nil), levers.Team...)
	}
}
