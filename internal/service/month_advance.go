package service

import (
	"context"
	"math"

	"startup-sim/internal/models"
	"startup-sim/internal/oracle"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// recentEventWindow is how many past key event descriptions are handed
// to the oracle as scenario context.
const recentEventWindow = 3

// AdvanceMonth advances the main timeline by one simulated month. The
// oracle call happens outside the lock; state stays readable while the
// request is in flight, and a second advance in the same context is
// rejected as busy instead of queued.
func (e *simulationEngine) AdvanceMonth(ctx context.Context) (*models.DigitalTwinState, error) {
	e.mu.Lock()
	if e.state == nil || !e.state.IsInitialized {
		e.mu.Unlock()
		return nil, models.ErrNotInitialized
	}
	if e.state.Financials.CashOnHand <= 0 {
		e.mu.Unlock()
		return nil, models.ErrSimulationOver
	}
	if e.advancing {
		e.mu.Unlock()
		metricsIncrementAdvance("main", "busy")
		return nil, models.ErrSimulationBusy
	}
	e.advancing = true
	req := buildMonthRequest(e.state, e.state.SimulationMonth+1, e.state.MissionsComplete())
	e.mu.Unlock()

	raw, err := e.oracle.RequestMonth(ctx, req)
	if err != nil {
		e.clearAdvancing()
		metricsIncrementAdvance("main", "oracle_error")
		e.logger.Error("Month advance aborted, oracle unavailable",
			zap.Int("month", req.Month), zap.Error(err))
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.advancing = false

	delta := ReconcileOutcome(e.state, raw, e.logger)
	applyDelta(e.state, delta)

	if ev := rollSurpriseEvent(e.rng, e.cfg.SurpriseEventChance, e.state); ev != nil {
		e.state.ActiveSurpriseEvent = ev
		metricsIncrementSurpriseEvent(string(ev.Type))
		e.logger.Info("Surprise event triggered",
			zap.String("type", string(ev.Type)),
			zap.Int("month", e.state.SimulationMonth),
		)
	}

	metricsIncrementAdvance("main", "success")
	e.logger.Info("Month advanced",
		zap.Int("month", e.state.SimulationMonth),
		zap.Float64("cashOnHand", e.state.Financials.CashOnHand),
		zap.Int("startupScore", e.state.StartupScore),
	)
	e.persist(ctx, e.buildDocumentLocked())
	return e.state.Clone(), nil
}

// AdvanceSandboxMonth advances the sandbox branch by one month. The main
// timeline is untouched; surprise events never fire in a sandbox.
func (e *simulationEngine) AdvanceSandboxMonth(ctx context.Context) (*models.DigitalTwinState, error) {
	e.mu.Lock()
	if e.state == nil || !e.state.IsInitialized {
		e.mu.Unlock()
		return nil, models.ErrNotInitialized
	}
	if !e.state.IsSandboxing || e.state.SandboxState == nil {
		e.mu.Unlock()
		return nil, models.ErrSandboxNotActive
	}
	if e.state.SandboxState.Financials.CashOnHand <= 0 {
		e.mu.Unlock()
		return nil, models.ErrSimulationOver
	}
	if e.sandboxAdvancing {
		e.mu.Unlock()
		metricsIncrementAdvance("sandbox", "busy")
		return nil, models.ErrSimulationBusy
	}
	e.sandboxAdvancing = true
	sandbox := e.state.SandboxState
	req := buildMonthRequest(sandbox, e.state.SandboxRelativeMonth+1, sandbox.MissionsComplete())
	e.mu.Unlock()

	raw, err := e.oracle.RequestMonth(ctx, req)
	if err != nil {
		e.mu.Lock()
		e.sandboxAdvancing = false
		e.mu.Unlock()
		metricsIncrementAdvance("sandbox", "oracle_error")
		e.logger.Error("Sandbox advance aborted, oracle unavailable",
			zap.Int("relativeMonth", req.Month), zap.Error(err))
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sandboxAdvancing = false
	if !e.state.IsSandboxing || e.state.SandboxState == nil {
		// Sandbox was discarded while the request was in flight; the
		// outcome has nowhere to land.
		metricsIncrementAdvance("sandbox", "discarded")
		return nil, models.ErrSandboxNotActive
	}
	sandbox = e.state.SandboxState

	delta := ReconcileOutcome(sandbox, raw, e.logger)
	applyDelta(sandbox, delta)
	e.state.SandboxRelativeMonth++

	metricsIncrementAdvance("sandbox", "success")
	e.logger.Info("Sandbox month advanced",
		zap.Int("relativeMonth", e.state.SandboxRelativeMonth),
		zap.Float64("cashOnHand", sandbox.Financials.CashOnHand),
	)
	e.persist(ctx, e.buildDocumentLocked())
	return e.state.Clone(), nil
}

// buildMonthRequest snapshots the parts of the state the oracle consumes.
func buildMonthRequest(st *models.DigitalTwinState, month int, needMissions bool) oracle.MonthRequest {
	var recent []string
	events := st.KeyEvents
	if len(events) > recentEventWindow {
		events = events[len(events)-recentEventWindow:]
	}
	for _, ev := range events {
		recent = append(recent, ev.Description)
	}

	return oracle.MonthRequest{
		Month:        month,
		CompanyName:  st.CompanyName,
		IdeaText:     st.IdeaText,
		Financials:   st.Financials,
		UserMetrics:  st.UserMetrics,
		Product:      st.Product,
		Resources:    st.Resources,
		Market:       st.Market,
		StartupScore: st.StartupScore,
		RecentEvents: recent,
		NeedMissions: needMissions,
	}
}

// applyDelta folds a reconciled month into the state. The delta is
// self-consistent by construction, so this is pure bookkeeping: bump the
// month, assign identities, append the series points.
func applyDelta(st *models.DigitalTwinState, delta *models.MonthlyDelta) {
	batchWasComplete := st.MissionsComplete()

	st.SimulationMonth++
	label := models.MonthLabel(st.SimulationMonth)

	st.Financials.Revenue = delta.Revenue
	st.Financials.Expenses = delta.Expenses
	st.Financials.Profit = delta.Profit
	st.Financials.BurnRate = math.Max(0, -delta.Profit)
	st.Financials.CashOnHand = delta.CashOnHand

	st.UserMetrics.ActiveUsers = delta.ActiveUsers
	if delta.NewUserAcquisition > 0 {
		st.UserMetrics.AcquisitionRate = float64(delta.NewUserAcquisition)
	}
	st.UserMetrics.ChurnRate = delta.ChurnRate
	st.UserMetrics.CAC = delta.CAC
	st.UserMetrics.MRR = delta.MRR

	if delta.NewProductStage != nil {
		st.Product.Stage = *delta.NewProductStage
		st.Product.DevelopmentProgress = 0
	} else {
		st.Product.DevelopmentProgress = math.Min(100, st.Product.DevelopmentProgress+delta.ProductDevelopmentDelta)
	}

	for _, ev := range delta.KeyEvents {
		ev.ID = uuid.NewString()
		ev.Month = st.SimulationMonth
		st.KeyEvents = append(st.KeyEvents, ev)
	}

	for _, r := range delta.Rewards {
		r.ID = uuid.NewString()
		r.Month = st.SimulationMonth
		st.Rewards = append(st.Rewards, r)
		st.EarnedBadges = append(st.EarnedBadges, r.Title)
	}

	// Mission rotation: a fresh batch replaces the old one only once the
	// old one is fully completed.
	if batchWasComplete {
		fresh := delta.NewMissions
		if len(fresh) == 0 {
			fresh = fallbackMissionBatch()
		}
		for i := range fresh {
			if fresh[i].ID == "" {
				fresh[i].ID = uuid.NewString()
			}
		}
		st.Missions = fresh
	}

	st.StartupScore = delta.StartupScore
	if delta.AiReasoning != "" {
		reasoning := delta.AiReasoning
		st.CurrentAiReasoning = &reasoning
	} else {
		st.CurrentAiReasoning = nil
	}

	st.HistoricalRevenue = append(st.HistoricalRevenue, models.RevenuePoint{Month: label, Revenue: delta.Revenue})
	st.HistoricalUsers = append(st.HistoricalUsers, models.UserPoint{Month: label, Users: delta.ActiveUsers})
	st.HistoricalBurnRate = append(st.HistoricalBurnRate, models.BurnRatePoint{Month: label, BurnRate: st.Financials.BurnRate})
	st.HistoricalNetProfitLoss = append(st.HistoricalNetProfitLoss, models.ProfitLossPoint{Month: label, NetProfitLoss: delta.Profit})
	st.HistoricalExpenseBreakdown = append(st.HistoricalExpenseBreakdown, models.ExpenseBreakdownPoint{
		Month:       label,
		Salaries:    delta.ExpenseBreakdown.Salaries,
		Marketing:   delta.ExpenseBreakdown.Marketing,
		RnD:         delta.ExpenseBreakdown.RnD,
		Operational: delta.ExpenseBreakdown.Operational,
		Total:       delta.Expenses,
	})
	st.HistoricalCAC = append(st.HistoricalCAC, models.CACPoint{Month: label, CAC: delta.CAC})
	st.HistoricalChurnRate = append(st.HistoricalChurnRate, models.ChurnPoint{Month: label, ChurnRate: delta.ChurnRate})
	st.HistoricalProductProgress = append(st.HistoricalProductProgress, models.ProductProgressPoint{Month: label, Progress: st.Product.DevelopmentProgress})
}
