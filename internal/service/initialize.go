package service

import (
	"context"
	"fmt"
	"strings"

	"startup-sim/internal/models"
	"startup-sim/internal/oracle"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultStartupScore = 50

// InitializeSimulation creates the digital twin. The oracle proposes the
// initial conditions; the founder's own inputs (budget, currency, target
// market) stay authoritative over whatever the oracle suggests.
func (e *simulationEngine) InitializeSimulation(ctx context.Context, req oracle.SetupRequirements) (*models.DigitalTwinState, error) {
	if strings.TrimSpace(req.IdeaText) == "" || req.Budget <= 0 {
		return nil, models.ErrInvalidInput
	}
	if req.CurrencyCode == "" {
		req.CurrencyCode = "USD"
	}

	e.mu.Lock()
	if e.advancing {
		e.mu.Unlock()
		return nil, models.ErrSimulationBusy
	}
	if e.state != nil && e.state.IsInitialized {
		e.mu.Unlock()
		return nil, models.ErrAlreadyInitialized
	}
	e.advancing = true
	e.mu.Unlock()

	payload, err := e.oracle.RequestInitialConditions(ctx, req)
	if err != nil {
		e.clearAdvancing()
		e.logger.Error("Oracle failed to propose initial conditions", zap.Error(err))
		return nil, err
	}

	conditions, rawMissions, err := oracle.ParseInitialConditions(payload)
	if err != nil {
		// Malformed initial conditions are fatal: there is no previous
		// state to repair against, so the session stays uninitialized.
		e.clearAdvancing()
		e.logger.Error("Failed to parse initial conditions", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrInitializationFailed, err)
	}

	st := buildInitialState(req, conditions, rawMissions)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = st
	e.advancing = false
	e.logger.Info("Simulation initialized",
		zap.String("companyName", st.CompanyName),
		zap.Float64("budget", req.Budget),
		zap.String("currency", req.CurrencyCode),
		zap.Int("missions", len(st.Missions)),
	)
	e.persist(ctx, e.buildDocumentLocked())
	return e.state.Clone(), nil
}

func (e *simulationEngine) clearAdvancing() {
	e.mu.Lock()
	e.advancing = false
	e.mu.Unlock()
}

// buildInitialState assembles the month-0 twin from founder inputs and
// the oracle's proposed conditions.
func buildInitialState(req oracle.SetupRequirements, conditions *oracle.RawInitialConditions, rawMissions []oracle.RawMission) *models.DigitalTwinState {
	companyName := strings.TrimSpace(conditions.CompanyName)
	if companyName == "" {
		companyName = "Untitled Startup"
	}
	productName := strings.TrimSpace(conditions.ProductName)
	if productName == "" {
		productName = companyName
	}

	users := 0
	if conditions.InitialActiveUsers != nil && *conditions.InitialActiveUsers > 0 {
		users = *conditions.InitialActiveUsers
	}

	team := sanitizeTeam(conditions.SuggestedTeam)
	if len(team) == 0 {
		team = []models.TeamMember{{Role: "Founder", Count: 1, Salary: 0}}
	}

	score := defaultStartupScore
	if conditions.StartupScore != nil {
		score = models.ClampScore(*conditions.StartupScore)
	}

	churn := 0.0
	if conditions.ChurnRate != nil && *conditions.ChurnRate >= 0 && *conditions.ChurnRate <= 1 {
		churn = *conditions.ChurnRate
	}

	targetMarket := strings.TrimSpace(req.TargetMarket)
	if targetMarket == "" {
		targetMarket = "General consumers"
	}

	st := &models.DigitalTwinState{
		IsInitialized:   true,
		SimulationMonth: 0,
		CompanyName:     companyName,
		IdeaText:        req.IdeaText,
		Financials: models.Financials{
			Revenue:        0,
			Expenses:       0,
			Profit:         0,
			BurnRate:       0,
			CashOnHand:     req.Budget,
			FundingRaised:  req.Budget,
			CurrencyCode:   req.CurrencyCode,
			CurrencySymbol: models.CurrencySymbolFor(req.CurrencyCode),
		},
		UserMetrics: models.UserMetrics{
			ActiveUsers:     users,
			AcquisitionRate: nonNegative(floatOrZero(conditions.AcquisitionRate)),
			CAC:             nonNegative(floatOrZero(conditions.CAC)),
			ChurnRate:       churn,
			MRR:             0,
		},
		Product: models.Product{
			Name:                productName,
			Stage:               models.StageIdea,
			Features:            append([]string(nil), conditions.InitialFeatures...),
			DevelopmentProgress: 0,
			PricePerUser:        nonNegative(floatOrZero(conditions.PricePerUser)),
		},
		Resources: models.Resources{
			MarketingSpend: nonNegative(floatOrZero(conditions.MarketingSpend)),
			RnDSpend:       nonNegative(floatOrZero(conditions.RnDSpend)),
			Team:           team,
		},
		Market: models.Market{
			TargetDescription: targetMarket,
			Size:              strings.TrimSpace(conditions.MarketSize),
			CompetitionLevel:  models.NormalizeCompetitionLevel(conditions.CompetitionLevel),
		},
		StartupScore: score,
		KeyEvents:    []models.StructuredKeyEvent{},
		Rewards:      []models.Reward{},
		EarnedBadges: []string{},
	}

	st.Missions = missionsFromRaw(rawMissions)
	if len(st.Missions) == 0 {
		st.Missions = fallbackMissionBatch()
	}

	seedHistoricalSeries(st)
	return st
}

// seedHistoricalSeries writes the M0 point into every series so the
// series-length invariant (simulationMonth+1 points) holds from birth.
func seedHistoricalSeries(st *models.DigitalTwinState) {
	label := models.MonthLabel(0)
	st.HistoricalRevenue = []models.RevenuePoint{{Month: label, Revenue: st.Financials.Revenue}}
	st.HistoricalUsers = []models.UserPoint{{Month: label, Users: st.UserMetrics.ActiveUsers}}
	st.HistoricalBurnRate = []models.BurnRatePoint{{Month: label, BurnRate: st.Financials.BurnRate}}
	st.HistoricalNetProfitLoss = []models.ProfitLossPoint{{Month: label, NetProfitLoss: st.Financials.Profit}}
	st.HistoricalExpenseBreakdown = []models.ExpenseBreakdownPoint{{Month: label}}
	st.HistoricalCAC = []models.CACPoint{{Month: label, CAC: st.UserMetrics.CAC}}
	st.HistoricalChurnRate = []models.ChurnPoint{{Month: label, ChurnRate: st.UserMetrics.ChurnRate}}
	st.HistoricalProductProgress = []models.ProductProgressPoint{{Month: label, Progress: st.Product.DevelopmentProgress}}
}

func sanitizeTeam(team []models.TeamMember) []models.TeamMember {
	var out []models.TeamMember
	seen := map[string]bool{}
	for _, m := range team {
		role := strings.TrimSpace(m.Role)
		if role == "" || seen[role] || m.Count < 0 || m.Salary < 0 {
			continue
		}
		seen[role] = true
		out = append(out, models.TeamMember{Role: role, Count: m.Count, Salary: m.Salary})
	}
	return out
}

func missionsFromRaw(raw []oracle.RawMission) []models.Mission {
	var missions []models.Mission
	for _, rm := range raw {
		title := strings.TrimSpace(rm.Title)
		if title == "" {
			continue
		}
		missions = append(missions, models.Mission{
			ID:          uuid.NewString(),
			Title:       title,
			Description: strings.TrimSpace(rm.Description),
			RewardText:  strings.TrimSpace(rm.Reward),
		})
	}
	return missions
}

// fallbackMissionBatch issues a generic batch when the oracle supplied
// nothing usable. Missions keep the monthly loop goal-driven even when
// the oracle goes quiet.
func fallbackMissionBatch() []models.Mission {
	return []models.Mission{
		{
			ID:          uuid.NewString(),
			Title:       "Talk to your users",
			Description: "Gather feedback from at least ten prospective customers.",
			RewardText:  "Clearer product direction",
		},
		{
			ID:          uuid.NewString(),
			Title:       "Ship an improvement",
			Description: "Move product development forward this month.",
			RewardText:  "Progress toward the next stage",
		},
		{
			ID:          uuid.NewString(),
			Title:       "Keep the lights on",
			Description: "End the month with positive cash on hand.",
			RewardText:  "One more month of runway",
		},
	}
}
