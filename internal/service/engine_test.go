package service_test

import (
	"context"
	"math/rand"
	"testing"

	"startup-sim/internal/models"
	"startup-sim/internal/oracle"
	oracleMocks "startup-sim/internal/oracle/mocks"
	repositoryMocks "startup-sim/internal/repository/mocks"
	"startup-sim/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const testSessionID = "test-session"

func newTestEngine(t *testing.T, chance float64) (service.SimulationService, *oracleMocks.ScenarioOracle, *repositoryMocks.StateRepository) {
	t.Helper()
	mockOracle := new(oracleMocks.ScenarioOracle)
	mockRepo := new(repositoryMocks.StateRepository)
	mockRepo.On("Save", mock.Anything, testSessionID, mock.Anything).Return(nil).Maybe()

	engine := service.NewSimulationEngine(
		service.EngineConfig{SessionID: testSessionID, SurpriseEventChance: chance},
		mockOracle,
		mockRepo,
		rand.New(rand.NewSource(42)),
		zap.NewNop(),
	)
	return engine, mockOracle, mockRepo
}

// initializedEngine boots an engine into a known month-0 state with a
// 50000 budget.
func initializedEngine(t *testing.T, chance float64) (service.SimulationService, *oracleMocks.ScenarioOracle) {
	t.Helper()
	engine, mockOracle, _ := newTestEngine(t, chance)

	payload := &oracle.InitialConditionsPayload{
		InitialConditionsJSON: `{
			"companyName": "PlantPal",
			"productName": "PlantPal App",
			"initialActiveUsers": 100,
			"pricePerUser": 9.99,
			"marketingSpend": 1500,
			"rndSpend": 1000,
			"suggestedTeam": [
				{"role": "Founder", "count": 1, "salary": 0},
				{"role": "Engineer", "count": 1, "salary": 3000}
			],
			"marketSize": "Large",
			"competitionLevel": "medium",
			"initialFeatures": ["Plant identification"],
			"startupScore": 55,
			"churnRate": 0.04
		}`,
		SuggestedChallengesJSON: `[
			{"title": "Reach 500 users", "description": "Grow the user base", "reward": "Traction"},
			{"title": "Ship watering reminders", "description": "Most requested feature", "reward": "Happier users"}
		]`,
	}
	mockOracle.On("RequestInitialConditions", mock.Anything, mock.Anything).Return(payload, nil).Once()

	state, err := engine.InitializeSimulation(context.Background(), oracle.SetupRequirements{
		IdeaText:     "An app that helps people keep their houseplants alive",
		TargetMarket: "Urban plant owners",
		Budget:       50000,
		CurrencyCode: "USD",
	})
	assert.NoError(t, err)
	assert.NotNil(t, state)
	return engine, mockOracle
}

func TestInitializeSimulation(t *testing.T) {
	ctx := context.Background()

	t.Run("Budget is authoritative for starting cash", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		state, err := engine.GetState(ctx)
		assert.NoError(t, err)
		assert.True(t, state.IsInitialized)
		assert.Equal(t, 0, state.SimulationMonth)
		assert.Equal(t, 50000.0, state.Financials.CashOnHand)
		assert.Equal(t, 50000.0, state.Financials.FundingRaised)
		assert.Equal(t, "$", state.Financials.CurrencySymbol)
		assert.Equal(t, "PlantPal", state.CompanyName)
		assert.Equal(t, models.StageIdea, state.Product.Stage)
		assert.Equal(t, 55, state.StartupScore)
	})

	t.Run("All series start with a single M0 point", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		state, _ := engine.GetState(ctx)
		assert.Len(t, state.HistoricalRevenue, 1)
		assert.Len(t, state.HistoricalUsers, 1)
		assert.Len(t, state.HistoricalBurnRate, 1)
		assert.Len(t, state.HistoricalNetProfitLoss, 1)
		assert.Len(t, state.HistoricalExpenseBreakdown, 1)
		assert.Len(t, state.HistoricalCAC, 1)
		assert.Len(t, state.HistoricalChurnRate, 1)
		assert.Len(t, state.HistoricalProductProgress, 1)
		assert.Equal(t, "M0", state.HistoricalRevenue[0].Month)
		assert.Equal(t, 100, state.HistoricalUsers[0].Users)
	})

	t.Run("Suggested challenges become the first mission batch", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		state, _ := engine.GetState(ctx)
		assert.Len(t, state.Missions, 2)
		assert.Equal(t, "Reach 500 users", state.Missions[0].Title)
		assert.NotEmpty(t, state.Missions[0].ID)
		assert.False(t, state.Missions[0].IsCompleted)
	})

	t.Run("Malformed initial conditions leave the session uninitialized", func(t *testing.T) {
		engine, mockOracle, _ := newTestEngine(t, 0)

		payload := &oracle.InitialConditionsPayload{InitialConditionsJSON: `{not json`}
		mockOracle.On("RequestInitialConditions", mock.Anything, mock.Anything).Return(payload, nil).Once()

		_, err := engine.InitializeSimulation(ctx, oracle.SetupRequirements{IdeaText: "idea", Budget: 1000})
		assert.ErrorIs(t, err, models.ErrInitializationFailed)

		state, _ := engine.GetState(ctx)
		assert.False(t, state.IsInitialized)
	})

	t.Run("Oracle failure is surfaced as unavailable", func(t *testing.T) {
		engine, mockOracle, _ := newTestEngine(t, 0)

		mockOracle.On("RequestInitialConditions", mock.Anything, mock.Anything).
			Return(nil, models.ErrOracleUnavailable).Once()

		_, err := engine.InitializeSimulation(ctx, oracle.SetupRequirements{IdeaText: "idea", Budget: 1000})
		assert.ErrorIs(t, err, models.ErrOracleUnavailable)
	})

	t.Run("Double initialization is rejected", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		_, err := engine.InitializeSimulation(ctx, oracle.SetupRequirements{IdeaText: "idea", Budget: 1000})
		assert.ErrorIs(t, err, models.ErrAlreadyInitialized)
	})

	t.Run("Missing idea or budget is invalid input", func(t *testing.T) {
		engine, _, _ := newTestEngine(t, 0)

		_, err := engine.InitializeSimulation(ctx, oracle.SetupRequirements{Budget: 1000})
		assert.ErrorIs(t, err, models.ErrInvalidInput)

		_, err = engine.InitializeSimulation(ctx, oracle.SetupRequirements{IdeaText: "idea"})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestAdvanceMonth(t *testing.T) {
	ctx := context.Background()

	monthOutcome := &oracle.RawMonthlyOutcome{
		CalculatedRevenue: floatPtr(1200),
		ExpenseBreakdown: &oracle.RawExpenseBreakdown{
			Salaries:    floatPtr(3000),
			Marketing:   floatPtr(1500),
			RnD:         floatPtr(1000),
			Operational: floatPtr(500),
		},
		UpdatedActiveUsers:      intPtr(180),
		UpdatedChurnRate:        floatPtr(0.05),
		ProductDevelopmentDelta: floatPtr(20),
		KeyEventsGenerated: []oracle.RawKeyEvent{
			{Description: "First paying customers", Category: "Financial", Impact: "Positive"},
			{Description: "Prototype demoed to investors", Category: "Product", Impact: "Positive"},
		},
		StartupScoreAdjustment: intPtr(3),
		AiReasoning:            strPtr("Early traction with modest spend."),
	}

	t.Run("Successful advance applies the reconciled outcome", func(t *testing.T) {
		engine, mockOracle := initializedEngine(t, 0)
		mockOracle.On("RequestMonth", mock.Anything, mock.MatchedBy(func(req oracle.MonthRequest) bool {
			return req.Month == 1 && req.CompanyName == "PlantPal"
		})).Return(monthOutcome, nil).Once()

		state, err := engine.AdvanceMonth(ctx)
		assert.NoError(t, err)

		assert.Equal(t, 1, state.SimulationMonth)
		assert.Equal(t, 1200.0, state.Financials.Revenue)
		assert.Equal(t, 6000.0, state.Financials.Expenses)
		assert.Equal(t, -4800.0, state.Financials.Profit)
		assert.Equal(t, 4800.0, state.Financials.BurnRate)
		assert.Equal(t, 45200.0, state.Financials.CashOnHand)
		assert.Equal(t, 180, state.UserMetrics.ActiveUsers)
		assert.Equal(t, 20.0, state.Product.DevelopmentProgress)
		assert.Equal(t, 58, state.StartupScore)
		assert.NotNil(t, state.CurrentAiReasoning)

		// Exactly two key events with identity assigned.
		assert.Len(t, state.KeyEvents, 2)
		assert.NotEmpty(t, state.KeyEvents[0].ID)
		assert.Equal(t, 1, state.KeyEvents[0].Month)

		// Every series gained exactly one point.
		assert.Len(t, state.HistoricalRevenue, 2)
		assert.Len(t, state.HistoricalExpenseBreakdown, 2)
		assert.Equal(t, "M1", state.HistoricalRevenue[1].Month)

		mockOracle.AssertExpectations(t)
	})

	t.Run("Advance on an uninitialized session is rejected", func(t *testing.T) {
		engine, _, _ := newTestEngine(t, 0)

		_, err := engine.AdvanceMonth(ctx)
		assert.ErrorIs(t, err, models.ErrNotInitialized)
	})

	t.Run("Oracle failure leaves the state untouched and the engine usable", func(t *testing.T) {
		engine, mockOracle := initializedEngine(t, 0)
		mockOracle.On("RequestMonth", mock.Anything, mock.Anything).
			Return(nil, models.ErrOracleUnavailable).Once()

		_, err := engine.AdvanceMonth(ctx)
		assert.ErrorIs(t, err, models.ErrOracleUnavailable)

		state, _ := engine.GetState(ctx)
		assert.Equal(t, 0, state.SimulationMonth)
		assert.Len(t, state.HistoricalRevenue, 1)

		// The busy flag must have been released.
		mockOracle.On("RequestMonth", mock.Anything, mock.Anything).Return(monthOutcome, nil).Once()
		state, err = engine.AdvanceMonth(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, state.SimulationMonth)
	})

	t.Run("Concurrent advance is rejected as busy", func(t *testing.T) {
		engine, mockOracle := initializedEngine(t, 0)

		mockOracle.On("RequestMonth", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				// Re-enter while the first advance is suspended on the oracle.
				_, err := engine.AdvanceMonth(ctx)
				assert.ErrorIs(t, err, models.ErrSimulationBusy)

				// Reads stay available during the suspension.
				state, readErr := engine.GetState(ctx)
				assert.NoError(t, readErr)
				assert.Equal(t, 0, state.SimulationMonth)
			}).
			Return(monthOutcome, nil).Once()

		_, err := engine.AdvanceMonth(ctx)
		assert.NoError(t, err)
	})

	t.Run("Mutators are rejected while an advance is in flight", func(t *testing.T) {
		engine, mockOracle := initializedEngine(t, 0)

		mockOracle.On("RequestMonth", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				_, err := engine.UpdateDecisions(ctx, service.DecisionLevers{MarketingSpend: floatPtr(100)})
				assert.ErrorIs(t, err, models.ErrSimulationBusy)

				_, err = engine.CompleteMission(ctx, "any-mission")
				assert.ErrorIs(t, err, models.ErrSimulationBusy)

				_, err = engine.ResolveSurpriseEvent(ctx, true)
				assert.ErrorIs(t, err, models.ErrSimulationBusy)
			}).
			Return(monthOutcome, nil).Once()

		_, err := engine.AdvanceMonth(ctx)
		assert.NoError(t, err)
	})

	t.Run("Advance with no cash is game over", func(t *testing.T) {
		engine, mockOracle := initializedEngine(t, 0)

		broke := &oracle.RawMonthlyOutcome{
			CalculatedRevenue: floatPtr(0),
			ExpenseBreakdown: &oracle.RawExpenseBreakdown{
				Operational: floatPtr(60000),
			},
		}
		mockOracle.On("RequestMonth", mock.Anything, mock.Anything).Return(broke, nil).Once()

		state, err := engine.AdvanceMonth(ctx)
		assert.NoError(t, err)
		assert.Less(t, state.Financials.CashOnHand, 0.0)

		_, err = engine.AdvanceMonth(ctx)
		assert.ErrorIs(t, err, models.ErrSimulationOver)
	})

	t.Run("Stage advance resets development progress", func(t *testing.T) {
		engine, mockOracle := initializedEngine(t, 0)

		promoted := &oracle.RawMonthlyOutcome{
			ProductDevelopmentDelta: floatPtr(30),
			NewProductStage:         strPtr("prototype"),
		}
		mockOracle.On("RequestMonth", mock.Anything, mock.Anything).Return(promoted, nil).Once()

		state, err := engine.AdvanceMonth(ctx)
		assert.NoError(t, err)
		assert.Equal(t, models.StagePrototype, state.Product.Stage)
		assert.Equal(t, 0.0, state.Product.DevelopmentProgress)
	})
}

func TestMissionRotation(t *testing.T) {
	ctx := context.Background()

	outcomeWithMissions := &oracle.RawMonthlyOutcome{
		NewMissions: []oracle.RawMission{
			{Title: "Launch on the app store", Description: "Public release", Reward: "Visibility"},
		},
	}

	t.Run("Incomplete batch is not replaced", func(t *testing.T) {
		engine, mockOracle := initializedEngine(t, 0)
		mockOracle.On("RequestMonth", mock.Anything, mock.Anything).Return(outcomeWithMissions, nil).Once()

		state, err := engine.AdvanceMonth(ctx)
		assert.NoError(t, err)
		assert.Len(t, state.Missions, 2)
		assert.Equal(t, "Reach 500 users", state.Missions[0].Title)
	})

	t.Run("Completed batch rotates to the oracle's new missions", func(t *testing.T) {
		engine, mockOracle := initializedEngine(t, 0)

		state, _ := engine.GetState(ctx)
		for _, m := range state.Missions {
			state, _ = engine.CompleteMission(ctx, m.ID)
		}
		assert.True(t, state.MissionsComplete())

		mockOracle.On("RequestMonth", mock.Anything, mock.MatchedBy(func(req oracle.MonthRequest) bool {
			return req.NeedMissions
		})).Return(outcomeWithMissions, nil).Once()

		state, err := engine.AdvanceMonth(ctx)
		assert.NoError(t, err)
		assert.Len(t, state.Missions, 1)
		assert.Equal(t, "Launch on the app store", state.Missions[0].Title)
		assert.NotEmpty(t, state.Missions[0].ID)
		assert.False(t, state.Missions[0].IsCompleted)
	})

	t.Run("Completed batch with no oracle missions falls back to the catalogue", func(t *testing.T) {
		engine, mockOracle := initializedEngine(t, 0)

		state, _ := engine.GetState(ctx)
		for _, m := range state.Missions {
			state, _ = engine.CompleteMission(ctx, m.ID)
		}

		mockOracle.On("RequestMonth", mock.Anything, mock.Anything).
			Return(&oracle.RawMonthlyOutcome{}, nil).Once()

		state, err := engine.AdvanceMonth(ctx)
		assert.NoError(t, err)
		assert.NotEmpty(t, state.Missions)
		for _, m := range state.Missions {
			assert.False(t, m.IsCompleted)
		}
	})

	t.Run("Unknown mission id is not found", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		_, err := engine.CompleteMission(ctx, "no-such-mission")
		assert.ErrorIs(t, err, models.ErrMissionNotFound)
	})
}

func TestDecisionLevers(t *testing.T) {
	ctx := context.Background()

	t.Run("Levers update the main state", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		state, err := engine.UpdateDecisions(ctx, service.DecisionLevers{
			MarketingSpend: floatPtr(2500),
			PricePerUser:   floatPtr(14.99),
		})
		assert.NoError(t, err)
		assert.Equal(t, 2500.0, state.Resources.MarketingSpend)
		assert.Equal(t, 14.99, state.Product.PricePerUser)
		// Untouched levers keep their values.
		assert.Equal(t, 1000.0, state.Resources.RnDSpend)
	})

	t.Run("Negative spend is invalid", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		_, err := engine.UpdateDecisions(ctx, service.DecisionLevers{MarketingSpend: floatPtr(-5)})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("Duplicate team roles are invalid", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		_, err := engine.UpdateDecisions(ctx, service.DecisionLevers{
			Team: []models.TeamMember{
				{Role: "Engineer", Count: 1, Salary: 3000},
				{Role: "Engineer", Count: 2, Salary: 2500},
			},
		})
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestResetSimulation(t *testing.T) {
	ctx := context.Background()

	t.Run("Reset discards the twin but keeps snapshots", func(t *testing.T) {
		engine, _ := initializedEngine(t, 0)

		_, err := engine.SaveSnapshot(ctx, "before reset")
		assert.NoError(t, err)

		assert.NoError(t, engine.ResetSimulation(ctx))

		state, _ := engine.GetState(ctx)
		assert.False(t, state.IsInitialized)

		snapshots, err := engine.ListSnapshots(ctx)
		assert.NoError(t, err)
		assert.Len(t, snapshots, 1)
	})
}
