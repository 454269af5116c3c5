package models_test

import (
	"testing"

	"startup-sim/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClone(t *testing.T) {
	t.Run("Clone does not alias slices", func(t *testing.T) {
		original := &models.DigitalTwinState{
			IsInitialized: true,
			KeyEvents: []models.StructuredKeyEvent{
				{ID: "ev-1", Description: "First event"},
			},
			Missions: []models.Mission{
				{ID: "m-1", Title: "First mission"},
			},
			Resources: models.Resources{
				Team: []models.TeamMember{{Role: "Founder", Count: 1}},
			},
			HistoricalRevenue: []models.RevenuePoint{{Month: "M0", Revenue: 0}},
		}

		clone := original.Clone()
		clone.KeyEvents[0].Description = "changed"
		clone.Missions[0].IsCompleted = true
		clone.Resources.Team[0].Count = 99
		clone.HistoricalRevenue[0].Revenue = 42

		assert.Equal(t, "First event", original.KeyEvents[0].Description)
		assert.False(t, original.Missions[0].IsCompleted)
		assert.Equal(t, 1, original.Resources.Team[0].Count)
		assert.Equal(t, 0.0, original.HistoricalRevenue[0].Revenue)
	})

	t.Run("Clone copies the sandbox branch", func(t *testing.T) {
		original := &models.DigitalTwinState{
			IsSandboxing: true,
			SandboxState: &models.DigitalTwinState{SimulationMonth: 2},
		}

		clone := original.Clone()
		clone.SandboxState.SimulationMonth = 7

		assert.Equal(t, 2, original.SandboxState.SimulationMonth)
	})

	t.Run("Nil clone stays nil", func(t *testing.T) {
		var s *models.DigitalTwinState
		assert.Nil(t, s.Clone())
	})
}

func TestMissionsComplete(t *testing.T) {
	t.Run("Empty batch counts as complete", func(t *testing.T) {
		s := &models.DigitalTwinState{}
		assert.True(t, s.MissionsComplete())
	})

	t.Run("One open mission keeps the batch open", func(t *testing.T) {
		s := &models.DigitalTwinState{
			Missions: []models.Mission{
				{ID: "a", IsCompleted: true},
				{ID: "b", IsCompleted: false},
			},
		}
		assert.False(t, s.MissionsComplete())
	})
}

func TestStageHelpers(t *testing.T) {
	assert.Equal(t, 0, models.StageRank(models.StageIdea))
	assert.Equal(t, 4, models.StageRank(models.StageMature))
	assert.Equal(t, -1, models.StageRank(models.ProductStage("unicorn")))

	assert.Equal(t, models.StagePrototype, models.NextStage(models.StageIdea))
	assert.Equal(t, models.StageMature, models.NextStage(models.StageMature))
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "M0", models.MonthLabel(0))
	assert.Equal(t, "M12", models.MonthLabel(12))
	assert.Equal(t, "M120", models.MonthLabel(120))
}

func TestTotalSalaries(t *testing.T) {
	s := &models.DigitalTwinState{
		Resources: models.Resources{
			Team: []models.TeamMember{
				{Role: "Founder", Count: 1, Salary: 0},
				{Role: "Engineer", Count: 2, Salary: 3000},
				{Role: "Designer", Count: 1, Salary: 2500},
			},
		},
	}
	assert.Equal(t, 8500.0, s.TotalSalaries())
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, models.ClampScore(-5))
	assert.Equal(t, 100, models.ClampScore(250))
	assert.Equal(t, 55, models.ClampScore(55))
}
