package mocks

import (
	"context"

	"startup-sim/internal/models"
	"startup-sim/internal/oracle"
	"startup-sim/internal/service"

	"github.com/stretchr/testify/mock"
)

// SimulationService is a mock type for the service.SimulationService interface
type SimulationService struct {
	mock.Mock
}

func (_m *SimulationService) Bootstrap(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func (_m *SimulationService) GetState(ctx context.Context) (*models.DigitalTwinState, error) {
	ret := _m.Called(ctx)
	return stateResult(ret)
}

func (_m *SimulationService) InitializeSimulation(ctx context.Context, req oracle.SetupRequirements) (*models.DigitalTwinState, error) {
	ret := _m.Called(ctx, req)
	return stateResult(ret)
}

func (_m *SimulationService) AdvanceMonth(ctx context.Context) (*models.DigitalTwinState, error) {
	ret := _m.Called(ctx)
	return stateResult(ret)
}

func (_m *SimulationService) ResetSimulation(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func (_m *SimulationService) UpdateDecisions(ctx context.Context, levers service.DecisionLevers) (*models.DigitalTwinState, error) {
	ret := _m.Called(ctx, levers)
	return stateResult(ret)
}

func (_m *SimulationService) CompleteMission(ctx context.Context, missionID string) (*models.DigitalTwinState, error) {
	ret := _m.Called(ctx, missionID)
	return stateResult(ret)
}

func (_m *SimulationService) ResolveSurpriseEvent(ctx context.Context, accepted bool) (*models.DigitalTwinState, error) {
	ret := _m.Called(ctx, accepted)
	return stateResult(ret)
}

func (_m *SimulationService) SurpriseEventHistory(ctx context.Context) ([]models.SurpriseEventHistoryItem, error) {
	ret := _m.Called(ctx)

	var r0 []models.SurpriseEventHistoryItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.SurpriseEventHistoryItem)
	}
	return r0, ret.Error(1)
}

func (_m *SimulationService) StartSandbox(ctx context.Context) (*models.DigitalTwinState, error) {
	ret := _m.Called(ctx)
	return stateResult(ret)
}

func (_m *SimulationService) AdvanceSandboxMonth(ctx context.Context) (*models.DigitalTwinState, error) {
	ret := _m.Called(ctx)
	return stateResult(ret)
}

func (_m *SimulationService) ApplySandboxDecisions(ctx context.Context) (*models.DigitalTwinState, error) {
	ret := _m.Called(ctx)
	return stateResult(ret)
}

func (_m *SimulationService) DiscardSandbox(ctx context.Context) (*models.DigitalTwinState, error) {
	ret := _m.Called(ctx)
	return stateResult(ret)
}

func (_m *SimulationService) SaveSnapshot(ctx context.Context, name string) (*models.SnapshotSummary, error) {
	ret := _m.Called(ctx, name)

	var r0 *models.SnapshotSummary
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.SnapshotSummary)
	}
	return r0, ret.Error(1)
}

func (_m *SimulationService) LoadSnapshot(ctx context.Context, snapshotID string) (*models.DigitalTwinState, error) {
	ret := _m.Called(ctx, snapshotID)
	return stateResult(ret)
}

func (_m *SimulationService) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	ret := _m.Called(ctx, snapshotID)
	return ret.Error(0)
}

func (_m *SimulationService) ListSnapshots(ctx context.Context) ([]models.SnapshotSummary, error) {
	ret := _m.Called(ctx)

	var r0 []models.SnapshotSummary
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]models.SnapshotSummary)
	}
	return r0, ret.Error(1)
}

func (_m *SimulationService) Advise(ctx context.Context, topic, question string) (string, error) {
	ret := _m.Called(ctx, topic, question)
	return ret.String(0), ret.Error(1)
}

func stateResult(ret mock.Arguments) (*models.DigitalTwinState, error) {
	var r0 *models.DigitalTwinState
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.DigitalTwinState)
	}
	return r0, ret.Error(1)
}

var _ service.SimulationService = (*SimulationService)(nil)
