package mocks

import (
	"context"

	"startup-sim/internal/oracle"

	"github.com/stretchr/testify/mock"
)

// ScenarioOracle is a mock type for the oracle.ScenarioOracle interface
type ScenarioOracle struct {
	mock.Mock
}

// RequestInitialConditions provides a mock function
func (_m *ScenarioOracle) RequestInitialConditions(ctx context.Context, req oracle.SetupRequirements) (*oracle.InitialConditionsPayload, error) {
	ret := _m.Called(ctx, req)

	var r0 *oracle.InitialConditionsPayload
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*oracle.InitialConditionsPayload)
	}
	return r0, ret.Error(1)
}

// RequestMonth provides a mock function
func (_m *ScenarioOracle) RequestMonth(ctx context.Context, req oracle.MonthRequest) (*oracle.RawMonthlyOutcome, error) {
	ret := _m.Called(ctx, req)

	var r0 *oracle.RawMonthlyOutcome
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*oracle.RawMonthlyOutcome)
	}
	return r0, ret.Error(1)
}

// Advise provides a mock function
func (_m *ScenarioOracle) Advise(ctx context.Context, q oracle.AdvisorQuery) (string, error) {
	ret := _m.Called(ctx, q)
	return ret.String(0), ret.Error(1)
}

var _ oracle.ScenarioOracle = (*ScenarioOracle)(nil)
