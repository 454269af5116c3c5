package mocks

import (
	"context"

	"startup-sim/internal/repository"

	"github.com/stretchr/testify/mock"
)

// StateRepository is a mock type for the repository.StateRepository interface
type StateRepository struct {
	mock.Mock
}

// Load provides a mock function
func (_m *StateRepository) Load(ctx context.Context, sessionID string) (*repository.StateDocument, error) {
	ret := _m.Called(ctx, sessionID)

	var r0 *repository.StateDocument
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*repository.StateDocument)
	}
	return r0, ret.Error(1)
}

// Save provides a mock function
func (_m *StateRepository) Save(ctx context.Context, sessionID string, doc *repository.StateDocument) error {
	ret := _m.Called(ctx, sessionID, doc)
	return ret.Error(0)
}

// Delete provides a mock function
func (_m *StateRepository) Delete(ctx context.Context, sessionID string) error {
	ret := _m.Called(ctx, sessionID)
	return ret.Error(0)
}

var _ repository.StateRepository = (*StateRepository)(nil)
