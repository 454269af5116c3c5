package repository

import (
	"context"
	"time"

	"startup-sim/internal/models"
)

// StateDocument is the single persisted unit of a session: the main
// digital twin, the snapshot registry and surprise event history.
// Ephemeral state (active surprise event, AI reasoning) is stripped by
// the engine before saving.
type StateDocument struct {
	Version      int                               `json:"version"`
	UpdatedAt    time.Time                         `json:"updatedAt"`
	Simulation   *models.DigitalTwinState          `json:"simulation"`
	Snapshots    []models.SimulationSnapshot       `json:"snapshots"`
	EventHistory []models.SurpriseEventHistoryItem `json:"eventHistory"`
}

// StateRepository persists a session's StateDocument as one JSON value
// under a namespaced key. Absence of the key is reported as
// models.ErrNotFound and means a default, uninitialized session.
type StateRepository interface {
	Load(ctx context.Context, sessionID string) (*StateDocument, error)
	Save(ctx context.Context, sessionID string, doc *StateDocument) error
	Delete(ctx context.Context, sessionID string) error
}
