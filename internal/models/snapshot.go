package models

import "time"

// SimulationSnapshot is a named, point-in-time copy of the main state.
// Snapshots live in a registry next to, not inside, the live state and
// survive a simulation reset.
type SimulationSnapshot struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	CreatedAt       time.Time         `json:"createdAt"`
	SimulationState *DigitalTwinState `json:"simulationState"`
}

// Summary returns the listing view of the snapshot.
func (s SimulationSnapshot) Summary() SnapshotSummary {
	summary := SnapshotSummary{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
	if s.SimulationState != nil {
		summary.SimulationMonth = s.SimulationState.SimulationMonth
	}
	return summary
}

// SnapshotSummary is the listing view of a snapshot, without the full state.
type SnapshotSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	CreatedAt       time.Time `json:"createdAt"`
	SimulationMonth int       `json:"simulationMonth"`
}
