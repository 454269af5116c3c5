package models

import "time"

// EventCategory classifies a key event in the company log.
type EventCategory string

const (
	CategoryFinancial EventCategory = "Financial"
	CategoryProduct   EventCategory = "Product"
	CategoryTeam      EventCategory = "Team"
	CategoryMarket    EventCategory = "Market"
	CategoryGeneral   EventCategory = "General"
)

// NormalizeEventCategory maps unknown categories to General.
func NormalizeEventCategory(v string) EventCategory {
	switch EventCategory(v) {
	case CategoryFinancial, CategoryProduct, CategoryTeam, CategoryMarket, CategoryGeneral:
		return EventCategory(v)
	default:
		return CategoryGeneral
	}
}

// EventImpact marks whether a key event helped or hurt the company.
type EventImpact string

const (
	ImpactPositive EventImpact = "Positive"
	ImpactNegative EventImpact = "Negative"
	ImpactNeutral  EventImpact = "Neutral"
)

// NormalizeEventImpact maps unknown impacts to Neutral.
func NormalizeEventImpact(v string) EventImpact {
	switch EventImpact(v) {
	case ImpactPositive, ImpactNegative, ImpactNeutral:
		return EventImpact(v)
	default:
		return ImpactNeutral
	}
}

// StructuredKeyEvent is one entry in the append-only company event log.
type StructuredKeyEvent struct {
	ID          string        `json:"id"`
	Month       int           `json:"month"`
	Description string        `json:"description"`
	Category    EventCategory `json:"category"`
	Impact      EventImpact   `json:"impact"`
}

// Reward is a grant appended to the state when the oracle awards one.
type Reward struct {
	ID          string `json:"id"`
	Month       int    `json:"month"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Mission is one objective in the current working batch. The batch is
// replaced only once every mission in it is completed.
type Mission struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	RewardText  string `json:"rewardText"`
	IsCompleted bool   `json:"isCompleted"`
}

// SurpriseEventType identifies one of the catalogued surprise events.
type SurpriseEventType string

const (
	EventAngelInvestor SurpriseEventType = "angel_investor"
	EventDevRageQuit   SurpriseEventType = "dev_rage_quit"
	EventPositivePR    SurpriseEventType = "positive_pr"
	EventViralMoment   SurpriseEventType = "viral_moment"
)

// SurpriseEventOptions holds the two resolution labels shown to the player.
type SurpriseEventOptions struct {
	Accept string `json:"accept"`
	Reject string `json:"reject"`
}

// ActiveSurpriseEvent is the pending binary decision attached to the state.
// At most one may exist at any time; it is cleared when resolved and is
// never persisted.
type ActiveSurpriseEvent struct {
	ID             string               `json:"id"`
	Type           SurpriseEventType    `json:"type"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	MonthTriggered int                  `json:"monthTriggered"`
	Options        SurpriseEventOptions `json:"options"`
}

// SurpriseEventOutcome is the recorded resolution of a surprise event.
type SurpriseEventOutcome string

const (
	OutcomeAccepted SurpriseEventOutcome = "accepted"
	OutcomeRejected SurpriseEventOutcome = "rejected"
)

// SurpriseEventHistoryItem is the resolved counterpart of an
// ActiveSurpriseEvent, folded into history on resolution.
type SurpriseEventHistoryItem struct {
	EventID       string               `json:"eventId"`
	EventType     SurpriseEventType    `json:"eventType"`
	MonthOccurred int                  `json:"monthOccurred"`
	Outcome       SurpriseEventOutcome `json:"outcome"`
	Timestamp     time.Time            `json:"timestamp"`
}
