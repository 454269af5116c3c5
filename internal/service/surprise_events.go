package service

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"time"

	"startup-sim/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// surpriseEventTemplate is one entry in the fixed event catalogue. The
// oracle plays no part here: triggering and both resolution transforms
// are fully deterministic given the state.
type surpriseEventTemplate struct {
	Type        models.SurpriseEventType
	Title       string
	Description string
	Options     models.SurpriseEventOptions
}

var surpriseEventCatalogue = []surpriseEventTemplate{
	{
		Type:        models.EventAngelInvestor,
		Title:       "An angel appears",
		Description: "An angel investor offers a cash injection worth half your current reserves, no strings attached today.",
		Options: models.SurpriseEventOptions{
			Accept: "Take the money",
			Reject: "Stay independent",
		},
	},
	{
		Type:        models.EventDevRageQuit,
		Title:       "Engineer on the way out",
		Description: "A key engineer is about to quit. A retention package would cost 10% of your cash on hand.",
		Options: models.SurpriseEventOptions{
			Accept: "Pay to retain",
			Reject: "Let them go",
		},
	},
	{
		Type:        models.EventPositivePR,
		Title:       "Press is calling",
		Description: "A major outlet wants to feature you. Leaning into the coverage means ramping up marketing spend.",
		Options: models.SurpriseEventOptions{
			Accept: "Ride the wave",
			Reject: "Stay quiet",
		},
	},
	{
		Type:        models.EventViralMoment,
		Title:       "You went viral",
		Description: "A post about your product is blowing up. Opening the floodgates brings users who may not stick around.",
		Options: models.SurpriseEventOptions{
			Accept: "Open the floodgates",
			Reject: "Grow carefully",
		},
	},
}

// rollSurpriseEvent decides whether a surprise event fires after a main
// timeline advance. At most one event may be pending at a time.
func rollSurpriseEvent(rng *rand.Rand, chance float64, st *models.DigitalTwinState) *models.ActiveSurpriseEvent {
	if st.ActiveSurpriseEvent != nil {
		return nil
	}
	if rng.Float64() >= chance {
		return nil
	}
	tmpl := surpriseEventCatalogue[rng.Intn(len(surpriseEventCatalogue))]
	return &models.ActiveSurpriseEvent{
		ID:             uuid.NewString(),
		Type:           tmpl.Type,
		Title:          tmpl.Title,
		Description:    tmpl.Description,
		MonthTriggered: st.SimulationMonth,
		Options:        tmpl.Options,
	}
}

// ResolveSurpriseEvent applies the accept or reject transform of the
// pending event, logs it as a key event, folds it into history and
// clears it.
func (e *simulationEngine) ResolveSurpriseEvent(ctx context.Context, accepted bool) (*models.DigitalTwinState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == nil || !e.state.IsInitialized {
		return nil, models.ErrNotInitialized
	}
	if e.advancing || e.sandboxAdvancing {
		return nil, models.ErrSimulationBusy
	}
	event := e.state.ActiveSurpriseEvent
	if event == nil {
		return nil, models.ErrNoActiveEvent
	}

	outcome := models.OutcomeRejected
	if accepted {
		outcome = models.OutcomeAccepted
	}

	description := applySurpriseTransform(e.state, event.Type, accepted)
	e.state.KeyEvents = append(e.state.KeyEvents, models.StructuredKeyEvent{
		ID:          uuid.NewString(),
		Month:       e.state.SimulationMonth,
		Description: description,
		Category:    surpriseEventCategory(event.Type),
		Impact:      surpriseEventImpact(event.Type, accepted),
	})

	e.eventHistory = append(e.eventHistory, models.SurpriseEventHistoryItem{
		EventID:       event.ID,
		EventType:     event.Type,
		MonthOccurred: event.MonthTriggered,
		Outcome:       outcome,
		Timestamp:     time.Now().UTC(),
	})
	e.state.ActiveSurpriseEvent = nil

	e.logger.Info("Surprise event resolved",
		zap.String("type", string(event.Type)),
		zap.String("outcome", string(outcome)),
	)
	e.persist(ctx, e.buildDocumentLocked())
	return e.state.Clone(), nil
}

// applySurpriseTransform mutates the state per the event's resolution and
// returns the key event description for the log.
func applySurpriseTransform(st *models.DigitalTwinState, eventType models.SurpriseEventType, accepted bool) string {
	switch eventType {
	case models.EventAngelInvestor:
		if accepted {
			injection := st.Financials.CashOnHand / 2
			st.Financials.CashOnHand += injection
			st.Financials.FundingRaised += injection
			return "Accepted an angel investment and extended the runway."
		}
		st.StartupScore = models.ClampScore(st.StartupScore + 2)
		return "Turned down an angel investor to stay independent."

	case models.EventDevRageQuit:
		if accepted {
			st.Financials.CashOnHand -= st.Financials.CashOnHand * 0.10
			return "Paid a retention package to keep a key engineer."
		}
		removeOneEngineer(st)
		st.Product.DevelopmentProgress = math.Max(0, st.Product.DevelopmentProgress-15)
		return "A key engineer left, setting product development back."

	case models.EventPositivePR:
		if accepted {
			st.Resources.MarketingSpend *= 1.20
			st.UserMetrics.AcquisitionRate *= 1.25
			return "Leaned into major press coverage with a marketing push."
		}
		return "Declined press coverage and kept a low profile."

	case models.EventViralMoment:
		if accepted {
			st.UserMetrics.ActiveUsers = int(math.Round(float64(st.UserMetrics.ActiveUsers) * 1.30))
			st.UserMetrics.ChurnRate = math.Min(1, st.UserMetrics.ChurnRate+0.02)
			return "Rode a viral moment, trading churn for a user surge."
		}
		st.UserMetrics.ActiveUsers = int(math.Round(float64(st.UserMetrics.ActiveUsers) * 1.05))
		return "Let a viral moment pass with measured growth."
	}
	return "Resolved an unexpected development."
}

// removeOneEngineer drops one head from the first engineering-flavored
// role line, removing the line entirely when it hits zero.
func removeOneEngineer(st *models.DigitalTwinState) {
	for i := range st.Resources.Team {
		if !isEngineeringRole(st.Resources.Team[i].Role) {
			continue
		}
		st.Resources.Team[i].Count--
		if st.Resources.Team[i].Count <= 0 {
			st.Resources.Team = append(st.Resources.Team[:i], st.Resources.Team[i+1:]...)
		}
		return
	}
}

func isEngineeringRole(role string) bool {
	r := strings.ToLower(role)
	return strings.Contains(r, "engineer") || strings.Contains(r, "developer") || r == "cto"
}

func surpriseEventCategory(t models.SurpriseEventType) models.EventCategory {
	switch t {
	case models.EventAngelInvestor:
		return models.CategoryFinancial
	case models.EventDevRageQuit:
		return models.CategoryTeam
	case models.EventPositivePR, models.EventViralMoment:
		return models.CategoryMarket
	default:
		return models.CategoryGeneral
	}
}

func surpriseEventImpact(t models.SurpriseEventType, accepted bool) models.EventImpact {
	switch t {
	case models.EventAngelInvestor:
		if accepted {
			return models.ImpactPositive
		}
		return models.ImpactNeutral
	case models.EventDevRageQuit:
		if accepted {
			return models.ImpactNeutral
		}
		return models.ImpactNegative
	case models.EventPositivePR:
		if accepted {
			return models.ImpactPositive
		}
		return models.ImpactNeutral
	case models.EventViralMoment:
		return models.ImpactPositive
	default:
		return models.ImpactNeutral
	}
}
