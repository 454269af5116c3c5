package service

import (
	"math"
	"strings"

	"startup-sim/internal/models"
	"startup-sim/internal/oracle"

	"go.uber.org/zap"
)

// requiredKeyEvents is the fixed cardinality of a month's key event log.
const requiredKeyEvents = 2

// placeholderEventDescription fills events the oracle failed to describe.
const placeholderEventDescription = "An uneventful development this month."

// ReconcileOutcome converts a raw, untrusted monthly outcome into a
// self-consistent MonthlyDelta that is safe to apply without further
// checks. It is total: it never fails, whatever the oracle returned.
// Every repair is logged at Warn and counted for observability; repairs
// do not change the success path.
func ReconcileOutcome(prev *models.DigitalTwinState, raw *oracle.RawMonthlyOutcome, logger *zap.Logger) *models.MonthlyDelta {
	if raw == nil {
		raw = &oracle.RawMonthlyOutcome{}
	}
	log := logger.Named("Reconciler")
	delta := &models.MonthlyDelta{}

	// Revenue: trust the reported figure when sane, otherwise carry the
	// previous month forward.
	revenue := prev.Financials.Revenue
	if raw.CalculatedRevenue != nil {
		revenue = sanitizeFloat(*raw.CalculatedRevenue, prev.Financials.Revenue)
	}
	if revenue < 0 {
		recordRepair(log, "negative_revenue", zap.Float64("reported", revenue))
		revenue = 0
	}
	delta.Revenue = revenue

	// Expense consistency. A reported breakdown is authoritative: the
	// expense total is overwritten with the component sum regardless of
	// what the oracle claimed, and profit/cash are recomputed from it.
	if raw.ExpenseBreakdown != nil {
		delta.ExpenseBreakdown = models.ExpenseBreakdown{
			Salaries:    nonNegative(floatOrZero(raw.ExpenseBreakdown.Salaries)),
			Marketing:   nonNegative(floatOrZero(raw.ExpenseBreakdown.Marketing)),
			RnD:         nonNegative(floatOrZero(raw.ExpenseBreakdown.RnD)),
			Operational: nonNegative(floatOrZero(raw.ExpenseBreakdown.Operational)),
		}
		delta.Expenses = delta.ExpenseBreakdown.Total()
		if raw.CalculatedExpenses != nil && !closeEnough(*raw.CalculatedExpenses, delta.Expenses) {
			recordRepair(log, "expense_consistency",
				zap.Float64("reportedExpenses", *raw.CalculatedExpenses),
				zap.Float64("breakdownSum", delta.Expenses),
			)
		}
	} else {
		// Missing breakdown: synthesize one from the pre-advance state.
		salaries := prev.TotalSalaries()
		marketing := prev.Resources.MarketingSpend
		rnd := prev.Resources.RnDSpend
		reported := nonNegative(sanitizeFloat(floatOrZero(raw.CalculatedExpenses), 0))
		operational := math.Max(0, reported-(salaries+marketing+rnd))
		delta.ExpenseBreakdown = models.ExpenseBreakdown{
			Salaries:    salaries,
			Marketing:   marketing,
			RnD:         rnd,
			Operational: operational,
		}
		delta.Expenses = delta.ExpenseBreakdown.Total()
		recordRepair(log, "missing_breakdown",
			zap.Float64("reportedExpenses", reported),
			zap.Float64("synthesizedTotal", delta.Expenses),
		)
	}

	// Profit and cash are always recomputed; the oracle's own figures are
	// advisory at best.
	delta.Profit = delta.Revenue - delta.Expenses
	delta.CashOnHand = prev.Financials.CashOnHand + delta.Profit
	if raw.ProfitOrLoss != nil && !closeEnough(*raw.ProfitOrLoss, delta.Profit) {
		recordRepair(log, "profit_recomputed",
			zap.Float64("reported", *raw.ProfitOrLoss),
			zap.Float64("computed", delta.Profit),
		)
	}
	if raw.UpdatedCashOnHand != nil && !closeEnough(*raw.UpdatedCashOnHand, delta.CashOnHand) {
		recordRepair(log, "cash_recomputed",
			zap.Float64("reported", *raw.UpdatedCashOnHand),
			zap.Float64("computed", delta.CashOnHand),
		)
	}

	// User metrics.
	users := prev.UserMetrics.ActiveUsers
	if raw.UpdatedActiveUsers != nil {
		users = *raw.UpdatedActiveUsers
	}
	if users < 0 {
		recordRepair(log, "negative_users", zap.Int("reported", users))
		users = 0
	}
	delta.ActiveUsers = users

	if raw.NewUserAcquisition != nil && *raw.NewUserAcquisition > 0 {
		delta.NewUserAcquisition = *raw.NewUserAcquisition
	}

	churn := prev.UserMetrics.ChurnRate
	if raw.UpdatedChurnRate != nil {
		churn = sanitizeFloat(*raw.UpdatedChurnRate, prev.UserMetrics.ChurnRate)
	}
	if churn < 0 || churn > 1 {
		recordRepair(log, "churn_out_of_range", zap.Float64("reported", churn))
		churn = math.Min(1, math.Max(0, churn))
	}
	delta.ChurnRate = churn

	delta.CAC = nonNegative(sanitizeFloat(floatOrDefault(raw.UpdatedCAC, prev.UserMetrics.CAC), prev.UserMetrics.CAC))
	delta.MRR = nonNegative(sanitizeFloat(floatOrDefault(raw.UpdatedMRR, prev.UserMetrics.MRR), prev.UserMetrics.MRR))

	// Product development.
	devDelta := sanitizeFloat(floatOrZero(raw.ProductDevelopmentDelta), 0)
	if devDelta < 0 {
		recordRepair(log, "negative_dev_delta", zap.Float64("reported", devDelta))
		devDelta = 0
	}
	if devDelta > 100 {
		recordRepair(log, "dev_delta_overflow", zap.Float64("reported", devDelta))
		devDelta = 100
	}
	delta.ProductDevelopmentDelta = devDelta

	// Stage progression is monotonic: only the next stage forward is ever
	// accepted. Regressions are ignored, jumps are clamped to adjacent.
	if raw.NewProductStage != nil {
		reported := models.ProductStage(strings.ToLower(strings.TrimSpace(*raw.NewProductStage)))
		reportedRank := models.StageRank(reported)
		currentRank := models.StageRank(prev.Product.Stage)
		switch {
		case reportedRank < 0:
			recordRepair(log, "unknown_stage", zap.String("reported", string(reported)))
		case reportedRank <= currentRank:
			recordRepair(log, "stage_regression_ignored",
				zap.String("reported", string(reported)),
				zap.String("current", string(prev.Product.Stage)),
			)
		case reportedRank > currentRank+1:
			next := models.NextStage(prev.Product.Stage)
			recordRepair(log, "stage_jump_clamped",
				zap.String("reported", string(reported)),
				zap.String("clampedTo", string(next)),
			)
			delta.NewProductStage = &next
		default:
			stage := reported
			delta.NewProductStage = &stage
		}
	}

	delta.KeyEvents = reconcileKeyEvents(raw.KeyEventsGenerated, log)

	for _, title := range raw.RewardsGranted {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			delta.Rewards = append(delta.Rewards, models.Reward{Title: trimmed})
		}
	}

	for _, rm := range raw.NewMissions {
		title := strings.TrimSpace(rm.Title)
		if title == "" {
			recordRepair(log, "untitled_mission_dropped")
			continue
		}
		delta.NewMissions = append(delta.NewMissions, models.Mission{
			Title:       title,
			Description: strings.TrimSpace(rm.Description),
			RewardText:  strings.TrimSpace(rm.Reward),
		})
	}

	// Score: adjustment applied to the prior score, then clamped.
	adjustment := 0
	if raw.StartupScoreAdjustment != nil {
		adjustment = *raw.StartupScoreAdjustment
	}
	delta.StartupScore = models.ClampScore(prev.StartupScore + adjustment)

	if raw.AiReasoning != nil {
		delta.AiReasoning = strings.TrimSpace(*raw.AiReasoning)
	}

	return delta
}

// reconcileKeyEvents repairs, pads and truncates the raw event list to
// exactly requiredKeyEvents well-formed entries. IDs and months are
// assigned when the delta is applied.
func reconcileKeyEvents(rawEvents []oracle.RawKeyEvent, log *zap.Logger) []models.StructuredKeyEvent {
	if len(rawEvents) > requiredKeyEvents {
		recordRepair(log, "events_truncated", zap.Int("reported", len(rawEvents)))
		rawEvents = rawEvents[:requiredKeyEvents]
	}

	events := make([]models.StructuredKeyEvent, 0, requiredKeyEvents)
	for _, re := range rawEvents {
		description := strings.TrimSpace(re.Description)
		category := models.NormalizeEventCategory(re.Category)
		impact := models.NormalizeEventImpact(re.Impact)

		if description == "" {
			recordRepair(log, "event_missing_description")
			description = placeholderEventDescription
			category = models.CategoryGeneral
			impact = models.ImpactNeutral
		} else if string(category) != re.Category || string(impact) != re.Impact {
			// Usable description, broken enums: repair in place.
			recordRepair(log, "event_enum_repaired",
				zap.String("category", re.Category),
				zap.String("impact", re.Impact),
			)
		}

		events = append(events, models.StructuredKeyEvent{
			Description: description,
			Category:    category,
			Impact:      impact,
		})
	}

	for len(events) < requiredKeyEvents {
		recordRepair(log, "events_padded", zap.Int("have", len(events)))
		events = append(events, models.StructuredKeyEvent{
			Description: placeholderEventDescription,
			Category:    models.CategoryGeneral,
			Impact:      models.ImpactNeutral,
		})
	}

	return events
}

func recordRepair(log *zap.Logger, rule string, fields ...zap.Field) {
	log.Warn("Oracle outcome repaired", append([]zap.Field{zap.String("rule", rule)}, fields...)...)
	metricsIncrementRepair(rule)
}

// sanitizeFloat replaces NaN and infinities with a fallback.
func sanitizeFloat(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func floatOrDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// closeEnough compares reported figures against recomputed ones with a
// small tolerance so fractional-cent noise is not flagged as a repair.
func closeEnough(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}
