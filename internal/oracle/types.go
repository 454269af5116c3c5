package oracle

import "startup-sim/internal/models"

// SetupRequirements carries the user inputs for the initial oracle call.
type SetupRequirements struct {
	IdeaText     string  `json:"ideaText"`
	TargetMarket string  `json:"targetMarket"`
	Budget       float64 `json:"budget"`
	CurrencyCode string  `json:"currencyCode"`
	Archetype    string  `json:"archetype"`
}

// MonthRequest is the subset of the digital twin the oracle consumes to
// propose the next month. It is a value snapshot; the engine state stays
// readable and unchanged while the request is in flight.
type MonthRequest struct {
	Month        int                `json:"month"`
	CompanyName  string             `json:"companyName"`
	IdeaText     string             `json:"ideaText"`
	Financials   models.Financials  `json:"financials"`
	UserMetrics  models.UserMetrics `json:"userMetrics"`
	Product      models.Product     `json:"product"`
	Resources    models.Resources   `json:"resources"`
	Market       models.Market      `json:"market"`
	StartupScore int                `json:"startupScore"`
	RecentEvents []string           `json:"recentEvents"` // last few key event descriptions, as scenario tags
	NeedMissions bool               `json:"needMissions"` // current batch is complete, a fresh one is welcome
}

// AdvisorQuery is a read-only consultation request. Advisors return free
// text and never touch state.
type AdvisorQuery struct {
	Topic    string `json:"topic"`
	Question string `json:"question"`

	// Context for the advisor, copied from the current state.
	Month        int                 `json:"month"`
	CompanyName  string              `json:"companyName"`
	ProductStage models.ProductStage `json:"productStage"`
	CashOnHand   float64             `json:"cashOnHand"`
}

// RawExpenseBreakdown is the untrusted expense split as reported by the
// oracle. Any component may be missing.
type RawExpenseBreakdown struct {
	Salaries    *float64 `json:"salaries"`
	Marketing   *float64 `json:"marketing"`
	RnD         *float64 `json:"rnd"`
	Operational *float64 `json:"operational"`
}

// RawKeyEvent is an untrusted key event entry. Description may be empty
// and the enums may hold arbitrary strings.
type RawKeyEvent struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Impact      string `json:"impact"`
}

// RawMission is an untrusted mission suggestion.
type RawMission struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Reward      string `json:"reward"`
}

// RawMonthlyOutcome mirrors the oracle's monthly response. Every field is
// optional or unreliable; it must pass through the outcome reconciler
// before touching the state.
type RawMonthlyOutcome struct {
	CalculatedRevenue       *float64             `json:"calculatedRevenue"`
	CalculatedExpenses      *float64             `json:"calculatedExpenses"`
	ExpenseBreakdown        *RawExpenseBreakdown `json:"expenseBreakdown"`
	ProfitOrLoss            *float64             `json:"profitOrLoss"`
	UpdatedCashOnHand       *float64             `json:"updatedCashOnHand"`
	UpdatedActiveUsers      *int                 `json:"updatedActiveUsers"`
	NewUserAcquisition      *int                 `json:"newUserAcquisition"`
	UpdatedChurnRate        *float64             `json:"updatedChurnRate"`
	UpdatedCAC              *float64             `json:"updatedCAC"`
	UpdatedMRR              *float64             `json:"updatedMRR"`
	ProductDevelopmentDelta *float64             `json:"productDevelopmentDelta"`
	NewProductStage         *string              `json:"newProductStage"`
	KeyEventsGenerated      []RawKeyEvent        `json:"keyEventsGenerated"`
	RewardsGranted          []string             `json:"rewardsGranted"`
	NewMissions             []RawMission         `json:"newMissions"`
	StartupScoreAdjustment  *int                 `json:"startupScoreAdjustment"`
	AiReasoning             *string              `json:"aiReasoning"`
}

// RawInitialConditions mirrors the oracle's initial-conditions payload.
// Unlike monthly outcomes, a malformed payload here is a fatal
// initialization error: there is no previous state to repair against.
type RawInitialConditions struct {
	CompanyName        string              `json:"companyName"`
	ProductName        string              `json:"productName"`
	InitialActiveUsers *int                `json:"initialActiveUsers"`
	PricePerUser       *float64            `json:"pricePerUser"`
	MarketingSpend     *float64            `json:"marketingSpend"`
	RnDSpend           *float64            `json:"rndSpend"`
	SuggestedTeam      []models.TeamMember `json:"suggestedTeam"`
	MarketSize         string              `json:"marketSize"`
	CompetitionLevel   string              `json:"competitionLevel"`
	InitialFeatures    []string            `json:"initialFeatures"`
	StartupScore       *int                `json:"startupScore"`
	AcquisitionRate    *float64            `json:"acquisitionRate"`
	CAC                *float64            `json:"cac"`
	ChurnRate          *float64            `json:"churnRate"`
}
