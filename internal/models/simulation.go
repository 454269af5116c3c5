package models

import "strconv"

// ProductStage is the ordered lifecycle stage of the simulated product.
// Stages only ever move forward; the reconciler rejects regressions.
type ProductStage string

const (
	StageIdea      ProductStage = "idea"
	StagePrototype ProductStage = "prototype"
	StageMVP       ProductStage = "mvp"
	StageGrowth    ProductStage = "growth"
	StageMature    ProductStage = "mature"
)

// stageOrder maps every stage to its rank in the progression.
var stageOrder = map[ProductStage]int{
	StageIdea:      0,
	StagePrototype: 1,
	StageMVP:       2,
	StageGrowth:    3,
	StageMature:    4,
}

// StageRank returns the position of the stage in the progression,
// or -1 for an unknown stage value.
func StageRank(s ProductStage) int {
	if rank, ok := stageOrder[s]; ok {
		return rank
	}
	return -1
}

// NextStage returns the stage immediately after s. The last stage
// returns itself.
func NextStage(s ProductStage) ProductStage {
	switch s {
	case StageIdea:
		return StagePrototype
	case StagePrototype:
		return StageMVP
	case StageMVP:
		return StageGrowth
	case StageGrowth:
		return StageMature
	default:
		return StageMature
	}
}

// CompetitionLevel describes how crowded the target market is.
type CompetitionLevel string

const (
	CompetitionLow    CompetitionLevel = "low"
	CompetitionMedium CompetitionLevel = "medium"
	CompetitionHigh   CompetitionLevel = "high"
)

// NormalizeCompetitionLevel maps unknown values to medium.
func NormalizeCompetitionLevel(v string) CompetitionLevel {
	switch CompetitionLevel(v) {
	case CompetitionLow, CompetitionMedium, CompetitionHigh:
		return CompetitionLevel(v)
	default:
		return CompetitionMedium
	}
}

// Financials groups the money-related fields of the digital twin.
type Financials struct {
	Revenue        float64 `json:"revenue"`
	Expenses       float64 `json:"expenses"`
	Profit         float64 `json:"profit"`
	BurnRate       float64 `json:"burnRate"`
	CashOnHand     float64 `json:"cashOnHand"`
	FundingRaised  float64 `json:"fundingRaised"`
	CurrencyCode   string  `json:"currencyCode"`
	CurrencySymbol string  `json:"currencySymbol"`
}

// UserMetrics groups the audience-related fields of the digital twin.
type UserMetrics struct {
	ActiveUsers     int     `json:"activeUsers"`
	AcquisitionRate float64 `json:"acquisitionRate"`
	CAC             float64 `json:"cac"`
	ChurnRate       float64 `json:"churnRate"` // 0..1
	MRR             float64 `json:"mrr"`
}

// Product describes the product being built.
type Product struct {
	Name                string       `json:"name"`
	Stage               ProductStage `json:"stage"`
	Features            []string     `json:"features"`
	DevelopmentProgress float64      `json:"developmentProgress"` // 0..100, resets on stage advance
	PricePerUser        float64      `json:"pricePerUser"`
}

// TeamMember is one role line in the company team, unique by role.
type TeamMember struct {
	Role   string  `json:"role"`
	Count  int     `json:"count"`
	Salary float64 `json:"salary"` // monthly, per head
}

// Resources groups the decision-lever spend fields and the team.
type Resources struct {
	MarketingSpend float64      `json:"marketingSpend"`
	RnDSpend       float64      `json:"rndSpend"`
	Team           []TeamMember `json:"team"`
}

// Market describes the target market of the company.
type Market struct {
	TargetDescription string           `json:"targetDescription"`
	Size              string           `json:"size"`
	CompetitionLevel  CompetitionLevel `json:"competitionLevel"`
}

// --- Historical series point types ---
//
// Every series is append-only and month-indexed; after N successful
// advances each series holds exactly N+1 points, the first for "M0".

type RevenuePoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type UserPoint struct {
	Month string `json:"month"`
	Users int    `json:"users"`
}

type BurnRatePoint struct {
	Month    string  `json:"month"`
	BurnRate float64 `json:"burnRate"`
}

type ProfitLossPoint struct {
	Month         string  `json:"month"`
	NetProfitLoss float64 `json:"netProfitLoss"`
}

type ExpenseBreakdownPoint struct {
	Month       string  `json:"month"`
	Salaries    float64 `json:"salaries"`
	Marketing   float64 `json:"marketing"`
	RnD         float64 `json:"rnd"`
	Operational float64 `json:"operational"`
	Total       float64 `json:"total"`
}

type CACPoint struct {
	Month string  `json:"month"`
	CAC   float64 `json:"cac"`
}

type ChurnPoint struct {
	Month     string  `json:"month"`
	ChurnRate float64 `json:"churnRate"`
}

type ProductProgressPoint struct {
	Month    string  `json:"month"`
	Progress float64 `json:"progress"`
}

// MonthLabel renders the canonical label of a simulation month ("M0", "M1", ...).
func MonthLabel(month int) string {
	return "M" + strconv.Itoa(month)
}

// DigitalTwinState is the root aggregate of the simulated company.
// It is owned exclusively by the simulation engine (or, for a branch,
// held in SandboxState) and mutated only through engine operations.
type DigitalTwinState struct {
	IsInitialized   bool   `json:"isInitialized"`
	SimulationMonth int    `json:"simulationMonth"`
	CompanyName     string `json:"companyName"`
	IdeaText        string `json:"ideaText"`

	Financials  Financials  `json:"financials"`
	UserMetrics UserMetrics `json:"userMetrics"`
	Product     Product     `json:"product"`
	Resources   Resources   `json:"resources"`
	Market      Market      `json:"market"`

	// Progression
	StartupScore int                  `json:"startupScore"` // clamped 0..100
	KeyEvents    []StructuredKeyEvent `json:"keyEvents"`    // append-only
	Rewards      []Reward             `json:"rewards"`      // append-only
	Missions     []Mission            `json:"missions"`     // current working batch
	EarnedBadges []string             `json:"earnedBadges"`

	// Historical series, append-only, one point per simulated month.
	HistoricalRevenue          []RevenuePoint          `json:"historicalRevenue"`
	HistoricalUsers            []UserPoint             `json:"historicalUsers"`
	HistoricalBurnRate         []BurnRatePoint         `json:"historicalBurnRate"`
	HistoricalNetProfitLoss    []ProfitLossPoint       `json:"historicalNetProfitLoss"`
	HistoricalExpenseBreakdown []ExpenseBreakdownPoint `json:"historicalExpenseBreakdown"`
	HistoricalCAC              []CACPoint              `json:"historicalCAC"`
	HistoricalChurnRate        []ChurnPoint            `json:"historicalChurnRate"`
	HistoricalProductProgress  []ProductProgressPoint  `json:"historicalProductProgress"`

	// Branch fields
	SandboxState         *DigitalTwinState `json:"sandboxState,omitempty"`
	IsSandboxing         bool              `json:"isSandboxing"`
	SandboxRelativeMonth int               `json:"sandboxRelativeMonth"`

	// Ephemeral fields, excluded from persistence (see StateDocument).
	ActiveSurpriseEvent *ActiveSurpriseEvent `json:"activeSurpriseEvent,omitempty"`
	CurrentAiReasoning  *string              `json:"currentAiReasoning,omitempty"`
}

// TotalSalaries sums the monthly payroll of the whole team.
func (s *DigitalTwinState) TotalSalaries() float64 {
	var total float64
	for _, m := range s.Resources.Team {
		total += float64(m.Count) * m.Salary
	}
	return total
}

// MissionsComplete reports whether the current mission batch is fully
// completed. An empty batch counts as complete so a fresh batch can be
// issued on the next advance.
func (s *DigitalTwinState) MissionsComplete() bool {
	for _, m := range s.Missions {
		if !m.IsCompleted {
			return false
		}
	}
	return true
}

// ClampScore bounds a startup score to the valid 0..100 range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Clone returns a deep copy of the state. The engine hands out clones to
// readers and uses them for sandbox branching and snapshots so that no
// caller can alias engine-owned slices.
func (s *DigitalTwinState) Clone() *DigitalTwinState {
	if s == nil {
		return nil
	}
	c := *s

	c.Product.Features = append([]string(nil), s.Product.Features...)
	c.Resources.Team = append([]TeamMember(nil), s.Resources.Team...)
	c.KeyEvents = append([]StructuredKeyEvent(nil), s.KeyEvents...)
	c.Rewards = append([]Reward(nil), s.Rewards...)
	c.Missions = append([]Mission(nil), s.Missions...)
	c.EarnedBadges = append([]string(nil), s.EarnedBadges...)

	c.HistoricalRevenue = append([]RevenuePoint(nil), s.HistoricalRevenue...)
	c.HistoricalUsers = append([]UserPoint(nil), s.HistoricalUsers...)
	c.HistoricalBurnRate = append([]BurnRatePoint(nil), s.HistoricalBurnRate...)
	c.HistoricalNetProfitLoss = append([]ProfitLossPoint(nil), s.HistoricalNetProfitLoss...)
	c.HistoricalExpenseBreakdown = append([]ExpenseBreakdownPoint(nil), s.HistoricalExpenseBreakdown...)
	c.HistoricalCAC = append([]CACPoint(nil), s.HistoricalCAC...)
	c.HistoricalChurnRate = append([]ChurnPoint(nil), s.HistoricalChurnRate...)
	c.HistoricalProductProgress = append([]ProductProgressPoint(nil), s.HistoricalProductProgress...)

	c.SandboxState = s.SandboxState.Clone()

	if s.ActiveSurpriseEvent != nil {
		ev := *s.ActiveSurpriseEvent
		c.ActiveSurpriseEvent = &ev
	}
	if s.CurrentAiReasoning != nil {
		r := *s.CurrentAiReasoning
		c.CurrentAiReasoning = &r
	}
	return &c
}

// CurrencySymbolFor maps an ISO currency code to a display symbol.
// Unknown codes fall back to the code itself.
func CurrencySymbolFor(code string) string {
	switch code {
	case "USD":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "JPY":
		return "¥"
	case "RUB":
		return "₽"
	default:
		return code
	}
}
