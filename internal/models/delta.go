package models

// ExpenseBreakdown is the authoritative split of a month's expenses.
// Its four components always sum to the applied expenses figure.
type ExpenseBreakdown struct {
	Salaries    float64 `json:"salaries"`
	Marketing   float64 `json:"marketing"`
	RnD         float64 `json:"rnd"`
	Operational float64 `json:"operational"`
}

// Total returns the sum of the four components.
func (b ExpenseBreakdown) Total() float64 {
	return b.Salaries + b.Marketing + b.RnD + b.Operational
}

// MonthlyDelta is the reconciled, self-consistent result of one simulated
// month, safe to apply to the state without further checks. It is produced
// only by the outcome reconciler; raw oracle output never reaches the state.
type MonthlyDelta struct {
	Revenue          float64
	Expenses         float64 // always equals ExpenseBreakdown.Total()
	ExpenseBreakdown ExpenseBreakdown
	Profit           float64 // Revenue - Expenses
	CashOnHand       float64 // previous cash + Profit

	ActiveUsers        int
	NewUserAcquisition int
	ChurnRate          float64 // 0..1
	CAC                float64
	MRR                float64

	ProductDevelopmentDelta float64
	NewProductStage         *ProductStage // nil when the stage does not advance

	KeyEvents   []StructuredKeyEvent // exactly two entries
	Rewards     []Reward
	NewMissions []Mission // candidate batch; applied only if the prior batch is complete

	StartupScore int // already clamped to 0..100
	AiReasoning  string
}
