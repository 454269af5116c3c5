package oracle

import (
	"fmt"
	"strings"
)

// System prompts for the three request kinds. The wording keeps the model
// on a strict-JSON leash; whatever leaks through anyway is handled by the
// reconciler, never trusted.

const initializeSystemPrompt = `You are a startup business simulator. Given a founder's idea, target market, budget and archetype, produce the initial conditions of the company as JSON.
Respond with a single JSON object and nothing else, with two string fields:
"initialConditions": a JSON-encoded object with fields companyName, productName, initialActiveUsers, pricePerUser, marketingSpend, rndSpend, suggestedTeam (array of {role,count,salary}), marketSize, competitionLevel (low|medium|high), initialFeatures (array of strings), startupScore (0-100), acquisitionRate, cac, churnRate (0-1);
"suggestedChallenges": a JSON-encoded array of exactly 3 objects {title, description, reward}.`

const monthSystemPrompt = `You are a startup business simulator advancing one month of a company's life. Based on the company snapshot provided by the user, decide the business outcome of the month.
Respond with a single JSON object and nothing else:
{"calculatedRevenue": number, "calculatedExpenses": number, "expenseBreakdown": {"salaries": number, "marketing": number, "rnd": number, "operational": number}, "profitOrLoss": number, "updatedCashOnHand": number, "updatedActiveUsers": integer, "newUserAcquisition": integer, "updatedChurnRate": number 0-1, "updatedCAC": number, "updatedMRR": number, "productDevelopmentDelta": number 0-100, "newProductStage": optional string (idea|prototype|mvp|growth|mature), "keyEventsGenerated": exactly 2 objects {"description","category" (Financial|Product|Team|Market|General),"impact" (Positive|Negative|Neutral)}, "rewardsGranted": optional array of strings, "newMissions": optional array of 3 objects {title, description, reward}, "startupScoreAdjustment": integer, "aiReasoning": short string}`

const advisorSystemPrompt = `You are an experienced startup advisor. Answer the founder's question for their current situation in 2-4 concise paragraphs of plain text. Do not output JSON.`

// formatSetupInput renders the user input for the initialize call.
func formatSetupInput(req SetupRequirements) string {
	var sb strings.Builder
	sb.WriteString("Startup Idea:\n")
	sb.WriteString(req.IdeaText)
	sb.WriteString("\n\nTarget Market: ")
	sb.WriteString(req.TargetMarket)
	fmt.Fprintf(&sb, "\nStarting Budget: %.2f %s\n", req.Budget, req.CurrencyCode)
	if req.Archetype != "" {
		sb.WriteString("Founder Archetype: ")
		sb.WriteString(req.Archetype)
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatMonthInput renders the company snapshot for the monthly call.
func formatMonthInput(req MonthRequest) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Simulation Month: %d\n", req.Month)
	fmt.Fprintf(&sb, "Company: %s\n", req.CompanyName)
	if req.IdeaText != "" {
		fmt.Fprintf(&sb, "Idea: %s\n", req.IdeaText)
	}

	sb.WriteString("\nFinancials:\n")
	fmt.Fprintf(&sb, "  Revenue: %.2f\n", req.Financials.Revenue)
	fmt.Fprintf(&sb, "  Expenses: %.2f\n", req.Financials.Expenses)
	fmt.Fprintf(&sb, "  Cash On Hand: %.2f\n", req.Financials.CashOnHand)
	fmt.Fprintf(&sb, "  Funding Raised: %.2f\n", req.Financials.FundingRaised)
	fmt.Fprintf(&sb, "  Currency: %s\n", req.Financials.CurrencyCode)

	sb.WriteString("\nUser Metrics:\n")
	fmt.Fprintf(&sb, "  Active Users: %d\n", req.UserMetrics.ActiveUsers)
	fmt.Fprintf(&sb, "  Acquisition Rate: %.2f\n", req.UserMetrics.AcquisitionRate)
	fmt.Fprintf(&sb, "  CAC: %.2f\n", req.UserMetrics.CAC)
	fmt.Fprintf(&sb, "  Churn Rate: %.4f\n", req.UserMetrics.ChurnRate)
	fmt.Fprintf(&sb, "  MRR: %.2f\n", req.UserMetrics.MRR)

	sb.WriteString("\nProduct:\n")
	fmt.Fprintf(&sb, "  Name: %s\n", req.Product.Name)
	fmt.Fprintf(&sb, "  Stage: %s\n", req.Product.Stage)
	fmt.Fprintf(&sb, "  Development Progress: %.1f/100\n", req.Product.DevelopmentProgress)
	fmt.Fprintf(&sb, "  Price Per User: %.2f\n", req.Product.PricePerUser)
	if len(req.Product.Features) > 0 {
		fmt.Fprintf(&sb, "  Features: %s\n", strings.Join(req.Product.Features, ", "))
	}

	sb.WriteString("\nResources:\n")
	fmt.Fprintf(&sb, "  Marketing Spend: %.2f\n", req.Resources.MarketingSpend)
	fmt.Fprintf(&sb, "  R&D Spend: %.2f\n", req.Resources.RnDSpend)
	sb.WriteString("  Team:\n")
	for _, m := range req.Resources.Team {
		fmt.Fprintf(&sb, "    - %s x%d @ %.2f/mo\n", m.Role, m.Count, m.Salary)
	}

	sb.WriteString("\nMarket:\n")
	fmt.Fprintf(&sb, "  Target: %s\n", req.Market.TargetDescription)
	fmt.Fprintf(&sb, "  Size: %s\n", req.Market.Size)
	fmt.Fprintf(&sb, "  Competition: %s\n", req.Market.CompetitionLevel)

	fmt.Fprintf(&sb, "\nStartup Score: %d/100\n", req.StartupScore)

	if len(req.RecentEvents) > 0 {
		sb.WriteString("\nRecent Events:\n")
		for _, ev := range req.RecentEvents {
			fmt.Fprintf(&sb, "  - %s\n", ev)
		}
	}

	if req.NeedMissions {
		sb.WriteString("\nThe current mission batch is complete. Include a fresh newMissions batch.\n")
	}

	return sb.String()
}

// formatAdvisorInput renders the advisor consultation input.
func formatAdvisorInput(q AdvisorQuery) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Company: %s (month %d, stage %s, cash on hand %.2f)\n", q.CompanyName, q.Month, q.ProductStage, q.CashOnHand)
	if q.Topic != "" {
		fmt.Fprintf(&sb, "Topic: %s\n", q.Topic)
	}
	sb.WriteString("\nQuestion:\n")
	sb.WriteString(q.Question)
	return sb.String()
}
