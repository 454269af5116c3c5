package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"startup-sim/internal/models"

	"go.uber.org/zap"
)

// InitialConditionsPayload is the envelope the oracle returns for the
// initialize call. Both fields are opaque JSON strings; the engine parses
// them and treats a parse failure as a fatal initialization error.
type InitialConditionsPayload struct {
	InitialConditionsJSON   string `json:"initialConditions"`
	SuggestedChallengesJSON string `json:"suggestedChallenges"`
}

// ScenarioOracle is the gateway to the external nondeterministic generator.
// It performs exactly one external call per method, mutates nothing, and
// carries no retry policy: retries, if any, are a caller concern.
type ScenarioOracle interface {
	// RequestInitialConditions asks the oracle to propose the company's
	// initial conditions for the given founder inputs.
	RequestInitialConditions(ctx context.Context, req SetupRequirements) (*InitialConditionsPayload, error)

	// RequestMonth asks the oracle for the next month's business outcome.
	// The result is raw and untrusted; it must be reconciled before use.
	RequestMonth(ctx context.Context, req MonthRequest) (*RawMonthlyOutcome, error)

	// Advise is a read-only consultation returning free text.
	Advise(ctx context.Context, q AdvisorQuery) (string, error)
}

// aiOracle implements ScenarioOracle on top of an AIClient.
type aiOracle struct {
	client AIClient
	logger *zap.Logger
}

// NewScenarioOracle wraps an AIClient into a ScenarioOracle.
func NewScenarioOracle(client AIClient, logger *zap.Logger) ScenarioOracle {
	return &aiOracle{
		client: client,
		logger: logger.Named("ScenarioOracle"),
	}
}

func (o *aiOracle) RequestInitialConditions(ctx context.Context, req SetupRequirements) (*InitialConditionsPayload, error) {
	text, _, err := o.client.GenerateText(ctx, "initialize", initializeSystemPrompt, formatSetupInput(req), GenerationParams{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrOracleUnavailable, err)
	}

	jsonBlock, err := extractJSONBlock(text)
	if err != nil {
		o.logger.Error("Failed to locate JSON in initialize response", zap.Error(err), zap.Int("responseChars", len(text)))
		return nil, fmt.Errorf("%w: %v", models.ErrOracleUnavailable, err)
	}

	var payload InitialConditionsPayload
	if err := json.Unmarshal([]byte(jsonBlock), &payload); err != nil {
		o.logger.Error("Failed to parse initialize envelope", zap.Error(err))
		return nil, fmt.Errorf("%w: malformed initialize envelope: %v", models.ErrOracleUnavailable, err)
	}
	if strings.TrimSpace(payload.InitialConditionsJSON) == "" {
		return nil, fmt.Errorf("%w: initialize envelope has no initial conditions", models.ErrOracleUnavailable)
	}
	return &payload, nil
}

func (o *aiOracle) RequestMonth(ctx context.Context, req MonthRequest) (*RawMonthlyOutcome, error) {
	text, _, err := o.client.GenerateText(ctx, "month", monthSystemPrompt, formatMonthInput(req), GenerationParams{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrOracleUnavailable, err)
	}

	jsonBlock, err := extractJSONBlock(text)
	if err != nil {
		o.logger.Error("Failed to locate JSON in month response", zap.Error(err), zap.Int("responseChars", len(text)))
		return nil, fmt.Errorf("%w: %v", models.ErrOracleUnavailable, err)
	}

	// Lenient decoding: missing or extra fields are expected here. Anything
	// that survives the decode still goes through the reconciler before it
	// can touch state.
	var raw RawMonthlyOutcome
	if err := json.Unmarshal([]byte(jsonBlock), &raw); err != nil {
		o.logger.Error("Failed to parse month outcome", zap.Error(err))
		return nil, fmt.Errorf("%w: malformed month outcome: %v", models.ErrOracleUnavailable, err)
	}
	return &raw, nil
}

func (o *aiOracle) Advise(ctx context.Context, q AdvisorQuery) (string, error) {
	text, _, err := o.client.GenerateText(ctx, "advisor", advisorSystemPrompt, formatAdvisorInput(q), GenerationParams{})
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrOracleUnavailable, err)
	}
	return strings.TrimSpace(text), nil
}

// ParseInitialConditions decodes the opaque strings of an initialize
// envelope. Unlike monthly outcomes there is no prior state to repair
// against, so a failure here is surfaced to the caller as fatal.
func ParseInitialConditions(payload *InitialConditionsPayload) (*RawInitialConditions, []RawMission, error) {
	var conditions RawInitialConditions
	if err := json.Unmarshal([]byte(payload.InitialConditionsJSON), &conditions); err != nil {
		return nil, nil, fmt.Errorf("malformed initial conditions JSON: %w", err)
	}

	var missions []RawMission
	if strings.TrimSpace(payload.SuggestedChallengesJSON) != "" {
		if err := json.Unmarshal([]byte(payload.SuggestedChallengesJSON), &missions); err != nil {
			return nil, nil, fmt.Errorf("malformed suggested challenges JSON: %w", err)
		}
	}
	return &conditions, missions, nil
}

// extractJSONBlock pulls the first JSON object or array out of a model
// response, tolerating markdown fences and surrounding prose.
func extractJSONBlock(text string) (string, error) {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "```") {
		// Strip the opening fence (with optional language tag) and the
		// closing fence.
		if idx := strings.Index(trimmed, "\n"); idx >= 0 {
			trimmed = trimmed[idx+1:]
		}
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	start := strings.IndexAny(trimmed, "{[")
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in response")
	}

	var end int
	if trimmed[start] == '{' {
		end = strings.LastIndex(trimmed, "}")
	} else {
		end = strings.LastIndex(trimmed, "]")
	}
	if end <= start {
		return "", fmt.Errorf("unterminated JSON block in response")
	}

	return trimmed[start : end+1], nil
}
