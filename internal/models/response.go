package models

// Error codes returned in ErrorResponse.Code.
const (
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeNotInitialized    = "SIMULATION_NOT_INITIALIZED"
	ErrCodeAlreadyInit       = "SIMULATION_ALREADY_INITIALIZED"
	ErrCodeInitFailed        = "INITIALIZATION_FAILED"
	ErrCodeSimulationOver    = "SIMULATION_OVER"
	ErrCodeSimulationBusy    = "SIMULATION_BUSY"
	ErrCodeOracleUnavailable = "ORACLE_UNAVAILABLE"
	ErrCodeSandboxActive     = "SANDBOX_ACTIVE"
	ErrCodeSandboxNotActive  = "SANDBOX_NOT_ACTIVE"
	ErrCodeNoActiveEvent     = "NO_ACTIVE_EVENT"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// ErrorResponse is the standard JSON error body of the HTTP API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
