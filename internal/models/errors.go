package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource Errors
	ErrNotFound         = errors.New("resource not found") // General not found
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrMissionNotFound  = errors.New("mission not found")

	// Simulation Lifecycle Errors
	ErrNotInitialized       = errors.New("simulation is not initialized")
	ErrAlreadyInitialized   = errors.New("simulation is already initialized")
	ErrInitializationFailed = errors.New("failed to initialize simulation from oracle output")
	ErrSimulationOver       = errors.New("simulation is over: company has run out of cash")
	ErrSimulationBusy       = errors.New("a month advance is already in progress")

	// Oracle Errors
	ErrOracleUnavailable = errors.New("scenario oracle is unavailable")

	// Sandbox Errors
	ErrSandboxActive    = errors.New("a sandbox is already active")
	ErrSandboxNotActive = errors.New("no active sandbox")

	// Surprise Event Errors
	ErrNoActiveEvent = errors.New("no active surprise event to resolve")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidInput   = errors.New("invalid input data")
)
