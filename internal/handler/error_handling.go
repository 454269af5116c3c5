package handler

import (
	"errors"
	"net/http"

	"startup-sim/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var statusCode int
	var errResp models.ErrorResponse

	switch {
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrBadRequest):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: err.Error()}
	case errors.Is(err, models.ErrNotInitialized):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeNotInitialized, Message: "Simulation has not been initialized yet"}
	case errors.Is(err, models.ErrAlreadyInitialized):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeAlreadyInit, Message: "Simulation is already initialized"}
	case errors.Is(err, models.ErrInitializationFailed):
		statusCode = http.StatusBadGateway
		errResp = models.ErrorResponse{Code: models.ErrCodeInitFailed, Message: "The oracle returned unusable initial conditions"}
	case errors.Is(err, models.ErrSimulationOver):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeSimulationOver, Message: "The company has run out of cash"}
	case errors.Is(err, models.ErrSimulationBusy):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeSimulationBusy, Message: "An advance is already in progress"}
	case errors.Is(err, models.ErrOracleUnavailable):
		statusCode = http.StatusBadGateway
		errResp = models.ErrorResponse{Code: models.ErrCodeOracleUnavailable, Message: "Scenario oracle is unavailable, try again"}
	case errors.Is(err, models.ErrSandboxActive):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeSandboxActive, Message: "A sandbox is already active"}
	case errors.Is(err, models.ErrSandboxNotActive):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeSandboxNotActive, Message: "No active sandbox"}
	case errors.Is(err, models.ErrNoActiveEvent):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Code: models.ErrCodeNoActiveEvent, Message: "No surprise event is pending"}
	case errors.Is(err, models.ErrSnapshotNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Snapshot not found"}
	case errors.Is(err, models.ErrMissionNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Mission not found"}
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Code: models.ErrCodeNotFound, Message: "Resource not found"}
	default:
		logger.Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Code: models.ErrCodeInternal, Message: "An unexpected internal error occurred"}
	}

	c.AbortWithStatusJSON(statusCode, errResp)
}
