package handler

import (
	"startup-sim/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SimulationHandler exposes the simulation engine over HTTP.
type SimulationHandler struct {
	engine service.SimulationService
	logger *zap.Logger
}

func NewSimulationHandler(engine service.SimulationService, logger *zap.Logger) *SimulationHandler {
	return &SimulationHandler{
		engine: engine,
		logger: logger.Named("SimulationHandler"),
	}
}

func (h *SimulationHandler) RegisterRoutes(router *gin.Engine) {
	simGroup := router.Group("/simulation")
	{
		simGroup.GET("", h.getState)
		simGroup.POST("/initialize", h.initialize)
		simGroup.POST("/advance", h.advance)
		simGroup.POST("/reset", h.reset)
		simGroup.PUT("/decisions", h.updateDecisions)
		simGroup.POST("/missions/:mission_id/complete", h.completeMission)
		simGroup.POST("/surprise-event/resolve", h.resolveSurpriseEvent)
		simGroup.GET("/surprise-events/history", h.surpriseEventHistory)
	}

	sandboxGroup := router.Group("/sandbox")
	{
		sandboxGroup.POST("", h.startSandbox)
		sandboxGroup.POST("/advance", h.advanceSandbox)
		sandboxGroup.POST("/apply-decisions", h.applySandboxDecisions)
		sandboxGroup.POST("/discard", h.discardSandbox)
	}

	snapshotGroup := router.Group("/snapshots")
	{
		snapshotGroup.GET("", h.listSnapshots)
		snapshotGroup.POST("", h.saveSnapshot)
		snapshotGroup.POST("/:snapshot_id/load", h.loadSnapshot)
		snapshotGroup.DELETE("/:snapshot_id", h.deleteSnapshot)
	}

	router.POST("/advisor", h.advise)
}
