package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *SimulationHandler) startSandbox(c *gin.Context) {
	state, err := h.engine.StartSandbox(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

func (h *SimulationHandler) advanceSandbox(c *gin.Context) {
	state, err := h.engine.AdvanceSandboxMonth(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *SimulationHandler) applySandboxDecisions(c *gin.Context) {
	state, err := h.engine.ApplySandboxDecisions(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *SimulationHandler) discardSandbox(c *gin.Context) {
	state, err := h.engine.DiscardSandbox(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
