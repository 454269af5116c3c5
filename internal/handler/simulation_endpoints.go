package handler

import (
	"net/http"

	"startup-sim/internal/models"
	"startup-sim/internal/oracle"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *SimulationHandler) getState(c *gin.Context) {
	state, err := h.engine.GetState(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *SimulationHandler) initialize(c *gin.Context) {
	var req initializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp := models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request data: " + err.Error()}
		c.AbortWithStatusJSON(http.StatusBadRequest, errResp)
		return
	}

	state, err := h.engine.InitializeSimulation(c.Request.Context(), oracle.SetupRequirements{
		IdeaText:     req.IdeaText,
		TargetMarket: req.TargetMarket,
		Budget:       req.Budget,
		CurrencyCode: req.CurrencyCode,
		Archetype:    req.Archetype,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

func (h *SimulationHandler) advance(c *gin.Context) {
	state, err := h.engine.AdvanceMonth(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *SimulationHandler) reset(c *gin.Context) {
	if err := h.engine.ResetSimulation(c.Request.Context()); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, statusResponse{Status: "reset"})
}

func (h *SimulationHandler) updateDecisions(c *gin.Context) {
	var req decisionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp := models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request data: " + err.Error()}
		c.AbortWithStatusJSON(http.StatusBadRequest, errResp)
		return
	}

	state, err := h.engine.UpdateDecisions(c.Request.Context(), req.toLevers())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *SimulationHandler) completeMission(c *gin.Context) {
	missionID := c.Param("mission_id")
	state, err := h.engine.CompleteMission(c.Request.Context(), missionID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *SimulationHandler) resolveSurpriseEvent(c *gin.Context) {
	var req resolveSurpriseEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp := models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request data: " + err.Error()}
		c.AbortWithStatusJSON(http.StatusBadRequest, errResp)
		return
	}

	state, err := h.engine.ResolveSurpriseEvent(c.Request.Context(), *req.Accepted)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *SimulationHandler) surpriseEventHistory(c *gin.Context) {
	history, err := h.engine.SurpriseEventHistory(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	if history == nil {
		history = []models.SurpriseEventHistoryItem{}
	}
	c.JSON(http.StatusOK, history)
}

func (h *SimulationHandler) advise(c *gin.Context) {
	var req advisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp := models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request data: " + err.Error()}
		c.AbortWithStatusJSON(http.StatusBadRequest, errResp)
		return
	}

	answer, err := h.engine.Advise(c.Request.Context(), req.Topic, req.Question)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	h.logger.Debug("Advisor consulted", zap.String("topic", req.Topic))
	c.JSON(http.StatusOK, advisorResponse{Answer: answer})
}
