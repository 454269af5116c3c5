package handler

import (
	"net/http"

	"startup-sim/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *SimulationHandler) listSnapshots(c *gin.Context) {
	snapshots, err := h.engine.ListSnapshots(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	if snapshots == nil {
		snapshots = []models.SnapshotSummary{}
	}
	c.JSON(http.StatusOK, snapshots)
}

func (h *SimulationHandler) saveSnapshot(c *gin.Context) {
	var req saveSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp := models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request data: " + err.Error()}
		c.AbortWithStatusJSON(http.StatusBadRequest, errResp)
		return
	}

	summary, err := h.engine.SaveSnapshot(c.Request.Context(), req.Name)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (h *SimulationHandler) loadSnapshot(c *gin.Context) {
	state, err := h.engine.LoadSnapshot(c.Request.Context(), c.Param("snapshot_id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *SimulationHandler) deleteSnapshot(c *gin.Context) {
	if err := h.engine.DeleteSnapshot(c.Request.Context(), c.Param("snapshot_id")); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}
