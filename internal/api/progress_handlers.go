package api

import (
	"github.com/gin-gonic/gin"

	"github.com/fisworks/amendtrack/internal/apierrors"
	"github.com/fisworks/amendtrack/internal/models"
)

// handleAddProgress appends a progress entry to an amendment.
func (router *APIRouter) handleAddProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, apierrors.CodeBadRequest, "Invalid request: "+err.Error())
		return
	}

	entry, err := router.svc.AddProgress(c.Request.Context(), id, &req)
	if err != nil {
		respondErr(c, err)
		return
	}
	sendCreated(c, entry)
}

// handleListProgress returns an amendment's progress entries, newest first.
func (router *APIRouter) handleListProgress(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := router.svc.ListProgress(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	sendSuccess(c, gin.H{"items": entries, "total": len(entries)})
}
