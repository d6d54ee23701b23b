package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fisworks/amendtrack/internal/apierrors"
	"github.com/fisworks/amendtrack/internal/models"
)

// handleCreateLink links an amendment to another one.
func (router *APIRouter) handleCreateLink(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, apierrors.CodeBadRequest, "Invalid request: "+err.Error())
		return
	}

	link, err := router.svc.CreateLink(c.Request.Context(), id, &req)
	if err != nil {
		respondErr(c, err)
		return
	}

	globalAmendmentMetrics().linked.Inc()
	sendCreated(c, link)
}

// handleListLinks returns the links touching an amendment in either
// direction.
func (router *APIRouter) handleListLinks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	links, err := router.svc.ListLinks(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	sendSuccess(c, gin.H{"items": links, "total": len(links)})
}

// handleDeleteLink removes one directed link by its own id. A reverse link,
// if one exists, is untouched.
func (router *APIRouter) handleDeleteLink(c *gin.Context) {
	linkID, ok := parseIDParam(c, "link_id")
	if !ok {
		return
	}

	if err := router.svc.DeleteLink(c.Request.Context(), linkID); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
