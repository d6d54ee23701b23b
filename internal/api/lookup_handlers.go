package api

import (
	"github.com/gin-gonic/gin"

	"github.com/fisworks/amendtrack/internal/models"
)

// handleNextReference previews the next reference. Nothing is reserved, so
// the value is only a hint for forms.
func (router *APIRouter) handleNextReference(c *gin.Context) {
	ref, err := router.svc.NextReference(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	sendSuccess(c, gin.H{"next_reference": ref})
}

// The enum endpoints feed dropdowns. Values are served in display order.

func (router *APIRouter) handleListStatuses(c *gin.Context) {
	sendSuccess(c, gin.H{"statuses": models.AllAmendmentStatuses()})
}

func (router *APIRouter) handleListDevStatuses(c *gin.Context) {
	sendSuccess(c, gin.H{"development_statuses": models.AllDevelopmentStatuses()})
}

func (router *APIRouter) handleListPriorities(c *gin.Context) {
	sendSuccess(c, gin.H{"priorities": models.AllPriorities()})
}

func (router *APIRouter) handleListTypes(c *gin.Context) {
	sendSuccess(c, gin.H{"types": models.AllAmendmentTypes()})
}

func (router *APIRouter) handleListForces(c *gin.Context) {
	sendSuccess(c, gin.H{"forces": models.AllForces()})
}

func (router *APIRouter) handleListLinkTypes(c *gin.Context) {
	sendSuccess(c, gin.H{"link_types": models.AllLinkTypes()})
}
