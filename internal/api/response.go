package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fisworks/amendtrack/internal/apierrors"
	"github.com/fisworks/amendtrack/internal/models"
)

// APIResponse is the JSON envelope every endpoint responds with.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    interface{}         `json:"data,omitempty"`
	Error   *apierrors.APIError `json:"error,omitempty"`
}

// Pagination describes the slice a list response covers.
type Pagination struct {
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
}

// sendSuccess sends a 200 envelope around data.
func sendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// sendCreated sends a 201 envelope around data.
func sendCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// sendPaginatedResponse sends one page of items with its pagination block.
func sendPaginatedResponse(c *gin.Context, items interface{}, p Pagination) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: gin.H{
			"items": items,
			"total": p.Total,
			"skip":  p.Skip,
			"limit": p.Limit,
		},
	})
}

// sendError sends the envelope for a registered error code with a custom
// message. The HTTP status comes from the code registry.
func sendError(c *gin.Context, code, message string) {
	e := apierrors.NewWithMessage(code, message)
	c.JSON(apierrors.Registry.HTTPStatus(code), APIResponse{Success: false, Error: &e})
}

// respondErr translates a service error into a registered code by its
// sentinel. Validation, not-found and conflict messages are written for the
// caller and pass through; store and unknown failures do not leak detail.
func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		sendError(c, apierrors.CodeValidationFailed, err.Error())
	case errors.Is(err, models.ErrNotFound):
		sendError(c, apierrors.CodeNotFound, err.Error())
	case errors.Is(err, models.ErrConflict):
		sendError(c, apierrors.CodeConflict, err.Error())
	case errors.Is(err, models.ErrStore):
		sendError(c, apierrors.CodeStoreError, apierrors.Registry.Message(apierrors.CodeStoreError))
	default:
		sendError(c, apierrors.CodeInternalError, apierrors.Registry.Message(apierrors.CodeInternalError))
	}
}
