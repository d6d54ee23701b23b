package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fisworks/amendtrack/internal/apierrors"
	"github.com/fisworks/amendtrack/internal/models"
)

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		sendError(c, apierrors.CodeInvalidID, fmt.Sprintf("invalid %s %q", name, c.Param(name)))
		return 0, false
	}
	return id, true
}

// handleCreateAmendment creates an amendment, assigning its reference.
func (router *APIRouter) handleCreateAmendment(c *gin.Context) {
	var req models.CreateAmendmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, apierrors.CodeBadRequest, "Invalid request: "+err.Error())
		return
	}

	a, err := router.svc.Create(c.Request.Context(), &req)
	if err != nil {
		respondErr(c, err)
		return
	}

	globalAmendmentMetrics().created.Inc()
	sendCreated(c, a)
}

// handleListAmendments returns one page of summaries for a query-string
// filter.
func (router *APIRouter) handleListAmendments(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		sendError(c, apierrors.CodeBadRequest, err.Error())
		return
	}

	items, total, err := router.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}

	sendPaginatedResponse(c, items, Pagination{
		Total: total,
		Skip:  filter.Skip,
		Limit: filter.Limit,
	})
}

// handleGetAmendment returns the full detail for an id, children included.
func (router *APIRouter) handleGetAmendment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	a, err := router.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	sendSuccess(c, a)
}

// handleGetAmendmentByReference returns the full detail for an exact
// reference string.
func (router *APIRouter) handleGetAmendmentByReference(c *gin.Context) {
	ref := c.Param("reference")
	if ref == "" {
		sendError(c, apierrors.CodeBadRequest, "reference is required")
		return
	}

	a, err := router.svc.GetByReference(c.Request.Context(), ref)
	if err != nil {
		respondErr(c, err)
		return
	}
	sendSuccess(c, a)
}

// handleUpdateAmendment applies a partial update to one amendment.
func (router *APIRouter) handleUpdateAmendment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateAmendmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, apierrors.CodeBadRequest, "Invalid request: "+err.Error())
		return
	}

	a, err := router.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondErr(c, err)
		return
	}

	globalAmendmentMetrics().updated.Inc()
	sendSuccess(c, a)
}

// handleUpdateQA applies a partial update to the QA sub-record.
func (router *APIRouter) handleUpdateQA(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateQARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, apierrors.CodeBadRequest, "Invalid request: "+err.Error())
		return
	}

	a, err := router.svc.UpdateQA(c.Request.Context(), id, &req)
	if err != nil {
		respondErr(c, err)
		return
	}

	globalAmendmentMetrics().updated.Inc()
	sendSuccess(c, a)
}

// handleDeleteAmendment removes an amendment and its child rows.
func (router *APIRouter) handleDeleteAmendment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := router.svc.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}

	globalAmendmentMetrics().deleted.Inc()
	c.Status(http.StatusNoContent)
}

// handleBulkUpdate applies one partial update to many amendments.
func (router *APIRouter) handleBulkUpdate(c *gin.Context) {
	var req models.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, apierrors.CodeBadRequest, "Invalid request: "+err.Error())
		return
	}

	result, err := router.svc.BulkUpdate(c.Request.Context(), &req)
	if err != nil {
		respondErr(c, err)
		return
	}

	globalAmendmentMetrics().updated.Add(float64(result.UpdatedCount))
	sendSuccess(c, result)
}

// handleStats returns the aggregate snapshot.
func (router *APIRouter) handleStats(c *gin.Context) {
	stats, err := router.svc.Stats(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	sendSuccess(c, stats)
}

// parseListFilter binds query-string parameters to the list filter. Repeated
// parameters accumulate into the list fields. Malformed numbers, booleans and
// dates are rejected here; enum membership, sort whitelist and pagination
// bounds are the service's validation.
func parseListFilter(c *gin.Context) (*models.AmendmentFilter, error) {
	f := &models.AmendmentFilter{
		Reference:    c.Query("amendment_reference"),
		SearchText:   c.Query("search_text"),
		SortBy:       c.Query("sort_by"),
		SortOrder:    c.Query("sort_order"),
		Forces:       c.QueryArray("force"),
		Applications: c.QueryArray("application"),
		AssignedTo:   c.QueryArray("assigned_to"),
		ReportedBy:   c.QueryArray("reported_by"),
	}

	for _, raw := range c.QueryArray("amendment_id") {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amendment_id %q", raw)
		}
		f.AmendmentIDs = append(f.AmendmentIDs, id)
	}

	for _, s := range c.QueryArray("amendment_status") {
		f.Statuses = append(f.Statuses, models.AmendmentStatus(s))
	}
	for _, s := range c.QueryArray("development_status") {
		f.DevelopmentStatuses = append(f.DevelopmentStatuses, models.DevelopmentStatus(s))
	}
	for _, s := range c.QueryArray("priority") {
		f.Priorities = append(f.Priorities, models.Priority(s))
	}
	for _, s := range c.QueryArray("amendment_type") {
		f.Types = append(f.Types, models.AmendmentType(s))
	}

	var err error
	if f.DateReportedFrom, err = queryTime(c, "date_reported_from"); err != nil {
		return nil, err
	}
	if f.DateReportedTo, err = queryTime(c, "date_reported_to"); err != nil {
		return nil, err
	}
	if f.CreatedOnFrom, err = queryTime(c, "created_on_from"); err != nil {
		return nil, err
	}
	if f.CreatedOnTo, err = queryTime(c, "created_on_to"); err != nil {
		return nil, err
	}
	if f.ModifiedOnFrom, err = queryTime(c, "modified_on_from"); err != nil {
		return nil, err
	}
	if f.ModifiedOnTo, err = queryTime(c, "modified_on_to"); err != nil {
		return nil, err
	}

	if f.QACompleted, err = queryBool(c, "qa_completed"); err != nil {
		return nil, err
	}
	if f.QAAssigned, err = queryBool(c, "qa_assigned"); err != nil {
		return nil, err
	}
	if f.DatabaseChanges, err = queryBool(c, "database_changes"); err != nil {
		return nil, err
	}
	if f.DBUpgradeChanges, err = queryBool(c, "db_upgrade_changes"); err != nil {
		return nil, err
	}

	if raw := c.Query("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid skip %q", raw)
		}
		f.Skip = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid limit %q", raw)
		}
		f.Limit = n
	}

	return f, nil
}

// queryTime parses an optional timestamp parameter, accepting RFC 3339 or a
// bare date.
func queryTime(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q, want RFC 3339 or YYYY-MM-DD", name, raw)
	}
	return &t, nil
}

// queryBool parses an optional boolean parameter.
func queryBool(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &b, nil
}
