package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fisworks/amendtrack/internal/database"
	"github.com/fisworks/amendtrack/internal/models"
)

// AmendmentRepository handles database operations for amendments.
type AmendmentRepository struct {
	db *sqlx.DB
}

// NewAmendmentRepository creates a new amendment repository.
func NewAmendmentRepository(db *sqlx.DB) *AmendmentRepository {
	return &AmendmentRepository{db: db}
}

// amendmentColumns is the full detail column list. Built per call because
// identifier quoting depends on the active driver (force is reserved on
// MySQL).
func amendmentColumns() string {
	return strings.Join([]string{
		"amendment_id", "amendment_reference", "amendment_type", "description",
		"amendment_status", "development_status", "priority",
		database.QuoteIdentifier("force"), "application", "notes",
		"reported_by", "assigned_to", "date_reported",
		"database_changes", "db_upgrade_changes", "release_notes",
		"qa_assigned_id", "qa_assigned_date", "qa_test_plan_check",
		"qa_test_release_notes_check", "qa_completed", "qa_signature",
		"qa_completed_date", "qa_notes", "qa_test_plan_link",
		"created_by", "created_on", "modified_by", "modified_on",
	}, ", ")
}

// summaryColumns is the list-view column list.
func summaryColumns() string {
	return strings.Join([]string{
		"amendment_id", "amendment_reference", "amendment_type", "description",
		"amendment_status", "development_status", "priority",
		database.QuoteIdentifier("force"), "application",
		"reported_by", "assigned_to", "date_reported",
		"created_on", "modified_on",
	}, ", ")
}

// buildFilterWhere composes the WHERE clause for a validated filter. Set
// fields are AND-ed; list fields become IN clauses.
func buildFilterWhere(f *models.AmendmentFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	addIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		conditions = append(conditions, column+" IN ("+placeholders(len(values))+")")
		for _, v := range values {
			args = append(args, v)
		}
	}
	addRange := func(column string, from, to *time.Time) {
		if from != nil {
			conditions = append(conditions, column+" >= ?")
			args = append(args, *from)
		}
		if to != nil {
			conditions = append(conditions, column+" <= ?")
			args = append(args, *to)
		}
	}

	if f.Reference != "" {
		conditions = append(conditions, "amendment_reference = ?")
		args = append(args, f.Reference)
	}
	if len(f.AmendmentIDs) > 0 {
		conditions = append(conditions, "amendment_id IN ("+placeholders(len(f.AmendmentIDs))+")")
		for _, id := range f.AmendmentIDs {
			args = append(args, id)
		}
	}

	addIn("amendment_status", statusStrings(f.Statuses))
	addIn("development_status", devStatusStrings(f.DevelopmentStatuses))
	addIn("priority", priorityStrings(f.Priorities))
	addIn("amendment_type", typeStrings(f.Types))
	addIn(database.QuoteIdentifier("force"), f.Forces)
	addIn("application", f.Applications)
	addIn("assigned_to", f.AssignedTo)
	addIn("reported_by", f.ReportedBy)

	addRange("date_reported", f.DateReportedFrom, f.DateReportedTo)
	addRange("created_on", f.CreatedOnFrom, f.CreatedOnTo)
	addRange("modified_on", f.ModifiedOnFrom, f.ModifiedOnTo)

	if f.SearchText != "" {
		pattern := "%" + f.SearchText + "%"
		conditions = append(conditions, "(description ILIKE ? OR notes ILIKE ? OR release_notes ILIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	if f.QACompleted != nil {
		conditions = append(conditions, "qa_completed = ?")
		args = append(args, *f.QACompleted)
	}
	if f.QAAssigned != nil {
		if *f.QAAssigned {
			conditions = append(conditions, "qa_assigned_id IS NOT NULL")
		} else {
			conditions = append(conditions, "qa_assigned_id IS NULL")
		}
	}
	if f.DatabaseChanges != nil {
		conditions = append(conditions, "database_changes = ?")
		args = append(args, *f.DatabaseChanges)
	}
	if f.DBUpgradeChanges != nil {
		conditions = append(conditions, "db_upgrade_changes = ?")
		args = append(args, *f.DBUpgradeChanges)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func statusStrings(in []models.AmendmentStatus) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func devStatusStrings(in []models.DevelopmentStatus) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func priorityStrings(in []models.Priority) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func typeStrings(in []models.AmendmentType) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

// InsertTx inserts an amendment and returns its generated id. It runs on the
// caller's transaction so the reference read and the insert commit together.
func (r *AmendmentRepository) InsertTx(ctx context.Context, ext sqlx.ExtContext, a *models.Amendment) (int64, error) {
	cols := []string{
		"amendment_reference", "amendment_type", "description",
		"amendment_status", "development_status", "priority",
		"force", "application", "notes", "reported_by", "assigned_to",
		"date_reported", "database_changes", "db_upgrade_changes",
		"release_notes", "created_by", "created_on", "modified_by", "modified_on",
	}
	query := database.ConvertPlaceholders(database.BuildInsertQuery("amendments", cols, "amendment_id"))

	return insertReturningID(ctx, ext, query,
		a.Reference, string(a.Type), a.Description,
		string(a.Status), string(a.DevelopmentStatus), string(a.Priority),
		a.Force, a.Application, a.Notes, a.ReportedBy, a.AssignedTo,
		a.DateReported, a.DatabaseChanges, a.DBUpgradeChanges,
		a.ReleaseNotes, a.CreatedBy, a.CreatedOn, a.ModifiedBy, a.ModifiedOn,
	)
}

// MaxSequenceTx returns the highest numeric suffix among references starting
// with prefix, or 0 when none exist. Zero-padded sequences sort
// lexicographically, so MAX on the reference string is the latest one.
func (r *AmendmentRepository) MaxSequenceTx(ctx context.Context, ext sqlx.ExtContext, prefix string) (int, error) {
	query := database.ConvertPlaceholders(`
		SELECT MAX(amendment_reference) FROM amendments WHERE amendment_reference LIKE ?
	`)

	var ref sql.NullString
	if err := sqlx.GetContext(ctx, ext, &ref, query, prefix+"%"); err != nil {
		return 0, err
	}
	if !ref.Valid {
		return 0, nil
	}

	seq, err := strconv.Atoi(strings.TrimPrefix(ref.String, prefix))
	if err != nil {
		return 0, fmt.Errorf("malformed reference %q: %w", ref.String, err)
	}
	return seq, nil
}

// MaxSequence is MaxSequenceTx outside a transaction, used by the
// next-reference preview endpoint.
func (r *AmendmentRepository) MaxSequence(ctx context.Context, prefix string) (int, error) {
	return r.MaxSequenceTx(ctx, r.db, prefix)
}

// GetByID retrieves an amendment by id. Child collections are not loaded.
func (r *AmendmentRepository) GetByID(ctx context.Context, id int64) (*models.Amendment, error) {
	query := database.ConvertPlaceholders(fmt.Sprintf(`
		SELECT %s FROM amendments WHERE amendment_id = ?
	`, amendmentColumns()))

	a := &models.Amendment{}
	if err := sqlx.GetContext(ctx, r.db, a, query, id); err != nil {
		return nil, err
	}
	return a, nil
}

// GetByReference retrieves an amendment by its exact reference string.
func (r *AmendmentRepository) GetByReference(ctx context.Context, reference string) (*models.Amendment, error) {
	query := database.ConvertPlaceholders(fmt.Sprintf(`
		SELECT %s FROM amendments WHERE amendment_reference = ?
	`, amendmentColumns()))

	a := &models.Amendment{}
	if err := sqlx.GetContext(ctx, r.db, a, query, reference); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns one page of amendment summaries plus the total match count.
// The filter must have passed Validate.
func (r *AmendmentRepository) List(ctx context.Context, f *models.AmendmentFilter) ([]models.AmendmentSummary, int64, error) {
	where, args := buildFilterWhere(f)

	var total int64
	countQuery := database.ConvertPlaceholders("SELECT COUNT(*) FROM amendments" + where)
	if err := sqlx.GetContext(ctx, r.db, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	sortColumn := f.SortColumn()
	if sortColumn == "force" {
		sortColumn = database.QuoteIdentifier("force")
	}
	direction := "ASC"
	if f.SortDescending() {
		direction = "DESC"
	}

	pageQuery := database.ConvertPlaceholders(fmt.Sprintf(
		"SELECT %s FROM amendments%s ORDER BY %s %s LIMIT ? OFFSET ?",
		summaryColumns(), where, sortColumn, direction,
	))
	pageArgs := append(append([]interface{}{}, args...), f.Limit, f.Skip)

	summaries := []models.AmendmentSummary{}
	if err := sqlx.SelectContext(ctx, r.db, &summaries, pageQuery, pageArgs...); err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// Update applies a partial update. modified_on is always stamped, so an
// update with no fields is a touch. Returns sql.ErrNoRows for unknown ids.
func (r *AmendmentRepository) Update(ctx context.Context, id int64, req *models.UpdateAmendmentRequest, now time.Time) error {
	var setColumns []string
	var args []interface{}

	add := func(column string, value interface{}) {
		setColumns = append(setColumns, column)
		args = append(args, value)
	}

	if req.Type != nil {
		add("amendment_type", string(*req.Type))
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Status != nil {
		add("amendment_status", string(*req.Status))
	}
	if req.DevelopmentStatus != nil {
		add("development_status", string(*req.DevelopmentStatus))
	}
	if req.Priority != nil {
		add("priority", string(*req.Priority))
	}
	if req.Force != nil {
		add("force", *req.Force)
	}
	if req.Application != nil {
		add("application", *req.Application)
	}
	if req.Notes != nil {
		add("notes", *req.Notes)
	}
	if req.ReportedBy != nil {
		add("reported_by", *req.ReportedBy)
	}
	if req.AssignedTo != nil {
		add("assigned_to", *req.AssignedTo)
	}
	if req.DateReported != nil {
		add("date_reported", *req.DateReported)
	}
	if req.DatabaseChanges != nil {
		add("database_changes", *req.DatabaseChanges)
	}
	if req.DBUpgradeChanges != nil {
		add("db_upgrade_changes", *req.DBUpgradeChanges)
	}
	if req.ReleaseNotes != nil {
		add("release_notes", *req.ReleaseNotes)
	}
	if req.ModifiedBy != nil {
		add("modified_by", *req.ModifiedBy)
	}
	add("modified_on", now)

	query := database.ConvertPlaceholders(
		database.BuildUpdateQuery("amendments", setColumns, "amendment_id = ?"))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateQA applies a partial update of the QA sub-record. Returns
// sql.ErrNoRows for unknown ids.
func (r *AmendmentRepository) UpdateQA(ctx context.Context, id int64, req *models.UpdateQARequest, now time.Time) error {
	var setColumns []string
	var args []interface{}

	add := func(column string, value interface{}) {
		setColumns = append(setColumns, column)
		args = append(args, value)
	}

	if req.QAAssignedID != nil {
		add("qa_assigned_id", *req.QAAssignedID)
	}
	if req.QAAssignedDate != nil {
		add("qa_assigned_date", *req.QAAssignedDate)
	}
	if req.QATestPlanCheck != nil {
		add("qa_test_plan_check", *req.QATestPlanCheck)
	}
	if req.QATestReleaseNotesCheck != nil {
		add("qa_test_release_notes_check", *req.QATestReleaseNotesCheck)
	}
	if req.QACompleted != nil {
		add("qa_completed", *req.QACompleted)
	}
	if req.QASignature != nil {
		add("qa_signature", *req.QASignature)
	}
	if req.QACompletedDate != nil {
		add("qa_completed_date", *req.QACompletedDate)
	}
	if req.QANotes != nil {
		add("qa_notes", *req.QANotes)
	}
	if req.QATestPlanLink != nil {
		add("qa_test_plan_link", *req.QATestPlanLink)
	}
	if req.ModifiedBy != nil {
		add("modified_by", *req.ModifiedBy)
	}
	add("modified_on", now)

	query := database.ConvertPlaceholders(
		database.BuildUpdateQuery("amendments", setColumns, "amendment_id = ?"))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an amendment. Progress entries, application rows and links
// in both directions go with it via FK cascade. Returns sql.ErrNoRows for
// unknown ids.
func (r *AmendmentRepository) Delete(ctx context.Context, id int64) error {
	query := database.ConvertPlaceholders(`
		DELETE FROM amendments WHERE amendment_id = ?
	`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Exists checks if an amendment with the given id exists.
func (r *AmendmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := database.ConvertPlaceholders(`
		SELECT EXISTS(SELECT 1 FROM amendments WHERE amendment_id = ? LIMIT 1)
	`)
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, query, id)
	return exists, err
}

// Any reports whether the amendments table has any rows. Seeding uses it as
// its idempotency guard.
func (r *AmendmentRepository) Any(ctx context.Context) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM amendments LIMIT 1)`
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, query)
	return exists, err
}
