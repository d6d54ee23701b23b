package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/fisworks/amendtrack/internal/database"
	"github.com/fisworks/amendtrack/internal/models"
)

// ProgressRepository handles database operations for amendment progress
// entries.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new progress repository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Insert adds a progress entry and returns its generated id. The caller is
// responsible for checking that the parent amendment exists.
func (r *ProgressRepository) Insert(ctx context.Context, p *models.ProgressEntry) (int64, error) {
	cols := []string{
		"amendment_id", "start_date", "description", "notes",
		"created_by", "created_on", "modified_by", "modified_on",
	}
	query := database.ConvertPlaceholders(
		database.BuildInsertQuery("amendment_progress", cols, "amendment_progress_id"))

	return insertReturningID(ctx, r.db, query,
		p.AmendmentID, p.StartDate, p.Description, p.Notes,
		p.CreatedBy, p.CreatedOn, p.ModifiedBy, p.ModifiedOn,
	)
}

// ListByAmendment returns all progress entries for an amendment, newest
// start date first.
func (r *ProgressRepository) ListByAmendment(ctx context.Context, amendmentID int64) ([]models.ProgressEntry, error) {
	query := database.ConvertPlaceholders(`
		SELECT amendment_progress_id, amendment_id, start_date, description, notes,
		       created_by, created_on, modified_by, modified_on
		FROM amendment_progress
		WHERE amendment_id = ?
		ORDER BY start_date DESC, amendment_progress_id DESC
	`)

	entries := []models.ProgressEntry{}
	if err := sqlx.SelectContext(ctx, r.db, &entries, query, amendmentID); err != nil {
		return nil, err
	}
	return entries, nil
}
