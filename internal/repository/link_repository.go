package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/fisworks/amendtrack/internal/database"
	"github.com/fisworks/amendtrack/internal/models"
)

// LinkRepository handles database operations for amendment-to-amendment
// links.
type LinkRepository struct {
	db *sqlx.DB
}

// NewLinkRepository creates a new link repository.
func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Insert adds a directed link and returns its generated id. The unique
// constraint on (amendment_id, linked_amendment_id) rejects duplicates the
// Exists check raced with.
func (r *LinkRepository) Insert(ctx context.Context, l *models.AmendmentLink) (int64, error) {
	cols := []string{
		"amendment_id", "linked_amendment_id", "link_type",
		"created_by", "created_on",
	}
	query := database.ConvertPlaceholders(
		database.BuildInsertQuery("amendment_links", cols, "amendment_link_id"))

	return insertReturningID(ctx, r.db, query,
		l.AmendmentID, l.LinkedAmendmentID, string(l.LinkType),
		l.CreatedBy, l.CreatedOn,
	)
}

// Exists checks if the directed pair is already linked.
func (r *LinkRepository) Exists(ctx context.Context, amendmentID, linkedAmendmentID int64) (bool, error) {
	query := database.ConvertPlaceholders(`
		SELECT EXISTS(SELECT 1 FROM amendment_links WHERE amendment_id = ? AND linked_amendment_id = ? LIMIT 1)
	`)
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, query, amendmentID, linkedAmendmentID)
	return exists, err
}

// ListByAmendment returns the links touching an amendment in either
// direction, each annotated with the direction and a summary of the other
// endpoint.
func (r *LinkRepository) ListByAmendment(ctx context.Context, amendmentID int64) ([]models.AmendmentLink, error) {
	query := database.ConvertPlaceholders(`
		SELECT l.amendment_link_id, l.amendment_id, l.linked_amendment_id, l.link_type,
		       l.created_by, l.created_on,
		       'outgoing' AS direction,
		       a.amendment_reference AS linked_reference,
		       a.description AS linked_description
		FROM amendment_links l
		JOIN amendments a ON a.amendment_id = l.linked_amendment_id
		WHERE l.amendment_id = ?
		UNION ALL
		SELECT l.amendment_link_id, l.amendment_id, l.linked_amendment_id, l.link_type,
		       l.created_by, l.created_on,
		       'incoming' AS direction,
		       a.amendment_reference AS linked_reference,
		       a.description AS linked_description
		FROM amendment_links l
		JOIN amendments a ON a.amendment_id = l.amendment_id
		WHERE l.linked_amendment_id = ?
		ORDER BY amendment_link_id
	`)

	links := []models.AmendmentLink{}
	if err := sqlx.SelectContext(ctx, r.db, &links, query, amendmentID, amendmentID); err != nil {
		return nil, err
	}
	return links, nil
}

// Delete removes a link by its own id. Returns sql.ErrNoRows for unknown
// ids.
func (r *LinkRepository) Delete(ctx context.Context, linkID int64) error {
	query := database.ConvertPlaceholders(`
		DELETE FROM amendment_links WHERE amendment_link_id = ?
	`)

	result, err := r.db.ExecContext(ctx, query, linkID)
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
