package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/fisworks/amendtrack/internal/database"
	"github.com/fisworks/amendtrack/internal/models"
)

// ApplicationRepository handles database operations for the application
// registry and the per-amendment application rows.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates a new application repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// InsertAmendmentLinkTx adds an affected-application row for an amendment on
// the caller's transaction, so the rows commit with the amendment itself.
func (r *ApplicationRepository) InsertAmendmentLinkTx(ctx context.Context, ext sqlx.ExtContext, amendmentID int64, in models.ApplicationLinkInput) (int64, error) {
	cols := []string{"amendment_id", "application_name", "version"}
	query := database.ConvertPlaceholders(
		database.BuildInsertQuery("amendment_applications", cols, "id"))

	return insertReturningID(ctx, ext, query, amendmentID, in.ApplicationName, in.Version)
}

// ListByAmendment returns the affected-application rows for an amendment.
func (r *ApplicationRepository) ListByAmendment(ctx context.Context, amendmentID int64) ([]models.ApplicationLink, error) {
	query := database.ConvertPlaceholders(`
		SELECT id, amendment_id, application_name, version
		FROM amendment_applications
		WHERE amendment_id = ?
		ORDER BY id
	`)

	links := []models.ApplicationLink{}
	if err := sqlx.SelectContext(ctx, r.db, &links, query, amendmentID); err != nil {
		return nil, err
	}
	return links, nil
}

// RegistryExists checks if a registry application with the given name exists.
func (r *ApplicationRepository) RegistryExists(ctx context.Context, name string) (bool, error) {
	query := database.ConvertPlaceholders(`
		SELECT EXISTS(SELECT 1 FROM applications WHERE application_name = ? LIMIT 1)
	`)
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, query, name)
	return exists, err
}

// InsertRegistry adds an application to the registry and returns its id.
func (r *ApplicationRepository) InsertRegistry(ctx context.Context, app *models.Application) (int64, error) {
	cols := []string{"application_name", "description", "is_active", "created_on"}
	query := database.ConvertPlaceholders(
		database.BuildInsertQuery("applications", cols, "application_id"))

	return insertReturningID(ctx, r.db, query, app.Name, app.Description, app.IsActive, app.CreatedOn)
}

// InsertRegistryVersion adds a version row for a registry application.
func (r *ApplicationRepository) InsertRegistryVersion(ctx context.Context, v *models.ApplicationVersion) (int64, error) {
	cols := []string{"application_id", "version_number", "release_date", "is_current"}
	query := database.ConvertPlaceholders(
		database.BuildInsertQuery("application_versions", cols, "version_id"))

	return insertReturningID(ctx, r.db, query, v.ApplicationID, v.VersionNumber, v.ReleaseDate, v.IsCurrent)
}
