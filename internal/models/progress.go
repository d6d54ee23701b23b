package models

import "time"

// ProgressEntry is one timestamped note recording work done on an amendment.
// Entries are append-only and are removed when the parent amendment is deleted.
type ProgressEntry struct {
	ID          int64     `json:"amendment_progress_id" db:"amendment_progress_id"`
	AmendmentID int64     `json:"amendment_id" db:"amendment_id"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	Description string    `json:"description" db:"description"`
	Notes       *string   `json:"notes" db:"notes"`
	CreatedBy   *string   `json:"created_by" db:"created_by"`
	CreatedOn   time.Time `json:"created_on" db:"created_on"`
	ModifiedBy  *string   `json:"modified_by" db:"modified_by"`
	ModifiedOn  time.Time `json:"modified_on" db:"modified_on"`
}

// CreateProgressRequest is the write shape for a new progress entry.
// StartDate defaults to the clock when absent.
type CreateProgressRequest struct {
	StartDate   *time.Time `json:"start_date"`
	Description string     `json:"description"`
	Notes       *string    `json:"notes"`
	CreatedBy   *string    `json:"created_by"`
}

// Validate checks the required description.
func (r *CreateProgressRequest) Validate() error {
	if r.Description == "" {
		return wrapValidation("progress description is required")
	}
	return nil
}
