package models

import "time"

// ApplicationLink records that an amendment affects a named application at a
// particular version. Rows live and die with their amendment.
type ApplicationLink struct {
	ID              int64   `json:"id" db:"id"`
	AmendmentID     int64   `json:"amendment_id" db:"amendment_id"`
	ApplicationName string  `json:"application_name" db:"application_name"`
	Version         *string `json:"version" db:"version"`
}

// ApplicationLinkInput is the write shape for application links on create.
type ApplicationLinkInput struct {
	ApplicationName string  `json:"application_name"`
	Version         *string `json:"version"`
}

// Application is a registry entry for a fielded application. The registry has
// no API surface of its own; it backs seeding and picker data.
type Application struct {
	ID          int64     `json:"application_id" db:"application_id"`
	Name        string    `json:"application_name" db:"application_name"`
	Description *string   `json:"description" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedOn   time.Time `json:"created_on" db:"created_on"`
}

// ApplicationVersion is one released version of a registry application.
type ApplicationVersion struct {
	ID            int64      `json:"version_id" db:"version_id"`
	ApplicationID int64      `json:"application_id" db:"application_id"`
	VersionNumber string     `json:"version_number" db:"version_number"`
	ReleaseDate   *time.Time `json:"release_date" db:"release_date"`
	IsCurrent     bool       `json:"is_current" db:"is_current"`
}
