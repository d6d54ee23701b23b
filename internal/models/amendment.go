package models

import (
	"time"
)

// AmendmentType classifies what kind of change an amendment requests.
type AmendmentType string

const (
	TypeBug           AmendmentType = "Bug"
	TypeFault         AmendmentType = "Fault"
	TypeEnhancement   AmendmentType = "Enhancement"
	TypeFeature       AmendmentType = "Feature"
	TypeSuggestion    AmendmentType = "Suggestion"
	TypeMaintenance   AmendmentType = "Maintenance"
	TypeDocumentation AmendmentType = "Documentation"
)

// AmendmentStatus is the overall workflow state of an amendment.
type AmendmentStatus string

const (
	StatusOpen       AmendmentStatus = "Open"
	StatusInProgress AmendmentStatus = "In Progress"
	StatusTesting    AmendmentStatus = "Testing"
	StatusCompleted  AmendmentStatus = "Completed"
	StatusDeployed   AmendmentStatus = "Deployed"
)

// DevelopmentStatus tracks where an amendment sits in the development cycle.
type DevelopmentStatus string

const (
	DevNotStarted    DevelopmentStatus = "Not Started"
	DevInDevelopment DevelopmentStatus = "In Development"
	DevCodeReview    DevelopmentStatus = "Code Review"
	DevReadyForQA    DevelopmentStatus = "Ready for QA"
)

// Priority is the urgency classification of an amendment.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// AllAmendmentTypes returns the valid amendment types in display order.
func AllAmendmentTypes() []AmendmentType {
	return []AmendmentType{
		TypeBug, TypeFault, TypeEnhancement, TypeFeature,
		TypeSuggestion, TypeMaintenance, TypeDocumentation,
	}
}

// AllAmendmentStatuses returns the valid workflow statuses in lifecycle order.
func AllAmendmentStatuses() []AmendmentStatus {
	return []AmendmentStatus{
		StatusOpen, StatusInProgress, StatusTesting, StatusCompleted, StatusDeployed,
	}
}

// AllDevelopmentStatuses returns the valid development statuses in cycle order.
func AllDevelopmentStatuses() []DevelopmentStatus {
	return []DevelopmentStatus{
		DevNotStarted, DevInDevelopment, DevCodeReview, DevReadyForQA,
	}
}

// AllPriorities returns the valid priorities from lowest to highest.
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// IsValid reports whether t is one of the known amendment types.
func (t AmendmentType) IsValid() bool {
	switch t {
	case TypeBug, TypeFault, TypeEnhancement, TypeFeature,
		TypeSuggestion, TypeMaintenance, TypeDocumentation:
		return true
	}
	return false
}

// IsValid reports whether s is one of the known workflow statuses.
func (s AmendmentStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusTesting, StatusCompleted, StatusDeployed:
		return true
	}
	return false
}

// IsValid reports whether d is one of the known development statuses.
func (d DevelopmentStatus) IsValid() bool {
	switch d {
	case DevNotStarted, DevInDevelopment, DevCodeReview, DevReadyForQA:
		return true
	}
	return false
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Amendment is a tracked change request against one or more fielded
// applications. Nullable columns map to pointer fields.
type Amendment struct {
	ID        int64  `json:"amendment_id" db:"amendment_id"`
	Reference string `json:"amendment_reference" db:"amendment_reference"`

	Type              AmendmentType     `json:"amendment_type" db:"amendment_type"`
	Description       string            `json:"description" db:"description"`
	Status            AmendmentStatus   `json:"amendment_status" db:"amendment_status"`
	DevelopmentStatus DevelopmentStatus `json:"development_status" db:"development_status"`
	Priority          Priority          `json:"priority" db:"priority"`

	Force        *string    `json:"force" db:"force"`
	Application  *string    `json:"application" db:"application"`
	Notes        *string    `json:"notes" db:"notes"`
	ReportedBy   *string    `json:"reported_by" db:"reported_by"`
	AssignedTo   *string    `json:"assigned_to" db:"assigned_to"`
	DateReported *time.Time `json:"date_reported" db:"date_reported"`

	DatabaseChanges  bool    `json:"database_changes" db:"database_changes"`
	DBUpgradeChanges bool    `json:"db_upgrade_changes" db:"db_upgrade_changes"`
	ReleaseNotes     *string `json:"release_notes" db:"release_notes"`

	// QA sub-record
	QAAssignedID            *int64     `json:"qa_assigned_id" db:"qa_assigned_id"`
	QAAssignedDate          *time.Time `json:"qa_assigned_date" db:"qa_assigned_date"`
	QATestPlanCheck         bool       `json:"qa_test_plan_check" db:"qa_test_plan_check"`
	QATestReleaseNotesCheck bool       `json:"qa_test_release_notes_check" db:"qa_test_release_notes_check"`
	QACompleted             bool       `json:"qa_completed" db:"qa_completed"`
	QASignature             *string    `json:"qa_signature" db:"qa_signature"`
	QACompletedDate         *time.Time `json:"qa_completed_date" db:"qa_completed_date"`
	QANotes                 *string    `json:"qa_notes" db:"qa_notes"`
	QATestPlanLink          *string    `json:"qa_test_plan_link" db:"qa_test_plan_link"`

	CreatedBy  *string   `json:"created_by" db:"created_by"`
	CreatedOn  time.Time `json:"created_on" db:"created_on"`
	ModifiedBy *string   `json:"modified_by" db:"modified_by"`
	ModifiedOn time.Time `json:"modified_on" db:"modified_on"`

	// Loaded on detail reads only.
	ProgressEntries []ProgressEntry   `json:"progress_entries" db:"-"`
	Applications    []ApplicationLink `json:"applications" db:"-"`
	Links           []AmendmentLink   `json:"links" db:"-"`
}

// QAAssigned reports whether a QA assignee is recorded.
func (a *Amendment) QAAssigned() bool {
	return a.QAAssignedID != nil
}

// AmendmentSummary is the lightweight list-view shape returned by List.
type AmendmentSummary struct {
	ID                int64             `json:"amendment_id" db:"amendment_id"`
	Reference         string            `json:"amendment_reference" db:"amendment_reference"`
	Type              AmendmentType     `json:"amendment_type" db:"amendment_type"`
	Description       string            `json:"description" db:"description"`
	Status            AmendmentStatus   `json:"amendment_status" db:"amendment_status"`
	DevelopmentStatus DevelopmentStatus `json:"development_status" db:"development_status"`
	Priority          Priority          `json:"priority" db:"priority"`
	Force             *string           `json:"force" db:"force"`
	Application       *string           `json:"application" db:"application"`
	ReportedBy        *string           `json:"reported_by" db:"reported_by"`
	AssignedTo        *string           `json:"assigned_to" db:"assigned_to"`
	DateReported      *time.Time        `json:"date_reported" db:"date_reported"`
	CreatedOn         time.Time         `json:"created_on" db:"created_on"`
	ModifiedOn        time.Time         `json:"modified_on" db:"modified_on"`
}

// CreateAmendmentRequest is the write shape for new amendments. The reference
// is generated server-side and must not be supplied.
type CreateAmendmentRequest struct {
	Type              AmendmentType     `json:"amendment_type"`
	Description       string            `json:"description"`
	Status            AmendmentStatus   `json:"amendment_status"`
	DevelopmentStatus DevelopmentStatus `json:"development_status"`
	Priority          Priority          `json:"priority"`
	Force             *string           `json:"force"`
	Application       *string           `json:"application"`
	Notes             *string           `json:"notes"`
	ReportedBy        *string           `json:"reported_by"`
	AssignedTo        *string           `json:"assigned_to"`
	DateReported      *time.Time        `json:"date_reported"`
	DatabaseChanges   bool              `json:"database_changes"`
	DBUpgradeChanges  bool              `json:"db_upgrade_changes"`
	ReleaseNotes      *string           `json:"release_notes"`
	CreatedBy         *string           `json:"created_by"`

	// Optional affected-application rows written with the amendment.
	Applications []ApplicationLinkInput `json:"applications"`
}

// Defaults fills the enum fields the caller left empty.
func (r *CreateAmendmentRequest) Defaults() {
	if r.Status == "" {
		r.Status = StatusOpen
	}
	if r.DevelopmentStatus == "" {
		r.DevelopmentStatus = DevNotStarted
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
}

// Validate checks required fields and enum membership. Content errors are
// reported here rather than through binding tags so they surface as
// validation failures, not bad requests.
func (r *CreateAmendmentRequest) Validate() error {
	if r.Description == "" {
		return wrapValidation("description is required")
	}
	if r.Type == "" {
		return wrapValidation("amendment_type is required")
	}
	if !r.Type.IsValid() {
		return wrapValidationf("invalid amendment_type %q", string(r.Type))
	}
	if !r.Status.IsValid() {
		return wrapValidationf("invalid amendment_status %q", string(r.Status))
	}
	if !r.DevelopmentStatus.IsValid() {
		return wrapValidationf("invalid development_status %q", string(r.DevelopmentStatus))
	}
	if !r.Priority.IsValid() {
		return wrapValidationf("invalid priority %q", string(r.Priority))
	}
	if r.Force != nil && *r.Force != "" && !IsValidForce(*r.Force) {
		return wrapValidationf("unknown force %q", *r.Force)
	}
	for _, app := range r.Applications {
		if app.ApplicationName == "" {
			return wrapValidation("application_name is required on application links")
		}
	}
	return nil
}

// UpdateAmendmentRequest is a partial update: nil fields are left untouched.
type UpdateAmendmentRequest struct {
	Type              *AmendmentType     `json:"amendment_type"`
	Description       *string            `json:"description"`
	Status            *AmendmentStatus   `json:"amendment_status"`
	DevelopmentStatus *DevelopmentStatus `json:"development_status"`
	Priority          *Priority          `json:"priority"`
	Force             *string            `json:"force"`
	Application       *string            `json:"application"`
	Notes             *string            `json:"notes"`
	ReportedBy        *string            `json:"reported_by"`
	AssignedTo        *string            `json:"assigned_to"`
	DateReported      *time.Time         `json:"date_reported"`
	DatabaseChanges   *bool              `json:"database_changes"`
	DBUpgradeChanges  *bool              `json:"db_upgrade_changes"`
	ReleaseNotes      *string            `json:"release_notes"`
	ModifiedBy        *string            `json:"modified_by"`
}

// IsEmpty reports whether the update carries no field at all.
func (r *UpdateAmendmentRequest) IsEmpty() bool {
	return r.Type == nil && r.Description == nil && r.Status == nil &&
		r.DevelopmentStatus == nil && r.Priority == nil && r.Force == nil &&
		r.Application == nil && r.Notes == nil && r.ReportedBy == nil &&
		r.AssignedTo == nil && r.DateReported == nil && r.DatabaseChanges == nil &&
		r.DBUpgradeChanges == nil && r.ReleaseNotes == nil
}

// Validate checks enum membership for the fields that are present.
func (r *UpdateAmendmentRequest) Validate() error {
	if r.Description != nil && *r.Description == "" {
		return wrapValidation("description cannot be emptied")
	}
	if r.Type != nil && !r.Type.IsValid() {
		return wrapValidationf("invalid amendment_type %q", string(*r.Type))
	}
	if r.Status != nil && !r.Status.IsValid() {
		return wrapValidationf("invalid amendment_status %q", string(*r.Status))
	}
	if r.DevelopmentStatus != nil && !r.DevelopmentStatus.IsValid() {
		return wrapValidationf("invalid development_status %q", string(*r.DevelopmentStatus))
	}
	if r.Priority != nil && !r.Priority.IsValid() {
		return wrapValidationf("invalid priority %q", string(*r.Priority))
	}
	if r.Force != nil && *r.Force != "" && !IsValidForce(*r.Force) {
		return wrapValidationf("unknown force %q", *r.Force)
	}
	return nil
}

// UpdateQARequest is a partial update of the QA sub-record.
type UpdateQARequest struct {
	QAAssignedID            *int64     `json:"qa_assigned_id"`
	QAAssignedDate          *time.Time `json:"qa_assigned_date"`
	QATestPlanCheck         *bool      `json:"qa_test_plan_check"`
	QATestReleaseNotesCheck *bool      `json:"qa_test_release_notes_check"`
	QACompleted             *bool      `json:"qa_completed"`
	QASignature             *string    `json:"qa_signature"`
	QACompletedDate         *time.Time `json:"qa_completed_date"`
	QANotes                 *string    `json:"qa_notes"`
	QATestPlanLink          *string    `json:"qa_test_plan_link"`
	ModifiedBy              *string    `json:"modified_by"`
}

// Normalize stamps qa_completed_date when completion is being set without one.
// Clearing qa_completed leaves any recorded date untouched.
func (r *UpdateQARequest) Normalize(now time.Time) {
	if r.QACompleted != nil && *r.QACompleted && r.QACompletedDate == nil {
		t := now
		r.QACompletedDate = &t
	}
}

// BulkUpdateRequest applies one partial update to many amendments.
type BulkUpdateRequest struct {
	AmendmentIDs []int64                `json:"amendment_ids"`
	Updates      UpdateAmendmentRequest `json:"updates"`
}

// BulkUpdateResult reports per-id outcomes of a bulk update.
type BulkUpdateResult struct {
	UpdatedCount int              `json:"updated_count"`
	FailedIDs    []int64          `json:"failed_ids"`
	Errors       map[int64]string `json:"errors"`
}
