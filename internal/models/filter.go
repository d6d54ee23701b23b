package models

import "time"

// Pagination bounds for amendment listing.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// sortableColumns whitelists the columns List may order by. Anything else is
// a validation error rather than a silent fallback.
var sortableColumns = map[string]string{
	"amendment_id":        "amendment_id",
	"amendment_reference": "amendment_reference",
	"amendment_type":      "amendment_type",
	"amendment_status":    "amendment_status",
	"development_status":  "development_status",
	"priority":            "priority",
	"force":               "force",
	"application":         "application",
	"assigned_to":         "assigned_to",
	"reported_by":         "reported_by",
	"date_reported":       "date_reported",
	"created_on":          "created_on",
	"modified_on":         "modified_on",
}

// AmendmentFilter carries the recognized filter fields for listing
// amendments. Every field is optional; set fields are AND-ed together and
// list fields match any member (IN).
type AmendmentFilter struct {
	Reference    string  `json:"amendment_reference"`
	AmendmentIDs []int64 `json:"amendment_ids"`

	Statuses            []AmendmentStatus   `json:"amendment_status"`
	DevelopmentStatuses []DevelopmentStatus `json:"development_status"`
	Priorities          []Priority          `json:"priority"`
	Types               []AmendmentType     `json:"amendment_type"`
	Forces              []string            `json:"force"`
	Applications        []string            `json:"application"`
	AssignedTo          []string            `json:"assigned_to"`
	ReportedBy          []string            `json:"reported_by"`

	DateReportedFrom *time.Time `json:"date_reported_from"`
	DateReportedTo   *time.Time `json:"date_reported_to"`
	CreatedOnFrom    *time.Time `json:"created_on_from"`
	CreatedOnTo      *time.Time `json:"created_on_to"`
	ModifiedOnFrom   *time.Time `json:"modified_on_from"`
	ModifiedOnTo     *time.Time `json:"modified_on_to"`

	SearchText string `json:"search_text"`

	QACompleted      *bool `json:"qa_completed"`
	QAAssigned       *bool `json:"qa_assigned"`
	DatabaseChanges  *bool `json:"database_changes"`
	DBUpgradeChanges *bool `json:"db_upgrade_changes"`

	Skip  int `json:"skip"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

// Normalize fills pagination and sort defaults for unset fields.
func (f *AmendmentFilter) Normalize() {
	if f.Limit == 0 {
		f.Limit = DefaultListLimit
	}
	if f.SortBy == "" {
		f.SortBy = "amendment_id"
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
}

// Validate checks pagination bounds, sort whitelist and enum membership.
// Call Normalize first.
func (f *AmendmentFilter) Validate() error {
	if f.Skip < 0 {
		return wrapValidationf("skip must be >= 0, got %d", f.Skip)
	}
	if f.Limit < 1 || f.Limit > MaxListLimit {
		return wrapValidationf("limit must be between 1 and %d, got %d", MaxListLimit, f.Limit)
	}
	if _, ok := sortableColumns[f.SortBy]; !ok {
		return wrapValidationf("unknown sort field %q", f.SortBy)
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		return wrapValidationf("sort_order must be asc or desc, got %q", f.SortOrder)
	}
	for _, s := range f.Statuses {
		if !s.IsValid() {
			return wrapValidationf("invalid amendment_status %q", string(s))
		}
	}
	for _, d := range f.DevelopmentStatuses {
		if !d.IsValid() {
			return wrapValidationf("invalid development_status %q", string(d))
		}
	}
	for _, p := range f.Priorities {
		if !p.IsValid() {
			return wrapValidationf("invalid priority %q", string(p))
		}
	}
	for _, t := range f.Types {
		if !t.IsValid() {
			return wrapValidationf("invalid amendment_type %q", string(t))
		}
	}
	return nil
}

// SortColumn returns the whitelisted column for SortBy. Only meaningful after
// Validate has passed.
func (f *AmendmentFilter) SortColumn() string {
	return sortableColumns[f.SortBy]
}

// SortDescending reports whether the sort direction is descending.
func (f *AmendmentFilter) SortDescending() bool {
	return f.SortOrder != "asc"
}
