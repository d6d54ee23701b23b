package models

import "time"

// LinkType classifies a directed relationship between two amendments.
type LinkType string

const (
	LinkRelated   LinkType = "Related"
	LinkDuplicate LinkType = "Duplicate"
	LinkBlocks    LinkType = "Blocks"
	LinkBlockedBy LinkType = "Blocked By"
)

// AllLinkTypes returns the valid link types in display order.
func AllLinkTypes() []LinkType {
	return []LinkType{LinkRelated, LinkDuplicate, LinkBlocks, LinkBlockedBy}
}

// IsValid reports whether t is one of the known link types.
func (t LinkType) IsValid() bool {
	switch t {
	case LinkRelated, LinkDuplicate, LinkBlocks, LinkBlockedBy:
		return true
	}
	return false
}

// Link directions as seen from the amendment a listing was requested for.
const (
	LinkDirectionOutgoing = "outgoing"
	LinkDirectionIncoming = "incoming"
)

// AmendmentLink is a typed directed edge between two amendments. When listed
// for an amendment the row is annotated with the direction and a summary of
// the other endpoint.
type AmendmentLink struct {
	ID                int64     `json:"amendment_link_id" db:"amendment_link_id"`
	AmendmentID       int64     `json:"amendment_id" db:"amendment_id"`
	LinkedAmendmentID int64     `json:"linked_amendment_id" db:"linked_amendment_id"`
	LinkType          LinkType  `json:"link_type" db:"link_type"`
	CreatedBy         *string   `json:"created_by" db:"created_by"`
	CreatedOn         time.Time `json:"created_on" db:"created_on"`

	// Annotations selected on reads, not stored.
	Direction         string `json:"direction,omitempty" db:"direction"`
	LinkedReference   string `json:"linked_reference,omitempty" db:"linked_reference"`
	LinkedDescription string `json:"linked_description,omitempty" db:"linked_description"`
}

// CreateLinkRequest is the write shape for linking two amendments. The source
// side comes from the URL; LinkType defaults to Related.
type CreateLinkRequest struct {
	LinkedAmendmentID int64    `json:"linked_amendment_id"`
	LinkType          LinkType `json:"link_type"`
	CreatedBy         *string  `json:"created_by"`
}

// Defaults fills the link type when the caller left it empty.
func (r *CreateLinkRequest) Defaults() {
	if r.LinkType == "" {
		r.LinkType = LinkRelated
	}
}

// Validate checks link type membership. Self-link checks need the source id,
// which the service supplies.
func (r *CreateLinkRequest) Validate(sourceID int64) error {
	if r.LinkedAmendmentID < 1 {
		return wrapValidation("linked_amendment_id is required")
	}
	if !r.LinkType.IsValid() {
		return wrapValidationf("invalid link_type %q", string(r.LinkType))
	}
	if r.LinkedAmendmentID == sourceID {
		return wrapValidation("an amendment cannot be linked to itself")
	}
	return nil
}
