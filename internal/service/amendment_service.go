package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fisworks/amendtrack/internal/database"
	"github.com/fisworks/amendtrack/internal/models"
	"github.com/fisworks/amendtrack/internal/repository"
	"github.com/fisworks/amendtrack/internal/service/reference"
)

// AmendmentService owns the amendment lifecycle: creation with reference
// assignment, reads with child records, partial updates, QA updates, links,
// progress entries and aggregate stats. All validation errors and storage
// failures are reported through the models error sentinels.
type AmendmentService struct {
	db           *sqlx.DB
	amendments   *repository.AmendmentRepository
	progress     *repository.ProgressRepository
	links        *repository.LinkRepository
	applications *repository.ApplicationRepository
	employees    *repository.EmployeeRepository
	stats        *repository.StatsRepository
	generator    reference.Generator
	now          func() time.Time
}

// Option configures an AmendmentService.
type Option func(*AmendmentService)

// WithNow replaces the service clock. Tests use a fixed clock so audit
// timestamps and reference dates are deterministic.
func WithNow(now func() time.Time) Option {
	return func(s *AmendmentService) { s.now = now }
}

// WithGenerator replaces the reference number generator.
func WithGenerator(g reference.Generator) Option {
	return func(s *AmendmentService) { s.generator = g }
}

// NewAmendmentService creates the service over a database handle.
func NewAmendmentService(db *sqlx.DB, opts ...Option) *AmendmentService {
	s := &AmendmentService{
		db:           db,
		amendments:   repository.NewAmendmentRepository(db),
		progress:     repository.NewProgressRepository(db),
		links:        repository.NewLinkRepository(db),
		applications: repository.NewApplicationRepository(db),
		employees:    repository.NewEmployeeRepository(db),
		stats:        repository.NewStatsRepository(db),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.generator == nil {
		s.generator = reference.NewDateSequenceGenerator(reference.DateSequenceConfig{Now: s.now})
	}
	return s
}

// txSequenceStore lets the generator read the max sequence on the create
// transaction, so the read and the insert commit together.
type txSequenceStore struct {
	ext  sqlx.ExtContext
	repo *repository.AmendmentRepository
}

func (s txSequenceStore) MaxSequence(ctx context.Context, prefix string) (int, error) {
	return s.repo.MaxSequenceTx(ctx, s.ext, prefix)
}

// storeErr translates driver-level failures into the service error taxonomy.
func storeErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, models.ErrConflict)
	}
	return fmt.Errorf("%s: %v: %w", op, err, models.ErrStore)
}

// Create validates the request, generates the next reference and writes the
// amendment plus its application rows in one transaction. Nothing is
// committed on any failure.
func (s *AmendmentService) Create(ctx context.Context, req *models.CreateAmendmentRequest) (*models.Amendment, error) {
	req.Defaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	a := &models.Amendment{
		Type:              req.Type,
		Description:       req.Description,
		Status:            req.Status,
		DevelopmentStatus: req.DevelopmentStatus,
		Priority:          req.Priority,
		Force:             req.Force,
		Application:       req.Application,
		Notes:             req.Notes,
		ReportedBy:        req.ReportedBy,
		AssignedTo:        req.AssignedTo,
		DateReported:      req.DateReported,
		DatabaseChanges:   req.DatabaseChanges,
		DBUpgradeChanges:  req.DBUpgradeChanges,
		ReleaseNotes:      req.ReleaseNotes,
		CreatedBy:         req.CreatedBy,
		CreatedOn:         now,
		ModifiedOn:        now,
	}
	if a.DateReported == nil {
		t := now
		a.DateReported = &t
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeErr("begin create", err)
	}
	defer tx.Rollback()

	ref, err := s.generator.Next(ctx, txSequenceStore{ext: tx, repo: s.amendments})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		return nil, storeErr("generate reference", err)
	}
	a.Reference = ref

	id, err := s.amendments.InsertTx(ctx, tx, a)
	if err != nil {
		return nil, storeErr("insert amendment", err)
	}
	a.ID = id

	apps := make([]models.ApplicationLink, 0, len(req.Applications))
	for _, in := range req.Applications {
		linkID, err := s.applications.InsertAmendmentLinkTx(ctx, tx, id, in)
		if err != nil {
			return nil, storeErr("insert application row", err)
		}
		apps = append(apps, models.ApplicationLink{
			ID:              linkID,
			AmendmentID:     id,
			ApplicationName: in.ApplicationName,
			Version:         in.Version,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("commit create", err)
	}

	a.ProgressEntries = []models.ProgressEntry{}
	a.Applications = apps
	a.Links = []models.AmendmentLink{}
	return a, nil
}

// Get returns an amendment with its progress entries, application rows and
// links loaded.
func (s *AmendmentService) Get(ctx context.Context, id int64) (*models.Amendment, error) {
	a, err := s.amendments.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get amendment", err)
	}
	return s.loadChildren(ctx, a)
}

// GetByReference returns an amendment by its exact reference string, with
// children loaded.
func (s *AmendmentService) GetByReference(ctx context.Context, ref string) (*models.Amendment, error) {
	a, err := s.amendments.GetByReference(ctx, ref)
	if err != nil {
		return nil, storeErr("get amendment by reference", err)
	}
	return s.loadChildren(ctx, a)
}

func (s *AmendmentService) loadChildren(ctx context.Context, a *models.Amendment) (*models.Amendment, error) {
	var err error
	if a.ProgressEntries, err = s.progress.ListByAmendment(ctx, a.ID); err != nil {
		return nil, storeErr("load progress entries", err)
	}
	if a.Applications, err = s.applications.ListByAmendment(ctx, a.ID); err != nil {
		return nil, storeErr("load application rows", err)
	}
	if a.Links, err = s.links.ListByAmendment(ctx, a.ID); err != nil {
		return nil, storeErr("load links", err)
	}
	return a, nil
}

// List returns one page of summaries plus the total match count for the
// filter.
func (s *AmendmentService) List(ctx context.Context, f *models.AmendmentFilter) ([]models.AmendmentSummary, int64, error) {
	f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, 0, err
	}

	items, total, err := s.amendments.List(ctx, f)
	if err != nil {
		return nil, 0, storeErr("list amendments", err)
	}
	return items, total, nil
}

// Update applies a partial update and returns the updated amendment with
// children. An update with no fields still stamps modified_on.
func (s *AmendmentService) Update(ctx context.Context, id int64, req *models.UpdateAmendmentRequest) (*models.Amendment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.amendments.Update(ctx, id, req, s.now()); err != nil {
		return nil, storeErr("update amendment", err)
	}
	return s.Get(ctx, id)
}

// UpdateQA applies a partial update of the QA sub-record. Setting
// qa_completed without a completion date stamps the clock; the assignee, if
// being set, must be a known employee.
func (s *AmendmentService) UpdateQA(ctx context.Context, id int64, req *models.UpdateQARequest) (*models.Amendment, error) {
	req.Normalize(s.now())

	if req.QAAssignedID != nil {
		known, err := s.employees.Exists(ctx, *req.QAAssignedID)
		if err != nil {
			return nil, storeErr("check qa assignee", err)
		}
		if !known {
			return nil, fmt.Errorf("unknown qa_assigned_id %d: %w", *req.QAAssignedID, models.ErrValidation)
		}
	}

	if err := s.amendments.UpdateQA(ctx, id, req, s.now()); err != nil {
		return nil, storeErr("update qa", err)
	}
	return s.Get(ctx, id)
}

// Delete removes an amendment. Progress entries, application rows and links
// in both directions cascade with it; other amendments are untouched.
func (s *AmendmentService) Delete(ctx context.Context, id int64) error {
	if err := s.amendments.Delete(ctx, id); err != nil {
		return storeErr("delete amendment", err)
	}
	return nil
}

// BulkUpdate applies one partial update to many amendments, reporting
// per-id failures without aborting the batch.
func (s *AmendmentService) BulkUpdate(ctx context.Context, req *models.BulkUpdateRequest) (*models.BulkUpdateResult, error) {
	if len(req.AmendmentIDs) == 0 {
		return nil, fmt.Errorf("amendment_ids is required: %w", models.ErrValidation)
	}
	if req.Updates.IsEmpty() {
		return nil, fmt.Errorf("updates carries no fields: %w", models.ErrValidation)
	}
	if err := req.Updates.Validate(); err != nil {
		return nil, err
	}

	result := &models.BulkUpdateResult{
		FailedIDs: []int64{},
		Errors:    map[int64]string{},
	}
	now := s.now()
	for _, id := range req.AmendmentIDs {
		if err := s.amendments.Update(ctx, id, &req.Updates, now); err != nil {
			result.FailedIDs = append(result.FailedIDs, id)
			if errors.Is(err, sql.ErrNoRows) {
				result.Errors[id] = "not found"
			} else {
				result.Errors[id] = err.Error()
			}
			continue
		}
		result.UpdatedCount++
	}
	return result, nil
}

// AddProgress appends a progress entry to an existing amendment. The start
// date defaults to the clock.
func (s *AmendmentService) AddProgress(ctx context.Context, amendmentID int64, req *models.CreateProgressRequest) (*models.ProgressEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireAmendment(ctx, amendmentID); err != nil {
		return nil, err
	}

	now := s.now()
	p := &models.ProgressEntry{
		AmendmentID: amendmentID,
		StartDate:   now,
		Description: req.Description,
		Notes:       req.Notes,
		CreatedBy:   req.CreatedBy,
		CreatedOn:   now,
		ModifiedOn:  now,
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
	}

	id, err := s.progress.Insert(ctx, p)
	if err != nil {
		return nil, storeErr("insert progress entry", err)
	}
	p.ID = id
	return p, nil
}

// ListProgress returns the progress entries for an existing amendment,
// newest first.
func (s *AmendmentService) ListProgress(ctx context.Context, amendmentID int64) ([]models.ProgressEntry, error) {
	if err := s.requireAmendment(ctx, amendmentID); err != nil {
		return nil, err
	}

	entries, err := s.progress.ListByAmendment(ctx, amendmentID)
	if err != nil {
		return nil, storeErr("list progress entries", err)
	}
	return entries, nil
}

// CreateLink links two existing amendments. Self-links are validation
// errors, an unknown endpoint is not found, and a duplicate directed pair is
// a conflict.
func (s *AmendmentService) CreateLink(ctx context.Context, amendmentID int64, req *models.CreateLinkRequest) (*models.AmendmentLink, error) {
	req.Defaults()
	if err := req.Validate(amendmentID); err != nil {
		return nil, err
	}
	if err := s.requireAmendment(ctx, amendmentID); err != nil {
		return nil, err
	}
	if err := s.requireAmendment(ctx, req.LinkedAmendmentID); err != nil {
		return nil, err
	}

	linked, err := s.links.Exists(ctx, amendmentID, req.LinkedAmendmentID)
	if err != nil {
		return nil, storeErr("check existing link", err)
	}
	if linked {
		return nil, fmt.Errorf("amendments %d and %d are already linked: %w",
			amendmentID, req.LinkedAmendmentID, models.ErrConflict)
	}

	l := &models.AmendmentLink{
		AmendmentID:       amendmentID,
		LinkedAmendmentID: req.LinkedAmendmentID,
		LinkType:          req.LinkType,
		CreatedBy:         req.CreatedBy,
		CreatedOn:         s.now(),
	}
	id, err := s.links.Insert(ctx, l)
	if err != nil {
		return nil, storeErr("insert link", err)
	}
	l.ID = id
	l.Direction = models.LinkDirectionOutgoing
	return l, nil
}

// ListLinks returns the links touching an existing amendment in either
// direction.
func (s *AmendmentService) ListLinks(ctx context.Context, amendmentID int64) ([]models.AmendmentLink, error) {
	if err := s.requireAmendment(ctx, amendmentID); err != nil {
		return nil, err
	}

	links, err := s.links.ListByAmendment(ctx, amendmentID)
	if err != nil {
		return nil, storeErr("list links", err)
	}
	return links, nil
}

// DeleteLink removes one direction of a link by the link's own id. The
// reverse direction, if present, is a separate row and stays.
func (s *AmendmentService) DeleteLink(ctx context.Context, linkID int64) error {
	if err := s.links.Delete(ctx, linkID); err != nil {
		return storeErr("delete link", err)
	}
	return nil
}

// NextReference previews the reference the next create would be assigned.
// Nothing is reserved; two previews can see the same value.
func (s *AmendmentService) NextReference(ctx context.Context) (string, error) {
	ref, err := s.generator.Peek(ctx, s.amendments)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return "", err
		}
		return "", storeErr("peek reference", err)
	}
	return ref, nil
}

// Stats computes the aggregate snapshot fresh from the store.
func (s *AmendmentService) Stats(ctx context.Context) (*models.AmendmentStats, error) {
	stats, err := s.stats.AmendmentStats(ctx)
	if err != nil {
		return nil, storeErr("compute stats", err)
	}
	return stats, nil
}

func (s *AmendmentService) requireAmendment(ctx context.Context, id int64) error {
	exists, err := s.amendments.Exists(ctx, id)
	if err != nil {
		return storeErr("check amendment", err)
	}
	if !exists {
		return fmt.Errorf("amendment %d: %w", id, models.ErrNotFound)
	}
	return nil
}
