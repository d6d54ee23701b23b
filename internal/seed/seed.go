// Package seed loads a YAML fixture of employees, registry applications and
// sample amendments into the database. The fixture is validated against a
// JSON schema before anything is written, and amendments are created through
// the normal service path so references and audit fields come out the same
// as they would over the API.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/fisworks/amendtrack/internal/models"
	"github.com/fisworks/amendtrack/internal/repository"
	"github.com/fisworks/amendtrack/internal/service"
)

// seedAuthor is stamped into created_by on everything the seeder writes.
const seedAuthor = "seed"

// Fixture is the parsed shape of a seed file.
type Fixture struct {
	Employees    []EmployeeFixture    `yaml:"employees"`
	Applications []ApplicationFixture `yaml:"applications"`
	Amendments   []AmendmentFixture   `yaml:"amendments"`
}

type EmployeeFixture struct {
	WindowsLogin string  `yaml:"windows_login"`
	FirstName    *string `yaml:"first_name"`
	LastName     *string `yaml:"last_name"`
	Email        *string `yaml:"email"`
	Role         *string `yaml:"role"`
}

type ApplicationFixture struct {
	Name        string           `yaml:"name"`
	Description *string          `yaml:"description"`
	Versions    []VersionFixture `yaml:"versions"`
}

type VersionFixture struct {
	Version     string `yaml:"version"`
	ReleaseDate string `yaml:"release_date"`
	Current     bool   `yaml:"current"`
}

// AmendmentFixture mirrors the create request. Key is fixture-local and only
// used so links can point at other amendments in the same file.
type AmendmentFixture struct {
	Key               string                   `yaml:"key"`
	Type              string                   `yaml:"amendment_type"`
	Description       string                   `yaml:"description"`
	Status            string                   `yaml:"amendment_status"`
	DevelopmentStatus string                   `yaml:"development_status"`
	Priority          string                   `yaml:"priority"`
	Force             *string                  `yaml:"force"`
	Application       *string                  `yaml:"application"`
	Notes             *string                  `yaml:"notes"`
	ReportedBy        *string                  `yaml:"reported_by"`
	AssignedTo        *string                  `yaml:"assigned_to"`
	DatabaseChanges   bool                     `yaml:"database_changes"`
	DBUpgradeChanges  bool                     `yaml:"db_upgrade_changes"`
	Applications      []ApplicationLinkFixture `yaml:"applications"`
	Progress          []ProgressFixture        `yaml:"progress"`
	Links             []LinkFixture            `yaml:"links"`
}

type ApplicationLinkFixture struct {
	ApplicationName string  `yaml:"application_name"`
	Version         *string `yaml:"version"`
}

type ProgressFixture struct {
	Description string  `yaml:"description"`
	Notes       *string `yaml:"notes"`
}

type LinkFixture struct {
	To       string `yaml:"to"`
	LinkType string `yaml:"link_type"`
}

// Result reports what Apply did, per section.
type Result struct {
	EmployeesCreated    int
	EmployeesSkipped    int
	ApplicationsCreated int
	ApplicationsSkipped int
	AmendmentsCreated   int
	AmendmentsSkipped   int
	ProgressCreated     int
	LinksCreated        int
}

// Load reads and parses the fixture at path.
func Load(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(raw)
}

// Parse validates raw YAML against the fixture schema and decodes it. The
// schema pass catches shape problems (wrong types, unknown keys, missing
// required fields) up front; referential checks between amendments happen in
// validateRefs.
func Parse(raw []byte) (*Fixture, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	if err := f.validateRefs(); err != nil {
		return nil, err
	}
	return &f, nil
}

func validateSchema(doc interface{}) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(fixtureSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate fixture: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("fixture schema: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// validateRefs checks everything the JSON schema cannot: key uniqueness and
// link targets resolving to keys in the same file. Catching these before any
// insert keeps a bad fixture from half-applying.
func (f *Fixture) validateRefs() error {
	keys := make(map[string]int, len(f.Amendments))
	for i, a := range f.Amendments {
		if a.Key == "" {
			continue
		}
		if prev, dup := keys[a.Key]; dup {
			return fmt.Errorf("fixture: amendments %d and %d share key %q", prev, i, a.Key)
		}
		keys[a.Key] = i
	}

	for i, a := range f.Amendments {
		for _, l := range a.Links {
			target, ok := keys[l.To]
			if !ok {
				return fmt.Errorf("fixture: amendment %d links to unknown key %q", i, l.To)
			}
			if target == i {
				return fmt.Errorf("fixture: amendment %d links to itself", i)
			}
		}
	}
	return nil
}

// Seeder applies fixtures. Employees and applications are skipped per row
// when they already exist; the amendments section is skipped entirely once
// the amendments table has any rows, since seeded amendments carry generated
// references and have no natural key to match on.
type Seeder struct {
	db           *sqlx.DB
	now          func() time.Time
	employees    *repository.EmployeeRepository
	applications *repository.ApplicationRepository
	amendments   *repository.AmendmentRepository
	svc          *service.AmendmentService
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithNow injects the clock used for created_on stamps and reference dates.
func WithNow(now func() time.Time) Option {
	return func(s *Seeder) {
		s.now = now
	}
}

// New creates a Seeder on the given database handle.
func New(db *sqlx.DB, opts ...Option) *Seeder {
	s := &Seeder{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.employees = repository.NewEmployeeRepository(db)
	s.applications = repository.NewApplicationRepository(db)
	s.amendments = repository.NewAmendmentRepository(db)
	s.svc = service.NewAmendmentService(db, service.WithNow(s.now))
	return s
}

// Apply writes the fixture to the database and reports what happened.
func (s *Seeder) Apply(ctx context.Context, f *Fixture) (*Result, error) {
	res := &Result{}

	if err := s.applyEmployees(ctx, f.Employees, res); err != nil {
		return nil, err
	}
	if err := s.applyApplications(ctx, f.Applications, res); err != nil {
		return nil, err
	}
	if err := s.applyAmendments(ctx, f.Amendments, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Seeder) applyEmployees(ctx context.Context, employees []EmployeeFixture, res *Result) error {
	for _, e := range employees {
		exists, err := s.employees.ExistsByLogin(ctx, e.WindowsLogin)
		if err != nil {
			return fmt.Errorf("check employee %q: %w", e.WindowsLogin, err)
		}
		if exists {
			res.EmployeesSkipped++
			continue
		}

		_, err = s.employees.Insert(ctx, &models.Employee{
			WindowsLogin: e.WindowsLogin,
			FirstName:    e.FirstName,
			LastName:     e.LastName,
			Email:        e.Email,
			Role:         e.Role,
			IsActive:     true,
			CreatedOn:    s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("insert employee %q: %w", e.WindowsLogin, err)
		}
		res.EmployeesCreated++
	}
	return nil
}

func (s *Seeder) applyApplications(ctx context.Context, apps []ApplicationFixture, res *Result) error {
	for _, a := range apps {
		exists, err := s.applications.RegistryExists(ctx, a.Name)
		if err != nil {
			return fmt.Errorf("check application %q: %w", a.Name, err)
		}
		if exists {
			res.ApplicationsSkipped++
			continue
		}

		appID, err := s.applications.InsertRegistry(ctx, &models.Application{
			Name:        a.Name,
			Description: a.Description,
			IsActive:    true,
			CreatedOn:   s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("insert application %q: %w", a.Name, err)
		}

		for _, v := range a.Versions {
			var release *time.Time
			if v.ReleaseDate != "" {
				parsed, err := time.Parse("2006-01-02", v.ReleaseDate)
				if err != nil {
					return fmt.Errorf("application %q version %q: invalid release_date %q", a.Name, v.Version, v.ReleaseDate)
				}
				release = &parsed
			}
			_, err := s.applications.InsertRegistryVersion(ctx, &models.ApplicationVersion{
				ApplicationID: appID,
				VersionNumber: v.Version,
				ReleaseDate:   release,
				IsCurrent:     v.Current,
			})
			if err != nil {
				return fmt.Errorf("insert version %q of %q: %w", v.Version, a.Name, err)
			}
		}
		res.ApplicationsCreated++
	}
	return nil
}

func (s *Seeder) applyAmendments(ctx context.Context, amendments []AmendmentFixture, res *Result) error {
	if len(amendments) == 0 {
		return nil
	}

	seeded, err := s.amendments.Any(ctx)
	if err != nil {
		return fmt.Errorf("check amendments: %w", err)
	}
	if seeded {
		res.AmendmentsSkipped = len(amendments)
		return nil
	}

	author := seedAuthor
	idsByKey := make(map[string]int64, len(amendments))
	createdIDs := make([]int64, len(amendments))

	for i, fx := range amendments {
		req := &models.CreateAmendmentRequest{
			Type:              models.AmendmentType(fx.Type),
			Description:       fx.Description,
			Status:            models.AmendmentStatus(fx.Status),
			DevelopmentStatus: models.DevelopmentStatus(fx.DevelopmentStatus),
			Priority:          models.Priority(fx.Priority),
			Force:             fx.Force,
			Application:       fx.Application,
			Notes:             fx.Notes,
			ReportedBy:        fx.ReportedBy,
			AssignedTo:        fx.AssignedTo,
			DatabaseChanges:   fx.DatabaseChanges,
			DBUpgradeChanges:  fx.DBUpgradeChanges,
			CreatedBy:         &author,
		}
		for _, al := range fx.Applications {
			req.Applications = append(req.Applications, models.ApplicationLinkInput{
				ApplicationName: al.ApplicationName,
				Version:         al.Version,
			})
		}

		a, err := s.svc.Create(ctx, req)
		if err != nil {
			return fmt.Errorf("seed amendment %d (%q): %w", i, fx.Description, err)
		}
		createdIDs[i] = a.ID
		if fx.Key != "" {
			idsByKey[fx.Key] = a.ID
		}
		res.AmendmentsCreated++

		for _, p := range fx.Progress {
			_, err := s.svc.AddProgress(ctx, a.ID, &models.CreateProgressRequest{
				Description: p.Description,
				Notes:       p.Notes,
				CreatedBy:   &author,
			})
			if err != nil {
				return fmt.Errorf("seed progress on %s: %w", a.Reference, err)
			}
			res.ProgressCreated++
		}
	}

	// Links go in a second pass so targets exist regardless of file order.
	for i, fx := range amendments {
		for _, l := range fx.Links {
			_, err := s.svc.CreateLink(ctx, createdIDs[i], &models.CreateLinkRequest{
				LinkedAmendmentID: idsByKey[l.To],
				LinkType:          models.LinkType(l.LinkType),
				CreatedBy:         &author,
			})
			if err != nil {
				return fmt.Errorf("seed link %q -> %q: %w", fx.Key, l.To, err)
			}
			res.LinksCreated++
		}
	}
	return nil
}
