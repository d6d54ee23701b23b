package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisworks/amendtrack/internal/models"
)

var testNow = time.Date(2024, 12, 19, 10, 30, 0, 0, time.UTC)

const validFixture = `
employees:
  - windows_login: jharper
    first_name: Jules
    last_name: Harper
    email: jules.harper@example.org
    role: QA Analyst

applications:
  - name: CaseTracker
    description: Case management front end
    versions:
      - version: "2.4.1"
        release_date: "2024-11-18"
        current: true

amendments:
  - key: photo-upload-crash
    amendment_type: Bug
    description: Photo upload crashes on large images
    amendment_status: In Progress
    priority: High
    force: West Midlands
    application: CaseTracker
    applications:
      - application_name: CaseTracker
        version: "2.4.1"
    progress:
      - description: Reproduced with a 22MB JPEG
  - key: duplicate-upload-report
    amendment_type: Bug
    description: Duplicate report of large uploads failing
    priority: High
    links:
      - to: photo-upload-crash
        link_type: Duplicate
`

func newTestSeeder(t *testing.T) (*Seeder, sqlmock.Sqlmock) {
	t.Helper()
	t.Setenv("TEST_DB_DRIVER", "sqlite3")
	t.Setenv("DB_DRIVER", "sqlite3")

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	s := New(db, WithNow(func() time.Time { return testNow }))
	return s, mock
}

func existsRow(exists bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(exists)
}

func TestParse_ValidFixture(t *testing.T) {
	f, err := Parse([]byte(validFixture))
	require.NoError(t, err)

	require.Len(t, f.Employees, 1)
	assert.Equal(t, "jharper", f.Employees[0].WindowsLogin)
	require.NotNil(t, f.Employees[0].Role)
	assert.Equal(t, "QA Analyst", *f.Employees[0].Role)

	require.Len(t, f.Applications, 1)
	assert.Equal(t, "CaseTracker", f.Applications[0].Name)
	require.Len(t, f.Applications[0].Versions, 1)
	assert.Equal(t, "2.4.1", f.Applications[0].Versions[0].Version)
	assert.Equal(t, "2024-11-18", f.Applications[0].Versions[0].ReleaseDate)
	assert.True(t, f.Applications[0].Versions[0].Current)

	require.Len(t, f.Amendments, 2)
	assert.Equal(t, "photo-upload-crash", f.Amendments[0].Key)
	assert.Equal(t, "Bug", f.Amendments[0].Type)
	require.Len(t, f.Amendments[0].Progress, 1)
	require.Len(t, f.Amendments[1].Links, 1)
	assert.Equal(t, "photo-upload-crash", f.Amendments[1].Links[0].To)
}

func TestParse_RejectsMissingDescription(t *testing.T) {
	_, err := Parse([]byte(`
amendments:
  - amendment_type: Bug
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte(`
amendments:
  - amendment_type: Bug
    description: Something broke
    severity: high
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "severity")
}

func TestParse_MalformedYAML(t *testing.T) {
	_, err := Parse([]byte("employees: [not: closed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse fixture")
}

func TestParse_RejectsDuplicateKeys(t *testing.T) {
	_, err := Parse([]byte(`
amendments:
  - key: same
    amendment_type: Bug
    description: First
  - key: same
    amendment_type: Bug
    description: Second
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "share key")
}

func TestParse_RejectsUnknownLinkTarget(t *testing.T) {
	_, err := Parse([]byte(`
amendments:
  - key: a
    amendment_type: Bug
    description: Something
    links:
      - to: nowhere
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestParse_RejectsSelfLink(t *testing.T) {
	_, err := Parse([]byte(`
amendments:
  - key: a
    amendment_type: Bug
    description: Something
    links:
      - to: a
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "links to itself")
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validFixture), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Amendments, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read fixture")
}

func TestSeeder_Apply_CreatesEverything(t *testing.T) {
	s, mock := newTestSeeder(t)

	f, err := Parse([]byte(validFixture))
	require.NoError(t, err)

	// Employee.
	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE windows_login = ?")).
		WithArgs("jharper").
		WillReturnRows(existsRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO employees (")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	// Application registry plus version.
	mock.ExpectQuery(regexp.QuoteMeta("FROM applications WHERE application_name = ?")).
		WithArgs("CaseTracker").
		WillReturnRows(existsRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications (")).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO application_versions (")).
		WithArgs(int64(3), "2.4.1", time.Date(2024, 11, 18, 0, 0, 0, 0, time.UTC), true).
		WillReturnResult(sqlmock.NewResult(1, 1))

	// Amendments table is empty, so the section applies.
	mock.ExpectQuery(regexp.QuoteMeta("FROM amendments LIMIT 1")).
		WillReturnRows(existsRow(false))

	// First amendment with its application row.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(amendment_reference)")).
		WithArgs("AMD-20241219-%").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO amendments (")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO amendment_applications (")).
		WithArgs(int64(1), "CaseTracker", "2.4.1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// Its progress entry.
	mock.ExpectQuery(regexp.QuoteMeta("FROM amendments WHERE amendment_id = ?")).
		WithArgs(int64(1)).
		WillReturnRows(existsRow(true))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO amendment_progress (")).
		WithArgs(int64(1), testNow, "Reproduced with a 22MB JPEG", nil, "seed", testNow, nil, testNow).
		WillReturnResult(sqlmock.NewResult(11, 1))

	// Second amendment.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(amendment_reference)")).
		WithArgs("AMD-20241219-%").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow("AMD-20241219-001"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO amendments (")).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	// Link pass: both endpoints checked, no duplicate, insert.
	mock.ExpectQuery(regexp.QuoteMeta("FROM amendments WHERE amendment_id = ?")).
		WithArgs(int64(2)).
		WillReturnRows(existsRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("FROM amendments WHERE amendment_id = ?")).
		WithArgs(int64(1)).
		WillReturnRows(existsRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("FROM amendment_links WHERE amendment_id = ? AND linked_amendment_id = ?")).
		WithArgs(int64(2), int64(1)).
		WillReturnRows(existsRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO amendment_links (")).
		WithArgs(int64(2), int64(1), "Duplicate", "seed", testNow).
		WillReturnResult(sqlmock.NewResult(9, 1))

	res, err := s.Apply(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, 1, res.EmployeesCreated)
	assert.Equal(t, 0, res.EmployeesSkipped)
	assert.Equal(t, 1, res.ApplicationsCreated)
	assert.Equal(t, 2, res.AmendmentsCreated)
	assert.Equal(t, 0, res.AmendmentsSkipped)
	assert.Equal(t, 1, res.ProgressCreated)
	assert.Equal(t, 1, res.LinksCreated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeeder_Apply_SecondRunSkips(t *testing.T) {
	s, mock := newTestSeeder(t)

	f, err := Parse([]byte(validFixture))
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE windows_login = ?")).
		WithArgs("jharper").
		WillReturnRows(existsRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("FROM applications WHERE application_name = ?")).
		WithArgs("CaseTracker").
		WillReturnRows(existsRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("FROM amendments LIMIT 1")).
		WillReturnRows(existsRow(true))

	res, err := s.Apply(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, 0, res.EmployeesCreated)
	assert.Equal(t, 1, res.EmployeesSkipped)
	assert.Equal(t, 0, res.ApplicationsCreated)
	assert.Equal(t, 1, res.ApplicationsSkipped)
	assert.Equal(t, 0, res.AmendmentsCreated)
	assert.Equal(t, 2, res.AmendmentsSkipped)
	assert.Equal(t, 0, res.ProgressCreated)
	assert.Equal(t, 0, res.LinksCreated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeeder_Apply_BadEnumFailsThroughServicePath(t *testing.T) {
	s, mock := newTestSeeder(t)

	f := &Fixture{
		Amendments: []AmendmentFixture{
			{Type: "Catastrophe", Description: "Not a real type"},
		},
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM amendments LIMIT 1")).
		WillReturnRows(existsRow(false))

	_, err := s.Apply(context.Background(), f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.Contains(t, err.Error(), "seed amendment")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeeder_Apply_InvalidReleaseDate(t *testing.T) {
	s, mock := newTestSeeder(t)

	f := &Fixture{
		Applications: []ApplicationFixture{
			{Name: "CaseTracker", Versions: []VersionFixture{
				{Version: "2.4.1", ReleaseDate: "18/11/2024"},
			}},
		},
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM applications WHERE application_name = ?")).
		WithArgs("CaseTracker").
		WillReturnRows(existsRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications (")).
		WillReturnResult(sqlmock.NewResult(3, 1))

	_, err := s.Apply(context.Background(), f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid release_date")
	require.NoError(t, mock.ExpectationsWereMet())
}
