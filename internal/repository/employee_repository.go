package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/fisworks/amendtrack/internal/database"
	"github.com/fisworks/amendtrack/internal/models"
)

// EmployeeRepository handles database operations for the employee records QA
// assignments point at.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository creates a new employee repository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Exists checks if an employee with the given id exists.
func (r *EmployeeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := database.ConvertPlaceholders(`
		SELECT EXISTS(SELECT 1 FROM employees WHERE employee_id = ? LIMIT 1)
	`)
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, query, id)
	return exists, err
}

// ExistsByLogin checks if an employee with the given windows login exists.
func (r *EmployeeRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	query := database.ConvertPlaceholders(`
		SELECT EXISTS(SELECT 1 FROM employees WHERE windows_login = ? LIMIT 1)
	`)
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists, query, login)
	return exists, err
}

// Insert adds an employee record and returns its generated id.
func (r *EmployeeRepository) Insert(ctx context.Context, e *models.Employee) (int64, error) {
	cols := []string{
		"windows_login", "first_name", "last_name", "email",
		"role", "is_active", "created_on",
	}
	query := database.ConvertPlaceholders(
		database.BuildInsertQuery("employees", cols, "employee_id"))

	return insertReturningID(ctx, r.db, query,
		e.WindowsLogin, e.FirstName, e.LastName, e.Email,
		e.Role, e.IsActive, e.CreatedOn,
	)
}
