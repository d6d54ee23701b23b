package models

import "time"

// Employee is a QA assignee record. qa_assigned_id on an amendment points
// here; employees are otherwise managed outside this service (seeded).
type Employee struct {
	ID           int64     `json:"employee_id" db:"employee_id"`
	WindowsLogin string    `json:"windows_login" db:"windows_login"`
	FirstName    *string   `json:"first_name" db:"first_name"`
	LastName     *string   `json:"last_name" db:"last_name"`
	Email        *string   `json:"email" db:"email"`
	Role         *string   `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedOn    time.Time `json:"created_on" db:"created_on"`
}
