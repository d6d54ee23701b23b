package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// autoPK returns the auto-incrementing primary key column clause for the
// active driver.
func autoPK() string {
	switch {
	case IsPostgreSQL():
		return "BIGSERIAL PRIMARY KEY"
	case IsMySQL():
		return "BIGINT AUTO_INCREMENT PRIMARY KEY"
	default:
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}

// timestampType returns the timestamp column type for the active driver.
// MySQL's TIMESTAMP range and zero-value rules make DATETIME the safe choice
// there.
func timestampType() string {
	if IsMySQL() {
		return "DATETIME"
	}
	return "TIMESTAMP"
}

// schemaStatements returns the DDL for the active driver, in dependency
// order. All statements are idempotent. Audit timestamps are written by the
// application (the clock is injected), so no column defaults are declared
// for them.
func schemaStatements() []string {
	pk := autoPK()
	ts := timestampType()
	// force is a reserved word on MySQL.
	forceCol := QuoteIdentifier("force")

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS employees (
			employee_id %s,
			windows_login VARCHAR(50) NOT NULL UNIQUE,
			first_name VARCHAR(50),
			last_name VARCHAR(50),
			email VARCHAR(100),
			role VARCHAR(50),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_on %s NOT NULL
		)`, pk, ts),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS applications (
			application_id %s,
			application_name VARCHAR(100) NOT NULL UNIQUE,
			description TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_on %s NOT NULL
		)`, pk, ts),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS application_versions (
			version_id %s,
			application_id BIGINT NOT NULL,
			version_number VARCHAR(50) NOT NULL,
			release_date %s,
			is_current BOOLEAN NOT NULL DEFAULT FALSE,
			FOREIGN KEY (application_id) REFERENCES applications(application_id) ON DELETE CASCADE
		)`, pk, ts),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS amendments (
			amendment_id %s,
			amendment_reference VARCHAR(20) NOT NULL UNIQUE,
			amendment_type VARCHAR(20) NOT NULL,
			description TEXT NOT NULL,
			amendment_status VARCHAR(20) NOT NULL DEFAULT 'Open',
			development_status VARCHAR(20) NOT NULL DEFAULT 'Not Started',
			priority VARCHAR(10) NOT NULL DEFAULT 'Medium',
			%s VARCHAR(50),
			application VARCHAR(100),
			notes TEXT,
			reported_by VARCHAR(100),
			assigned_to VARCHAR(100),
			date_reported %s,
			database_changes BOOLEAN NOT NULL DEFAULT FALSE,
			db_upgrade_changes BOOLEAN NOT NULL DEFAULT FALSE,
			release_notes TEXT,
			qa_assigned_id BIGINT,
			qa_assigned_date %s,
			qa_test_plan_check BOOLEAN NOT NULL DEFAULT FALSE,
			qa_test_release_notes_check BOOLEAN NOT NULL DEFAULT FALSE,
			qa_completed BOOLEAN NOT NULL DEFAULT FALSE,
			qa_signature VARCHAR(100),
			qa_completed_date %s,
			qa_notes TEXT,
			qa_test_plan_link VARCHAR(500),
			created_by VARCHAR(100),
			created_on %s NOT NULL,
			modified_by VARCHAR(100),
			modified_on %s NOT NULL,
			FOREIGN KEY (qa_assigned_id) REFERENCES employees(employee_id) ON DELETE SET NULL
		)`, pk, forceCol, ts, ts, ts, ts, ts),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS amendment_progress (
			amendment_progress_id %s,
			amendment_id BIGINT NOT NULL,
			start_date %s NOT NULL,
			description TEXT NOT NULL,
			notes TEXT,
			created_by VARCHAR(100),
			created_on %s NOT NULL,
			modified_by VARCHAR(100),
			modified_on %s NOT NULL,
			FOREIGN KEY (amendment_id) REFERENCES amendments(amendment_id) ON DELETE CASCADE
		)`, pk, ts, ts, ts),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS amendment_applications (
			id %s,
			amendment_id BIGINT NOT NULL,
			application_name VARCHAR(100) NOT NULL,
			version VARCHAR(50),
			FOREIGN KEY (amendment_id) REFERENCES amendments(amendment_id) ON DELETE CASCADE
		)`, pk),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS amendment_links (
			amendment_link_id %s,
			amendment_id BIGINT NOT NULL,
			linked_amendment_id BIGINT NOT NULL,
			link_type VARCHAR(20) NOT NULL DEFAULT 'Related',
			created_by VARCHAR(100),
			created_on %s NOT NULL,
			UNIQUE (amendment_id, linked_amendment_id),
			FOREIGN KEY (amendment_id) REFERENCES amendments(amendment_id) ON DELETE CASCADE,
			FOREIGN KEY (linked_amendment_id) REFERENCES amendments(amendment_id) ON DELETE CASCADE
		)`, pk, ts),
	}
}

// indexStatements returns the secondary indexes. MySQL has no
// CREATE INDEX IF NOT EXISTS, so these are emitted bare and Migrate tolerates
// the duplicate-name error on re-runs.
func indexStatements() []string {
	ifNotExists := "IF NOT EXISTS "
	if IsMySQL() {
		ifNotExists = ""
	}
	stmts := []string{
		"idx_amendments_status ON amendments(amendment_status)",
		"idx_amendments_type ON amendments(amendment_type)",
		"idx_amendments_priority ON amendments(priority)",
		"idx_amendments_date_reported ON amendments(date_reported)",
		"idx_progress_amendment ON amendment_progress(amendment_id)",
		"idx_links_amendment ON amendment_links(amendment_id)",
		"idx_links_linked ON amendment_links(linked_amendment_id)",
	}
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = "CREATE INDEX " + ifNotExists + s
	}
	return out
}

// Migrate applies the schema to the connection. Statements are idempotent so
// running it repeatedly is safe.
func Migrate(conn *sqlx.DB) error {
	for _, stmt := range schemaStatements() {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	for _, stmt := range indexStatements() {
		if _, err := conn.Exec(stmt); err != nil {
			if IsMySQL() && strings.Contains(err.Error(), "Duplicate key name") {
				continue
			}
			return fmt.Errorf("apply index statement: %w", err)
		}
	}
	return nil
}
