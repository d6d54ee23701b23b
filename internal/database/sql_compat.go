package database

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// GetDBDriver returns the active database driver name.
func GetDBDriver() string {
	// In test mode, prefer TEST_ prefixed environment variables
	driver := os.Getenv("TEST_DB_DRIVER")
	if driver == "" {
		driver = os.Getenv("DB_DRIVER")
	}
	if driver == "" {
		driver = "sqlite3"
	}
	return strings.ToLower(driver)
}

// IsMySQL returns true if using MySQL/MariaDB.
func IsMySQL() bool {
	driver := GetDBDriver()
	return driver == "mysql" || driver == "mariadb"
}

// IsPostgreSQL returns true if using PostgreSQL.
func IsPostgreSQL() bool {
	return GetDBDriver() == "postgres"
}

// IsSQLite returns true if using SQLite.
func IsSQLite() bool {
	driver := GetDBDriver()
	return driver == "sqlite3" || driver == "sqlite"
}

var dollarPlaceholder = regexp.MustCompile(`\$\d+`)

// ConvertPlaceholders converts SQL placeholders to the format required by the
// current database. This is the ONLY function that should be used for
// placeholder conversion in the codebase.
//
// IMPORTANT: Only ? placeholders are allowed. Using $N placeholders will panic.
// - For PostgreSQL: ? becomes $1, $2, ...
// - For MySQL and SQLite: ? passed through as-is
//
// Example:
//
//	query := database.ConvertPlaceholders("SELECT * FROM amendments WHERE amendment_id = ?")
//	err := db.GetContext(ctx, &a, query, id)
func ConvertPlaceholders(query string) string {
	// Reject $N placeholders - all queries must use ? for portability
	if dollarPlaceholder.MatchString(query) {
		panic(fmt.Sprintf("ConvertPlaceholders: $N placeholders are not allowed. Use ? placeholders instead.\nQuery: %s", query))
	}

	if IsPostgreSQL() && strings.Contains(query, "?") {
		result := strings.Builder{}
		paramNum := 1
		for _, c := range query {
			if c == '?' {
				result.WriteString(fmt.Sprintf("$%d", paramNum))
				paramNum++
			} else {
				result.WriteRune(c)
			}
		}
		query = result.String()
	}

	// ILIKE only exists on PostgreSQL. MySQL collations and SQLite's LIKE are
	// already case-insensitive for the data this system stores.
	if !IsPostgreSQL() {
		query = strings.ReplaceAll(query, " ILIKE ", " LIKE ")
		query = strings.ReplaceAll(query, " ilike ", " LIKE ")
	}

	return query
}

// ConvertReturning adjusts a RETURNING query for the current database. The
// bool tells the caller whether an id has to be fetched separately
// (LastInsertId on MySQL and SQLite) instead of scanned from the query.
func ConvertReturning(query string) (string, bool) {
	hasReturning := strings.Contains(strings.ToUpper(query), "RETURNING")
	if IsPostgreSQL() {
		return query, false
	}
	if hasReturning {
		re := regexp.MustCompile(`(?i)\s+RETURNING\s+.*$`)
		return re.ReplaceAllString(query, ""), true
	}
	return query, true
}

// IsUniqueViolation reports whether err is a unique-constraint violation on
// any supported driver. Used to turn races the schema backstops (duplicate
// reference, duplicate link) into conflict responses instead of 500s.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite3
		strings.Contains(msg, "Duplicate entry") || // mysql
		strings.Contains(msg, "duplicate key value") // postgres
}

// QuoteIdentifier quotes table/column names based on database.
func QuoteIdentifier(name string) string {
	if IsMySQL() {
		return fmt.Sprintf("`%s`", name)
	}
	// PostgreSQL and SQLite accept our lowercase identifiers unquoted.
	return name
}

// BuildInsertQuery builds an INSERT query compatible with the current database.
// Returns a query with ? placeholders - caller must use ConvertPlaceholders()
// before executing.
func BuildInsertQuery(table string, columns []string, returningColumn string) string {
	quotedTable := QuoteIdentifier(table)
	quotedColumns := make([]string, len(columns))
	placeholders := make([]string, len(columns))

	for i, col := range columns {
		quotedColumns[i] = QuoteIdentifier(col)
		placeholders[i] = "?"
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quotedTable,
		strings.Join(quotedColumns, ", "),
		strings.Join(placeholders, ", "))

	if returningColumn != "" && IsPostgreSQL() {
		query += " RETURNING " + returningColumn
	}

	return query
}

// BuildUpdateQuery builds an UPDATE query compatible with the current database.
// Returns a query with ? placeholders - caller must use ConvertPlaceholders()
// before executing. The whereClause should also use ? placeholders.
func BuildUpdateQuery(table string, setColumns []string, whereClause string) string {
	quotedTable := QuoteIdentifier(table)
	setClauses := make([]string, len(setColumns))

	for i, col := range setColumns {
		setClauses[i] = fmt.Sprintf("%s = ?", QuoteIdentifier(col))
	}

	query := fmt.Sprintf("UPDATE %s SET %s", quotedTable, strings.Join(setClauses, ", "))
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	return query
}
