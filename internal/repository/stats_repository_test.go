package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsRepository_AmendmentStats(t *testing.T) {
	useDriver(t, "sqlite3")
	db, mock := newMockDB(t)
	repo := NewStatsRepository(db)

	countRow := func(n int) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"count"}).AddRow(n)
	}
	groupRows := func(pairs map[string]int) *sqlmock.Rows {
		rows := sqlmock.NewRows([]string{"grouping_key", "n"})
		for k, n := range pairs {
			rows.AddRow(k, n)
		}
		return rows
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM amendments")).
		WillReturnRows(countRow(10))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY amendment_status")).
		WillReturnRows(groupRows(map[string]int{"Open": 6, "In Progress": 3, "Completed": 1}))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY priority")).
		WillReturnRows(groupRows(map[string]int{"High": 4, "Medium": 6}))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY amendment_type")).
		WillReturnRows(groupRows(map[string]int{"Bug": 7, "Feature": 3}))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY development_status")).
		WillReturnRows(groupRows(map[string]int{"Not Started": 5, "In Development": 5}))
	mock.ExpectQuery(regexp.QuoteMeta("qa_completed = ? AND qa_assigned_id IS NOT NULL")).
		WithArgs(false).
		WillReturnRows(countRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("database_changes = ?")).
		WithArgs(true).
		WillReturnRows(countRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("db_upgrade_changes = ?")).
		WithArgs(true).
		WillReturnRows(countRow(1))

	stats, err := repo.AmendmentStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, stats.TotalAmendments)
	assert.Equal(t, 6, stats.ByStatus["Open"])
	assert.Equal(t, 3, stats.ByStatus["In Progress"])
	assert.Equal(t, 4, stats.ByPriority["High"])
	assert.Equal(t, 7, stats.ByType["Bug"])
	assert.Equal(t, 5, stats.ByDevelopmentStatus["In Development"])
	assert.Equal(t, 2, stats.QAPending)
	assert.Equal(t, 3, stats.DatabaseChangesCount)
	assert.Equal(t, 1, stats.DBUpgradeChangesCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepository_EmptyDatabase(t *testing.T) {
	useDriver(t, "sqlite3")
	db, mock := newMockDB(t)
	repo := NewStatsRepository(db)

	empty := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"grouping_key", "n"})
	}
	zero := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"count"}).AddRow(0)
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM amendments")).WillReturnRows(zero())
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY amendment_status")).WillReturnRows(empty())
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY priority")).WillReturnRows(empty())
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY amendment_type")).WillReturnRows(empty())
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY development_status")).WillReturnRows(empty())
	mock.ExpectQuery(regexp.QuoteMeta("qa_completed = ?")).WillReturnRows(zero())
	mock.ExpectQuery(regexp.QuoteMeta("database_changes = ?")).WillReturnRows(zero())
	mock.ExpectQuery(regexp.QuoteMeta("db_upgrade_changes = ?")).WillReturnRows(zero())

	stats, err := repo.AmendmentStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalAmendments)
	assert.NotNil(t, stats.ByStatus)
	assert.Empty(t, stats.ByStatus)
	assert.Equal(t, 0, stats.QAPending)
	require.NoError(t, mock.ExpectationsWereMet())
}
