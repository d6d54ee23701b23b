package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fisworks/amendtrack/internal/database"
	"github.com/fisworks/amendtrack/internal/models"
)

// StatsRepository computes aggregate counts over the amendments table. Every
// call reads live data; nothing is cached.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type groupCount struct {
	Key   string `db:"grouping_key"`
	Count int    `db:"n"`
}

// AmendmentStats returns the aggregate snapshot for the stats endpoint.
func (r *StatsRepository) AmendmentStats(ctx context.Context) (*models.AmendmentStats, error) {
	stats := &models.AmendmentStats{}

	total, err := r.countWhere(ctx, "")
	if err != nil {
		return nil, err
	}
	stats.TotalAmendments = total

	if stats.ByStatus, err = r.groupCounts(ctx, "amendment_status"); err != nil {
		return nil, err
	}
	if stats.ByPriority, err = r.groupCounts(ctx, "priority"); err != nil {
		return nil, err
	}
	if stats.ByType, err = r.groupCounts(ctx, "amendment_type"); err != nil {
		return nil, err
	}
	if stats.ByDevelopmentStatus, err = r.groupCounts(ctx, "development_status"); err != nil {
		return nil, err
	}

	if stats.QAPending, err = r.countWhere(ctx, "qa_completed = ? AND qa_assigned_id IS NOT NULL", false); err != nil {
		return nil, err
	}
	if stats.DatabaseChangesCount, err = r.countWhere(ctx, "database_changes = ?", true); err != nil {
		return nil, err
	}
	if stats.DBUpgradeChangesCount, err = r.countWhere(ctx, "db_upgrade_changes = ?", true); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *StatsRepository) groupCounts(ctx context.Context, column string) (map[string]int, error) {
	query := database.ConvertPlaceholders(fmt.Sprintf(
		"SELECT %s AS grouping_key, COUNT(*) AS n FROM amendments GROUP BY %s",
		column, column))

	var rows []groupCount
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

func (r *StatsRepository) countWhere(ctx context.Context, condition string, args ...interface{}) (int, error) {
	query := "SELECT COUNT(*) FROM amendments"
	if condition != "" {
		query += " WHERE " + condition
	}

	var n int
	err := sqlx.GetContext(ctx, r.db, &n, database.ConvertPlaceholders(query), args...)
	return n, err
}
