package database

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolConfig defines database connection pool limits.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig returns pool limits suitable for this service's small
// request volume. SQLite gets a single writer to avoid SQLITE_BUSY churn.
func DefaultPoolConfig() PoolConfig {
	if IsSQLite() {
		return PoolConfig{
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: 0,
			ConnMaxIdleTime: 0,
		}
	}
	return PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}
}

// ApplyPoolConfig applies pool limits to a connection.
func ApplyPoolConfig(conn *sqlx.DB, cfg PoolConfig) {
	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

// StatsCollector exposes sql.DBStats as Prometheus metrics. It reads the
// stats at scrape time, so no sampling goroutine is needed.
type StatsCollector struct {
	conn *sqlx.DB

	maxOpen           *prometheus.Desc
	open              *prometheus.Desc
	inUse             *prometheus.Desc
	idle              *prometheus.Desc
	waitCount         *prometheus.Desc
	waitDuration      *prometheus.Desc
	maxIdleClosed     *prometheus.Desc
	maxLifetimeClosed *prometheus.Desc
}

// NewStatsCollector builds a collector for the given connection. Register it
// once with the default registry.
func NewStatsCollector(conn *sqlx.DB) *StatsCollector {
	return &StatsCollector{
		conn: conn,
		maxOpen: prometheus.NewDesc("amendtrack_db_pool_max_open_connections",
			"Maximum number of open database connections", nil, nil),
		open: prometheus.NewDesc("amendtrack_db_pool_open_connections",
			"Number of established database connections", nil, nil),
		inUse: prometheus.NewDesc("amendtrack_db_pool_in_use_connections",
			"Number of database connections currently in use", nil, nil),
		idle: prometheus.NewDesc("amendtrack_db_pool_idle_connections",
			"Number of idle database connections", nil, nil),
		waitCount: prometheus.NewDesc("amendtrack_db_pool_wait_count_total",
			"Total number of waits for a connection", nil, nil),
		waitDuration: prometheus.NewDesc("amendtrack_db_pool_wait_duration_seconds_total",
			"Total time spent waiting for a connection", nil, nil),
		maxIdleClosed: prometheus.NewDesc("amendtrack_db_pool_max_idle_closed_total",
			"Total connections closed due to max idle", nil, nil),
		maxLifetimeClosed: prometheus.NewDesc("amendtrack_db_pool_max_lifetime_closed_total",
			"Total connections closed due to max lifetime", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.maxOpen
	ch <- c.open
	ch <- c.inUse
	ch <- c.idle
	ch <- c.waitCount
	ch <- c.waitDuration
	ch <- c.maxIdleClosed
	ch <- c.maxLifetimeClosed
}

// Collect implements prometheus.Collector.
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.conn.Stats()
	ch <- prometheus.MustNewConstMetric(c.maxOpen, prometheus.GaugeValue, float64(stats.MaxOpenConnections))
	ch <- prometheus.MustNewConstMetric(c.open, prometheus.GaugeValue, float64(stats.OpenConnections))
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(stats.InUse))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(stats.Idle))
	ch <- prometheus.MustNewConstMetric(c.waitCount, prometheus.CounterValue, float64(stats.WaitCount))
	ch <- prometheus.MustNewConstMetric(c.waitDuration, prometheus.CounterValue, stats.WaitDuration.Seconds())
	ch <- prometheus.MustNewConstMetric(c.maxIdleClosed, prometheus.CounterValue, float64(stats.MaxIdleClosed))
	ch <- prometheus.MustNewConstMetric(c.maxLifetimeClosed, prometheus.CounterValue, float64(stats.MaxLifetimeClosed))
}
