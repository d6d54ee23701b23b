package models

// AmendmentStats is the aggregate snapshot computed fresh on each request.
// Grouped maps only contain values present in the data; by_status sums to
// the total.
type AmendmentStats struct {
	TotalAmendments       int            `json:"total_amendments"`
	ByStatus              map[string]int `json:"by_status"`
	ByPriority            map[string]int `json:"by_priority"`
	ByType                map[string]int `json:"by_type"`
	ByDevelopmentStatus   map[string]int `json:"by_development_status"`
	QAPending             int            `json:"qa_pending"`
	DatabaseChangesCount  int            `json:"database_changes_count"`
	DBUpgradeChangesCount int            `json:"db_upgrade_changes_count"`
}
