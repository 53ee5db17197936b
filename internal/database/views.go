package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Aggregate views backing the deletion guard. They count only live rows:
// soft-deleted teams no longer block their community.
var views = []struct {
	name string
	sql  string
}{
	{
		name: "community_dependent_counts",
		sql: `CREATE VIEW community_dependent_counts AS
			SELECT c.id AS community_id,
				(SELECT COUNT(*) FROM teams t
					WHERE t.community_id = c.id AND t.deleted_at IS NULL) AS teams_count,
				(SELECT COUNT(*) FROM community_members m
					WHERE m.community_id = c.id) AS members_count
			FROM communities c`,
	},
	{
		name: "team_dependent_counts",
		sql: `CREATE VIEW team_dependent_counts AS
			SELECT t.id AS team_id,
				(SELECT COUNT(*) FROM team_members m
					WHERE m.team_id = t.id) AS members_count
			FROM teams t`,
	},
}

// CreateAggregateViews drops and recreates the dependent-count views.
// DROP + CREATE rather than CREATE OR REPLACE keeps MySQL and SQLite happy
// with the same statements.
func CreateAggregateViews(db *gorm.DB) error {
	for _, v := range views {
		if err := db.Exec(fmt.Sprintf("DROP VIEW IF EXISTS %s", v.name)).Error; err != nil {
			return fmt.Errorf("failed to drop view %s: %w", v.name, err)
		}
		if err := db.Exec(v.sql).Error; err != nil {
			return fmt.Errorf("failed to create view %s: %w", v.name, err)
		}
	}
	return nil
}
