package records

import "gorm.io/gorm"

// All lists every record table for migrations.
func All() []any {
	return []any{
		&Artist{},
		&Writer{},
		&Document{},
		&Contract{},
		&Release{},
		&DistributionStatement{},
		&TuStreams{},
		&Event{},
		&Task{},
		&Lpm{},
		&IsrcSong{},
	}
}

// artistJoinTables are the many2many tables linking rows to artists.
var artistJoinTables = []string{
	"contract_artists", "release_artists", "tu_streams_artists", "event_artists", "isrc_song_artists",
}

// PurgeTeam hard deletes every record owned by a team. Artist links go
// first; contracts go before the documents they reference.
func PurgeTeam(tx *gorm.DB, teamID uint) error {
	for _, jt := range artistJoinTables {
		err := tx.Exec("DELETE FROM "+jt+" WHERE artist_id IN (SELECT id FROM artists WHERE team_id = ?)", teamID).Error
		if err != nil {
			return err
		}
	}
	models := []any{
		&Contract{}, &Release{}, &TuStreams{}, &Event{}, &IsrcSong{},
		&DistributionStatement{}, &Task{}, &Lpm{}, &Writer{}, &Document{}, &Artist{},
	}
	for _, m := range models {
		if err := tx.Unscoped().Where("team_id = ?", teamID).Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}
