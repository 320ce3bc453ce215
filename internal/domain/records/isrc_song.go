package records

import "time"

type IsrcSong struct {
	Base

	Date          *time.Time `json:"date,omitempty"`
	ISRC          string     `gorm:"column:isrc;not null;index" json:"isrc"`
	ArtistDisplay string     `json:"artist_display,omitempty"`
	Duration      string     `json:"duration,omitempty"`
	TrackName     string     `json:"track_name,omitempty"`
	Title         string     `json:"title,omitempty"`
	License       string     `json:"license,omitempty"`

	Artists []Artist `gorm:"many2many:isrc_song_artists;" json:"artists"`
}
