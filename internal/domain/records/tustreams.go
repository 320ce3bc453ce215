package records

import "time"

// TuStreams is a row of the TuStreams distributor earnings report.
type TuStreams struct {
	Base

	ArtistDisplay string      `json:"artist_display,omitempty"`
	Title         string      `gorm:"not null" json:"title"`
	UPC           string      `gorm:"column:upc;index" json:"upc,omitempty"`
	ReleaseType   ReleaseType `gorm:"type:varchar(20);not null;default:'unspecified'" json:"release_type"`
	Total         *float64    `gorm:"type:numeric(14,4)" json:"total,omitempty"`
	Date          *time.Time  `json:"date,omitempty"`

	Artists []Artist `gorm:"many2many:tu_streams_artists;" json:"artists"`
}

func (TuStreams) TableName() string { return "tu_streams" }
