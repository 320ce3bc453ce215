package records

import (
	"time"

	"gorm.io/gorm"
)

type ReleaseType string

const (
	ReleaseSingle      ReleaseType = "single"
	ReleaseEP          ReleaseType = "ep"
	ReleaseAlbum       ReleaseType = "album"
	ReleaseUnspecified ReleaseType = "unspecified"
)

type ReleaseFocus string

const (
	FocusSoft        ReleaseFocus = "soft"
	FocusFocus       ReleaseFocus = "focus"
	FocusUnspecified ReleaseFocus = "unspecified"
)

// Release tracks one launch and its marketing checklist.
type Release struct {
	Base

	Date          *time.Time   `json:"date,omitempty"`
	ArtistDisplay string       `json:"artist_display,omitempty"`
	Title         string       `gorm:"not null" json:"title"`
	ReleaseType   ReleaseType  `gorm:"type:varchar(20);not null;default:'unspecified';index" json:"release_type"`
	Focus         ReleaseFocus `gorm:"type:varchar(20);not null;default:'unspecified'" json:"focus"`
	StreamingLink string       `json:"streaming_link,omitempty"`

	Assets         bool `gorm:"not null;default:false" json:"assets"`
	Canvas         bool `gorm:"not null;default:false" json:"canvas"`
	Cover          bool `gorm:"not null;default:false" json:"cover"`
	AudioWAV       bool `gorm:"column:audio_wav;not null;default:false" json:"audio_wav"`
	Video          bool `gorm:"not null;default:false" json:"video"`
	Banners        bool `gorm:"not null;default:false" json:"banners"`
	Pitch          bool `gorm:"not null;default:false" json:"pitch"`
	EPKUpdates     bool `gorm:"column:epk_updates;not null;default:false" json:"epk_updates"`
	WebsiteUpdates bool `gorm:"not null;default:false" json:"website_updates"`
	Biography      bool `gorm:"not null;default:false" json:"biography"`

	Artists []Artist `gorm:"many2many:release_artists;" json:"artists"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
