package records

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	Base

	Name        string     `gorm:"not null" json:"name"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Venue       string     `json:"venue,omitempty"`
	City        string     `json:"city,omitempty"`
	Beginning   *time.Time `gorm:"index" json:"beginning,omitempty"`
	End         *time.Time `gorm:"column:ends_at" json:"end,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Published   bool       `gorm:"not null;default:false" json:"published"`

	Artists []Artist `gorm:"many2many:event_artists;" json:"artists"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
