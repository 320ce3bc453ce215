package records

import "gorm.io/gorm"

type Artist struct {
	Base

	Name     string `gorm:"not null;index" json:"name"`
	RealName string `json:"real_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Country  string `json:"country,omitempty"`
	URL      string `gorm:"column:url" json:"url,omitempty"`
	Notes    string `json:"notes,omitempty"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
