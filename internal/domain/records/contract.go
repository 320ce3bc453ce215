package records

import (
	"time"

	"gorm.io/gorm"
)

type ContractStatus string

const (
	ContractActive      ContractStatus = "active"
	ContractFinished    ContractStatus = "finished"
	ContractUnspecified ContractStatus = "unspecified"
)

type Expansion string

const (
	ExpansionYes         Expansion = "yes"
	ExpansionNo          Expansion = "no"
	ExpansionUnspecified Expansion = "unspecified"
)

type Contract struct {
	Base

	Title                 string         `gorm:"not null" json:"title"`
	FileName              string         `json:"file_name,omitempty"`
	ArtistsDisplay        string         `json:"artists_display,omitempty"`
	StartDate             *time.Time     `json:"start_date,omitempty"`
	EndDate               *time.Time     `json:"end_date,omitempty"`
	IsPossibleToExpand    Expansion      `gorm:"type:varchar(20);not null;default:'unspecified'" json:"is_possible_to_expand"`
	PossibleExtensionTime string         `json:"possible_extension_time,omitempty"`
	Status                ContractStatus `gorm:"type:varchar(20);not null;default:'unspecified';index" json:"status"`
	Summary               string         `gorm:"type:text" json:"summary,omitempty"`

	DocumentID *string   `gorm:"type:uuid;index" json:"document_id,omitempty"`
	Document   *Document `gorm:"constraint:OnDelete:SET NULL;" json:"-"`

	Artists []Artist `gorm:"many2many:contract_artists;" json:"artists"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
