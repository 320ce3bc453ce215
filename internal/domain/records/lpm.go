package records

import "time"

// Lpm is a label product metadata row: one track of one product as
// delivered to the distributor.
type Lpm struct {
	Base

	ProductID           string     `gorm:"index" json:"product_id,omitempty"`
	ProductType         string     `json:"product_type,omitempty"`
	ProductTitle        string     `gorm:"not null" json:"product_title"`
	ProductVersion      string     `json:"product_version,omitempty"`
	DisplayArtist       string     `json:"display_artist,omitempty"`
	ParentLabel         string     `json:"parent_label,omitempty"`
	Label               string     `json:"label,omitempty"`
	OriginalReleaseDate *time.Time `json:"original_release_date,omitempty"`
	ReleaseDate         *time.Time `json:"release_date,omitempty"`
	UPC                 string     `gorm:"column:upc;index" json:"upc,omitempty"`
	CatalogNumber       string     `json:"catalog_number,omitempty"`
	PriceTier           string     `json:"price_tier,omitempty"`
	Genre               string     `json:"genre,omitempty"`
	SubmissionStatus    string     `json:"submission_status,omitempty"`
	CLine               string     `gorm:"column:c_line" json:"c_line,omitempty"`
	PLine               string     `gorm:"column:p_line" json:"p_line,omitempty"`
	TrackTitle          string     `json:"track_title,omitempty"`
	TrackVersion        string     `json:"track_version,omitempty"`
	ISRC                string     `gorm:"column:isrc;index" json:"isrc,omitempty"`
	TrackNumber         *int64     `json:"track_number,omitempty"`
	Volume              *int64     `json:"volume,omitempty"`
	Explicit            bool       `gorm:"not null;default:false" json:"explicit"`
	Language            string     `json:"language,omitempty"`
}

func (Lpm) TableName() string { return "lpm" }
