package records

import "time"

// DistributionStatement is one line of a distributor royalty statement.
type DistributionStatement struct {
	Base

	MarketingOwner   string     `json:"marketing_owner,omitempty"`
	DistributionName string     `gorm:"index" json:"distribution_name,omitempty"`
	Label            string     `json:"label,omitempty"`
	TerritoryCode    string     `gorm:"index" json:"territory_code,omitempty"`
	TerritoryName    string     `json:"territory_name,omitempty"`
	ProductTitle     string     `gorm:"not null" json:"product_title"`
	TrackTitle       string     `json:"track_title,omitempty"`
	ISRC             string     `gorm:"column:isrc;index" json:"isrc,omitempty"`
	UPC              string     `gorm:"column:upc" json:"upc,omitempty"`
	CatalogNumber    string     `json:"catalog_number,omitempty"`
	RevenueType      string     `json:"revenue_type,omitempty"`
	Quantity         *int64     `json:"quantity,omitempty"`
	RoyaltyAmount    *float64   `gorm:"type:numeric(14,4)" json:"royalty_amount,omitempty"`
	LocalAmount      *float64   `gorm:"type:numeric(14,4)" json:"local_amount,omitempty"`
	Currency         string     `gorm:"type:varchar(8)" json:"currency,omitempty"`
	ExchangeRate     *float64   `gorm:"type:numeric(14,6)" json:"exchange_rate,omitempty"`
	PeriodStart      *time.Time `json:"period_start,omitempty"`
	PeriodEnd        *time.Time `json:"period_end,omitempty"`
	SaleDate         *time.Time `json:"sale_date,omitempty"`
}
