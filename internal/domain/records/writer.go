package records

type Writer struct {
	Base

	Name         string   `gorm:"not null;index" json:"name"`
	IPI          string   `gorm:"column:ipi" json:"ipi,omitempty"`
	PRO          string   `gorm:"column:pro" json:"pro,omitempty"`
	Publisher    string   `json:"publisher,omitempty"`
	SharePercent *float64 `gorm:"type:numeric(6,2)" json:"share_percent,omitempty"`
	Email        string   `json:"email,omitempty"`
}
