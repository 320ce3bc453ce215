package records

import (
	"time"

	"contracts-app/internal/tenancy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is embedded by every record table: a UUID key generated in Go,
// tenant ownership and timestamps.
type Base struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	tenancy.Ownership

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (b *Base) GetID() string { return b.ID }
