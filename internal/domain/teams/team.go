package teams

import (
	"time"

	"contracts-app/internal/domain/users"
)

type Team struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`
	URL  string `gorm:"column:url;not null;uniqueIndex" json:"url"`

	OwnerUserID uint       `gorm:"not null;index" json:"owner_user_id"`
	Owner       users.User `gorm:"foreignKey:OwnerUserID;constraint:OnDelete:CASCADE;" json:"-"`

	Members []Member `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE;" json:"members,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Member struct {
	ID     uint       `gorm:"primaryKey" json:"id"`
	TeamID uint       `gorm:"not null;uniqueIndex:idx_team_members_team_user" json:"team_id"`
	UserID uint       `gorm:"not null;uniqueIndex:idx_team_members_team_user;index" json:"user_id"`
	User   users.User `gorm:"constraint:OnDelete:CASCADE;" json:"user"`
	Role   Role       `gorm:"type:varchar(20);not null;default:'member'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
}

func (Member) TableName() string { return "team_members" }
