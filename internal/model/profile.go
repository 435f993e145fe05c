package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile — строка с документом профиля. Документ хранится целиком (схема inventory.Document).
type Profile struct {
	ID     string `gorm:"primaryKey"`
	UserID string `gorm:"not null;uniqueIndex:idx_profiles_user_name"`
	Name   string `gorm:"not null;uniqueIndex:idx_profiles_user_name"`

	Document datatypes.JSON `gorm:"not null"`
	Version  int64          `gorm:"not null;default:1"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate назначает UUID, если он не задан.
func (p *Profile) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
