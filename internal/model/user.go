package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User — учётная запись. ID служит идентичностью, по которой разделяются профили.
type User struct {
	ID       string `gorm:"primaryKey"`
	Login    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"` // bcrypt-хэш

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// BeforeCreate назначает UUID, если он не задан.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
