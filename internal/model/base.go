package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel mirrors gorm.Model but with uint64 IDs so every identifier in
// the system shares one type.
type BaseModel struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
