package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Listing struct {
	Id          uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string                      `gorm:"type:varchar(255);not null"`
	Address     string                      `gorm:"type:varchar(512)"`
	Price       int64                       `gorm:"not null;default:0"`
	Description string                      `gorm:"type:text;not null;default:''"`
	Features    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Status      string                      `gorm:"type:varchar(16);not null;default:'draft';index"`
	CreatedBy   uuid.UUID                   `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt              `gorm:"index"`
}

func (Listing) TableName() string {
	return "listings"
}
