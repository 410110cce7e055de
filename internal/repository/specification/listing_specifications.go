package specification

import (
	"estate-listing-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByStatus struct {
	Status entity.ListingStatus
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

type CreatedBy struct {
	UserID uuid.UUID
}

func (s CreatedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_by = ?", s.UserID)
}
