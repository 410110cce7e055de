package mapper

import (
	"time"

	"estate-listing-be/internal/entity"
	"estate-listing-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ListingMapper struct{}

func NewListingMapper() *ListingMapper {
	return &ListingMapper{}
}

func (m *ListingMapper) ToEntity(l *model.Listing) *entity.Listing {
	if l == nil {
		return nil
	}
	var deletedAt *time.Time
	if l.DeletedAt.Valid {
		t := l.DeletedAt.Time
		deletedAt = &t
	}
	var updatedAt *time.Time
	if !l.UpdatedAt.IsZero() {
		t := l.UpdatedAt
		updatedAt = &t
	}
	features := make([]string, len(l.Features))
	copy(features, l.Features)

	return &entity.Listing{
		Id:          l.Id,
		Title:       l.Title,
		Address:     l.Address,
		Price:       l.Price,
		Description: l.Description,
		Features:    features,
		Status:      entity.ListingStatus(l.Status),
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   l.DeletedAt.Valid,
	}
}

func (m *ListingMapper) ToModel(l *entity.Listing) *model.Listing {
	if l == nil {
		return nil
	}
	var deletedAt gorm.DeletedAt
	if l.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *l.DeletedAt, Valid: true}
	} else if l.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	var updatedAt time.Time
	if l.UpdatedAt != nil {
		updatedAt = *l.UpdatedAt
	}

	return &model.Listing{
		Id:          l.Id,
		Title:       l.Title,
		Address:     l.Address,
		Price:       l.Price,
		Description: l.Description,
		Features:    datatypes.JSONSlice[string](l.Features),
		Status:      string(l.Status),
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *ListingMapper) ToEntities(listings []*model.Listing) []*entity.Listing {
	entities := make([]*entity.Listing, len(listings))
	for i, l := range listings {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
