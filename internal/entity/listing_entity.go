package entity

import (
	"time"

	"github.com/google/uuid"
)

type ListingStatus string

const (
	ListingStatusDraft     ListingStatus = "draft"
	ListingStatusPublished ListingStatus = "published"
	ListingStatusArchived  ListingStatus = "archived"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusDraft, ListingStatusPublished, ListingStatusArchived:
		return true
	}
	return false
}

type Listing struct {
	Id      uuid.UUID
	Title   string
	Address string
	Price   int64
	// Description is the serialized rich-text document, stored as is.
	Description string
	Features    []string
	Status      ListingStatus
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

// DescriptionVersion identifies one revision of the listing for render
// caching. Microseconds match the precision postgres keeps.
func (l *Listing) DescriptionVersion() int64 {
	if l.UpdatedAt != nil {
		return l.UpdatedAt.UnixMicro()
	}
	return l.CreatedAt.UnixMicro()
}
