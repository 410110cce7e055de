package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	ListingCreated = "LISTING_CREATED"
	ListingUpdated = "LISTING_UPDATED"
	ListingDeleted = "LISTING_DELETED"
)

// NewListingEvent builds a listing lifecycle event. version is the
// description version after the change, 0 for deletions.
func NewListingEvent(eventType string, listingId, actorId uuid.UUID, version int64) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"listing_id": listingId.String(),
			"actor_id":   actorId.String(),
			"version":    version,
		},
		OccurredAt: time.Now(),
	}
}

// ListingID extracts the listing id from a listing event payload.
func ListingID(e Event) (uuid.UUID, bool) {
	raw, ok := e.Payload()["listing_id"].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
