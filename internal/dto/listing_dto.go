package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateListingRequest struct {
	Title       string   `json:"title" validate:"required,max=255"`
	Address     string   `json:"address" validate:"max=512"`
	Price       int64    `json:"price" validate:"gte=0"`
	Description string   `json:"description" validate:"richtext"`
	Features    []string `json:"features" validate:"max=50,dive,max=64"`
	Status      string   `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type CreateListingResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateListingRequest struct {
	Id          uuid.UUID `json:"-"`
	Title       string    `json:"title" validate:"required,max=255"`
	Address     string    `json:"address" validate:"max=512"`
	Price       int64     `json:"price" validate:"gte=0"`
	Description string    `json:"description" validate:"richtext"`
	Features    []string  `json:"features" validate:"max=50,dive,max=64"`
	Status      string    `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type UpdateListingResponse struct {
	Id uuid.UUID `json:"id"`
}

type ListListingRequest struct {
	Status string `query:"status" validate:"omitempty,oneof=draft published archived"`
	Page   int    `query:"page"`
	Size   int    `query:"size"`
}

type ShowListingResponse struct {
	Id          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Address     string     `json:"address"`
	Price       int64      `json:"price"`
	Description string     `json:"description"`
	Features    []string   `json:"features"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

type ListListingResponse struct {
	Items []*ShowListingResponse `json:"items"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Size  int                    `json:"size"`
}

// PublicListingResponse is what the public site gets: the description is
// already rendered to HTML.
type PublicListingResponse struct {
	Id              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Address         string    `json:"address"`
	Price           int64     `json:"price"`
	Features        []string  `json:"features"`
	DescriptionHTML string    `json:"description_html"`
}

// RenderListingDescriptionMessage is published after a description changes
// so the render cache can be warmed.
type RenderListingDescriptionMessage struct {
	ListingId uuid.UUID `json:"listing_id"`
	Version   int64     `json:"version"`
}
