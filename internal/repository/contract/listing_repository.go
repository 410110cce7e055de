package contract

import (
	"context"

	"estate-listing-be/internal/entity"
	"estate-listing-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Listing, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Listing, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
