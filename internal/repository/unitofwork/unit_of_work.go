package unitofwork

import (
	"context"

	"estate-listing-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ListingRepository() contract.ListingRepository
}
