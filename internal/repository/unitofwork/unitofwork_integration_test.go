package unitofwork

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"estate-listing-be/internal/entity"
	"estate-listing-be/internal/model"
	"estate-listing-be/internal/repository/specification"
	"estate-listing-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingRepositoryAgainstPostgres(t *testing.T) {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, true)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Listing{}))

	ctx := context.Background()
	uow := NewRepositoryFactory(db).NewUnitOfWork(ctx)
	owner := uuid.New()

	listing := &entity.Listing{
		Id:          uuid.New(),
		Title:       "Integration Villa",
		Description: `[{"type":"paragraph","children":[{"text":"Sea view"}]}]`,
		Features:    []string{"pool", "garden"},
		Status:      entity.ListingStatusPublished,
		CreatedBy:   owner,
		CreatedAt:   time.Now().Truncate(time.Microsecond),
	}
	require.NoError(t, uow.ListingRepository().Create(ctx, listing))
	t.Cleanup(func() { _ = uow.ListingRepository().Delete(ctx, listing.Id) })

	t.Run("description version survives a round trip", func(t *testing.T) {
		found, err := uow.ListingRepository().FindOne(ctx, specification.ByID{ID: listing.Id})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, listing.Description, found.Description)
		assert.Equal(t, []string{"pool", "garden"}, found.Features)
		assert.Equal(t, listing.DescriptionVersion(), found.DescriptionVersion())
	})

	t.Run("specifications filter", func(t *testing.T) {
		count, err := uow.ListingRepository().Count(ctx,
			specification.CreatedBy{UserID: owner},
			specification.ByStatus{Status: entity.ListingStatusDraft},
		)
		require.NoError(t, err)
		assert.Zero(t, count)

		missing, err := uow.ListingRepository().FindOne(ctx, specification.ByID{ID: uuid.New()})
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("rolled back update is discarded", func(t *testing.T) {
		tx := NewRepositoryFactory(db).NewUnitOfWork(ctx)
		require.NoError(t, tx.Begin(ctx))
		changed := *listing
		changed.Title = "Renamed"
		require.NoError(t, tx.ListingRepository().Update(ctx, &changed))
		require.NoError(t, tx.Rollback())

		found, err := uow.ListingRepository().FindOne(ctx, specification.ByID{ID: listing.Id})
		require.NoError(t, err)
		assert.Equal(t, "Integration Villa", found.Title)
	})
}
