package service

import (
	"context"
	"fmt"
	"time"

	"estate-listing-be/internal/dto"
	"estate-listing-be/internal/entity"
	"estate-listing-be/internal/pkg/logger"
	"estate-listing-be/internal/repository/specification"
	"estate-listing-be/internal/repository/unitofwork"
	"estate-listing-be/pkg/events"
	"estate-listing-be/pkg/richtext"

	"github.com/google/uuid"
)

const (
	listingModule   = "ListingService"
	defaultPageSize = 10
	maxPageSize     = 100
)

// EventPublisher is the domain event bus. The NATS publisher implements it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IListingService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateListingRequest) (*dto.CreateListingResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowListingResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateListingRequest) (*dto.UpdateListingResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	List(ctx context.Context, userId uuid.UUID, req *dto.ListListingRequest) (*dto.ListListingResponse, error)
	ShowPublic(ctx context.Context, id uuid.UUID, locale string) (*dto.PublicListingResponse, error)
}

type listingService struct {
	uowFactory       unitofwork.RepositoryFactory
	descriptions     IDescriptionService
	publisherService IPublisherService
	events           EventPublisher
	logger           logger.ILogger
}

// NewListingService wires the listing use cases. eventPublisher may be nil
// when no event bus is configured.
func NewListingService(
	uowFactory unitofwork.RepositoryFactory,
	descriptions IDescriptionService,
	publisherService IPublisherService,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IListingService {
	return &listingService{
		uowFactory:       uowFactory,
		descriptions:     descriptions,
		publisherService: publisherService,
		events:           eventPublisher,
		logger:           log,
	}
}

// canonicalDescription validates a submitted description and returns its
// normalized serialized form. A blank description becomes the canonical
// empty document.
func canonicalDescription(serialized string) (string, error) {
	doc, err := parseDescription(serialized)
	if err != nil {
		return "", err
	}
	return richtext.Serialize(richtext.Normalize(doc))
}

func statusOrDraft(s string) entity.ListingStatus {
	if s == "" {
		return entity.ListingStatusDraft
	}
	return entity.ListingStatus(s)
}

func (s *listingService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateListingRequest) (*dto.CreateListingResponse, error) {
	description, err := canonicalDescription(req.Description)
	if err != nil {
		return nil, err
	}
	status := statusOrDraft(req.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", req.Status)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	listing := entity.Listing{
		Id:          uuid.New(),
		Title:       req.Title,
		Address:     req.Address,
		Price:       req.Price,
		Description: description,
		Features:    req.Features,
		Status:      status,
		CreatedBy:   userId,
		CreatedAt:   time.Now().Truncate(time.Microsecond),
	}
	if err := uow.ListingRepository().Create(ctx, &listing); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, &listing, events.ListingCreated, userId)
	return &dto.CreateListingResponse{Id: listing.Id}, nil
}

func (s *listingService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Listing, error) {
	listing, err := uow.ListingRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.CreatedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

func (s *listingService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowListingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	listing, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	return toShowListingResponse(listing), nil
}

func (s *listingService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateListingRequest) (*dto.UpdateListingResponse, error) {
	description, err := canonicalDescription(req.Description)
	if err != nil {
		return nil, err
	}
	status := statusOrDraft(req.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", req.Status)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = uow.Rollback()
			panic(r)
		}
	}()

	listing, err := s.findOwned(ctx, uow, userId, req.Id)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	now := time.Now().Truncate(time.Microsecond)
	listing.Title = req.Title
	listing.Address = req.Address
	listing.Price = req.Price
	listing.Description = description
	listing.Features = req.Features
	listing.Status = status
	listing.UpdatedAt = &now

	if err := uow.ListingRepository().Update(ctx, listing); err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, listing, events.ListingUpdated, userId)
	return &dto.UpdateListingResponse{Id: listing.Id}, nil
}

func (s *listingService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	listing, err := s.findOwned(ctx, uow, userId, id)
	if err != nil {
		return err
	}
	if err := uow.ListingRepository().Delete(ctx, listing.Id); err != nil {
		return err
	}

	if err := s.descriptions.Invalidate(ctx, listing.Id); err != nil {
		s.logger.Warn(listingModule, "render cache invalidation failed", map[string]interface{}{
			"listing_id": listing.Id.String(),
			"error":      err.Error(),
		})
	}
	s.publishEvent(ctx, events.NewListingEvent(events.ListingDeleted, listing.Id, userId, 0))
	return nil
}

func (s *listingService) List(ctx context.Context, userId uuid.UUID, req *dto.ListListingRequest) (*dto.ListListingResponse, error) {
	page, size := req.Page, req.Size
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	filters := []specification.Specification{specification.CreatedBy{UserID: userId}}
	if req.Status != "" {
		filters = append(filters, specification.ByStatus{Status: entity.ListingStatus(req.Status)})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.ListingRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}
	listings, err := uow.ListingRepository().FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Page(page, size),
	)...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ShowListingResponse, 0, len(listings))
	for _, l := range listings {
		items = append(items, toShowListingResponse(l))
	}
	return &dto.ListListingResponse{Items: items, Total: total, Page: page, Size: size}, nil
}

func (s *listingService) ShowPublic(ctx context.Context, id uuid.UUID, locale string) (*dto.PublicListingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	listing, err := uow.ListingRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByStatus{Status: entity.ListingStatusPublished},
	)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	html := s.descriptions.Render(ctx, listing.Id, listing.DescriptionVersion(), listing.Description, locale)
	return &dto.PublicListingResponse{
		Id:              listing.Id,
		Title:           listing.Title,
		Address:         listing.Address,
		Price:           listing.Price,
		Features:        nonNil(listing.Features),
		DescriptionHTML: string(html),
	}, nil
}

// afterWrite runs the side effects of a saved listing. None of them can fail
// the request.
func (s *listingService) afterWrite(ctx context.Context, listing *entity.Listing, eventType string, actorId uuid.UUID) {
	version := listing.DescriptionVersion()
	if eventType == events.ListingUpdated {
		if err := s.descriptions.Invalidate(ctx, listing.Id); err != nil {
			s.logger.Warn(listingModule, "render cache invalidation failed", map[string]interface{}{
				"listing_id": listing.Id.String(),
				"error":      err.Error(),
			})
		}
	}
	if listing.Status == entity.ListingStatusPublished {
		err := s.publisherService.PublishRenderDescription(ctx, dto.RenderListingDescriptionMessage{
			ListingId: listing.Id,
			Version:   version,
		})
		if err != nil {
			s.logger.Warn(listingModule, "render warm-up not queued", map[string]interface{}{
				"listing_id": listing.Id.String(),
				"error":      err.Error(),
			})
		}
	}
	s.publishEvent(ctx, events.NewListingEvent(eventType, listing.Id, actorId, version))
}

func (s *listingService) publishEvent(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error(listingModule, "domain event not published", map[string]interface{}{
			"event": event.EventType(),
			"error": err,
		})
	}
}

func toShowListingResponse(l *entity.Listing) *dto.ShowListingResponse {
	return &dto.ShowListingResponse{
		Id:          l.Id,
		Title:       l.Title,
		Address:     l.Address,
		Price:       l.Price,
		Description: l.Description,
		Features:    nonNil(l.Features),
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
