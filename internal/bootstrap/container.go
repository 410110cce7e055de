package bootstrap

import (
	"context"
	"time"

	"estate-listing-be/internal/config"
	"estate-listing-be/internal/controller"
	"estate-listing-be/internal/pkg/logger"
	"estate-listing-be/internal/repository/contract"
	"estate-listing-be/internal/repository/memory"
	"estate-listing-be/internal/repository/redisstore"
	"estate-listing-be/internal/repository/unitofwork"
	"estate-listing-be/internal/service"
	pktNats "estate-listing-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const containerModule = "Container"

type Container struct {
	ListingController       controller.IListingController
	PublicListingController controller.IPublicListingController
	RichtextController      controller.IRichtextController

	// Background services, started by main.
	ConsumerService  service.IConsumerService
	CacheSyncService service.ICacheSyncService // nil without NATS

	Logger  logger.ILogger
	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	ctx := context.Background()
	c := &Container{}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c.Logger = sysLogger
	uowFactory := unitofwork.NewRepositoryFactory(db)

	// Render cache
	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	var renderCache contract.RenderCache
	if cfg.Cache.Driver == "redis" {
		rdb, err := redisstore.NewClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			sysLogger.Warn(containerModule, "redis unavailable, using memory render cache", map[string]interface{}{"error": err.Error()})
			renderCache = memory.NewRenderCache(ttl)
		} else {
			renderCache = redisstore.NewRenderCache(rdb)
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
	} else {
		renderCache = memory.NewRenderCache(ttl)
	}

	// In-process bus for render warm-up
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// Domain events
	var eventPublisher service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(ctx, cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn(containerModule, "NATS publisher unavailable, domain events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	descriptionService := service.NewDescriptionService(
		renderCache,
		cfg.Render.Locale,
		ttl,
		cfg.Render.EditorMaxHistory,
		sysLogger,
	)
	publisherService := service.NewPublisherService(cfg.Render.WarmupTopic, pubSub)
	listingService := service.NewListingService(
		uowFactory,
		descriptionService,
		publisherService,
		eventPublisher,
		sysLogger,
	)

	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Render.WarmupTopic,
		uowFactory,
		descriptionService,
		sysLogger,
	)
	if eventPublisher != nil {
		natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn(containerModule, "NATS subscriber unavailable", map[string]interface{}{"error": err.Error()})
		} else {
			c.CacheSyncService = service.NewCacheSyncService(natsSub, descriptionService, sysLogger)
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	c.ListingController = controller.NewListingController(listingService)
	c.PublicListingController = controller.NewPublicListingController(listingService)
	c.RichtextController = controller.NewRichtextController(descriptionService)
	return c
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
