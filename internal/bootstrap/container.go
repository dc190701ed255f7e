package bootstrap

import (
	"context"
	"log"
	"os"

	"site-content-be/internal/config"
	"site-content-be/internal/controller"
	"site-content-be/internal/pkg/logger"
	"site-content-be/internal/repository/cache"
	"site-content-be/internal/repository/memory"
	"site-content-be/internal/repository/unitofwork"
	"site-content-be/internal/service"
	"site-content-be/internal/websocket"
	"site-content-be/pkg/assets"
	"site-content-be/pkg/fonts"

	pktNats "site-content-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ContentController controller.IContentController
	FontController    controller.IFontController
	EditorController  controller.IEditorController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	FontSyncService service.IFontSyncService
	WebSocketHub    *websocket.Hub

	ContentService service.IContentService
	Logger         logger.ILogger

	closers []func()
}

// Close releases broker and cache connections.
func (c *Container) Close() {
	for _, fn := range c.closers {
		fn()
	}
	c.Logger.Sync()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	assetResolver := assets.NewBaseURLResolver(cfg.Content.AssetBaseURL)
	instanceID := newInstanceID()

	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { pubSub.Close() })

	// 3. Infrastructure
	// NATS. Interfaces stay nil when the broker is down so services skip it.
	var eventPublisher service.EventPublisher
	var eventSubscriber service.EventSubscriber
	if natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL); err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	if natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL); err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		eventSubscriber = natsSub
		c.closers = append(c.closers, natsSub.Close)
	}

	// Redis
	rdb := newRedisClient(cfg.App.RedisURL)
	redisUp := true
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		redisUp = false
	}
	c.closers = append(c.closers, func() { rdb.Close() })

	var renderCache service.RenderCache
	if redisUp {
		renderCache = cache.NewRenderCache(rdb, cfg.Content.RenderCacheTTL)
	}

	var registry fonts.Registry = fonts.NewMemoryRegistry()
	if cfg.Fonts.Registry == "redis" {
		if redisUp {
			registry = fonts.NewRedisRegistry(rdb)
		} else {
			log.Printf("[WARN] FONT_REGISTRY=redis but Redis is down, using in-memory registry")
		}
	}
	pipeline := fonts.NewPipeline(registry, assetResolver,
		fonts.WithMarker(cfg.Fonts.RuleMarker),
		fonts.WithFetchTimeout(cfg.Fonts.FetchTimeout),
	)

	// Editor sessions and their preview sockets
	previewLogger := logger.NewIsolatedLogger(cfg.App.PreviewLogFilePath)
	wsHub := websocket.NewHub(previewLogger)
	sessionRepo := memory.NewEditorSessionRepository(cfg.Editor.SessionTTL)
	sessionRepo.OnEvicted(wsHub.CloseSession)

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Content.DocumentEventsTopic, pubSub)

	contentService := service.NewContentService(
		uowFactory,
		renderCache,
		pipeline,
		assetResolver,
		publisherService,
		eventPublisher,
		cfg.Content,
		sysLogger,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Content.DocumentEventsTopic,
		contentService,
		sysLogger,
	)

	fontService := service.NewFontService(uowFactory, pipeline, assetResolver, eventPublisher, sysLogger)
	fontSyncService := service.NewFontSyncService(eventSubscriber, fontService, instanceID, sysLogger)

	editorService := service.NewEditorService(
		contentService,
		sessionRepo,
		wsHub,
		assetResolver,
		cfg.Content,
		cfg.Editor,
		sysLogger,
	)

	// 5. Controllers
	c.ContentController = controller.NewContentController(contentService, cfg.Auth.JwtSecret)
	c.FontController = controller.NewFontController(fontService, cfg.Auth.JwtSecret)
	c.EditorController = controller.NewEditorController(editorService, wsHub, cfg.Auth.JwtSecret, previewLogger)

	c.ConsumerService = consumerService
	c.FontSyncService = fontSyncService
	c.WebSocketHub = wsHub
	c.ContentService = contentService

	sysLogger.Info("Bootstrap", "Container ready", map[string]interface{}{
		"instance_id":   instanceID,
		"redis":         redisUp,
		"nats":          eventPublisher != nil,
		"font_registry": cfg.Fonts.Registry,
	})
	return c
}

func newRedisClient(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	return redis.NewClient(opt)
}

// newInstanceID names this process for durable NATS consumers, which must be
// unique per instance so every instance sees every event.
func newInstanceID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "instance"
	}
	return host + "-" + uuid.NewString()[:8]
}
