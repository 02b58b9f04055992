package bootstrap

import (
	"context"
	"log"

	"docchat-client/internal/config"
	"docchat-client/internal/controller"
	"docchat-client/internal/handler"
	"docchat-client/internal/pkg/logger"
	"docchat-client/internal/service"
	"docchat-client/internal/state"
	"docchat-client/internal/websocket"
	"docchat-client/pkg/backend"
	"docchat-client/pkg/events"
	pktNats "docchat-client/pkg/nats"
	"docchat-client/pkg/retry"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	StateController    controller.IStateController
	SessionController  controller.ISessionController
	MessageController  controller.IMessageController
	SourceController   controller.ISourceController
	FilterController   controller.IFilterController
	DocumentController controller.IDocumentController

	// Services (exposed for cmd/chat and startup)
	SessionService  service.ISessionService
	MessageService  service.IMessageService
	SourceService   service.ISourceService
	FilterService   service.IFilterService
	DocumentService service.IDocumentService
	StateService    service.IStateService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	StateStreamHandler *handler.StateStreamHandler
	WebSocketHub       *websocket.Hub

	Store  *state.Store
	Logger logger.ILogger

	closers []func()
}

func NewContainer(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger) *Container {
	// 1. Persistence
	repo, closeRepo, err := NewStateRepository(ctx, cfg.State, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize state repository: %v", err)
	}
	closers := []func(){closeRepo}
	log.Printf("[INFO] Using state repository: %s", cfg.State.Kind)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	closers = append(closers, func() { pubSub.Close() })
	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)

	// 3. State
	store := state.NewStore(repo, publisherService, sysLogger)
	if err := store.Load(ctx); err != nil {
		log.Printf("[WARN] Failed to restore state, starting empty: %v", err)
	}

	// 4. Backend
	api := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, retry.Config{
		MaxAttempts:    cfg.Backend.RetryAttempts,
		InitialDelay:   cfg.Backend.RetryDelay,
		MaxDelay:       5 * cfg.Backend.RetryDelay,
		Multiplier:     2,
		JitterFraction: 0.2,
	}, sysLogger)

	// 5. Services
	sessionService := service.NewSessionService(api, store, sysLogger)
	messageService := service.NewMessageService(api, store, sysLogger)
	sourceService := service.NewSourceService(api, store, sysLogger)
	filterService := service.NewFilterService(store)
	documentService := service.NewDocumentService(api, store, sysLogger)
	stateService := service.NewStateService(store)

	// 6. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()
	streamHandler := handler.NewStateStreamHandler(stateService, wsHub, wsLogger)

	handlers := []service.EventHandler{streamHandler.OnStateChanged}

	// NATS forwarding is optional
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL, sysLogger)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			closers = append(closers, natsPub.Close)
			handlers = append(handlers, func(ctx context.Context, e events.Event) error {
				return natsPub.Publish(ctx, e)
			})
		}
	}

	consumerService := service.NewConsumerService(pubSub, cfg.Events.Topic, sysLogger, handlers...)

	return &Container{
		StateController:    controller.NewStateController(stateService),
		SessionController:  controller.NewSessionController(sessionService),
		MessageController:  controller.NewMessageController(messageService),
		SourceController:   controller.NewSourceController(sourceService),
		FilterController:   controller.NewFilterController(filterService),
		DocumentController: controller.NewDocumentController(documentService),

		SessionService:  sessionService,
		MessageService:  messageService,
		SourceService:   sourceService,
		FilterService:   filterService,
		DocumentService: documentService,
		StateService:    stateService,

		ConsumerService: consumerService,

		StateStreamHandler: streamHandler,
		WebSocketHub:       wsHub,

		Store:  store,
		Logger: sysLogger,

		closers: closers,
	}
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
