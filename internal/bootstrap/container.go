package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"pii-anonymizer-be/internal/config"
	"pii-anonymizer-be/internal/controller"
	"pii-anonymizer-be/internal/pkg/logger"
	"pii-anonymizer-be/internal/pkg/sessionlock"
	"pii-anonymizer-be/internal/repository/contract"
	"pii-anonymizer-be/internal/repository/implementation"
	"pii-anonymizer-be/internal/repository/memory"
	"pii-anonymizer-be/internal/repository/redisstore"
	"pii-anonymizer-be/internal/repository/unitofwork"
	"pii-anonymizer-be/internal/service"
	"pii-anonymizer-be/pkg/anonymizer"
	"pii-anonymizer-be/pkg/chat"
	"pii-anonymizer-be/pkg/detector"
	pkgNats "pii-anonymizer-be/pkg/nats"
	"pii-anonymizer-be/pkg/revealgate"
	"pii-anonymizer-be/pkg/vault"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	SessionController controller.ISessionController
	RevealController  controller.IRevealController
	ExportController  controller.IExportController
	ChatController    controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	securityLog := logger.NewIsolatedLogger(cfg.App.SecurityLogFilePath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	securityEvents := service.NewSecurityEventService(pubSub, sysLogger)

	// NATS fan-out is opt-in; the durable audit trail never depends on it.
	var natsPub *pkgNats.Publisher
	if cfg.App.NatsEnabled {
		var err error
		natsPub, err = pkgNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	consumerService := service.NewConsumerService(
		pubSub,
		service.SecurityEventsTopic,
		securityLog,
		natsPub,
	)

	// 3. Crypto & Anonymization Core
	v, err := vault.New(cfg.Vault.Secret, cfg.Vault.Salt)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize vault: %v", err)
	}

	piiDetector := detector.NewRegexDetector()
	engine := anonymizer.NewEngine()
	retriever := chat.NewRetriever(cfg.Chat.ContextWindow, cfg.Chat.TopK)

	revealWindow := time.Duration(cfg.Reveal.WindowHours) * time.Hour
	attemptStore := implementation.NewAttemptStoreAdapter(implementation.NewDecryptAttemptRepository(db), revealWindow)
	gate := revealgate.New(attemptStore, cfg.Reveal.MaxAttempts, revealWindow)
	locks := sessionlock.NewKeyring()

	// 4. Transcript Storage (Redis when configured, in-process otherwise)
	transcriptTTL := time.Duration(cfg.Chat.TranscriptTTLMinutes) * time.Minute
	var transcripts contract.TranscriptStore
	if cfg.Chat.TranscriptBackend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory transcripts", err)
			transcripts = memory.NewTranscriptStore(transcriptTTL)
		} else {
			transcripts = redisstore.NewTranscriptStore(rdb, transcriptTTL)
		}
	} else {
		transcripts = memory.NewTranscriptStore(transcriptTTL)
	}

	// 5. Services
	authService := service.NewAuthService(uowFactory, securityEvents)
	sessionService := service.NewSessionService(
		uowFactory,
		piiDetector,
		engine,
		v,
		transcripts,
		locks,
		securityEvents,
		sysLogger,
	)
	revealService := service.NewRevealService(
		uowFactory,
		v,
		gate,
		locks,
		securityEvents,
		sysLogger,
	)
	exportService := service.NewExportService(uowFactory, securityEvents, sysLogger)
	chatService := service.NewChatService(
		uowFactory,
		retriever,
		transcripts,
		securityEvents,
		sysLogger,
	)

	// 6. Controllers
	return &Container{
		AuthController:    controller.NewAuthController(authService),
		SessionController: controller.NewSessionController(sessionService),
		RevealController:  controller.NewRevealController(revealService),
		ExportController:  controller.NewExportController(exportService),
		ChatController:    controller.NewChatController(chatService),

		ConsumerService: consumerService,
	}
}
