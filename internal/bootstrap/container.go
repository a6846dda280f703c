package bootstrap

import (
	"log"
	"time"

	"cancellation-flow-be/internal/config"
	"cancellation-flow-be/internal/controller"
	"cancellation-flow-be/internal/pkg/audit"
	"cancellation-flow-be/internal/pkg/logger"
	"cancellation-flow-be/internal/pkg/ratelimit"
	"cancellation-flow-be/internal/repository/memory"
	"cancellation-flow-be/internal/repository/unitofwork"
	"cancellation-flow-be/internal/service"
	"cancellation-flow-be/pkg/experiment"

	pktNats "cancellation-flow-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// persistTopicName is the in-process queue carrying fire-and-forget step
// writes from the flow service to the persistence worker.
const persistTopicName = "PERSIST_CANCELLATION_STEP"

type Container struct {
	// Controllers
	CancellationController controller.ICancellationController

	// Background Services (Exposed for main.go to run)
	PersistenceService service.IPersistenceService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	recorder := audit.NewRecorder(sysLogger)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// NATS (best effort; the flow works without it)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 3. Services
	assigner := experiment.NewAssigner(
		service.NewVariantStore(uowFactory),
		cfg.Experiment.Salt,
		sysLogger,
	)
	limiter := ratelimit.NewLimiter(
		cfg.Flow.RateLimitAttempts,
		time.Duration(cfg.Flow.RateLimitWindowS)*time.Second,
	)

	publisherService := service.NewPublisherService(persistTopicName, pubSub)
	persistenceService := service.NewPersistenceService(
		pubSub,
		persistTopicName,
		uowFactory,
		cfg.Flow.PersistRetries,
		sysLogger,
		recorder,
	)

	onComplete := func(userID uuid.UUID, subscriptionRemainsActive bool) {
		sysLogger.Info("CANCELLATION", "flow completed", map[string]interface{}{
			"user_id":                     userID.String(),
			"subscription_remains_active": subscriptionRemainsActive,
		})
	}

	cancellationService := service.NewCancellationService(
		uowFactory,
		sessionRepo,
		assigner,
		publisherService,
		natsPub,
		limiter,
		cfg.Flow,
		onComplete,
		sysLogger,
		recorder,
	)

	// 4. Controllers
	cancellationController := controller.NewCancellationController(cancellationService)

	return &Container{
		CancellationController: cancellationController,
		PersistenceService:     persistenceService,
		Logger:                 sysLogger,
	}
}
