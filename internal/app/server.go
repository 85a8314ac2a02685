package app

import (
	"context"
	"fmt"
	"log"

	"linecrm-service/internal/cache"
	"linecrm-service/internal/config"
	"linecrm-service/internal/db"
	deliveryDomain "linecrm-service/internal/domain/delivery"
	recordDomain "linecrm-service/internal/domain/record"
	deliveryHandler "linecrm-service/internal/handlers/delivery"
	messageHandler "linecrm-service/internal/handlers/message"
	recordHandler "linecrm-service/internal/handlers/record"
	templateHandler "linecrm-service/internal/handlers/template"
	uploadHandler "linecrm-service/internal/handlers/upload"
	wsHandler "linecrm-service/internal/handlers/wsocket"
	"linecrm-service/internal/middleware"
	"linecrm-service/internal/pkg/line"
	"linecrm-service/internal/repository/memory"
	"linecrm-service/internal/repository/postgres"
	deliverysvc "linecrm-service/internal/service/delivery"
	dispatchsvc "linecrm-service/internal/service/dispatch"
	recordsvc "linecrm-service/internal/service/record"
	templatesvc "linecrm-service/internal/service/template"
	uploadsvc "linecrm-service/internal/service/upload"
	"linecrm-service/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.Default()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- Storage -----
	var (
		recordRepo   recordDomain.Repository
		deliveryRepo deliveryDomain.Repository
	)
	switch s.cfg.StorageDriver {
	case "postgres":
		pool, err := postgres.Connect(ctx, s.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		recordRepo = postgres.NewRecordRepository(pool)
		deliveryRepo = postgres.NewDeliveryRepository(pool)
		logger.Info("using postgres storage")
	default:
		recordRepo = memory.NewRecordRepository()
		deliveryRepo = memory.NewDeliveryRepository()
		logger.Info("using in-memory storage")
	}
	// Templates and upload sessions always live in memory: the catalog
	// is seeded at startup and sessions are transient progress state.
	templateRepo := memory.NewTemplateRepository()
	uploadRepo := memory.NewUploadRepository()

	// ----- Redis (optional) -----
	var redisClient *redis.Client
	if s.cfg.RedisAddr != "" {
		client, err := db.NewRedisClient(db.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			DB:       0,
			PoolSize: 10,
		})
		if err != nil {
			logger.Warn("redis unavailable, running without cache", zap.Error(err))
		} else {
			redisClient = client
			logger.Info("redis connected", zap.String("addr", s.cfg.RedisAddr))
		}
	}
	appCache := cache.New(redisClient)

	// ----- LINE client -----
	var lineClient line.Client = line.Disabled{}
	if s.cfg.LINE.ChannelAccessToken != "" {
		client, err := line.NewSDKClient(s.cfg.LINE, s.cfg.DispatchSendTimeout)
		if err != nil {
			return fmt.Errorf("failed to build LINE client: %w", err)
		}
		lineClient = client
	} else {
		logger.Warn("LINE credentials not configured, message sends will fail")
	}

	// ----- WebSocket hub -----
	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	// ----- Services -----
	recordService := recordsvc.NewRecordService(recordRepo, appCache, logger)
	templateService := templatesvc.NewTemplateService(templateRepo, recordRepo, logger)
	dispatchService := dispatchsvc.NewDispatchService(
		lineClient,
		s.cfg.LINE,
		recordRepo,
		templateRepo,
		appCache,
		logger,
		s.cfg.DispatchBatchSize,
		s.cfg.DispatchBatchPause,
		s.cfg.DispatchSendTimeout,
	)
	deliveryService := deliverysvc.NewDeliveryService(deliveryRepo, logger)
	uploadService := uploadsvc.NewUploadService(uploadRepo, deliveryRepo, recordRepo, hub, logger)

	if err := templateService.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("failed to seed templates: %w", err)
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		RecordHandler:   recordHandler.NewRecordHandler(recordService),
		TemplateHandler: templateHandler.NewTemplateHandler(templateService),
		MessageHandler:  messageHandler.NewMessageHandler(dispatchService),
		DeliveryHandler: deliveryHandler.NewDeliveryHandler(deliveryService),
		UploadHandler:   uploadHandler.NewUploadHandler(uploadService, s.cfg.UploadMaxBytes),
		WSHandler:       wsHandler.NewWebSocketHandler(hub, logger),
	}
	SetupRouter(s.engine, handlers)

	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
