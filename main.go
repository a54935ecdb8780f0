// File: ragchat/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ragchat/config"
	"ragchat/cron"
	"ragchat/database"
	"ragchat/database/repository/bookingRepo"
	"ragchat/database/repository/chatRepo"
	"ragchat/database/repository/documentRepo"
	"ragchat/database/repository/vectorRepo"
	"ragchat/handlers"
	"ragchat/middleware"
	"ragchat/routes"
	"ragchat/services/booking"
	"ragchat/services/conversation"
	"ragchat/services/ingestion"
	ai "ragchat/services/intelligence"
	"ragchat/services/memory"
	"ragchat/services/retrieval"
	"ragchat/services/tasks"
	"ragchat/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func gatewayConfig(cfg config.Config) ai.GatewayConfig {
	gc := ai.GatewayConfig{
		Provider:    cfg.LLMProvider,
		Model:       cfg.LLMModel,
		Timeout:     cfg.LLMTimeout,
		Temperature: cfg.LLMTemperature,
		APIKey:      cfg.GeminiAPIKey,
	}
	if cfg.LLMProvider == "groq" {
		gc.APIKey = cfg.GroqAPIKey
		gc.BaseURL = cfg.GroqBaseURL
	}
	return gc
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	database.InitDB()
	utils.InitRedis()
	db := database.Database()

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo(db)
	documents := documentRepo.NewMongoDocumentRepo(db)
	chats := chatRepo.NewMongoChatRepo(db)
	vectors := vectorRepo.NewAtlasVectorRepo(db, cfg.VectorIndex, cfg.VectorNumCandidates)

	indexCtx, cancelIndex := context.WithTimeout(rootCtx, 30*time.Second)
	for name, ensure := range map[string]func(context.Context) error{
		"interview_bookings": bookings.EnsureIndexes,
		"documents":          documents.EnsureIndexes,
		"chat":               chats.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			logger.Fatal("main: failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}
	cancelIndex()

	// language model and embeddings.
	gateway, err := ai.NewGateway(rootCtx, gatewayConfig(cfg))
	if err != nil {
		logger.Fatal("main: failed to initialize language model gateway", zap.Error(err))
	}
	embedder, err := ai.NewGeminiEmbedder(rootCtx, cfg.GeminiAPIKey, cfg.EmbeddingModel)
	if err != nil {
		logger.Fatal("main: failed to initialize embedder", zap.Error(err))
	}
	defer embedder.Close()

	// services.
	history := memory.NewRedisHistoryStore(utils.GetHistoryClient(), cfg.HistoryWindow)
	committer := booking.NewCommitter(bookings, logger)
	orchestrator := conversation.NewOrchestrator(conversation.Deps{
		Classifier:    booking.NewClassifier(gateway, logger),
		Committer:     committer,
		Retriever:     retrieval.NewRetriever(embedder, vectors),
		Answerer:      gateway,
		History:       history,
		Transcript:    chats,
		HistoryWindow: cfg.HistoryWindow,
		Logger:        logger,
	})

	var (
		enqueuer    ingestion.IndexEnqueuer
		queueClient *asynq.Client
		worker      *asynq.Server
	)
	if cfg.IngestAsync {
		queueClient = asynq.NewClient(cron.QueueRedisOpt(cfg))
		enqueuer = tasks.NewQueueEnqueuer(queueClient)
	}
	ingester := ingestion.NewService(documents, vectors, embedder, enqueuer, logger)
	if cfg.IngestAsync {
		worker = cron.InitIndexWorker(cfg, ingester, logger)
	}

	monitor := utils.NewHealthMonitor(
		utils.PingerFunc(func(ctx context.Context) error { return database.MongoClient.Ping(ctx, nil) }),
		utils.PingerFunc(func(ctx context.Context) error { return utils.GetHistoryClient().Ping(ctx).Err() }),
		30*time.Second,
	)
	monitor.Start(rootCtx)

	chatHandler := handlers.NewChatHandler(orchestrator, history, chats, cfg.HistoryWindow)
	bookingHandler := handlers.NewBookingHandler(committer, bookings)
	ingestionHandler := handlers.NewIngestionHandler(ingester)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		JWTSecret: cfg.JWTSecret,

		// Chat endpoints.
		ChatQueryHandler:      chatHandler.QueryHandler,
		GetHistoryHandler:     chatHandler.GetHistoryHandler,
		ClearHistoryHandler:   chatHandler.ClearHistoryHandler,
		GetLastBookingHandler: chatHandler.GetLastBookingHandler,
		GetTranscriptHandler:  chatHandler.GetTranscriptHandler,

		// Booking endpoints.
		CreateBookingHandler: bookingHandler.CreateBookingHandler,
		GetBookingHandler:    bookingHandler.GetBookingHandler,
		ListBookingsHandler:  bookingHandler.ListBookingsHandler,

		// Ingestion endpoints.
		UploadDocumentHandler: ingestionHandler.UploadHandler,

		HealthHandler: handlers.HealthHandler(monitor),
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queueClient != nil {
		_ = queueClient.Close()
	}
	if closer, ok := gateway.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if err := database.MongoClient.Disconnect(ctx); err != nil {
		logger.Sugar().Errorf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
