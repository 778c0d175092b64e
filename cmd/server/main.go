package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"interviewai/interview/internal/access"
	"interviewai/interview/internal/assessment"
	"interviewai/interview/internal/config"
	"interviewai/interview/internal/events"
	"interviewai/interview/internal/handlers"
	"interviewai/interview/internal/invite"
	"interviewai/interview/internal/metrics"
	"interviewai/interview/internal/questiongen"
	"interviewai/interview/internal/repositories/mongo"
	"interviewai/interview/internal/routers"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := mongo.NewClient(ctx, cfg.MongoURI)
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to mongodb", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(shutdownCtx); err != nil {
			logger.Warn("failed to disconnect mongodb", zap.Error(err))
		}
	}()

	db, err := client.DB(cfg.DBName)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	interviewRepo := mongo.NewInterviewRepo(db)
	userRepo := mongo.NewUserRepo(db)
	feedbackRepo := mongo.NewFeedbackRepo(db)

	mailer, err := invite.NewMailer(cfg.SMTP)
	if err != nil {
		logger.Fatal("invalid smtp configuration", zap.Error(err))
	}
	dispatcher := invite.NewDispatcher(mailer, logger)

	generator, err := questiongen.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Fatal("failed to initialise question generator", zap.Error(err))
	}
	assessor, err := assessment.NewGeminiAssessor(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Fatal("failed to initialise assessor", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	publisher := events.NewPublisher(rdb)

	subscriberCtx, stopSubscriber := context.WithCancel(context.Background())
	defer stopSubscriber()
	subscriber := events.NewCompletionSubscriber(rdb, userRepo, mailer, logger)
	go subscriber.Subscribe(subscriberCtx)

	resolver := access.NewResolver(interviewRepo)
	gate := access.NewGate(interviewRepo, publisher, logger)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	sessionHandler := handlers.NewSessionHandler(interviewRepo, cfg.JWTSecret)
	interviewHandler := handlers.NewInterviewHandler(interviewRepo, feedbackRepo, generator, dispatcher, resolver, gate, cfg.JWTSecret, logger)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackRepo, interviewRepo, assessor, resolver, gate, cfg.JWTSecret, logger)
	healthHandler := handlers.NewHealthHandler()

	router := chi.NewRouter()
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(60*time.Second))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(metrics.Middleware)

	routers.AuthRoutes(router, authHandler)
	routers.SessionRoutes(router, sessionHandler)
	routers.InterviewRoutes(router, interviewHandler, feedbackHandler, healthHandler)
	router.Handle("/metrics", metrics.Handler())

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")
	stopSubscriber()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		logger.Warn("failed to close redis client", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
