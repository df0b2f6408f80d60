package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/mbeoliero/kit/log"

	"github.com/viahme/viah/internal/broker/kafka"
	"github.com/viahme/viah/internal/config"
	"github.com/viahme/viah/internal/gateway"
	"github.com/viahme/viah/internal/handler"
	"github.com/viahme/viah/internal/repository"
	"github.com/viahme/viah/internal/router"
	"github.com/viahme/viah/internal/service"
	"github.com/viahme/viah/internal/storage/s3"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/idgen"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := os.Getenv("VIAH_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.CtxError(ctx, "failed to load config: %v", err)
		panic(err)
	}
	log.CtxInfo(ctx, "config loaded: mode=%s, driver=%s", cfg.Server.Mode, cfg.Database.Driver)

	constant.InitRedisKeyPrefix(cfg.Redis.KeyPrefix)
	log.CtxInfo(ctx, "redis key prefix: %s", constant.GetRedisKeyPrefix())

	gen, err := idgen.NewSonyflakeGenerator(cfg.Server.MachineId)
	if err != nil {
		log.CtxError(ctx, "failed to create id generator: %v", err)
		panic(err)
	}
	idgen.SetDefaultGenerator(gen)

	repos, err := repository.NewRepositories(cfg)
	if err != nil {
		log.CtxError(ctx, "failed to initialize repositories: %v", err)
		panic(err)
	}
	defer repos.Close()

	if err := repos.CheckConnection(ctx); err != nil {
		log.CtxError(ctx, "database connection check failed: %v", err)
		panic(err)
	}
	log.CtxInfo(ctx, "database connection established")

	events := newPublisher(ctx, cfg)
	defer events.Close()
	uploader := newUploader(ctx, cfg)

	// Services
	authService := service.NewAuthService(repos.User, cfg, repos.Redis)
	userService := service.NewUserService(repos.User)
	weddingService := service.NewWeddingService(repos)
	budgetService := service.NewBudgetService(repos)
	dashboardService := service.NewDashboardService(repos)
	vendorService := service.NewVendorService(repos)
	portfolioService := service.NewPortfolioService(repos, uploader, cfg.S3.MaxUploadSize)
	bookingService := service.NewBookingService(repos, events)
	leadService := service.NewLeadService(repos, events)
	notifyService := service.NewNotificationService(repos)
	convService := service.NewConversationService(repos, notifyService, events)
	msgService := service.NewMessageService(repos, notifyService, events)
	calendarService := service.NewCalendarService(repos, &cfg.Calendar)

	wsServer := gateway.NewWsServer(&cfg.WebSocket, repos.Redis, authService, convService, notifyService)
	authService.SetPusher(wsServer)
	notifyService.SetPusher(wsServer)
	convService.SetPusher(wsServer)
	msgService.SetPusher(wsServer)

	wsServer.Run(ctx)
	log.CtxInfo(ctx, "websocket server started")

	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService, wsServer),
		Wedding:      handler.NewWeddingHandler(weddingService),
		Budget:       handler.NewBudgetHandler(budgetService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		Vendor:       handler.NewVendorHandler(vendorService, portfolioService),
		Booking:      handler.NewBookingHandler(bookingService),
		Lead:         handler.NewLeadHandler(leadService),
		Conversation: handler.NewConversationHandler(convService),
		Message:      handler.NewMessageHandler(msgService),
		Notification: handler.NewNotificationHandler(notifyService),
		Calendar:     handler.NewCalendarHandler(calendarService),
	}

	h := server.Default(
		server.WithHostPorts(fmt.Sprintf(":%d", cfg.Server.HTTPPort)),
		server.WithMaxRequestBodySize(int(cfg.S3.MaxUploadSize)+(1<<20)),
	)
	router.SetupRouter(h, handlers, wsServer, authService)

	log.CtxInfo(ctx, "server starting on port %d", cfg.Server.HTTPPort)
	go h.Spin()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.CtxInfo(ctx, "shutting down server...")
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	if err := h.Shutdown(shutdownCtx); err != nil {
		log.CtxError(ctx, "server shutdown error: %v", err)
	}

	log.CtxInfo(ctx, "server stopped")
}

// newPublisher connects the domain event producer, or disables publishing
// when no broker is configured.
func newPublisher(ctx context.Context, cfg *config.Config) kafka.Publisher {
	if !cfg.Kafka.Enabled() {
		log.CtxInfo(ctx, "kafka disabled, domain events are not published")
		return kafka.NoopPublisher{}
	}
	p, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ClientId, cfg.Kafka.Topic)
	if err != nil {
		log.CtxError(ctx, "failed to create kafka producer: %v", err)
		panic(err)
	}
	log.CtxInfo(ctx, "kafka producer ready: topic=%s", cfg.Kafka.Topic)
	return p
}

func newUploader(ctx context.Context, cfg *config.Config) s3.Uploader {
	if !cfg.S3.Enabled() {
		log.CtxInfo(ctx, "object storage disabled, photo uploads will fail")
		return s3.NoopUploader{}
	}
	c, err := s3.NewClient(cfg.S3.Endpoint, cfg.S3.UseSSL, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.PublicBaseURL)
	if err != nil {
		log.CtxError(ctx, "failed to create s3 client: %v", err)
		panic(err)
	}
	return c
}
