package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-service/internal/config"
	httpctrl "shop-service/internal/controllers/http"
	mmysql "shop-service/internal/infra/mysql"
	"shop-service/internal/infra/rabbitmq"
	"shop-service/internal/infra/storage"
	"shop-service/internal/metrics"
	mysqlrepo "shop-service/internal/repository/mysql"
	"shop-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appMetrics, meterProvider, err := metrics.Init(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("metrics: init")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("metrics: shutdown")
		}
	}()

	db, err := mmysql.NewMySQL(cfg.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("db: connect")
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           0,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	publisher, err := rabbitmq.NewPublisher(cfg.AmqpURL, cfg.EventExchange)
	if err != nil {
		logger.Fatal().Err(err).Msg("rabbitmq: publisher")
	}
	defer publisher.Close()

	eventLogger, err := rabbitmq.NewEventLogger(cfg.AmqpURL, cfg.EventExchange)
	if err != nil {
		logger.Fatal().Err(err).Msg("rabbitmq: consumer")
	}
	defer eventLogger.Close()

	images, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("storage: upload dir")
	}

	itemRepo := mysqlrepo.NewItemRepository(db)
	cartRepo := mysqlrepo.NewCartRepository(db)
	orderRepo := mysqlrepo.NewOrderRepository(db)
	userRepo := mysqlrepo.NewUserRepository(db)
	txManager := mysqlrepo.NewTxManager(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	authService.SetLoginThrottle(redisClient, cfg.LoginAttemptLimit, cfg.LoginAttemptWindow)

	catalogService := services.NewCatalogService(itemRepo, images)
	catalogService.SetRedisClient(redisClient)

	cartService := services.NewCartService(cartRepo, itemRepo, publisher)
	orderService := services.NewOrderService(txManager, orderRepo, publisher, appMetrics)
	userService := services.NewUserService(userRepo)

	handler := httpctrl.NewHandler(authService, userService, catalogService, cartService, orderService, images)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpctrl.RequestLogger())
	r.Use(httpctrl.Metrics(appMetrics))
	r.Static("/uploads", cfg.UploadDir)

	handler.RegisterRoutes(r)

	srv := &nethttp.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("port", cfg.AppPort).Msg("starting shop service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return eventLogger.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
	logger.Info().Msg("shutdown complete")
}
