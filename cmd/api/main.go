package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/auth"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/cloud"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/config"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/database"
	httpHandlers "github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/http"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/observability"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/repository"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/service"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	observability.SetupLogger(config.LogLevel(), config.LogFormat())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(config.DBDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("db migrate failed")
	}

	rdb := redis.NewClient(&redis.Options{Addr: config.RedisAddr()})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", config.RedisAddr()).Msg("redis connect failed")
	}

	metrics := observability.NewMetrics()
	issuer := auth.NewTokenIssuer(config.JWTSecret(), config.JWTIssuer(), nil)
	repos := repository.New(db)

	cfg := service.Config{
		Store:   repos,
		Issuer:  issuer,
		Metrics: metrics,
		Logger:  log.Logger,
	}
	if config.UseCloudServices() {
		awsCfg, err := cloud.LoadAWSConfig(ctx, config.AWSRegion())
		if err != nil {
			log.Fatal().Err(err).Msg("aws config failed")
		}
		cfg.Exporter = cloud.NewS3Client(awsCfg, config.S3Bucket())
		cfg.Analytics = cloud.NewLambdaClient(awsCfg, config.AnalyticsFunction())
		cfg.Latest = cloud.NewDynamoDBClient(awsCfg, config.DynamoDBTable(), config.AlertsTable())
		if arn := config.SNSTopicArn(); arn != "" {
			cfg.Notifier = cloud.NewSNSClient(awsCfg, arn)
		}
		log.Info().Str("region", config.AWSRegion()).Msg("cloud services enabled")
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httpHandlers.Register(app, httpHandlers.Deps{
		Services: service.New(cfg),
		Verifier: issuer,
		Limiter:  auth.NewRateLimiter(rdb, config.RateLimitPerHour(), nil),
		Metrics:  metrics,
		Ping:     repos.Ping,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
