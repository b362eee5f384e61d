package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/cloud"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/config"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/database"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/ingest"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/observability"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/repository"
)

const handleTimeout = 5 * time.Second

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

	metrics := observability.NewMetrics()
	cfg := ingest.Config{
		Store:   repository.New(db),
		Metrics: metrics,
		Logger:  log.Logger,
	}
	if config.UseCloudServices() {
		awsCfg, err := cloud.LoadAWSConfig(ctx, config.AWSRegion())
		if err != nil {
			log.Fatal().Err(err).Msg("aws config failed")
		}
		dynamo := cloud.NewDynamoDBClient(awsCfg, config.DynamoDBTable(), config.AlertsTable())
		cfg.Latest = dynamo
		cfg.Alerts = dynamo
		if arn := config.SNSTopicArn(); arn != "" {
			cfg.Notifier = cloud.NewSNSClient(awsCfg, arn)
		}
		log.Info().Str("region", config.AWSRegion()).Msg("cloud services enabled")
	}
	processor := ingest.NewProcessor(cfg)

	opts := mqtt.NewClientOptions().
		AddBroker(config.MQTTBroker()).
		SetClientID(config.MQTTClientID()).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn().Err(err).Msg("mqtt connection lost")
		})
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		hctx, cancel := context.WithTimeout(ctx, handleTimeout)
		defer cancel()
		if err := processor.Handle(hctx, msg.Topic(), msg.Payload()); err != nil {
			log.Error().Err(err).Str("topic", msg.Topic()).Msg("ingest failed")
		}
	}

	topic := config.MQTTTopic()
	if token := client.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("subscribe failed")
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	go func() {
		if err := app.Listen(config.IngestorMetricsAddr()); err != nil {
			log.Error().Err(err).Msg("metrics server exit")
		}
	}()

	log.Info().Str("topic", topic).Msg("ingestor running; Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("shutting down")
	_ = app.Shutdown()
}
