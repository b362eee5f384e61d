// Command analytics is the daily report job, deployed as an AWS Lambda and
// invoked asynchronously by the API's admin analytics endpoint.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/analytics"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/cloud"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/config"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/database"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/observability"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/repository"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	observability.SetupLogger(config.LogLevel(), config.LogFormat())

	db, err := database.Connect(config.DBDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	awsCfg, err := cloud.LoadAWSConfig(context.Background(), config.AWSRegion())
	if err != nil {
		log.Fatal().Err(err).Msg("aws config failed")
	}

	processor := analytics.NewProcessor(analytics.Config{
		Store:     repository.New(db),
		Reports:   cloud.NewS3Client(awsCfg, config.S3Bucket()),
		Summaries: cloud.NewSummaryStore(awsCfg, config.AnalyticsTable()),
		Logger:    log.Logger,
	})
	lambda.Start(processor.Handle)
}
