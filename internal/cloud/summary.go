package cloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// SummaryStore keeps one analytics summary per facility and day.
type SummaryStore struct {
	svc   dynamoAPI
	table string
}

func NewSummaryStore(cfg aws.Config, table string) *SummaryStore {
	return &SummaryStore{svc: dynamodb.NewFromConfig(cfg), table: table}
}

// DailySummary is keyed by facilityId and date. FacilityID "all" marks a
// run over every facility.
type DailySummary struct {
	FacilityID     string   `dynamodbav:"facilityId"`
	Date           string   `dynamodbav:"date"`
	UnitCount      int      `dynamodbav:"unitCount"`
	ReadingCount   int      `dynamodbav:"readingCount"`
	FailedReadings int      `dynamodbav:"failedReadings"`
	Excursions     int      `dynamodbav:"excursions"`
	AvgCelsius     *float64 `dynamodbav:"avgCelsius,omitempty"`
	MinCelsius     *float64 `dynamodbav:"minCelsius,omitempty"`
	MaxCelsius     *float64 `dynamodbav:"maxCelsius,omitempty"`
	ReportKey      string   `dynamodbav:"reportKey"`
	CreatedAt      int64    `dynamodbav:"createdAt"`
}

func (s *SummaryStore) PutDailySummary(ctx context.Context, sum DailySummary) error {
	item, err := attributevalue.MarshalMap(sum)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	_, err = s.svc.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put summary: %w", err)
	}
	return nil
}
