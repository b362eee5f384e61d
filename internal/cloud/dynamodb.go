package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

type dynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoDBClient keeps the latest reading per storage unit and an alert log.
type DynamoDBClient struct {
	svc           dynamoAPI
	readingsTable string
	alertsTable   string
}

func NewDynamoDBClient(cfg aws.Config, readingsTable, alertsTable string) *DynamoDBClient {
	return &DynamoDBClient{
		svc:           dynamodb.NewFromConfig(cfg),
		readingsTable: readingsTable,
		alertsTable:   alertsTable,
	}
}

// LatestReading is the item stored per unit. A nil Temperature marks a
// failed sensor.
type LatestReading struct {
	UnitID          string   `dynamodbav:"unitId"`
	UnitCode        string   `dynamodbav:"unitCode"`
	FacilityID      string   `dynamodbav:"facilityId"`
	CustomerID      string   `dynamodbav:"customerId"`
	Timestamp       int64    `dynamodbav:"timestamp"`
	Temperature     *float64 `dynamodbav:"temperature,omitempty"`
	TemperatureUnit string   `dynamodbav:"temperatureUnit"`
	Status          string   `dynamodbav:"status"`
	QualityScore    float64  `dynamodbav:"qualityScore"`
}

// Reading converts the stored item back to a domain reading. The reading ID
// is not mirrored and stays nil.
func (lr LatestReading) Reading() (domain.TemperatureReading, error) {
	unitID, err := uuid.Parse(lr.UnitID)
	if err != nil {
		return domain.TemperatureReading{}, fmt.Errorf("invalid unitId: %w", err)
	}
	facilityID, err := uuid.Parse(lr.FacilityID)
	if err != nil {
		return domain.TemperatureReading{}, fmt.Errorf("invalid facilityId: %w", err)
	}
	customerID, err := uuid.Parse(lr.CustomerID)
	if err != nil {
		return domain.TemperatureReading{}, fmt.Errorf("invalid customerId: %w", err)
	}
	unit, err := domain.ParseTemperatureUnit(lr.TemperatureUnit)
	if err != nil {
		return domain.TemperatureReading{}, err
	}
	status, err := domain.ParseEquipmentStatus(lr.Status)
	if err != nil {
		return domain.TemperatureReading{}, err
	}
	at := time.Unix(lr.Timestamp, 0).UTC()
	return domain.TemperatureReading{
		CustomerID:      customerID,
		FacilityID:      facilityID,
		StorageUnitID:   unitID,
		Temperature:     lr.Temperature,
		TemperatureUnit: unit,
		RecordedAt:      at,
		QualityScore:    lr.QualityScore,
		EquipmentStatus: status,
		CreatedAt:       at,
	}, nil
}

// PutLatestReading overwrites the unit's latest reading.
func (c *DynamoDBClient) PutLatestReading(ctx context.Context, r domain.TemperatureReading, unitCode string) error {
	item, err := attributevalue.MarshalMap(LatestReading{
		UnitID:          r.StorageUnitID.String(),
		UnitCode:        unitCode,
		FacilityID:      r.FacilityID.String(),
		CustomerID:      r.CustomerID.String(),
		Timestamp:       r.RecordedAt.Unix(),
		Temperature:     r.Temperature,
		TemperatureUnit: string(r.TemperatureUnit),
		Status:          string(r.EquipmentStatus),
		QualityScore:    r.QualityScore,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}

	_, err = c.svc.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.readingsTable),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in DynamoDB: %w", err)
	}
	return nil
}

// GetLatestReading returns the unit's latest reading, or false when none is stored.
func (c *DynamoDBClient) GetLatestReading(ctx context.Context, unitID uuid.UUID) (LatestReading, bool, error) {
	out, err := c.svc.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.readingsTable),
		Key: map[string]types.AttributeValue{
			"unitId": &types.AttributeValueMemberS{Value: unitID.String()},
		},
	})
	if err != nil {
		return LatestReading{}, false, fmt.Errorf("failed to get item from DynamoDB: %w", err)
	}
	if len(out.Item) == 0 {
		return LatestReading{}, false, nil
	}

	var lr LatestReading
	if err := attributevalue.UnmarshalMap(out.Item, &lr); err != nil {
		return LatestReading{}, false, fmt.Errorf("failed to unmarshal reading: %w", err)
	}
	return lr, true, nil
}

// Alert represents an alert stored in DynamoDB.
type Alert struct {
	AlertID      string `dynamodbav:"alertId"`
	FacilityID   string `dynamodbav:"facilityId"`
	UnitID       string `dynamodbav:"unitId"`
	Timestamp    int64  `dynamodbav:"timestamp"`
	Severity     string `dynamodbav:"severity"`
	Type         string `dynamodbav:"type"`
	Message      string `dynamodbav:"message"`
	Acknowledged bool   `dynamodbav:"acknowledged"`
}

// CreateAlert stores an unacknowledged alert and returns its ID.
func (c *DynamoDBClient) CreateAlert(ctx context.Context, facilityID, unitID uuid.UUID, severity, alertType, message string, at time.Time) (string, error) {
	alert := Alert{
		AlertID:    uuid.NewString(),
		FacilityID: facilityID.String(),
		UnitID:     unitID.String(),
		Timestamp:  at.Unix(),
		Severity:   severity,
		Type:       alertType,
		Message:    message,
	}

	item, err := attributevalue.MarshalMap(alert)
	if err != nil {
		return "", fmt.Errorf("failed to marshal alert: %w", err)
	}

	_, err = c.svc.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.alertsTable),
		Item:      item,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create alert: %w", err)
	}
	return alert.AlertID, nil
}
