package cloud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type snsAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSClient publishes operator alerts to a topic.
type SNSClient struct {
	svc      snsAPI
	topicArn string
}

func NewSNSClient(cfg aws.Config, topicArn string) *SNSClient {
	return &SNSClient{svc: sns.NewFromConfig(cfg), topicArn: topicArn}
}

// SendAlert publishes a message and returns its SNS message ID.
func (c *SNSClient) SendAlert(ctx context.Context, subject, message string) (string, error) {
	out, err := c.svc.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return "", fmt.Errorf("failed to publish to SNS: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// FailureNotice describes an equipment failure reported by a sensor.
type FailureNotice struct {
	CustomerCode string
	FacilityCode string
	UnitCode     string
	SensorID     string
	Status       string
	RecordedAt   time.Time
}

func (c *SNSClient) SendFailureAlert(ctx context.Context, n FailureNotice) (string, error) {
	subject := fmt.Sprintf("Cold Chain Alert: equipment failure at %s", n.FacilityCode)

	var b strings.Builder
	b.WriteString("Equipment Failure Alert\n\n")
	fmt.Fprintf(&b, "Customer: %s\n", n.CustomerCode)
	fmt.Fprintf(&b, "Facility: %s\n", n.FacilityCode)
	fmt.Fprintf(&b, "Unit: %s\n", n.UnitCode)
	if n.SensorID != "" {
		fmt.Fprintf(&b, "Sensor: %s\n", n.SensorID)
	}
	fmt.Fprintf(&b, "Status: %s\n", n.Status)
	fmt.Fprintf(&b, "Time: %s\n\n", n.RecordedAt.UTC().Format(time.RFC3339))
	b.WriteString("Check the unit before stock temperature drifts.")

	return c.SendAlert(ctx, subject, b.String())
}

func (c *SNSClient) SendMaintenanceAlert(ctx context.Context, unitCode string, risk30Days float64, nextService time.Time) (string, error) {
	subject := "Predictive Maintenance Alert"
	message := fmt.Sprintf(
		"Storage Unit Maintenance Required\n\n"+
			"Unit: %s\n"+
			"Failure Risk (30 days): %.1f%%\n"+
			"Next Service Date: %s\n\n"+
			"Please schedule maintenance to prevent failures.",
		unitCode,
		risk30Days*100,
		nextService.Format("2006-01-02"),
	)
	return c.SendAlert(ctx, subject, message)
}
