package cloud

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

type lambdaAPI interface {
	Invoke(ctx context.Context, in *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaClient triggers the serverless analytics job.
type LambdaClient struct {
	svc      lambdaAPI
	function string
}

func NewLambdaClient(cfg aws.Config, function string) *LambdaClient {
	return &LambdaClient{svc: lambda.NewFromConfig(cfg), function: function}
}

// AnalyticsPayload is the event sent to the analytics function. An empty
// FacilityID covers every facility.
type AnalyticsPayload struct {
	Date       string `json:"date"`
	FacilityID string `json:"facility_id,omitempty"`
}

// InvokeAnalyticsAsync queues the analytics run without waiting for it.
func (c *LambdaClient) InvokeAnalyticsAsync(ctx context.Context, p AnalyticsPayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	out, err := c.svc.Invoke(ctx, &lambda.InvokeInput{
		FunctionName:   aws.String(c.function),
		Payload:        payload,
		InvocationType: types.InvocationTypeEvent,
	})
	if err != nil {
		return fmt.Errorf("failed to invoke Lambda: %w", err)
	}
	if out.FunctionError != nil {
		return fmt.Errorf("lambda function error: %s", aws.ToString(out.FunctionError))
	}
	return nil
}
