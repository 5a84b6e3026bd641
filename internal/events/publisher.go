package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

// Publisher delivers domain events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, aggregate, correlationID string, evt Event) (Envelope, error)
}

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends each envelope as one SQS message body.
type SQSPublisher struct {
	client   sqsAPI
	queueURL string
	logger   *logging.Logger
	now      func() time.Time
}

func NewSQSPublisher(client sqsAPI, queueURL string, logger *logging.Logger) *SQSPublisher {
	if client == nil {
		panic("events: SQS client cannot be nil")
	}
	if queueURL == "" {
		panic("events: SQS queueURL cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SQSPublisher{client: client, queueURL: queueURL, logger: logger, now: time.Now}
}

func (p *SQSPublisher) Publish(ctx context.Context, aggregate, correlationID string, evt Event) (Envelope, error) {
	env, err := NewEnvelope(aggregate, correlationID, evt, p.now())
	if err != nil {
		return Envelope{}, err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return Envelope{}, fmt.Errorf("events: marshal envelope: %w", err)
	}

	out, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"event_type":     {DataType: aws.String("String"), StringValue: aws.String(env.EventType)},
			"schema_version": {DataType: aws.String("Number"), StringValue: aws.String(strconv.Itoa(env.SchemaVersion))},
		},
	})
	if err != nil {
		return Envelope{}, fmt.Errorf("events: failed to send SQS message: %w", err)
	}
	p.logger.Debug("event published", "event_type", env.EventType, "aggregate", env.Aggregate, "message_id", aws.ToString(out.MessageId))
	return env, nil
}

// LogPublisher writes envelopes to the log. Used when no queue is configured.
type LogPublisher struct {
	logger *logging.Logger
	now    func() time.Time
}

func NewLogPublisher(logger *logging.Logger) *LogPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogPublisher{logger: logger, now: time.Now}
}

func (p *LogPublisher) Publish(_ context.Context, aggregate, correlationID string, evt Event) (Envelope, error) {
	env, err := NewEnvelope(aggregate, correlationID, evt, p.now())
	if err != nil {
		return Envelope{}, err
	}
	p.logger.Info("event emitted", "event_type", env.EventType, "aggregate", env.Aggregate, "event_id", env.EventID)
	return env, nil
}

var (
	_ Publisher = (*SQSPublisher)(nil)
	_ Publisher = (*LogPublisher)(nil)
)
