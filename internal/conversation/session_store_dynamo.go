package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

type dynamoSessionRecord struct {
	Session
	ExpiresAt int64 `dynamodbav:"expiresAt,omitempty"`
}

// DynamoSessionStore keeps sessions in a DynamoDB table keyed by sessionId,
// with expiresAt as the table's TTL attribute.
type DynamoSessionStore struct {
	client    dynamoAPI
	tableName string
	ttl       time.Duration
	now       func() time.Time
}

func NewDynamoSessionStore(client dynamoAPI, tableName string, ttl time.Duration) *DynamoSessionStore {
	if client == nil {
		panic("conversation: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("conversation: table name cannot be empty")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &DynamoSessionStore{client: client, tableName: tableName, ttl: ttl, now: time.Now}
}

func (s *DynamoSessionStore) Save(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return errors.New("conversation: session id is required")
	}
	record := dynamoSessionRecord{
		Session:   *session,
		ExpiresAt: s.now().Add(s.ttl).Unix(),
	}
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("conversation: failed to marshal session: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("conversation: failed to persist session: %w", err)
	}
	return nil
}

func (s *DynamoSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            map[string]types.AttributeValue{"sessionId": &types.AttributeValueMemberS{Value: id}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("conversation: failed to load session: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return nil, ErrSessionNotFound
	}

	var record dynamoSessionRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("conversation: failed to decode session: %w", err)
	}
	if record.ExpiresAt > 0 && s.now().Unix() >= record.ExpiresAt {
		return nil, ErrSessionNotFound
	}
	return &record.Session, nil
}
