// Package archive stores scrubbed chat transcripts in S3.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/wolfman30/clara-insurance-guide/internal/chat"
	"github.com/wolfman30/clara-insurance-guide/pkg/logging"
)

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store archives transcripts to S3.
type Store struct {
	bucket   string
	s3Client S3API
	logger   *logging.Logger
	now      func() time.Time
}

// NewStore creates an archive Store. If bucket is empty, all operations are no-ops.
func NewStore(s3Client S3API, bucket string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{bucket: bucket, s3Client: s3Client, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Enabled returns true if archival is configured (bucket is set).
func (s *Store) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

// TranscriptInput is what the chat service knows when a lead is captured.
type TranscriptInput struct {
	SessionID string
	LeadID    string
	Phone     string
	Messages  chat.History
	Topics    []string
	Step      string
	StartedAt time.Time
}

// NewTranscriptRecord scrubs in and stamps it for archival.
func NewTranscriptRecord(in TranscriptInput, archivedAt time.Time) *TranscriptRecord {
	msgs := make([]Message, len(in.Messages))
	for i, m := range in.Messages {
		msgs[i] = Message{Role: m.Role, Content: m.Content}
	}
	ScrubMessages(msgs)

	outcome := OutcomeLeadCaptured
	if in.Step == "confirmed" {
		outcome = OutcomeCallbackSet
	}
	return &TranscriptRecord{
		Version:      recordVersion,
		SessionID:    in.SessionID,
		LeadID:       in.LeadID,
		PhoneHash:    HashPhone(in.Phone),
		ArchivedAt:   archivedAt,
		StartedAt:    in.StartedAt,
		MessageCount: len(msgs),
		Outcome:      outcome,
		Step:         in.Step,
		Topics:       in.Topics,
		Messages:     msgs,
	}
}

// ArchiveTranscript writes the scrubbed transcript as JSON and appends it to
// the monthly manifest. Returns the object key.
func (s *Store) ArchiveTranscript(ctx context.Context, in TranscriptInput) (string, error) {
	if !s.Enabled() {
		return "", nil
	}

	now := s.now()
	record := NewTranscriptRecord(in, now)
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("archive: marshal record: %w", err)
	}

	key := fmt.Sprintf("transcripts/v1/by-date/%d/%02d/%02d/%s.json",
		now.Year(), now.Month(), now.Day(), record.SessionID)

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("archive: s3 put %s: %w", key, err)
	}

	s.logger.Info("archived transcript to S3",
		"session_id", record.SessionID,
		"s3_key", key,
		"message_count", record.MessageCount,
		"outcome", record.Outcome,
	)

	entry := ManifestEntry{
		SessionID:    record.SessionID,
		LeadID:       record.LeadID,
		S3Key:        key,
		Outcome:      record.Outcome,
		Topics:       record.Topics,
		ArchivedAt:   now.Format(time.RFC3339),
		MessageCount: record.MessageCount,
	}
	if err := s.AppendManifest(ctx, entry, now); err != nil {
		// The transcript itself is stored.
		s.logger.Warn("failed to append manifest", "error", err, "session_id", record.SessionID)
	}
	return key, nil
}

// AppendManifest appends a JSONL line to the monthly manifest file.
// S3 has no append, so this reads, extends and rewrites the object.
func (s *Store) AppendManifest(ctx context.Context, entry ManifestEntry, at time.Time) error {
	if !s.Enabled() {
		return nil
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("archive: marshal manifest entry: %w", err)
	}
	manifestKey := fmt.Sprintf("transcripts/v1/manifests/%d-%02d.jsonl", at.Year(), at.Month())

	var existing []byte
	getResp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(manifestKey),
	})
	switch {
	case err == nil:
		existing, err = io.ReadAll(getResp.Body)
		getResp.Body.Close()
		if err != nil {
			return fmt.Errorf("archive: read manifest: %w", err)
		}
	case isNotFound(err):
		s.logger.Debug("manifest not found, creating new", "key", manifestKey)
	default:
		return fmt.Errorf("archive: s3 get manifest: %w", err)
	}

	var buf bytes.Buffer
	if len(existing) > 0 {
		buf.Write(existing)
		if existing[len(existing)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	buf.Write(line)
	buf.WriteByte('\n')

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(manifestKey),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/x-ndjson"),
	})
	if err != nil {
		return fmt.Errorf("archive: s3 put manifest: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}
