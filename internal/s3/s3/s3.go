// Package s3 provides the chat transcript archive on S3 storage.

package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"acs-toolkit/internal/communication/chat"
	"acs-toolkit/internal/config"
	"acs-toolkit/internal/s3/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/rs/zerolog"
)

const transcriptExt = ".jsonl"

// Service defines a new S3 service and sets its attributes.
type Service struct {
	s3up   *s3manager.Uploader
	s3list *s3.S3
	cfg    *config.Config
	log    *zerolog.Logger
}

// NewService initializes a new S3 service.
func NewService(config *config.Config, logger *zerolog.Logger) (*Service, error) {
	logger.Debug().Msg("calling initializer of S3 service")
	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			config.S3Storage.AccessKeyID,
			config.S3Storage.SecretAccessKey,
			"",
		),
		Region:           aws.String(config.S3Storage.Region),
		Endpoint:         aws.String(config.S3Storage.Endpoint),
		S3ForcePathStyle: aws.Bool(config.S3Storage.Endpoint != ""),
	})
	if err != nil {
		logger.Error().Err(err).Msg(errors.SessionError)
		return nil, err
	}

	return &Service{
		s3up:   s3manager.NewUploader(sess),
		s3list: s3.New(sess),
		cfg:    config,
		log:    logger,
	}, nil
}

// TranscriptKey returns the in-bucket key of a thread transcript taken at t.
func (s *Service) TranscriptKey(threadID string, t time.Time) string {
	return path.Join(s.cfg.S3Storage.FolderTranscript, threadID, fmt.Sprintf("%d%s", t.Unix(), transcriptExt))
}

// encodeTranscript writes one JSON document per message.
func encodeTranscript(messages []chat.ChatMessage) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, message := range messages {
		if err := encoder.Encode(message); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UploadTranscript stores messages of threadID as JSON lines and returns the object location.
func (s *Service) UploadTranscript(ctx context.Context, threadID string, messages []chat.ChatMessage) (string, error) {
	s.log.Debug().Msg("calling `UploadTranscript` method")
	body, err := encodeTranscript(messages)
	if err != nil {
		s.log.Error().Err(err).Msg(errors.TranscriptEncodeError)
		return "", err
	}

	key := s.TranscriptKey(threadID, time.Now())
	result, err := s.s3up.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.cfg.S3Storage.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String("application/x-ndjson"),
		Body:        bytes.NewReader(body),
	})
	if err != nil {
		s.log.Error().Err(err).Msg(errors.TranscriptUploadError)
		return "", err
	}
	s.log.Info().Int("messages", len(messages)).Msg(fmt.Sprintf("transcript uploaded to %s", result.Location))
	return result.Location, nil
}

// ListTranscripts returns the keys of every stored transcript of threadID.
func (s *Service) ListTranscripts(ctx context.Context, threadID string) ([]string, error) {
	s.log.Debug().Msg("calling `ListTranscripts` method")
	prefix := path.Join(s.cfg.S3Storage.FolderTranscript, threadID) + "/"
	var keys []string
	err := s.s3list.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.S3Storage.Bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, object := range page.Contents {
			if key := aws.StringValue(object.Key); strings.HasSuffix(key, transcriptExt) {
				keys = append(keys, key)
			}
		}
		return true
	})
	if err != nil {
		s.log.Error().Err(err).Msg(errors.TranscriptListingError)
		return nil, err
	}
	return keys, nil
}
