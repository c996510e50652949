package s3

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"paynote/internal/clients"
	"paynote/pkg/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.uber.org/zap"
)

const providerName = "storage"

// Storage uploads invoice PDFs to an S3-compatible bucket.
type Storage struct {
	uploader      *s3manager.Uploader
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

func New(cfg config.StorageConfig, timeout time.Duration, logger *zap.Logger) (*Storage, error) {
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
		HTTPClient:       &http.Client{Timeout: timeout},
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create storage session: %w", err)
	}

	return &Storage{
		uploader:      s3manager.NewUploader(sess),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        logger,
	}, nil
}

// Upload writes the object, replacing any previous version under the same key,
// and returns its public URL.
func (s *Storage) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("Object upload failed", zap.String("key", key), zap.Error(err))
		return "", clients.TransportError(providerName, err)
	}

	s.logger.Info("Object uploaded", zap.String("key", key), zap.Int("size", len(body)))

	return PublicURL(s.publicBaseURL, out.Location, key), nil
}

// PublicURL prefers the configured public base (CDN or public bucket domain)
// over the location reported by the upload.
func PublicURL(publicBaseURL, location, key string) string {
	if publicBaseURL == "" {
		return location
	}
	return publicBaseURL + "/" + strings.TrimLeft(key, "/")
}
