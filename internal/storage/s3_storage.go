package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// DocumentStorage issues pre-signed S3 upload URLs for briefing documents
// (contratos sociais, comprovantes, documentos dos sócios)
type DocumentStorage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

type PresignedUpload struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
}

// MaxDocumentSize caps uploads at 10 MB
const MaxDocumentSize = 10 << 20

// allowedDocumentTypes are the content types accepted for briefing documents
var allowedDocumentTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
}

func NewDocumentStorage(region, bucket, accessKeyID, secretAccessKey, baseURL string) *DocumentStorage {
	var cfg aws.Config
	var err error

	// Static credentials when provided, default chain otherwise
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{
				Region: region,
			}
		}
	}

	return &DocumentStorage{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// PresignDocumentUpload returns a pre-signed PUT URL for one briefing document.
// Keys are namespaced by protocol so a briefing's files stay together.
func (s *DocumentStorage) PresignDocumentUpload(ctx context.Context, protocolo, filename, contentType string) (*PresignedUpload, error) {
	if err := s.ValidateContentType(contentType); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("briefings/%s/%s%s", protocolo, uuid.New().String(), ext)

	presignClient := s3.NewPresignClient(s.client)
	presignedReq, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	var fileURL string
	if s.baseURL != "" {
		fileURL = fmt.Sprintf("%s/%s", s.baseURL, key)
	} else {
		fileURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
	}

	return &PresignedUpload{
		UploadURL: presignedReq.URL,
		FileURL:   fileURL,
		Key:       key,
	}, nil
}

// ValidateFileSize validates the declared file size
func (s *DocumentStorage) ValidateFileSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("tamanho de arquivo inválido")
	}
	if size > MaxDocumentSize {
		return fmt.Errorf("arquivo excede o tamanho máximo de %d bytes", int64(MaxDocumentSize))
	}
	return nil
}

// ValidateContentType validates the content type against the accepted list
func (s *DocumentStorage) ValidateContentType(contentType string) error {
	for _, allowed := range allowedDocumentTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("tipo de arquivo %s não é aceito", contentType)
}
