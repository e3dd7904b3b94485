package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/utils"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

const presignTTL = 15 * time.Minute

// StorageService hands out presigned S3 PUT URLs. File bytes never pass
// through the API.
type StorageService struct {
	client   *s3.S3
	bucket   string
	region   string
	endpoint string
	now      func() time.Time
}

func NewStorageService(sess *session.Session, bucket, region, endpoint string) *StorageService {
	return &StorageService{
		client:   s3.New(sess),
		bucket:   bucket,
		region:   region,
		endpoint: strings.TrimRight(endpoint, "/"),
		now:      time.Now,
	}
}

// PresignUpload validates the upload and signs a PUT for folder/<uuid><ext>
func (s *StorageService) PresignUpload(ctx context.Context, req models.PresignUploadRequest) (*models.PresignedUpload, error) {
	if s.bucket == "" {
		return nil, fmt.Errorf("object storage is not configured: %w", ErrInvalidInput)
	}
	folder := strings.ToLower(strings.TrimSpace(req.Folder))
	ext, err := utils.ValidateUpload(folder, req.FileName, req.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), ErrInvalidInput)
	}

	key := ObjectKey(folder, ext)
	putReq, _ := s.client.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(req.ContentType),
	})
	putReq.SetContext(ctx)

	url, err := putReq.Presign(presignTTL)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &models.PresignedUpload{
		UploadURL: url,
		Key:       key,
		Location:  s.Location(key),
		ExpiresAt: s.now().Add(presignTTL),
	}, nil
}

// Location is the public URL of an object key
func (s *StorageService) Location(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func ObjectKey(folder, ext string) string {
	return folder + "/" + uuid.NewString() + ext
}
