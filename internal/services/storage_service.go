// internal/services/storage_service.go
package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/edark-import/marketplace-backend/internal/config"
)

// StorageService uploads product images and blog covers to S3, optionally
// serving them back through CloudFront.
type StorageService struct {
	cfg      config.AWSConfig
	uploader *s3.S3
}

func NewStorageService(cfg config.AWSConfig) (*StorageService, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		cfg:      cfg,
		uploader: s3.New(sess),
	}, nil
}

var allowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// UploadImage stores an uploaded file under the given folder and returns
// its public URL.
func (s *StorageService) UploadImage(file *multipart.FileHeader, folder string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageTypes[ext] {
		return "", fmt.Errorf("unsupported image type: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	key := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.uploader.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.S3Bucket),
		Key:           aws.String(key),
		Body:          aws.ReadSeekCloser(src),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(file.Size),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.publicURL(key), nil
}

func (s *StorageService) DeleteImage(url string) error {
	key := s.keyFromURL(url)
	if key == "" {
		return fmt.Errorf("cannot derive object key from url: %s", url)
	}

	_, err := s.uploader.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

func (s *StorageService) publicURL(key string) string {
	if s.cfg.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.CloudFrontURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.S3Bucket, s.cfg.Region, key)
}

func (s *StorageService) keyFromURL(url string) string {
	if s.cfg.CloudFrontURL != "" && strings.HasPrefix(url, s.cfg.CloudFrontURL) {
		return strings.TrimLeft(strings.TrimPrefix(url, s.cfg.CloudFrontURL), "/")
	}
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.cfg.S3Bucket, s.cfg.Region)
	if strings.HasPrefix(url, prefix) {
		return strings.TrimPrefix(url, prefix)
	}
	return ""
}
