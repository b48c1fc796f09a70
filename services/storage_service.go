package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	appConfig "github.com/gonzalofarias/distribuidora-api/config"
)

// StoredFile describes one attachment stored under an order's prefix
type StoredFile struct {
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// StorageInterface defines the interface for order attachment storage
type StorageInterface interface {
	UploadOrderFile(ordCod int, fileHeader *multipart.FileHeader) (string, error)
	ListOrderFiles(ordCod int) ([]StoredFile, error)
	GetPresignedURL(key string) (string, error)
	DeleteFile(key string) error
	DeleteOrderFiles(ordCod int) error
}

// StorageService stores order attachments in S3 under per-order prefixes
type StorageService struct {
	client *s3.Client
	bucket string
}

var storageServiceInstance StorageInterface

// InitStorageService initializes the storage service with AWS credentials
func InitStorageService() (StorageInterface, error) {
	cfg := appConfig.GetConfig()

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.AWSRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig)

	storageServiceInstance = &StorageService{
		client: client,
		bucket: cfg.AWSS3Bucket,
	}

	return storageServiceInstance, nil
}

// GetStorageService returns the initialized storage service instance
func GetStorageService() StorageInterface {
	return storageServiceInstance
}

// SetStorageService sets the storage service instance (primarily for testing)
func SetStorageService(service StorageInterface) {
	storageServiceInstance = service
}

// orderPrefix is the bucket prefix holding one order's attachments
func orderPrefix(ordCod int) string {
	return fmt.Sprintf("orders/%d/", ordCod)
}

// UploadOrderFile uploads an attachment under the order's prefix and
// returns its key. A uuid suffix keeps same-named uploads from colliding.
func (s *StorageService) UploadOrderFile(ordCod int, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("warning: failed to close file: %v", closeErr)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	filename := filepath.Base(fileHeader.Filename)
	key := fmt.Sprintf("%s%s_%s", orderPrefix(ordCod), uuid.NewString(), filename)

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return key, nil
}

// ListOrderFiles lists the attachments stored under the order's prefix
func (s *StorageService) ListOrderFiles(ordCod int) ([]StoredFile, error) {
	prefix := orderPrefix(ordCod)
	files := []StoredFile{}

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.TODO())
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}
		for _, object := range page.Contents {
			key := aws.ToString(object.Key)
			files = append(files, StoredFile{
				Key:      key,
				Name:     storedFileName(key, prefix),
				Size:     aws.ToInt64(object.Size),
				Modified: aws.ToTime(object.LastModified),
			})
		}
	}
	return files, nil
}

// storedFileName strips the order prefix and the uuid part from a key,
// recovering the name the file was uploaded with
func storedFileName(key, prefix string) string {
	name := key[len(prefix):]
	// keys are "<uuid>_<filename>"
	if idx := len(uuid.Nil.String()); len(name) > idx+1 && name[idx] == '_' {
		if _, err := uuid.Parse(name[:idx]); err == nil {
			return name[idx+1:]
		}
	}
	return name
}

// GetPresignedURL generates a presigned URL for downloading an attachment.
// The URL expires after 1 hour.
func (s *StorageService) GetPresignedURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return request.URL, nil
}

// DeleteFile deletes one attachment
func (s *StorageService) DeleteFile(key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// DeleteOrderFiles removes everything stored under the order's prefix
func (s *StorageService) DeleteOrderFiles(ordCod int) error {
	files, err := s.ListOrderFiles(ordCod)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := s.DeleteFile(file.Key); err != nil {
			return err
		}
	}
	return nil
}
