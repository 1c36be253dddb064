package lib

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var s3Client *s3.Client

func GetS3Client() *s3.Client {
	if s3Client != nil {
		return s3Client
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	svc := s3.NewFromConfig(cfg)
	s3Client = svc
	return svc
}

// NewS3Client Replace s3 instance with custom client implementation
func NewS3Client(c *s3.Client) *s3.Client {
	s3Client = c
	return s3Client
}

// S3UploadRoomImage streams an uploaded multipart file into the assets
// bucket under key and returns the key.
func S3UploadRoomImage(key string, file multipart.File, contentType string) (*string, error) {
	assetsBucket := os.Getenv("S3_ASSETS_BUCKET")
	client := GetS3Client()
	if client == nil {
		return nil, errors.New("s3 client is not configured")
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	_, err := client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(assetsBucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("[S3] Error uploading object [%s]: %s\n", key, err.Error())
		return nil, err
	}
	return &key, nil
}

// S3DeleteAsset removes an object from the assets bucket. Callers treat
// failures as best-effort; a missing key is not an error.
func S3DeleteAsset(key string) error {
	assetsBucket := os.Getenv("S3_ASSETS_BUCKET")
	client := GetS3Client()
	if client == nil {
		return errors.New("s3 client is not configured")
	}
	_, err := client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(assetsBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil
		}
		return err
	}
	return nil
}
