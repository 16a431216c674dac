package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"github.com/Bhaveshb1986/Image-Optimizer/internal/config"
	"github.com/Bhaveshb1986/Image-Optimizer/internal/domain"
)

// S3Storage implements Storage on an S3-compatible bucket, for deployments
// that keep artifacts in object storage instead of a local directory.
// Artifact names map to flat object keys.
type S3Storage struct {
	client *s3.Client
	cfg    *config.S3Config
	log    *zap.Logger
}

func NewS3Storage(cfg *config.S3Config, log *zap.Logger) (*S3Storage, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				HostnameImmutable: true,
				Source:            aws.EndpointSourceCustom,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &S3Storage{
		client: client,
		cfg:    cfg,
		log:    log,
	}, nil
}

// EnsureReady creates the bucket when it does not exist yet.
func (s *S3Storage) EnsureReady(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.cfg.BucketName),
	})
	if err == nil {
		return nil
	}

	s.log.Info("creating bucket", zap.String("bucket", s.cfg.BucketName))

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.cfg.BucketName),
		CreateBucketConfiguration: &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.cfg.Region),
		},
	})
	if err != nil {
		return fmt.Errorf("create bucket %s: %w", s.cfg.BucketName, err)
	}

	// give the backend a moment to settle after creation
	time.Sleep(1 * time.Second)

	return nil
}

func (s *S3Storage) SaveFile(ctx context.Context, name string, data []byte, contentType string) error {
	if err := checkName(name); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.BucketName),
		Key:           aws.String(name),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		s.log.Error("failed to upload file to S3",
			zap.String("key", name),
			zap.Error(err))
		return fmt.Errorf("put object %s: %w", name, err)
	}

	s.log.Debug("file uploaded to S3",
		zap.String("key", name),
		zap.Int("size", len(data)))

	return nil
}

func (s *S3Storage) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(name),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", name, err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", name, err)
	}
	return data, nil
}

func (s *S3Storage) FileSize(ctx context.Context, name string) (int64, error) {
	if err := checkName(name); err != nil {
		return 0, err
	}

	output, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(name),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("head object %s: %w", name, err)
	}
	return aws.ToInt64(output.ContentLength), nil
}

func (s *S3Storage) RemoveFile(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.BucketName),
		Key:    aws.String(name),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", name, err)
	}
	return nil
}

func (s *S3Storage) ListFiles(ctx context.Context) ([]domain.FileInfo, error) {
	output, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.cfg.BucketName),
	})
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	files := make([]domain.FileInfo, 0, len(output.Contents))
	for _, obj := range output.Contents {
		files = append(files, domain.FileInfo{
			Name: aws.ToString(obj.Key),
			Size: aws.ToInt64(obj.Size),
		})
	}
	return files, nil
}
