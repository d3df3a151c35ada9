package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Store reads assets from an S3 bucket, optionally below a key prefix.
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store loads the default AWS configuration (environment, shared config,
// instance role) and returns a store bound to bucket.
func NewS3Store(ctx context.Context, bucket, prefix string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	return NewS3StoreWithClient(s3.NewFromConfig(cfg), bucket, prefix)
}

func NewS3StoreWithClient(client S3API, bucket, prefix string) (*S3Store, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	return &S3Store{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

func (s *S3Store) Read(ctx context.Context, key string) ([]byte, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(cleanKey)),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, cleanKey)
		}
		return nil, fmt.Errorf("storage: get object %s: %w", cleanKey, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("storage: read object %s: %w", cleanKey, err)
	}
	return data, nil
}

// List returns the object names directly below the prefix.
func (s *S3Store) List(ctx context.Context) ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix + "/")
	}
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage: list objects: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			name = strings.TrimPrefix(name, "/")
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

var _ Source = (*S3Store)(nil)
