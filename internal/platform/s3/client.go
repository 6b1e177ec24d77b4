package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/imamik/kspray/internal/storage"
)

// Client wraps the S3 client for one bucket.
type Client struct {
	s3     *s3.Client
	bucket string
}

// NewClient creates a client from storage credentials. A custom endpoint
// selects path-style addressing, which S3-compatible services expect.
func NewClient(ctx context.Context, creds *storage.Credentials) (*Client, error) {
	if creds == nil {
		return nil, errors.New("storage credentials cannot be nil")
	}

	region := creds.Region
	if region == "" {
		region = storage.DefaultRegion
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(creds.AccessKey, creds.SecretKey, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if creds.Endpoint != "" {
			o.BaseEndpoint = aws.String(creds.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{s3: client, bucket: creds.Bucket}, nil
}

// Bucket returns the bucket the client operates on.
func (c *Client) Bucket() string {
	return c.bucket
}

// BucketExists checks if the bucket exists and is accessible.
func (c *Client) BucketExists(ctx context.Context) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check bucket %s: %w", c.bucket, err)
	}
	return true, nil
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	// Fall back to API error code checking for S3-compatible services
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchBucket" || code == "404"
	}

	return false
}

// PutObject uploads an object to the bucket.
func (c *Client) PutObject(ctx context.Context, key, contentType string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := c.s3.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to put object %s in bucket %s: %w", key, c.bucket, err)
	}
	return nil
}

// UploadFiles uploads local files under prefix, keyed by base name, and
// returns the object keys in input order.
func (c *Client) UploadFiles(ctx context.Context, prefix string, files []string) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, file := range files {
		// #nosec G304 - files are the inventory outputs written by this run
		data, err := os.ReadFile(file)
		if err != nil {
			return keys, fmt.Errorf("failed to read %s: %w", file, err)
		}

		key := path.Join(prefix, filepath.Base(file))
		if err := c.PutObject(ctx, key, contentTypeFor(file), data); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func contentTypeFor(file string) string {
	switch filepath.Ext(file) {
	case ".yaml", ".yml":
		return "application/yaml"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
