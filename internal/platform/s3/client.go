package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/imamik/blueprints/internal/util/retry"
)

// BucketManager is the subset of bucket operations used by resource providers.
type BucketManager interface {
	EnsureBucket(ctx context.Context, bucketName string) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, key string, data []byte) error
	DeleteBucket(ctx context.Context, bucketName string) error
}

// Client wraps the S3 client for Hetzner Object Storage.
type Client struct {
	s3     *s3.Client
	region string
	policy retry.Policy
}

var _ BucketManager = (*Client)(nil)

// Endpoint returns the Hetzner Object Storage endpoint for a location.
func Endpoint(region string) string {
	return fmt.Sprintf("https://%s.your-objectstorage.com", region)
}

// NewClient creates a new S3 client for Hetzner Object Storage. An empty
// endpoint is derived from the region.
func NewClient(endpoint, region, accessKey, secretKey string) (*Client, error) {
	if endpoint == "" {
		endpoint = Endpoint(region)
	}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = false // Hetzner uses virtual-hosted style
	})

	return &Client{s3: client, region: region, policy: retry.DefaultPolicy()}, nil
}

// Region returns the location the client talks to.
func (c *Client) Region() string {
	return c.region
}

// EnsureBucket creates the bucket unless it already exists and is owned by
// the caller. Throttling responses are retried.
func (c *Client) EnsureBucket(ctx context.Context, bucketName string) error {
	exists, err := c.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	policy := c.policy
	policy.OnRetry = func(attempt int, err error) {
		log.Printf("[s3] create bucket %s: attempt %d failed, retrying: %v", bucketName, attempt, err)
	}
	return retry.Do(ctx, policy, func(ctx context.Context) error {
		_, err := c.s3.CreateBucket(ctx, &s3.CreateBucketInput{
			Bucket: aws.String(bucketName),
		})
		switch {
		case err == nil, isBucketAlreadyOwnedByYou(err):
			return nil
		case isThrottled(err):
			return err
		case isBucketTaken(err):
			return retry.Fatal(fmt.Errorf("bucket name %s is taken by another account", bucketName))
		default:
			return retry.Fatal(fmt.Errorf("failed to create bucket %s: %w", bucketName, err))
		}
	})
}

// BucketExists checks if a bucket exists and is accessible.
func (c *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	return true, nil
}

// PutObject uploads an object to a bucket.
func (c *Client) PutObject(ctx context.Context, bucketName, key string, data []byte) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s in bucket %s: %w", key, bucketName, err)
	}
	return nil
}

// DeleteBucket deletes a bucket. The bucket must be empty. A missing bucket
// is not an error.
func (c *Client) DeleteBucket(ctx context.Context, bucketName string) error {
	_, err := c.s3.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(bucketName),
	})
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete bucket %s: %w", bucketName, err)
	}
	return nil
}

func isBucketAlreadyOwnedByYou(err error) bool {
	var baoby *types.BucketAlreadyOwnedByYou
	if errors.As(err, &baoby) {
		return true
	}
	return hasErrorCode(err, "BucketAlreadyOwnedByYou")
}

// isBucketTaken reports a bucket name owned by a different account.
func isBucketTaken(err error) bool {
	var bae *types.BucketAlreadyExists
	if errors.As(err, &bae) {
		return true
	}
	return hasErrorCode(err, "BucketAlreadyExists")
}

func isNotFoundError(err error) bool {
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	return hasErrorCode(err, "NotFound", "NoSuchBucket", "404")
}

func isThrottled(err error) bool {
	return hasErrorCode(err, "SlowDown", "ServiceUnavailable", "RequestTimeout", "OperationAborted")
}

// hasErrorCode falls back to API error codes for S3-compatible services that
// do not return the SDK's typed errors.
func hasErrorCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.ErrorCode() == code {
			return true
		}
	}
	return false
}
