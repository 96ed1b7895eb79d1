package s3

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/blueprints/internal/util/retry"
)

// testClient creates a Client backed by a test HTTP server that receives
// real S3 XML-protocol requests.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:           "fsn1",
		BaseEndpoint:     aws.String(server.URL),
		UsePathStyle:     true,
		Credentials:      credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		RetryMaxAttempts: 1,
	})

	return &Client{s3: client, region: "fsn1", policy: retry.Policy{Attempts: 2, Delay: time.Millisecond}}
}

func xmlError(w http.ResponseWriter, statusCode int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message></Error>`, code, code)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient("", "nbg1", "key", "secret")
	require.NoError(t, err)
	assert.Equal(t, "nbg1", client.Region())
	assert.Equal(t, "https://nbg1.your-objectstorage.com", Endpoint("nbg1"))
}

func TestEnsureBucket_Creates(t *testing.T) {
	t.Parallel()

	var created atomic.Bool
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			assert.Equal(t, "/bp-logs", r.URL.Path)
			created.Store(true)
			w.WriteHeader(http.StatusOK)
		}
	}))

	require.NoError(t, client.EnsureBucket(context.Background(), "bp-logs"))
	assert.True(t, created.Load())
}

func TestEnsureBucket_Existing(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			t.Error("bucket should not be created")
		}
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.EnsureBucket(context.Background(), "bp-logs"))
}

func TestEnsureBucket_OwnedByYou(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		xmlError(w, http.StatusConflict, "BucketAlreadyOwnedByYou")
	}))

	require.NoError(t, client.EnsureBucket(context.Background(), "bp-logs"))
}

func TestEnsureBucket_TakenIsFatal(t *testing.T) {
	t.Parallel()

	var puts atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		puts.Add(1)
		xmlError(w, http.StatusConflict, "BucketAlreadyExists")
	}))

	err := client.EnsureBucket(context.Background(), "bp-logs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "taken by another account")
	assert.Equal(t, int32(1), puts.Load())
}

func TestEnsureBucket_ThrottledRetried(t *testing.T) {
	t.Parallel()

	var puts atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if puts.Add(1) == 1 {
			xmlError(w, http.StatusServiceUnavailable, "SlowDown")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.EnsureBucket(context.Background(), "bp-logs"))
	assert.Equal(t, int32(2), puts.Load())
}

func TestBucketExists_Error(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := client.BucketExists(context.Background(), "bp-logs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check bucket bp-logs")
}

func TestPutObject(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/bp-logs/.blueprint", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.PutObject(context.Background(), "bp-logs", ".blueprint", []byte("east")))
}

func TestDeleteBucket_Missing(t *testing.T) {
	t.Parallel()

	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlError(w, http.StatusNotFound, "NoSuchBucket")
	}))

	require.NoError(t, client.DeleteBucket(context.Background(), "bp-logs"))
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		owned     bool
		taken     bool
		notFound  bool
		throttled bool
	}{
		{name: "plain", err: errors.New("boom")},
		{name: "typed owned", err: &s3types.BucketAlreadyOwnedByYou{}, owned: true},
		{name: "typed exists", err: &s3types.BucketAlreadyExists{}, taken: true},
		{name: "typed no such bucket", err: &s3types.NoSuchBucket{}, notFound: true},
		{name: "code not found", err: &smithy.GenericAPIError{Code: "NotFound"}, notFound: true},
		{name: "code slow down", err: &smithy.GenericAPIError{Code: "SlowDown"}, throttled: true},
		{name: "wrapped owned", err: fmt.Errorf("op: %w", &smithy.GenericAPIError{Code: "BucketAlreadyOwnedByYou"}), owned: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.owned, isBucketAlreadyOwnedByYou(tt.err))
			assert.Equal(t, tt.taken, isBucketTaken(tt.err))
			assert.Equal(t, tt.notFound, isNotFoundError(tt.err))
			assert.Equal(t, tt.throttled, isThrottled(tt.err))
		})
	}
}
