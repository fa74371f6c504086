package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/content-planner/pkg/planner"
)

func TestS3Backend_Configuration(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyBucket", func(t *testing.T) {
		_, err := New(ctx, Config{Region: "us-east-1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket name is required")
	})

	t.Run("Defaults", func(t *testing.T) {
		backend, err := New(ctx, Config{
			Bucket:          "exports",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		})
		require.NoError(t, err)
		assert.Equal(t, "us-east-1", backend.config.Region)
		assert.Equal(t, time.Hour, backend.presignDuration)
	})

	t.Run("CustomPresignDuration", func(t *testing.T) {
		backend, err := New(ctx, Config{
			Bucket:          "exports",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
			PresignDuration: 600,
		})
		require.NoError(t, err)
		assert.Equal(t, 10*time.Minute, backend.presignDuration)
	})
}

func TestS3Backend_PresignedDownloadURL(t *testing.T) {
	backend, err := New(context.Background(), Config{
		Bucket:          "exports",
		Region:          "us-east-1",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	url, err := backend.GetDownloadURL(context.Background(), "exports/u/content-export.csv", "content-export.csv")
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/exports/exports/u/content-export.csv")
	assert.Contains(t, url, "X-Amz-Signature")
	assert.Contains(t, url, "response-content-disposition")
}

func TestS3Backend_ApplySSE(t *testing.T) {
	backend := &Backend{config: Config{EnableSSE: true, SSEAlgorithm: "aws:kms", SSEKMSKeyID: "key-1"}}

	input := &s3.PutObjectInput{}
	backend.applySSE(input)
	assert.Equal(t, "aws:kms", string(input.ServerSideEncryption))
	require.NotNil(t, input.SSEKMSKeyId)
	assert.Equal(t, "key-1", *input.SSEKMSKeyId)

	backend.config.EnableSSE = false
	input = &s3.PutObjectInput{}
	backend.applySSE(input)
	assert.Empty(t, input.ServerSideEncryption)
}

// TestS3Backend_Integration requires a running MinIO instance or S3 credentials
func TestS3Backend_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	endpoint := os.Getenv("AWS_S3_ENDPOINT")
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	bucket := os.Getenv("AWS_S3_BUCKET")
	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		t.Skip("Skipping integration test: S3/MinIO environment variables not set")
	}

	ctx := context.Background()
	backend, err := New(ctx, Config{
		Bucket:                 bucket,
		Region:                 "us-east-1",
		AccessKeyID:            accessKey,
		SecretAccessKey:        secretKey,
		Endpoint:               endpoint,
		UsePathStyle:           true,
		CreateBucketIfNotExist: true,
	})
	require.NoError(t, err)

	objectKey := fmt.Sprintf("test/integration/%d/export.csv", time.Now().UnixNano())
	data := []byte("title\n\"integration\"")

	require.NoError(t, backend.Upload(ctx, objectKey, bytes.NewReader(data), planner.ExportMimeType))

	reader, err := backend.Download(ctx, objectKey)
	require.NoError(t, err)
	got, err := io.ReadAll(reader)
	reader.Close()
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, backend.Delete(ctx, objectKey))
	_, err = backend.Download(ctx, objectKey)
	assert.ErrorIs(t, err, planner.ErrObjectNotFound)
}
