package source

import (
	"context"
	"os"
	"testing"

	"smbsync/config"
)

// Integration tests for the S3 backend
// These tests require a real S3 connection and are skipped by default
// To run these tests, set the environment variable S3_INTEGRATION_TEST=true

func TestS3ListIntegration(t *testing.T) {
	if os.Getenv("S3_INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test; set S3_INTEGRATION_TEST=true to run")
	}

	cfg := &config.Config{
		SourceBackend: "s3",
		BucketName:    os.Getenv("TEST_BUCKET_NAME"),
		Region:        os.Getenv("TEST_REGION"),
		ApiURL:        os.Getenv("TEST_API_URL"),
		AccessKey:     os.Getenv("TEST_ACCESS_KEY"),
		SecretKey:     os.Getenv("TEST_SECRET_KEY"),
	}

	session, err := Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer session.Close()

	entries, err := session.List(context.Background(), "/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	for _, entry := range entries {
		if entry.Kind == "file" && entry.CreationTime != nil {
			t.Errorf("object %s has a creation time; object stores do not expose one", entry.Name)
		}
		if entry.Path == "" {
			t.Errorf("entry %s has an empty path", entry.Name)
		}
	}
}

func TestConnectS3RequiresBucket(t *testing.T) {
	cfg := &config.Config{SourceBackend: "s3"}
	if _, err := Connect(context.Background(), cfg); err == nil {
		t.Error("Connect() without bucket returned nil error")
	}
}
