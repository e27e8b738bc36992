package source

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appConfig "smbsync/config"
	"smbsync/internal/models"
)

type s3Session struct {
	client     *s3.Client
	downloader *manager.Downloader
	bucket     string
}

func connectS3(ctx context.Context, cfg *appConfig.Config) (Session, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("bucket name must be configured for the s3 backend")
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     cfg.AccessKey,
				SecretAccessKey: cfg.SecretKey,
			},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.ApiURL != "" {
		client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.ApiURL)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsConfig)
	}

	return &s3Session{
		client:     client,
		downloader: manager.NewDownloader(client),
		bucket:     cfg.BucketName,
	}, nil
}

func (s *s3Session) List(ctx context.Context, dirPath string) ([]models.DirectoryEntry, error) {
	prefix := strings.Trim(dirPath, "/")
	if prefix != "" {
		prefix += "/"
	}

	var entries []models.DirectoryEntry

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, cp := range page.CommonPrefixes {
			key := strings.TrimSuffix(*cp.Prefix, "/")
			entries = append(entries, models.DirectoryEntry{
				Name: path.Base(key),
				Kind: models.EntryKindDirectory,
				Path: "/" + key,
			})
		}

		for _, obj := range page.Contents {
			key := *obj.Key
			if strings.HasSuffix(key, "/") {
				continue
			}
			entry := models.DirectoryEntry{
				Name: path.Base(key),
				Kind: models.EntryKindFile,
				Path: "/" + key,
			}
			if obj.Size != nil {
				size := *obj.Size
				entry.SizeBytes = &size
			}
			if obj.LastModified != nil {
				local := obj.LastModified.Local()
				entry.LastWriteTime = &local
			}
			// Object stores expose no creation time; the field stays unknown.
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

func (s *s3Session) Fetch(ctx context.Context, remotePath, localPath string) error {
	dst, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %q: %w", localPath, err)
	}
	defer dst.Close()

	key := strings.TrimPrefix(remotePath, "/")
	_, err = s.downloader.Download(ctx, dst, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to download %q: %w", remotePath, err)
	}
	return nil
}

func (s *s3Session) Close() error {
	// The SDK client holds no per-session resources to release.
	return nil
}
