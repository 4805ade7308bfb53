package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

var ErrFileNotFound = errors.New("file not found")

type MinIORepository struct {
	client *minio.Client
	bucket string
	region string
	logger zerolog.Logger

	ensureMu      sync.Mutex
	bucketEnsured bool
}

func NewMinIORepository(endpoint, accessKey, secretKey, bucket, region string, useSSL bool, logger zerolog.Logger) (*MinIORepository, error) {
	// Инициализация клиента MinIO
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	repo := &MinIORepository{
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
	}

	// Best-effort bootstrap: на старте не валим сервис, если MinIO ещё не готов
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repo.ensureBucket(ctx); err != nil {
		logger.Error().Err(err).
			Str("endpoint", endpoint).
			Str("bucket", bucket).
			Msg("MinIO not ready during startup; will retry on demand")
	}

	logger.Info().
		Str("endpoint", endpoint).
		Str("bucket", bucket).
		Bool("ssl", useSSL).
		Msg("Connected to MinIO")

	return repo, nil
}

func (r *MinIORepository) ensureBucket(ctx context.Context) error {
	r.ensureMu.Lock()
	defer r.ensureMu.Unlock()
	if r.bucketEnsured {
		return nil
	}

	backoff := 500 * time.Millisecond
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("minio not ready: %w", err)
		}

		exists, err := r.client.BucketExists(ctx, r.bucket)
		if err != nil {
			time.Sleep(backoff)
			continue
		}

		if !exists {
			if err := r.client.MakeBucket(ctx, r.bucket, minio.MakeBucketOptions{Region: r.region}); err != nil {
				time.Sleep(backoff)
				continue
			}
			r.logger.Info().Str("bucket", r.bucket).Msg("Created new bucket")
		}

		r.bucketEnsured = true
		return nil
	}
}

func (r *MinIORepository) UploadFile(ctx context.Context, bucket, fileName string, file io.Reader, size int64, contentType string) error {
	if err := r.ensureBucket(ctx); err != nil {
		return err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadInfo, err := r.client.PutObject(ctx, bucket, fileName, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload file: %w", err)
	}

	r.logger.Debug().
		Str("bucket", bucket).
		Str("file", fileName).
		Str("etag", uploadInfo.ETag).
		Int64("size", size).
		Msg("File uploaded to MinIO")

	return nil
}

func (r *MinIORepository) DownloadFile(ctx context.Context, bucket, fileName string) (io.ReadCloser, int64, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return nil, 0, err
	}

	objInfo, err := r.client.StatObject(ctx, bucket, fileName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, 0, ErrFileNotFound
		}
		return nil, 0, fmt.Errorf("failed to stat file: %w", err)
	}

	object, err := r.client.GetObject(ctx, bucket, fileName, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get file: %w", err)
	}

	return object, objInfo.Size, nil
}

func (r *MinIORepository) DeleteFile(ctx context.Context, bucket, fileName string) error {
	if err := r.ensureBucket(ctx); err != nil {
		return err
	}

	err := r.client.RemoveObject(ctx, bucket, fileName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	r.logger.Debug().
		Str("bucket", bucket).
		Str("file", fileName).
		Msg("File deleted from MinIO")

	return nil
}

func (r *MinIORepository) FileExists(ctx context.Context, bucket, fileName string) (bool, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return false, err
	}

	_, err := r.client.StatObject(ctx, bucket, fileName, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}

	return true, nil
}

func (r *MinIORepository) GetPresignedURL(ctx context.Context, bucket, fileName string, expiresIn time.Duration) (string, error) {
	if err := r.ensureBucket(ctx); err != nil {
		return "", err
	}

	url, err := r.client.PresignedGetObject(ctx, bucket, fileName, expiresIn, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}
