package repository

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// StorageRepository абстрагирует провайдера объектного хранилища
type StorageRepository interface {
	UploadFile(ctx context.Context, bucket, fileName string, file io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, bucket, fileName string) (io.ReadCloser, int64, error)
	DeleteFile(ctx context.Context, bucket, fileName string) error
	FileExists(ctx context.Context, bucket, fileName string) (bool, error)
	GetPresignedURL(ctx context.Context, bucket, fileName string, expiresIn time.Duration) (string, error)
}

type storageRepository struct {
	provider StorageRepository
	logger   zerolog.Logger
}

func NewStorageRepository(provider StorageRepository, logger zerolog.Logger) StorageRepository {
	return &storageRepository{
		provider: provider,
		logger:   logger,
	}
}

func (r *storageRepository) UploadFile(ctx context.Context, bucket, fileName string, file io.Reader, size int64, contentType string) error {
	return r.provider.UploadFile(ctx, bucket, fileName, file, size, contentType)
}

func (r *storageRepository) DownloadFile(ctx context.Context, bucket, fileName string) (io.ReadCloser, int64, error) {
	return r.provider.DownloadFile(ctx, bucket, fileName)
}

func (r *storageRepository) DeleteFile(ctx context.Context, bucket, fileName string) error {
	return r.provider.DeleteFile(ctx, bucket, fileName)
}

func (r *storageRepository) FileExists(ctx context.Context, bucket, fileName string) (bool, error) {
	return r.provider.FileExists(ctx, bucket, fileName)
}

func (r *storageRepository) GetPresignedURL(ctx context.Context, bucket, fileName string, expiresIn time.Duration) (string, error) {
	return r.provider.GetPresignedURL(ctx, bucket, fileName, expiresIn)
}
