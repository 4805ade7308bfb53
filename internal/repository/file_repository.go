package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
)

type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id string) (*models.File, error)
	GetByClassID(ctx context.Context, classID string) ([]models.File, error)
	GetByHash(ctx context.Context, hash string) (*models.File, error)
	GetWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]models.File, error)
	Update(ctx context.Context, file *models.File) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type fileRepository struct {
	*PostgresRepository
}

func NewFileRepository(db *sql.DB, logger zerolog.Logger) FileRepository {
	return &fileRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *fileRepository) Create(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO files (id, name, original_name, storage_bucket, storage_path, mime_type,
			file_size, hash, class_id, uploaded_by, file_type, deadline, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.Name,
		file.OriginalName,
		file.StorageBucket,
		file.StoragePath,
		file.MimeType,
		file.FileSize,
		file.Hash,
		file.ClassID,
		file.UploadedBy,
		file.FileType,
		file.Deadline,
		file.Status,
		file.CreatedAt,
		file.UpdatedAt,
	)

	return err
}

func (r *fileRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := `
		SELECT id, name, original_name, storage_bucket, storage_path, mime_type,
			file_size, hash, class_id, uploaded_by, file_type, deadline, status, created_at, updated_at
		FROM files
		WHERE id = $1
	`

	file := &models.File{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&file.ID,
		&file.Name,
		&file.OriginalName,
		&file.StorageBucket,
		&file.StoragePath,
		&file.MimeType,
		&file.FileSize,
		&file.Hash,
		&file.ClassID,
		&file.UploadedBy,
		&file.FileType,
		&file.Deadline,
		&file.Status,
		&file.CreatedAt,
		&file.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return file, err
}

func (r *fileRepository) GetByClassID(ctx context.Context, classID string) ([]models.File, error) {
	query := `
		SELECT id, name, original_name, storage_bucket, storage_path, mime_type,
			file_size, hash, class_id, uploaded_by, file_type, deadline, status, created_at, updated_at
		FROM files
		WHERE class_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFiles(rows)
}

func (r *fileRepository) GetByHash(ctx context.Context, hash string) (*models.File, error) {
	query := `
		SELECT id, name, original_name, storage_bucket, storage_path, mime_type,
			file_size, hash, class_id, uploaded_by, file_type, deadline, status, created_at, updated_at
		FROM files
		WHERE hash = $1
		LIMIT 1
	`

	file := &models.File{}
	err := r.db.QueryRowContext(ctx, query, hash).Scan(
		&file.ID,
		&file.Name,
		&file.OriginalName,
		&file.StorageBucket,
		&file.StoragePath,
		&file.MimeType,
		&file.FileSize,
		&file.Hash,
		&file.ClassID,
		&file.UploadedBy,
		&file.FileType,
		&file.Deadline,
		&file.Status,
		&file.CreatedAt,
		&file.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return file, err
}

func (r *fileRepository) GetWithDeadlineBetween(ctx context.Context, from, to time.Time) ([]models.File, error) {
	query := `
		SELECT id, name, original_name, storage_bucket, storage_path, mime_type,
			file_size, hash, class_id, uploaded_by, file_type, deadline, status, created_at, updated_at
		FROM files
		WHERE file_type = 'assignment' AND deadline IS NOT NULL AND deadline > $1 AND deadline <= $2
		ORDER BY deadline
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFiles(rows)
}

func (r *fileRepository) Update(ctx context.Context, file *models.File) error {
	query := `
		UPDATE files
		SET name = $2, file_type = $3, deadline = $4, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.Name,
		file.FileType,
		file.Deadline,
	)

	return err
}

func (r *fileRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE files
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}

func (r *fileRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM files WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func scanFiles(rows *sql.Rows) ([]models.File, error) {
	var files []models.File
	for rows.Next() {
		var file models.File
		err := rows.Scan(
			&file.ID,
			&file.Name,
			&file.OriginalName,
			&file.StorageBucket,
			&file.StoragePath,
			&file.MimeType,
			&file.FileSize,
			&file.Hash,
			&file.ClassID,
			&file.UploadedBy,
			&file.FileType,
			&file.Deadline,
			&file.Status,
			&file.CreatedAt,
			&file.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, rows.Err()
}
