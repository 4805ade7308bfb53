package service

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
	"github.com/mjnyampinga/Educational-File-Manager/internal/repository"
	"github.com/mjnyampinga/Educational-File-Manager/pkg/hash"
)

// Enqueuer — контракт очереди заданий (см. internal/queue). Постановка
// задания возвращает ошибку сразу, выполнение обработчика не ожидается.
type Enqueuer interface {
	Enqueue(ctx context.Context, topic string, payload interface{}) error
}

type UploadConfig struct {
	MaxUploadSize int64
	BucketName    string
	AllowedTypes  []string
}

type UploadInput struct {
	TeacherID string
	ClassID   string
	Name      string
	FileType  string
	Deadline  *time.Time
	FileName  string
	Content   []byte
}

type UploadService interface {
	UploadFile(ctx context.Context, input UploadInput) (*models.File, error)
	UpdateFile(ctx context.Context, teacherID, fileID string, req models.UpdateFileRequest) (*models.File, error)
	DeleteFile(ctx context.Context, teacherID, fileID string) error
	ListMaterials(ctx context.Context, user *models.User, classID string) ([]models.File, error)
	GetFile(ctx context.Context, user *models.User, fileID string) (*models.File, error)
	FileURL(ctx context.Context, user *models.User, fileID string, expiry time.Duration) (string, error)
}

type uploadService struct {
	fileRepo    repository.FileRepository
	classRepo   repository.ClassRepository
	storageRepo repository.StorageRepository
	queue       Enqueuer
	hasher      hash.Hasher
	config      UploadConfig
	logger      zerolog.Logger
}

func NewUploadService(
	fileRepo repository.FileRepository,
	classRepo repository.ClassRepository,
	storageRepo repository.StorageRepository,
	queue Enqueuer,
	hasher hash.Hasher,
	config UploadConfig,
	logger zerolog.Logger,
) UploadService {
	return &uploadService{
		fileRepo:    fileRepo,
		classRepo:   classRepo,
		storageRepo: storageRepo,
		queue:       queue,
		hasher:      hasher,
		config:      config,
		logger:      logger,
	}
}

func (s *uploadService) UploadFile(ctx context.Context, input UploadInput) (*models.File, error) {
	class, err := s.classRepo.GetByID(ctx, input.ClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	if class == nil {
		return nil, ErrNotFound
	}
	if class.TeacherID != input.TeacherID {
		return nil, ErrForbidden
	}

	// Проверяем размер файла
	if int64(len(input.Content)) > s.config.MaxUploadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, s.config.MaxUploadSize)
	}

	// Проверяем расширение
	ext := strings.ToLower(filepath.Ext(input.FileName))
	if !s.isAllowedType(ext) {
		return nil, fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, ext)
	}

	fileHash, err := s.hasher.Calculate(input.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate file hash: %w", err)
	}

	fileID := uuid.New().String()
	storagePath := fmt.Sprintf("uploads/%s/%s%s", input.ClassID, fileID, ext)

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	// Дедупликация по хэшу: одинаковое содержимое хранится один раз,
	// метаданные создаются для каждой загрузки
	existing, err := s.fileRepo.GetByHash(ctx, fileHash)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate: %w", err)
	}
	if existing != nil {
		storagePath = existing.StoragePath
		s.logger.Info().
			Str("hash", fileHash).
			Str("existing_file_id", existing.ID).
			Msg("Duplicate content, reusing stored object")
	} else {
		if err := s.storageRepo.UploadFile(
			ctx,
			s.config.BucketName,
			storagePath,
			bytes.NewReader(input.Content),
			int64(len(input.Content)),
			mimeType,
		); err != nil {
			return nil, fmt.Errorf("failed to upload file to storage: %w", err)
		}
	}

	now := time.Now().UTC()
	file := &models.File{
		ID:            fileID,
		Name:          input.Name,
		OriginalName:  input.FileName,
		StorageBucket: s.config.BucketName,
		StoragePath:   storagePath,
		MimeType:      mimeType,
		FileSize:      int64(len(input.Content)),
		Hash:          fileHash,
		ClassID:       input.ClassID,
		UploadedBy:    input.TeacherID,
		FileType:      input.FileType,
		Deadline:      input.Deadline,
		Status:        models.FileStatusUploaded.String(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to save file metadata: %w", err)
	}

	// Ставим фоновую обработку в очередь. Ошибка постановки возвращается
	// вызывающей стороне; сама запись остается и операцию можно повторить.
	job := models.UploadJob{FileID: file.ID, FilePath: file.StoragePath}
	if err := s.queue.Enqueue(ctx, TopicFileProcess, job); err != nil {
		s.logger.Error().Err(err).
			Str("file_id", file.ID).
			Msg("Failed to enqueue upload job")
		return nil, fmt.Errorf("%w: %v", ErrEnqueueFailed, err)
	}

	s.logger.Info().
		Str("file_id", file.ID).
		Str("class_id", file.ClassID).
		Str("type", file.FileType).
		Msg("File uploaded")

	return file, nil
}

func (s *uploadService) UpdateFile(ctx context.Context, teacherID, fileID string, req models.UpdateFileRequest) (*models.File, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	if file == nil {
		return nil, ErrNotFound
	}
	if file.UploadedBy != teacherID {
		return nil, ErrForbidden
	}

	if req.Name != "" {
		file.Name = req.Name
	}
	if req.FileType != "" {
		file.FileType = req.FileType
	}
	if req.Deadline != "" {
		deadline, err := time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline format: %w", err)
		}
		file.Deadline = &deadline
	}

	if err := s.fileRepo.Update(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to update file: %w", err)
	}

	return file, nil
}

func (s *uploadService) DeleteFile(ctx context.Context, teacherID, fileID string) error {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}
	if file == nil {
		return ErrNotFound
	}
	if file.UploadedBy != teacherID {
		return ErrForbidden
	}

	if err := s.storageRepo.DeleteFile(ctx, file.StorageBucket, file.StoragePath); err != nil {
		// Запись все равно удаляем; объект в хранилище станет сиротой
		s.logger.Error().Err(err).
			Str("file_id", fileID).
			Msg("Failed to delete file from storage")
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.logger.Info().Str("file_id", fileID).Msg("File deleted")
	return nil
}

func (s *uploadService) ListMaterials(ctx context.Context, user *models.User, classID string) ([]models.File, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	if class == nil {
		return nil, ErrNotFound
	}

	// Учитель видит материалы своих классов, студент — классов, куда записан
	if user.IsTeacher() {
		if class.TeacherID != user.ID {
			return nil, ErrForbidden
		}
	} else {
		enrolled, err := s.classRepo.IsEnrolled(ctx, classID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check enrollment: %w", err)
		}
		if !enrolled {
			return nil, ErrNotEnrolled
		}
	}

	files, err := s.fileRepo.GetByClassID(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return files, nil
}

// GetFile возвращает метаданные файла с проверкой доступа: учитель
// своего класса или записанный студент
func (s *uploadService) GetFile(ctx context.Context, user *models.User, fileID string) (*models.File, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	if file == nil {
		return nil, ErrNotFound
	}

	if user.IsTeacher() {
		if file.UploadedBy != user.ID {
			return nil, ErrForbidden
		}
		return file, nil
	}

	enrolled, err := s.classRepo.IsEnrolled(ctx, file.ClassID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}
	return file, nil
}

func (s *uploadService) FileURL(ctx context.Context, user *models.User, fileID string, expiry time.Duration) (string, error) {
	file, err := s.GetFile(ctx, user, fileID)
	if err != nil {
		return "", err
	}

	url, err := s.storageRepo.GetPresignedURL(ctx, file.StorageBucket, file.StoragePath, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate file URL: %w", err)
	}
	return url, nil
}

func (s *uploadService) isAllowedType(ext string) bool {
	for _, allowed := range s.config.AllowedTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}
