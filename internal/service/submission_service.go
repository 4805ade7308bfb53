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
)

type SubmitInput struct {
	StudentID    string
	ClassID      string
	AssignmentID string
	FileName     string
	Content      []byte
}

type SubmissionService interface {
	SubmitAssignment(ctx context.Context, input SubmitInput) (*models.Submission, error)
	ListOwn(ctx context.Context, studentID, classID string) ([]models.SubmissionWithDetails, error)
	ListForAssignment(ctx context.Context, teacherID, assignmentID string) ([]models.SubmissionWithDetails, error)
	Grade(ctx context.Context, teacherID, submissionID string, grade int, feedback string) (*models.Submission, error)
}

type submissionService struct {
	submissionRepo repository.SubmissionRepository
	fileRepo       repository.FileRepository
	classRepo      repository.ClassRepository
	storageRepo    repository.StorageRepository
	queue          Enqueuer
	config         UploadConfig
	logger         zerolog.Logger
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	fileRepo repository.FileRepository,
	classRepo repository.ClassRepository,
	storageRepo repository.StorageRepository,
	queue Enqueuer,
	config UploadConfig,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		fileRepo:       fileRepo,
		classRepo:      classRepo,
		storageRepo:    storageRepo,
		queue:          queue,
		config:         config,
		logger:         logger,
	}
}

func (s *submissionService) SubmitAssignment(ctx context.Context, input SubmitInput) (*models.Submission, error) {
	assignment, err := s.fileRepo.GetByID(ctx, input.AssignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil || assignment.FileType != models.FileTypeAssignment.String() {
		return nil, ErrNotFound
	}
	// Задание должно относиться к классу из запроса
	if input.ClassID != "" && assignment.ClassID != input.ClassID {
		return nil, ErrNotFound
	}

	// Сдавать работы могут только студенты этого класса
	enrolled, err := s.classRepo.IsEnrolled(ctx, assignment.ClassID, input.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	if int64(len(input.Content)) > s.config.MaxUploadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, s.config.MaxUploadSize)
	}

	ext := strings.ToLower(filepath.Ext(input.FileName))
	allowed := false
	for _, a := range s.config.AllowedTypes {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, ext)
	}

	submissionID := uuid.New().String()
	storagePath := fmt.Sprintf("submissions/%s/%s%s", input.AssignmentID, submissionID, ext)

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	if err := s.storageRepo.UploadFile(
		ctx,
		s.config.BucketName,
		storagePath,
		bytes.NewReader(input.Content),
		int64(len(input.Content)),
		mimeType,
	); err != nil {
		return nil, fmt.Errorf("failed to upload submission to storage: %w", err)
	}

	now := time.Now().UTC()
	submission := &models.Submission{
		ID:           submissionID,
		StudentID:    input.StudentID,
		AssignmentID: input.AssignmentID,
		ClassID:      assignment.ClassID,
		StoragePath:  storagePath,
		OriginalName: input.FileName,
		Status:       "submitted",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	job := models.UploadJob{FileID: submission.ID, FilePath: submission.StoragePath}
	if err := s.queue.Enqueue(ctx, TopicFileProcess, job); err != nil {
		s.logger.Error().Err(err).
			Str("submission_id", submission.ID).
			Msg("Failed to enqueue submission job")
		return nil, fmt.Errorf("%w: %v", ErrEnqueueFailed, err)
	}

	s.logger.Info().
		Str("submission_id", submission.ID).
		Str("assignment_id", submission.AssignmentID).
		Str("student_id", submission.StudentID).
		Msg("Assignment submitted")

	return submission, nil
}

func (s *submissionService) ListOwn(ctx context.Context, studentID, classID string) ([]models.SubmissionWithDetails, error) {
	enrolled, err := s.classRepo.IsEnrolled(ctx, classID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	submissions, err := s.submissionRepo.GetByClassAndStudent(ctx, classID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return submissions, nil
}

func (s *submissionService) ListForAssignment(ctx context.Context, teacherID, assignmentID string) ([]models.SubmissionWithDetails, error) {
	assignment, err := s.fileRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	if assignment == nil {
		return nil, ErrNotFound
	}
	if assignment.UploadedBy != teacherID {
		return nil, ErrForbidden
	}

	submissions, err := s.submissionRepo.GetByAssignmentID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return submissions, nil
}

func (s *submissionService) Grade(ctx context.Context, teacherID, submissionID string, grade int, feedback string) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission == nil {
		return nil, ErrNotFound
	}

	// Оценивать может только учитель класса, к которому относится работа
	class, err := s.classRepo.GetByID(ctx, submission.ClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	if class == nil || class.TeacherID != teacherID {
		return nil, ErrForbidden
	}

	if err := s.submissionRepo.UpdateGrade(ctx, submissionID, grade, feedback); err != nil {
		return nil, fmt.Errorf("failed to update grade: %w", err)
	}

	submission.Grade = &grade
	submission.Feedback = feedback
	submission.Status = "graded"

	s.logger.Info().
		Str("submission_id", submissionID).
		Int("grade", grade).
		Msg("Submission graded")

	return submission, nil
}
