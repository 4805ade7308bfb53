package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
	"github.com/mjnyampinga/Educational-File-Manager/internal/repository"
)

type ClassService interface {
	CreateClass(ctx context.Context, teacherID, name string) (*models.Class, error)
	EnrollStudent(ctx context.Context, teacher *models.User, classID, studentID string) error
	GetClass(ctx context.Context, id string) (*models.Class, error)
	ListTeacherClasses(ctx context.Context, teacherID string) ([]models.Class, error)
}

type classService struct {
	classRepo repository.ClassRepository
	userRepo  repository.UserRepository
	logger    zerolog.Logger
}

func NewClassService(classRepo repository.ClassRepository, userRepo repository.UserRepository, logger zerolog.Logger) ClassService {
	return &classService{
		classRepo: classRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

func (s *classService) CreateClass(ctx context.Context, teacherID, name string) (*models.Class, error) {
	now := time.Now().UTC()
	class := &models.Class{
		ID:        uuid.New().String(),
		Name:      name,
		TeacherID: teacherID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}

	s.logger.Info().
		Str("class_id", class.ID).
		Str("teacher_id", teacherID).
		Msg("Class created")

	return class, nil
}

func (s *classService) EnrollStudent(ctx context.Context, teacher *models.User, classID, studentID string) error {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return fmt.Errorf("failed to get class: %w", err)
	}
	if class == nil {
		return ErrNotFound
	}
	if class.TeacherID != teacher.ID {
		return ErrForbidden
	}

	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return ErrNotFound
	}
	if !student.IsStudent() {
		return fmt.Errorf("user %s is not a student: %w", studentID, ErrForbidden)
	}

	if err := s.classRepo.Enroll(ctx, classID, studentID); err != nil {
		return fmt.Errorf("failed to enroll student: %w", err)
	}

	s.logger.Info().
		Str("class_id", classID).
		Str("student_id", studentID).
		Msg("Student enrolled")

	return nil
}

func (s *classService) GetClass(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	if class == nil {
		return nil, ErrNotFound
	}
	return class, nil
}

func (s *classService) ListTeacherClasses(ctx context.Context, teacherID string) ([]models.Class, error) {
	classes, err := s.classRepo.GetByTeacherID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, nil
}
