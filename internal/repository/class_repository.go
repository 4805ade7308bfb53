package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
)

type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id string) (*models.Class, error)
	GetByTeacherID(ctx context.Context, teacherID string) ([]models.Class, error)
	Enroll(ctx context.Context, classID, studentID string) error
	IsEnrolled(ctx context.Context, classID, studentID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type classRepository struct {
	*PostgresRepository
}

func NewClassRepository(db *sql.DB, logger zerolog.Logger) ClassRepository {
	return &classRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	query := `
		INSERT INTO classes (id, name, teacher_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		class.ID,
		class.Name,
		class.TeacherID,
		class.CreatedAt,
		class.UpdatedAt,
	)

	return err
}

func (r *classRepository) GetByID(ctx context.Context, id string) (*models.Class, error) {
	query := `
		SELECT id, name, teacher_id, created_at, updated_at
		FROM classes
		WHERE id = $1
	`

	class := &models.Class{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&class.ID,
		&class.Name,
		&class.TeacherID,
		&class.CreatedAt,
		&class.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return class, err
}

func (r *classRepository) GetByTeacherID(ctx context.Context, teacherID string) ([]models.Class, error) {
	query := `
		SELECT id, name, teacher_id, created_at, updated_at
		FROM classes
		WHERE teacher_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []models.Class
	for rows.Next() {
		var class models.Class
		err := rows.Scan(
			&class.ID,
			&class.Name,
			&class.TeacherID,
			&class.CreatedAt,
			&class.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}

	return classes, rows.Err()
}

func (r *classRepository) Enroll(ctx context.Context, classID, studentID string) error {
	// Повторная запись того же студента не считается ошибкой
	query := `
		INSERT INTO class_students (class_id, student_id, enrolled_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (class_id, student_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, classID, studentID)
	return err
}

func (r *classRepository) IsEnrolled(ctx context.Context, classID, studentID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM class_students WHERE class_id = $1 AND student_id = $2)`

	var enrolled bool
	err := r.db.QueryRowContext(ctx, query, classID, studentID).Scan(&enrolled)
	return enrolled, err
}

func (r *classRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM classes WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
