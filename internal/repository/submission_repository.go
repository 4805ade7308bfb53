package repository

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	GetByClassAndStudent(ctx context.Context, classID, studentID string) ([]models.SubmissionWithDetails, error)
	GetByAssignmentID(ctx context.Context, assignmentID string) ([]models.SubmissionWithDetails, error)
	UpdateGrade(ctx context.Context, id string, grade int, feedback string) error
	Delete(ctx context.Context, id string) error
}

type submissionRepository struct {
	*PostgresRepository
}

func NewSubmissionRepository(db *sql.DB, logger zerolog.Logger) SubmissionRepository {
	return &submissionRepository{
		PostgresRepository: NewPostgresRepository(db, logger),
	}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	query := `
		INSERT INTO submissions (id, student_id, assignment_id, class_id, storage_path,
			original_name, grade, feedback, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		submission.ID,
		submission.StudentID,
		submission.AssignmentID,
		submission.ClassID,
		submission.StoragePath,
		submission.OriginalName,
		submission.Grade,
		submission.Feedback,
		submission.Status,
		submission.CreatedAt,
		submission.UpdatedAt,
	)

	return err
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query := `
		SELECT id, student_id, assignment_id, class_id, storage_path, original_name,
			grade, feedback, status, created_at, updated_at
		FROM submissions
		WHERE id = $1
	`

	submission := &models.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&submission.ID,
		&submission.StudentID,
		&submission.AssignmentID,
		&submission.ClassID,
		&submission.StoragePath,
		&submission.OriginalName,
		&submission.Grade,
		&submission.Feedback,
		&submission.Status,
		&submission.CreatedAt,
		&submission.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return submission, err
}

func (r *submissionRepository) GetByClassAndStudent(ctx context.Context, classID, studentID string) ([]models.SubmissionWithDetails, error) {
	query := `
		SELECT
			s.id, s.student_id, s.assignment_id, s.class_id, s.storage_path, s.original_name,
			s.grade, s.feedback, s.status, s.created_at, s.updated_at,
			u.name AS student_name, u.email AS student_email,
			f.name AS assignment_name
		FROM submissions s
		JOIN users u ON s.student_id = u.id
		JOIN files f ON s.assignment_id = f.id
		WHERE s.class_id = $1 AND s.student_id = $2
		ORDER BY s.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, classID, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubmissionsWithDetails(rows)
}

func (r *submissionRepository) GetByAssignmentID(ctx context.Context, assignmentID string) ([]models.SubmissionWithDetails, error) {
	query := `
		SELECT
			s.id, s.student_id, s.assignment_id, s.class_id, s.storage_path, s.original_name,
			s.grade, s.feedback, s.status, s.created_at, s.updated_at,
			u.name AS student_name, u.email AS student_email,
			f.name AS assignment_name
		FROM submissions s
		JOIN users u ON s.student_id = u.id
		JOIN files f ON s.assignment_id = f.id
		WHERE s.assignment_id = $1
		ORDER BY s.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubmissionsWithDetails(rows)
}

func (r *submissionRepository) UpdateGrade(ctx context.Context, id string, grade int, feedback string) error {
	query := `
		UPDATE submissions
		SET grade = $2, feedback = $3, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, grade, feedback)
	return err
}

func (r *submissionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM submissions WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func scanSubmissionsWithDetails(rows *sql.Rows) ([]models.SubmissionWithDetails, error) {
	var submissions []models.SubmissionWithDetails
	for rows.Next() {
		var s models.SubmissionWithDetails
		err := rows.Scan(
			&s.ID,
			&s.StudentID,
			&s.AssignmentID,
			&s.ClassID,
			&s.StoragePath,
			&s.OriginalName,
			&s.Grade,
			&s.Feedback,
			&s.Status,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.StudentName,
			&s.StudentEmail,
			&s.AssignmentName,
		)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}

	return submissions, rows.Err()
}
