package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
)

type fakeSubmissionRepo struct {
	submissions map[string]*models.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[string]*models.Submission)}
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	r.submissions[submission.ID] = submission
	return nil
}

func (r *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	return r.submissions[id], nil
}

func (r *fakeSubmissionRepo) GetByClassAndStudent(ctx context.Context, classID, studentID string) ([]models.SubmissionWithDetails, error) {
	var out []models.SubmissionWithDetails
	for _, s := range r.submissions {
		if s.ClassID == classID && s.StudentID == studentID {
			out = append(out, models.SubmissionWithDetails{Submission: *s})
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) GetByAssignmentID(ctx context.Context, assignmentID string) ([]models.SubmissionWithDetails, error) {
	var out []models.SubmissionWithDetails
	for _, s := range r.submissions {
		if s.AssignmentID == assignmentID {
			out = append(out, models.SubmissionWithDetails{Submission: *s})
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) UpdateGrade(ctx context.Context, id string, grade int, feedback string) error {
	if s, ok := r.submissions[id]; ok {
		s.Grade = &grade
		s.Feedback = feedback
		s.Status = "graded"
	}
	return nil
}

func (r *fakeSubmissionRepo) Delete(ctx context.Context, id string) error {
	delete(r.submissions, id)
	return nil
}

func newTestSubmissionService(subRepo *fakeSubmissionRepo, fileRepo *fakeFileRepo, classRepo *fakeClassRepo, queue *fakeQueue) SubmissionService {
	return NewSubmissionService(
		subRepo,
		fileRepo,
		classRepo,
		newFakeStorage(),
		queue,
		testUploadConfig(),
		zerolog.Nop(),
	)
}

func seedAssignment(fileRepo *fakeFileRepo, id, classID, teacherID string) {
	fileRepo.files[id] = &models.File{
		ID:         id,
		Name:       "Homework 1",
		ClassID:    classID,
		UploadedBy: teacherID,
		FileType:   models.FileTypeAssignment.String(),
	}
}

func TestSubmitAssignmentEnqueuesJob(t *testing.T) {
	subRepo := newFakeSubmissionRepo()
	fileRepo := newFakeFileRepo()
	classRepo := newFakeClassRepo()
	queue := &fakeQueue{}

	seedClass(classRepo, "class-1", "teacher-1")
	seedAssignment(fileRepo, "hw-1", "class-1", "teacher-1")
	classRepo.enrollments["class-1:student-1"] = true

	svc := newTestSubmissionService(subRepo, fileRepo, classRepo, queue)

	submission, err := svc.SubmitAssignment(context.Background(), SubmitInput{
		StudentID:    "student-1",
		ClassID:      "class-1",
		AssignmentID: "hw-1",
		FileName:     "answers.pdf",
		Content:      []byte("my answers"),
	})
	require.NoError(t, err)

	// Класс не из запроса, а из самого задания
	_, err = svc.SubmitAssignment(context.Background(), SubmitInput{
		StudentID:    "student-1",
		ClassID:      "other-class",
		AssignmentID: "hw-1",
		FileName:     "answers.pdf",
		Content:      []byte("my answers"),
	})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, "class-1", submission.ClassID)
	assert.Equal(t, "submitted", submission.Status)
	assert.Contains(t, subRepo.submissions, submission.ID)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, TopicFileProcess, queue.topics[0])
	assert.Equal(t, submission.ID, queue.jobs[0].FileID)
}

func TestSubmitAssignmentRequiresEnrollment(t *testing.T) {
	subRepo := newFakeSubmissionRepo()
	fileRepo := newFakeFileRepo()
	classRepo := newFakeClassRepo()

	seedClass(classRepo, "class-1", "teacher-1")
	seedAssignment(fileRepo, "hw-1", "class-1", "teacher-1")

	svc := newTestSubmissionService(subRepo, fileRepo, classRepo, &fakeQueue{})

	_, err := svc.SubmitAssignment(context.Background(), SubmitInput{
		StudentID:    "student-1",
		AssignmentID: "hw-1",
		FileName:     "answers.pdf",
		Content:      []byte("my answers"),
	})
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestSubmitAssignmentRejectsNonAssignment(t *testing.T) {
	subRepo := newFakeSubmissionRepo()
	fileRepo := newFakeFileRepo()
	classRepo := newFakeClassRepo()

	seedClass(classRepo, "class-1", "teacher-1")
	fileRepo.files["res-1"] = &models.File{
		ID:       "res-1",
		ClassID:  "class-1",
		FileType: models.FileTypeResource.String(),
	}
	classRepo.enrollments["class-1:student-1"] = true

	svc := newTestSubmissionService(subRepo, fileRepo, classRepo, &fakeQueue{})

	_, err := svc.SubmitAssignment(context.Background(), SubmitInput{
		StudentID:    "student-1",
		AssignmentID: "res-1",
		FileName:     "answers.pdf",
		Content:      []byte("my answers"),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGradeSubmissionOwnership(t *testing.T) {
	subRepo := newFakeSubmissionRepo()
	fileRepo := newFakeFileRepo()
	classRepo := newFakeClassRepo()

	seedClass(classRepo, "class-1", "teacher-1")
	subRepo.submissions["sub-1"] = &models.Submission{
		ID:           "sub-1",
		StudentID:    "student-1",
		AssignmentID: "hw-1",
		ClassID:      "class-1",
		Status:       "submitted",
	}

	svc := newTestSubmissionService(subRepo, fileRepo, classRepo, &fakeQueue{})

	_, err := svc.Grade(context.Background(), "teacher-2", "sub-1", 85, "good")
	assert.ErrorIs(t, err, ErrForbidden)

	graded, err := svc.Grade(context.Background(), "teacher-1", "sub-1", 85, "good")
	require.NoError(t, err)
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 85, *graded.Grade)
	assert.Equal(t, "graded", graded.Status)
}

func TestListOwnSubmissionsRequiresEnrollment(t *testing.T) {
	subRepo := newFakeSubmissionRepo()
	classRepo := newFakeClassRepo()
	seedClass(classRepo, "class-1", "teacher-1")

	svc := newTestSubmissionService(subRepo, newFakeFileRepo(), classRepo, &fakeQueue{})

	_, err := svc.ListOwn(context.Background(), "student-1", "class-1")
	assert.ErrorIs(t, err, ErrNotEnrolled)

	classRepo.enrollments["class-1:student-1"] = true
	submissions, err := svc.ListOwn(context.Background(), "student-1", "class-1")
	require.NoError(t, err)
	assert.Empty(t, submissions)
}
