package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
)

func TestCreateClass(t *testing.T) {
	classRepo := newFakeClassRepo()
	svc := NewClassService(classRepo, newFakeUserRepo(), zerolog.Nop())

	class, err := svc.CreateClass(context.Background(), "teacher-1", "Math 101")
	require.NoError(t, err)
	assert.NotEmpty(t, class.ID)
	assert.Equal(t, "teacher-1", class.TeacherID)
	assert.Contains(t, classRepo.classes, class.ID)
}

func TestEnrollStudent(t *testing.T) {
	classRepo := newFakeClassRepo()
	userRepo := newFakeUserRepo()
	svc := NewClassService(classRepo, userRepo, zerolog.Nop())

	teacher := &models.User{ID: "teacher-1", Role: models.RoleTeacher.String()}
	otherTeacher := &models.User{ID: "teacher-2", Role: models.RoleTeacher.String()}
	userRepo.users["student-1"] = &models.User{ID: "student-1", Role: models.RoleStudent.String()}
	userRepo.users["teacher-2"] = otherTeacher
	seedClass(classRepo, "class-1", "teacher-1")

	// Чужой класс
	err := svc.EnrollStudent(context.Background(), otherTeacher, "class-1", "student-1")
	assert.ErrorIs(t, err, ErrForbidden)

	// Несуществующий класс
	err = svc.EnrollStudent(context.Background(), teacher, "missing", "student-1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Несуществующий студент
	err = svc.EnrollStudent(context.Background(), teacher, "class-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	// Учителя нельзя записать как студента
	err = svc.EnrollStudent(context.Background(), teacher, "class-1", "teacher-2")
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.EnrollStudent(context.Background(), teacher, "class-1", "student-1")
	require.NoError(t, err)

	enrolled, err := classRepo.IsEnrolled(context.Background(), "class-1", "student-1")
	require.NoError(t, err)
	assert.True(t, enrolled)
}

func TestGetClassNotFound(t *testing.T) {
	svc := NewClassService(newFakeClassRepo(), newFakeUserRepo(), zerolog.Nop())

	_, err := svc.GetClass(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
