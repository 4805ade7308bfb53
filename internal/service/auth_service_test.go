package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func newTestAuthService(userRepo *fakeUserRepo) AuthService {
	return NewAuthService(userRepo, AuthConfig{
		SecretKey:       "test-secret",
		TokenExpiration: time.Hour,
		Issuer:          "test",
	}, zerolog.Nop())
}

func TestRegisterAndLogin(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo)

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@school.test",
		Password: "sup3rsecret",
		Role:     models.RoleTeacher.String(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "en", user.PreferredLanguage)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NoError(t, user.CheckPassword("sup3rsecret"))

	// Повторная регистрация с тем же email
	_, err = svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Alice2",
		Email:    "alice@school.test",
		Password: "sup3rsecret",
		Role:     models.RoleStudent.String(),
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "alice@school.test",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "alice@school.test",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@school.test",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo)

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Bob",
		Email:    "bob@school.test",
		Password: "sup3rsecret",
		Role:     models.RoleStudent.String(),
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "bob@school.test",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)

	claims, err := svc.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
	assert.Equal(t, models.RoleStudent.String(), claims.Role)
	assert.True(t, claims.IsStudent)
	assert.False(t, claims.IsTeacher)

	_, err = svc.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Carol",
		Email:    "carol@school.test",
		Password: "sup3rsecret",
		Role:     models.RoleTeacher.String(),
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "carol@school.test",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)

	other := NewAuthService(userRepo, AuthConfig{
		SecretKey:       "different-secret",
		TokenExpiration: time.Hour,
		Issuer:          "test",
	}, zerolog.Nop())

	_, err = other.ParseToken(resp.Token)
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo)

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Name:     "Dave",
		Email:    "dave@school.test",
		Password: "sup3rsecret",
		Role:     models.RoleStudent.String(),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, models.UpdateProfileRequest{
		Name:              "David",
		PreferredLanguage: "fr",
	})
	require.NoError(t, err)
	assert.Equal(t, "David", updated.Name)
	assert.Equal(t, "fr", updated.PreferredLanguage)

	_, err = svc.UpdateProfile(context.Background(), "missing", models.UpdateProfileRequest{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}
