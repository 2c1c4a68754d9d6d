package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/services/auth-service/internal/models"
	"github.com/Brupez/EletricNET/services/auth-service/internal/repository"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }
func (plainHasher) Compare(hash, plain string) error {
	if hash != "hashed:"+plain {
		return errors.New("mismatch")
	}
	return nil
}

func newTestAuthService(repo *fakeUserRepo) *AuthService {
	tokens := NewTokenService("test-secret", time.Hour)
	return NewAuthService(repo, plainHasher{}, tokens, zap.NewNop())
}

func TestRegisterDefaultsToUserRole(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	user, err := svc.Register(context.Background(), "Alice@Example.com", "pw", "Alice", "")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "USER", user.Role)
	assert.Equal(t, "hashed:pw", user.PasswordHash)
	assert.NotZero(t, user.ID)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), "a@b.com", "pw", "", "SUPERUSER")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), "a@b.com", "pw", "", "USER")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "A@B.com", "other", "", "ADMIN")
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestLoginIssuesValidToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	registered, err := svc.Register(context.Background(), "a@b.com", "pw", "Alice", "ADMIN")
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	claims, err := NewTokenService("test-secret", time.Hour).Validate(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "Alice", claims.Name)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	_, err := svc.Register(context.Background(), "a@b.com", "pw", "", "USER")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "a@b.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())
	_, _, err := svc.Login(context.Background(), "nobody@b.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
