package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Brupez/EletricNET/services/auth-service/internal/models"
	"github.com/Brupez/EletricNET/services/auth-service/internal/password"
	"github.com/Brupez/EletricNET/services/auth-service/internal/repository"
)

var (
	// ErrEmailInUse is returned when registering a duplicate email.
	ErrEmailInUse = errors.New("auth: email already exists")
	// ErrInvalidRole is returned for roles other than USER or ADMIN.
	ErrInvalidRole = errors.New("auth: invalid role: must be USER or ADMIN")
	// ErrInvalidCredentials represents a login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// UserRepository is the storage contract used by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService holds registration and login logic.
type AuthService struct {
	repo   UserRepository
	hasher password.Hasher
	tokens *TokenService
	logger *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokens *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates an account. Role defaults to USER and must be USER or ADMIN.
func (s *AuthService) Register(ctx context.Context, email, plain, name, role string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("auth: email required")
	}
	if plain == "" {
		return nil, errors.New("auth: password required")
	}

	role = strings.ToUpper(strings.TrimSpace(role))
	switch role {
	case "":
		role = "USER"
	case "USER", "ADMIN":
	default:
		return nil, ErrInvalidRole
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role))
	return user, nil
}

// Login authenticates an account and issues a token.
func (s *AuthService) Login(ctx context.Context, email, plain string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plain == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, plain); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Role, user.Name, user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
