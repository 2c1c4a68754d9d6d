package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials is returned by Login when the auth service rejects
	// the identifier/secret pair.
	ErrInvalidCredentials = errors.New("session: invalid credentials")
	// ErrTransport wraps network-level login failures; the caller owns the
	// user-facing messaging.
	ErrTransport = errors.New("session: auth service unreachable")
)

// Persisted field names, mirroring the keys the web client kept in local storage.
const (
	keyToken    = "token"
	keyRole     = "role"
	keyUserID   = "userId"
	keyUserInfo = "userInfo"
)

type profileRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResult is the auth service's successful login payload.
type LoginResult struct {
	Token  string
	Role   string
	UserID int64
	Name   string
	Email  string
}

// Authenticator is the external login collaborator.
type Authenticator interface {
	Login(ctx context.Context, identifier, secret string) (*LoginResult, error)
}

// Store is the single source of truth for "who is logged in", synchronized with
// a persisted credential. It is the only writer of its KeyValue.
type Store struct {
	kv      KeyValue
	decoder TokenDecoder
	auth    Authenticator
	clock   func() time.Time
	logger  *zap.Logger

	mu       sync.RWMutex
	cred     *Credential
	identity *Identity
}

// NewStore builds a Store. A nil clock defaults to time.Now.
func NewStore(kv KeyValue, decoder TokenDecoder, auth Authenticator, logger *zap.Logger) *Store {
	return &Store{
		kv:      kv,
		decoder: decoder,
		auth:    auth,
		clock:   time.Now,
		logger:  logger,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *Store) WithClock(clock func() time.Time) *Store {
	s.clock = clock
	return s
}

// Restore rebuilds the active Identity from the persisted credential. Run once
// at session start. Malformed or expired persisted data clears the persisted
// session and degrades to "not authenticated"; Restore never fails.
func (s *Store) Restore(ctx context.Context) *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = nil
	s.identity = nil

	token, err := s.kv.Get(ctx, keyToken)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("session restore: persisted credential unreadable", zap.Error(err))
		}
		return nil
	}

	claims, err := s.decoder.Decode(token)
	if err != nil {
		s.logger.Debug("session restore: discarding undecodable credential", zap.Error(err))
		s.clearPersisted(ctx)
		return nil
	}
	if !claims.Expiry().After(s.clock()) {
		s.logger.Debug("session restore: discarding expired credential")
		s.clearPersisted(ctx)
		return nil
	}

	identity := s.identityFromPersisted(ctx, claims)
	s.cred = &Credential{Token: token, ExpiresAt: claims.Expiry()}
	s.identity = identity

	copied := *identity
	return &copied
}

// identityFromPersisted merges token claims with the persisted profile record.
// The profile record is a side channel; missing fields fall back to claims.
func (s *Store) identityFromPersisted(ctx context.Context, claims *Claims) *Identity {
	identity := &Identity{
		ID:    claims.UserID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  ParseRole(claims.Role),
	}

	if raw, err := s.kv.Get(ctx, keyUserInfo); err == nil {
		var profile profileRecord
		if err := json.Unmarshal([]byte(raw), &profile); err == nil {
			if profile.Name != "" {
				identity.Name = profile.Name
			}
			if profile.Email != "" {
				identity.Email = profile.Email
			}
		}
	}
	if raw, err := s.kv.Get(ctx, keyRole); err == nil && raw != "" {
		identity.Role = ParseRole(raw)
	}
	return identity
}

// Login authenticates against the auth service, persists the returned credential
// and profile, and returns the role-based redirect target. On rejection it
// returns ErrInvalidCredentials and persists nothing; on network failure an
// error wrapping ErrTransport. An existing session is left untouched on failure.
func (s *Store) Login(ctx context.Context, identifier, secret string) (string, error) {
	result, err := s.auth.Login(ctx, identifier, secret)
	if err != nil {
		return "", err
	}

	claims, err := s.decoder.Decode(result.Token)
	if err != nil {
		return "", errors.Join(ErrTransport, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.persist(ctx, result)
	s.cred = &Credential{Token: result.Token, ExpiresAt: claims.Expiry()}
	s.identity = &Identity{
		ID:    result.UserID,
		Name:  result.Name,
		Email: result.Email,
		Role:  ParseRole(result.Role),
	}

	s.logger.Info("user logged in",
		zap.Int64("user_id", result.UserID),
		zap.String("role", string(s.identity.Role)))

	if s.identity.Role == RoleAdmin {
		return AdminLanding, nil
	}
	return DefaultLanding, nil
}

func (s *Store) persist(ctx context.Context, result *LoginResult) {
	profile, _ := json.Marshal(profileRecord{Name: result.Name, Email: result.Email})
	for key, value := range map[string]string{
		keyToken:    result.Token,
		keyRole:     result.Role,
		keyUserID:   strconv.FormatInt(result.UserID, 10),
		keyUserInfo: string(profile),
	} {
		if err := s.kv.Set(ctx, key, value); err != nil {
			s.logger.Warn("session persist failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Logout clears the persisted credential, profile and in-memory Identity. It is
// idempotent and always succeeds.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearPersisted(ctx)
	s.cred = nil
	s.identity = nil
}

func (s *Store) clearPersisted(ctx context.Context) {
	if err := s.kv.Delete(ctx, keyToken, keyRole, keyUserID, keyUserInfo); err != nil {
		s.logger.Warn("session clear failed", zap.Error(err))
	}
}

// IsAuthenticated reports whether a non-expired credential backs the active
// Identity. The expiry boundary is re-evaluated on every call; a cached "logged
// in" flag is never trusted past it.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.cred != nil && s.clock().Before(s.cred.ExpiresAt)
}

// Identity returns a copy of the active Identity, or nil when not authenticated.
func (s *Store) Identity() *Identity {
	if !s.IsAuthenticated() {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	copied := *s.identity
	return &copied
}

// Token returns the active bearer token for forwarding to downstream services,
// or "" when not authenticated. Read-only; the credential stays owned by the
// Store.
func (s *Store) Token() string {
	if !s.IsAuthenticated() {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return ""
	}
	return s.cred.Token
}

// Authorize gates a protected view. An empty requiredRole admits any
// authenticated identity.
func (s *Store) Authorize(requiredRole Role) Decision {
	identity := s.Identity()
	if identity == nil {
		return RedirectToLogin
	}
	if requiredRole != "" && identity.Role != requiredRole {
		return RedirectToDefault
	}
	return Allow
}
