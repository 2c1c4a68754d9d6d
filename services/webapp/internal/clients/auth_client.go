package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Brupez/EletricNET/services/webapp/internal/session"
)

// AuthClient talks to the auth service.
type AuthClient struct {
	base *BaseClient
}

// NewAuthClient returns a client for the given auth service base URL.
func NewAuthClient(baseURL string, httpClient HTTPDoer) *AuthClient {
	return &AuthClient{base: NewBaseClient(baseURL, httpClient)}
}

var _ session.Authenticator = (*AuthClient)(nil)

// Login exchanges credentials for a token and profile. A rejected pair maps to
// session.ErrInvalidCredentials; network failures wrap session.ErrTransport.
func (c *AuthClient) Login(ctx context.Context, identifier, secret string) (*session.LoginResult, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    identifier,
		"password": secret,
	})
	if err != nil {
		return nil, err
	}

	status, body, err := c.base.Do(ctx, http.MethodPost, "/api/auth/login", payload, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", session.ErrTransport, err)
	}
	if status == http.StatusUnauthorized || status == http.StatusBadRequest {
		return nil, session.ErrInvalidCredentials
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: auth service returned %d", session.ErrTransport, status)
	}

	var result struct {
		Token  string `json:"token"`
		Role   string `json:"role"`
		UserID int64  `json:"userId"`
		Name   string `json:"name"`
		Email  string `json:"email"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: decode login response: %w", session.ErrTransport, err)
	}
	if result.Token == "" {
		return nil, errors.Join(session.ErrTransport, errors.New("login response missing token"))
	}

	return &session.LoginResult{
		Token:  result.Token,
		Role:   result.Role,
		UserID: result.UserID,
		Name:   result.Name,
		Email:  result.Email,
	}, nil
}

// Register forwards a registration request. The auth service answers plain text
// on rejection; that text is surfaced as the error message.
func (c *AuthClient) Register(ctx context.Context, email, password, name, role string) error {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
		"role":     role,
	})
	if err != nil {
		return err
	}

	status, body, err := c.base.Do(ctx, http.MethodPost, "/api/auth/register", payload, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", session.ErrTransport, err)
	}
	if status < 200 || status > 299 {
		msg := string(body)
		if msg == "" {
			msg = fmt.Sprintf("registration failed with status %d", status)
		}
		return errors.New(msg)
	}
	return nil
}
