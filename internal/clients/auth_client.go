package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"admin_console/internal/domain"

	"github.com/sirupsen/logrus"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		Email string `json:"email"`
	} `json:"user"`
}

type LoginResult struct {
	Token string
	Email string
}

// AuthClient exchanges console credentials for a bearer token.
type AuthClient struct {
	api       Caller
	loginPath string
	log       *logrus.Logger
}

func NewAuthClient(api Caller, loginPath string, logger *logrus.Logger) *AuthClient {
	return &AuthClient{
		api:       api,
		loginPath: loginPath,
		log:       logger,
	}
}

func (c *AuthClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	jsonData, err := json.Marshal(LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to prepare login request: %w", err)
	}

	c.log.Infof("AuthClient: Logging in %s", email)
	raw, err := c.api.Call(ctx, Request{
		Method:      http.MethodPost,
		Path:        c.loginPath,
		Body:        bytes.NewReader(jsonData),
		ContentType: "application/json",
	})
	if err != nil {
		var statusErr *domain.HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("login: %w: %w", domain.ErrAuth, statusErr)
		}
		if errors.As(err, &statusErr) {
			return nil, fmt.Errorf("login: %w: %w", domain.Classify(statusErr.StatusCode), statusErr)
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	var resp loginResponse
	if raw == nil {
		return nil, fmt.Errorf("login: %w: empty body", domain.ErrParse)
	}
	if err := json.Unmarshal(unwrap(raw, "data", "Data"), &resp); err != nil {
		return nil, fmt.Errorf("login: %w: %w", domain.ErrParse, err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login: %w: missing token", domain.ErrParse)
	}

	email = strings.TrimSpace(email)
	if resp.User.Email != "" {
		email = resp.User.Email
	}
	c.log.Infof("AuthClient: Login succeeded for %s", email)
	return &LoginResult{Token: resp.Token, Email: email}, nil
}
