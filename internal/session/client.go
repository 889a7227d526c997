package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"jobfill/internal/config"
	"jobfill/internal/logging"
	"jobfill/pkg/models"
	"jobfill/pkg/utils"
)

// Client talks to the job platform's auth and profile endpoints. The
// engine only consumes these: tokens and profiles are issued and cached
// upstream, read here per fill cycle.
type Client struct {
	config *config.Config
	client *http.Client
	logger logging.Logger
}

// NewClient creates a new session client instance
func NewClient(cfg *config.Config) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.Session.Timeout},
		logger: logging.GetGlobalLogger(),
	}
}

// LoginResult is the platform's login payload.
type LoginResult struct {
	AccessToken string          `json:"access_token"`
	User        models.AuthUser `json:"user"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Session.BaseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result LoginResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Verify confirms token validity and resolves the acting user. An invalid
// token surfaces as AuthInvalid; the engine never re-authenticates on its
// own.
func (c *Client) Verify(ctx context.Context, token string) (*models.AuthUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Session.BaseURL+"/api/auth/verify", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var user models.AuthUser
	if err := c.do(req, &user); err != nil {
		return nil, err
	}
	if user.UserID == "" {
		return nil, utils.NewAuthInvalidError("token verification returned no user")
	}
	return &user, nil
}

// FetchProfile loads the user's profile record. Without it neither the
// data mapper nor content generation can run, so callers abort the fill
// when this fails.
func (c *Client) FetchProfile(ctx context.Context, userID, token string) (*models.UserProfileRecord, error) {
	url := fmt.Sprintf("%s/api/users/%s/profile", c.config.Session.BaseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var profile models.UserProfileRecord
	if err := c.do(req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return utils.NewNetworkFailureError(fmt.Sprintf("platform request failed: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return utils.NewNetworkFailureError(fmt.Sprintf("failed to read platform response: %v", err))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return utils.NewAuthInvalidError("platform rejected the token")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return utils.NewNetworkFailureError(fmt.Sprintf("platform returned %d for %s", resp.StatusCode, req.URL.Path))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode platform response: %w", err)
	}
	return nil
}
