package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/devribero/caremind-sub000/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("accounts client not configured")
	ErrUnauthorized  = errors.New("accounts unauthorized")
	ErrUpstream      = errors.New("accounts upstream error")
)

// Config del cliente del servicio de cuentas.
// BaseURL y APIKey vienen de env vars en el main que lo instancia.
type Config struct {
	BaseURL string
	APIKey  string

	// Timeout HTTP; 0 usa el default.
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

// VerifyToken valida un token de sesión contra el servicio de cuentas
// y devuelve los claims del usuario.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	const verifyPath = "/v1/sessions/verify"

	b, _ := json.Marshal(map[string]string{"token": token})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+verifyPath, bytes.NewReader(b))
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return auth.Claims{}, ErrUnauthorized
	case resp.StatusCode >= 500:
		return auth.Claims{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return auth.Claims{}, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var out struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return auth.Claims{}, fmt.Errorf("%w: invalid response: %v", ErrUpstream, err)
	}

	return auth.Claims{
		UserID: out.UserID,
		Email:  out.Email,
	}, nil
}
