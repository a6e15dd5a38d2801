// Package clients holds the HTTP collaborators the chat flows drive:
// the auth service for accounts and the scheduling service for doctors,
// slots, windows and appointments.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/auth"
	"github.com/dhruvldrp9/Doctor-Appointment-System/services/chat-service/internal/flow"
)

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout:   5 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

type AuthClient struct {
	base   string
	client *http.Client
}

func NewAuthClient(base string) *AuthClient {
	return &AuthClient{base: strings.TrimRight(base, "/"), client: newHTTPClient()}
}

func (c *AuthClient) Register(ctx context.Context, in flow.Registration) error {
	body := map[string]string{
		"email":          in.Email,
		"password":       in.Password,
		"role":           in.Role,
		"first_name":     in.FirstName,
		"last_name":      in.LastName,
		"specialization": in.Specialization,
	}
	resp, err := c.post(ctx, "/api/v1/auth/register", body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		return flow.ErrEmailTaken
	default:
		return fmt.Errorf("auth register: unexpected status %d", resp.StatusCode)
	}
}

func (c *AuthClient) Login(ctx context.Context, email, password string) (flow.User, error) {
	resp, err := c.post(ctx, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return flow.User{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return flow.User{}, flow.ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return flow.User{}, fmt.Errorf("auth login: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return flow.User{}, fmt.Errorf("auth login: decode response: %w", err)
	}

	// The token is issued by a service we trust over the internal network;
	// claims are read without re-verifying the signature.
	claims, err := auth.ParseJWTNoVerify(out.AccessToken)
	if err != nil {
		return flow.User{}, fmt.Errorf("auth login: parse token: %w", err)
	}
	return flow.User{ID: claims.Sub, Role: claims.Role, Name: claims.Name}, nil
}

func (c *AuthClient) Specializations(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/v1/auth/specializations", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list specializations: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		Specializations []string `json:"specializations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("list specializations: decode response: %w", err)
	}
	return out.Specializations, nil
}

func (c *AuthClient) post(ctx context.Context, path string, body any) (*http.Response, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}
