package nodes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// LoginPath is the server's credential exchange endpoint.
const LoginPath = "/api/login"

var errMissingToken = errors.New("login response carried no token")

// TokenLogin logs in with a username and password and keeps the bearer token.
type TokenLogin struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string

	mu    sync.RWMutex
	token string
}

// NewTokenLogin returns a LoginProvider for baseURL. A nil httpClient means http.DefaultClient.
func NewTokenLogin(httpClient *http.Client, baseURL, username, password string) *TokenLogin {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenLogin{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
	}
}

// Login implements LoginProvider.
func (l *TokenLogin) Login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"username": l.username,
		"password": l.password,
	})
	if err != nil {
		return err
	}

	url := l.baseURL + LoginPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &RequestError{Method: http.MethodPost, URL: url, StatusCode: resp.StatusCode}
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if out.Token == "" {
		return errMissingToken
	}

	l.mu.Lock()
	l.token = out.Token
	l.mu.Unlock()
	return nil
}

// Token returns the current bearer token, empty before the first login.
func (l *TokenLogin) Token() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.token
}

// Authorize implements Authorizer.
func (l *TokenLogin) Authorize(req *http.Request) {
	if token := l.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
