// Package nodes is a client for the nodes API.
//
// A 401 from the server is not an error: the client runs its LoginProvider
// and reports an empty node list, leaving the retry to the caller.
package nodes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/singleflight"
)

// NodesPath is where the server lists nodes.
const NodesPath = "/api/nodes"

// ErrRequestFailed is matched by every *RequestError.
var ErrRequestFailed = errors.New("request failed")

// RequestError reports a non-success, non-401 response.
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Node is one element of the nodes list.
type Node struct {
	ID int `json:"id"`
}

// LoginProvider refreshes credentials after the server answers 401.
type LoginProvider interface {
	Login(ctx context.Context) error
}

// Authorizer decorates outgoing requests with credentials. A LoginProvider
// that also implements Authorizer gets to sign every request.
type Authorizer interface {
	Authorize(req *http.Request)
}

// Client talks to the nodes API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	login      LoginProvider

	logins singleflight.Group
}

// NewClient builds a client for baseURL. A nil httpClient means
// http.DefaultClient; a nil login makes 401 a silent empty result.
func NewClient(httpClient *http.Client, baseURL string, login LoginProvider) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		login:      login,
	}
}

// GetNodes fetches the node list.
func (c *Client) GetNodes(ctx context.Context) ([]Node, error) {
	nodes, _, err := c.fetchNodes(ctx)
	return nodes, err
}

// ListNodes is GetNodes that, when the first answer was a 401 followed by a
// successful login, asks once more with the fresh credentials.
func (c *Client) ListNodes(ctx context.Context) ([]Node, error) {
	nodes, loggedIn, err := c.fetchNodes(ctx)
	if err != nil || !loggedIn {
		return nodes, err
	}
	nodes, _, err = c.fetchNodes(ctx)
	return nodes, err
}

// fetchNodes reports loggedIn when the server answered 401 and the login hook ran.
func (c *Client) fetchNodes(ctx context.Context) (nodes []Node, loggedIn bool, err error) {
	url := c.baseURL + NodesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if a, ok := c.login.(Authorizer); ok {
		a.Authorize(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.login == nil {
			return []Node{}, false, nil
		}
		if err := c.relogin(ctx); err != nil {
			return nil, false, fmt.Errorf("login: %w", err)
		}
		return []Node{}, true, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, false, &RequestError{Method: http.MethodGet, URL: url, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(&nodes); err != nil {
		return nil, false, fmt.Errorf("decode nodes: %w", err)
	}
	if nodes == nil {
		nodes = []Node{}
	}
	return nodes, false, nil
}

// relogin runs the login hook once for any number of concurrent 401s.
// The shared login outlives any single caller's cancellation; each caller
// still stops waiting when its own ctx is done.
func (c *Client) relogin(ctx context.Context) error {
	ch := c.logins.DoChan("login", func() (interface{}, error) {
		return nil, c.login.Login(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}
