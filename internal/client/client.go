// Package client provides the REST client for the users API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/festy23/useradmin/internal/config"
	"github.com/festy23/useradmin/internal/user/model"
)

// Store defines the remote user store operations consumed by the admin screen.
type Store interface {
	// ListUsers fetches all users.
	ListUsers(ctx context.Context) ([]model.User, error)

	// GetUser fetches a single user by id.
	GetUser(ctx context.Context, id int64) (*model.User, error)

	// UpdateStatus patches only the status field.
	UpdateStatus(ctx context.Context, id int64, status model.Status) (*model.User, error)

	// UpdateUser patches arbitrary user fields.
	UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error)

	// DeleteUser deletes a single user.
	DeleteUser(ctx context.Context, id int64) error

	// DeleteUsers deletes users concurrently, one request per id,
	// and waits for every request to settle.
	DeleteUsers(ctx context.Context, ids []int64) error
}

// Client is an HTTP implementation of Store.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *zap.SugaredLogger
}

// New creates a new users API client.
func New(cfg config.ClientConfig, logger *zap.SugaredLogger) *Client {
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// StatusError is returned for non-2xx API responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("users api: unexpected status %d: %s", e.Code, e.Body)
}

// do executes a request and decodes the JSON response body into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debugw("request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Errorw("request failed", "method", method, "path", path, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Debugw("request returned error status",
			"method", method, "path", path, "status", resp.StatusCode)
		if resp.StatusCode == http.StatusNotFound {
			return model.ErrUserNotFound
		}
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// ListUsers fetches all users.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// GetUser fetches a single user by id.
func (c *Client) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateStatus patches only the status field.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status model.Status) (*model.User, error) {
	return c.UpdateUser(ctx, id, model.StatusPatch(status))
}

// UpdateUser patches arbitrary user fields.
func (c *Client) UpdateUser(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d", id), patch, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes a single user.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

// DeleteUsers deletes users concurrently, one request per id.
// All requests run to completion before the first error (if any) is returned.
func (c *Client) DeleteUsers(ctx context.Context, ids []int64) error {
	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			return c.DeleteUser(ctx, id)
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Errorw("bulk delete failed", "ids", ids, "error", err)
		return err
	}
	c.logger.Infow("bulk delete completed", "count", len(ids))
	return nil
}
