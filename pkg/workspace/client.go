// Copyright 2026 Flowsmith Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package workspace is a thin façade over the data-platform server's REST
// API: dataset listing and schemas, dataset and recipe creation, project
// summaries, and key administration. All calls are blocking round-trips;
// nothing is cached client-side.
package workspace

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Client talks to the workspace server.
type Client struct {
	cfg        *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// AuthInfo describes the identity behind the configured API key.
type AuthInfo struct {
	AuthIdentifier string `json:"authIdentifier"`
	AuthSource     string `json:"authSource"`
}

// NewClient creates a workspace client from the given config.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workspace config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := http.DefaultTransport
	if !cfg.SSLVerify {
		logger.Warn("TLS verification disabled; do not use in production",
			zap.String("url", cfg.BaseURL))
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // explicit opt-in via DSS_SSL_VERIFY
		}
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		logger: logger,
	}, nil
}

// ProjectKey returns the default project key from the config.
func (c *Client) ProjectKey() string {
	return c.cfg.ProjectKey
}

// CheckAuth verifies connectivity and returns the authenticated identity.
func (c *Client) CheckAuth(ctx context.Context) (*AuthInfo, error) {
	var info AuthInfo
	if err := c.do(ctx, http.MethodGet, "/public/api/auth/info", nil, &info); err != nil {
		return nil, fmt.Errorf("cannot connect to workspace at %s: %w", c.cfg.BaseURL, err)
	}
	c.logger.Info("workspace connection established",
		zap.String("url", c.cfg.BaseURL),
		zap.String("user", info.AuthIdentifier))
	return &info, nil
}

// resolveProject picks the explicit project key or falls back to the default.
func (c *Client) resolveProject(projectKey string) (string, error) {
	if projectKey != "" {
		return projectKey, nil
	}
	if c.cfg.ProjectKey != "" {
		return c.cfg.ProjectKey, nil
	}
	return "", fmt.Errorf("no project key given and %s is not set", EnvProjectKey)
}

// do performs one JSON round-trip against the workspace API.
// Non-2xx responses become errors carrying the status and response body.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	target := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// The workspace API authenticates with the key as basic-auth user.
	req.SetBasicAuth(c.cfg.APIKey, "")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", target, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return &NotFoundError{Path: path, Body: string(respBody)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("workspace API error (status %d) at %s: %s",
			resp.StatusCode, target, strings.TrimSpace(string(respBody)))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", target, err)
		}
	}
	return nil
}

// NotFoundError reports a 404 from the workspace API.
type NotFoundError struct {
	Path string
	Body string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

// IsNotFound reports whether err is a workspace 404.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
