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

package workspace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

type apiKeyCreation struct {
	Label string `json:"label"`
}

type apiKeyResponse struct {
	Key string `json:"key"`
}

// CreatePersonalAPIKey creates a new personal API key for the given user
// and returns the secret. Requires admin rights on the configured key.
func (c *Client) CreatePersonalAPIKey(ctx context.Context, login, label string) (string, error) {
	if login == "" {
		return "", fmt.Errorf("login is required")
	}

	var created apiKeyResponse
	path := fmt.Sprintf("/public/api/admin/users/%s/api-keys", url.PathEscape(login))
	if err := c.do(ctx, http.MethodPost, path, apiKeyCreation{Label: label}, &created); err != nil {
		return "", fmt.Errorf("failed to create API key for %s: %w", login, err)
	}
	if created.Key == "" {
		return "", fmt.Errorf("server returned an empty API key for %s", login)
	}

	c.logger.Info("personal API key created",
		zap.String("login", login),
		zap.String("label", label))
	return created.Key, nil
}
