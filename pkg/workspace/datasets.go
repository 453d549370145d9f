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

// Column describes one column of a dataset schema.
type Column struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Meaning string `json:"meaning,omitempty"`
}

// DatasetKindManaged is the only dataset kind this client creates.
const DatasetKindManaged = "managed"

type datasetListItem struct {
	Name string `json:"name"`
}

type datasetSchema struct {
	Columns []Column `json:"columns"`
}

// ListDatasets returns the names of all datasets in a project.
func (c *Client) ListDatasets(ctx context.Context, projectKey string) ([]string, error) {
	key, err := c.resolveProject(projectKey)
	if err != nil {
		return nil, err
	}

	var items []datasetListItem
	path := fmt.Sprintf("/public/api/projects/%s/datasets/", url.PathEscape(key))
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, fmt.Errorf("failed to list datasets in project %s: %w", key, err)
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	c.logger.Debug("listed datasets", zap.String("project", key), zap.Int("count", len(names)))
	return names, nil
}

// GetDatasetSchema returns the ordered columns of a dataset.
func (c *Client) GetDatasetSchema(ctx context.Context, datasetName, projectKey string) ([]Column, error) {
	key, err := c.resolveProject(projectKey)
	if err != nil {
		return nil, err
	}

	var schema datasetSchema
	path := fmt.Sprintf("/public/api/projects/%s/datasets/%s/schema",
		url.PathEscape(key), url.PathEscape(datasetName))
	if err := c.do(ctx, http.MethodGet, path, nil, &schema); err != nil {
		return nil, fmt.Errorf("failed to get schema of dataset %s: %w", datasetName, err)
	}
	return schema.Columns, nil
}

// DatasetExists reports whether a dataset exists in the default project.
func (c *Client) DatasetExists(ctx context.Context, datasetName string) (bool, error) {
	key, err := c.resolveProject("")
	if err != nil {
		return false, err
	}

	path := fmt.Sprintf("/public/api/projects/%s/datasets/%s",
		url.PathEscape(key), url.PathEscape(datasetName))
	err = c.do(ctx, http.MethodGet, path, nil, nil)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check dataset %s: %w", datasetName, err)
}

// CreateDataset creates a managed dataset in the default project.
// Only the "managed" kind is supported.
func (c *Client) CreateDataset(ctx context.Context, datasetName, kind string) error {
	if kind != DatasetKindManaged {
		return fmt.Errorf("unsupported dataset kind: %s", kind)
	}

	key, err := c.resolveProject("")
	if err != nil {
		return err
	}

	body := map[string]interface{}{
		"name": datasetName,
		"type": "Filesystem",
		"params": map[string]interface{}{
			"connection": "filesystem_managed",
			"path":       "/" + datasetName,
		},
	}
	path := fmt.Sprintf("/public/api/projects/%s/datasets/", url.PathEscape(key))
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("failed to create dataset %s: %w", datasetName, err)
	}

	c.logger.Info("dataset created", zap.String("project", key), zap.String("dataset", datasetName))
	return nil
}
