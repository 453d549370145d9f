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
)

// ProjectInfo identifies a project on the workspace server.
type ProjectInfo struct {
	ProjectKey string `json:"projectKey"`
	Name       string `json:"name"`
}

// ProjectSummary lists the main flow objects of a project by name.
type ProjectSummary struct {
	ProjectKey string   `json:"projectKey"`
	Datasets   []string `json:"datasets"`
	Recipes    []string `json:"recipes"`
	Scenarios  []string `json:"scenarios"`
}

// ListProjects returns all projects visible to the configured key.
func (c *Client) ListProjects(ctx context.Context) ([]ProjectInfo, error) {
	var projects []ProjectInfo
	if err := c.do(ctx, http.MethodGet, "/public/api/projects/", nil, &projects); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProjectSummary lists the datasets, recipes and scenarios of a project.
func (c *Client) GetProjectSummary(ctx context.Context, projectKey string) (*ProjectSummary, error) {
	key, err := c.resolveProject(projectKey)
	if err != nil {
		return nil, err
	}

	summary := &ProjectSummary{ProjectKey: key}
	for _, kind := range []struct {
		path string
		dst  *[]string
	}{
		{"datasets", &summary.Datasets},
		{"recipes", &summary.Recipes},
		{"scenarios", &summary.Scenarios},
	} {
		var items []struct {
			Name string `json:"name"`
		}
		path := fmt.Sprintf("/public/api/projects/%s/%s/", url.PathEscape(key), kind.path)
		if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
			return nil, fmt.Errorf("failed to list %s in project %s: %w", kind.path, key, err)
		}
		for _, item := range items {
			*kind.dst = append(*kind.dst, item.Name)
		}
	}

	return summary, nil
}
