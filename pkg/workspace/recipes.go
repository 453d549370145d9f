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

// RecipeDefinition is the raw step definition sent to the workspace.
// Payload carries the kind-specific configuration sections; Code carries
// the script body for code-based recipes.
type RecipeDefinition struct {
	Type    string
	Name    string
	Inputs  []string
	Outputs []string
	Payload map[string]interface{}
	Code    string
}

type recipeRef struct {
	Ref string `json:"ref"`
}

type recipeCreationBody struct {
	Type    string      `json:"type"`
	Name    string      `json:"name"`
	Inputs  []recipeRef `json:"inputs"`
	Outputs []recipeRef `json:"outputs"`
}

type recipeSettingsBody struct {
	Params map[string]interface{} `json:"params,omitempty"`
	// Payload is the script body for code recipes; the server stores it
	// verbatim next to the structured params.
	Payload string `json:"payload,omitempty"`
}

// CreateRecipe creates a recipe step in the default project and, when the
// definition carries configuration or code, saves its settings in a second
// call. Recipe creation is not idempotent: calling this twice with the
// same name fails on the server side.
func (c *Client) CreateRecipe(ctx context.Context, def RecipeDefinition) error {
	key, err := c.resolveProject("")
	if err != nil {
		return err
	}
	if def.Name == "" {
		return fmt.Errorf("recipe name is required")
	}

	creation := recipeCreationBody{
		Type: def.Type,
		Name: def.Name,
	}
	for _, in := range def.Inputs {
		creation.Inputs = append(creation.Inputs, recipeRef{Ref: in})
	}
	for _, out := range def.Outputs {
		creation.Outputs = append(creation.Outputs, recipeRef{Ref: out})
	}

	basePath := fmt.Sprintf("/public/api/projects/%s/recipes/", url.PathEscape(key))
	if err := c.do(ctx, http.MethodPost, basePath, creation, nil); err != nil {
		return fmt.Errorf("failed to create %s recipe %s: %w", def.Type, def.Name, err)
	}

	if len(def.Payload) > 0 || def.Code != "" {
		settings := recipeSettingsBody{
			Params:  def.Payload,
			Payload: def.Code,
		}
		settingsPath := basePath + url.PathEscape(def.Name) + "/settings"
		if err := c.do(ctx, http.MethodPut, settingsPath, settings, nil); err != nil {
			return fmt.Errorf("failed to save settings of recipe %s: %w", def.Name, err)
		}
	}

	c.logger.Info("recipe created",
		zap.String("project", key),
		zap.String("recipe", def.Name),
		zap.String("type", def.Type))
	return nil
}

// ListRecipes returns the names of all recipes in a project.
func (c *Client) ListRecipes(ctx context.Context, projectKey string) ([]string, error) {
	key, err := c.resolveProject(projectKey)
	if err != nil {
		return nil, err
	}

	var items []struct {
		Name string `json:"name"`
	}
	path := fmt.Sprintf("/public/api/projects/%s/recipes/", url.PathEscape(key))
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, fmt.Errorf("failed to list recipes in project %s: %w", key, err)
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names, nil
}
