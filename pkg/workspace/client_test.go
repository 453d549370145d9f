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
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method string
	path   string
	body   map[string]interface{}
}

// newTestClient wires a client against a stub server that answers from
// the routes map and records every request.
func newTestClient(t *testing.T, routes map[string]interface{}) (*Client, *[]capturedRequest) {
	t.Helper()

	var captured []capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "secret", user)

		req := capturedRequest{method: r.Method, path: r.URL.Path}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req.body)
		}
		captured = append(captured, req)

		key := r.Method + " " + r.URL.Path
		resp, ok := routes[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{
		BaseURL:    server.URL,
		APIKey:     "secret",
		ProjectKey: "DEMO",
	}, nil)
	require.NoError(t, err)
	return client, &captured
}

func TestCheckAuth(t *testing.T) {
	client, _ := newTestClient(t, map[string]interface{}{
		"GET /public/api/auth/info": AuthInfo{AuthIdentifier: "alice", AuthSource: "API_KEY"},
	})

	info, err := client.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", info.AuthIdentifier)
	assert.Equal(t, "API_KEY", info.AuthSource)
}

func TestListDatasets(t *testing.T) {
	client, _ := newTestClient(t, map[string]interface{}{
		"GET /public/api/projects/DEMO/datasets/": []map[string]string{
			{"name": "sales"}, {"name": "customers"},
		},
	})

	names, err := client.ListDatasets(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"sales", "customers"}, names)
}

func TestGetDatasetSchema(t *testing.T) {
	client, _ := newTestClient(t, map[string]interface{}{
		"GET /public/api/projects/DEMO/datasets/sales/schema": map[string]interface{}{
			"columns": []map[string]string{
				{"name": "region", "type": "string"},
				{"name": "amount", "type": "double", "meaning": "Decimal"},
			},
		},
	})

	columns, err := client.GetDatasetSchema(context.Background(), "sales", "")
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, Column{Name: "region", Type: "string"}, columns[0])
	assert.Equal(t, "Decimal", columns[1].Meaning)
}

func TestDatasetExists(t *testing.T) {
	client, _ := newTestClient(t, map[string]interface{}{
		"GET /public/api/projects/DEMO/datasets/sales": map[string]string{"name": "sales"},
	})

	exists, err := client.DatasetExists(context.Background(), "sales")
	require.NoError(t, err)
	assert.True(t, exists)

	// 404 means "does not exist", not an error.
	exists, err = client.DatasetExists(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateDataset(t *testing.T) {
	client, captured := newTestClient(t, map[string]interface{}{
		"POST /public/api/projects/DEMO/datasets/": map[string]string{"name": "staging"},
	})

	err := client.CreateDataset(context.Background(), "staging", DatasetKindManaged)
	require.NoError(t, err)

	require.Len(t, *captured, 1)
	body := (*captured)[0].body
	assert.Equal(t, "staging", body["name"])
	assert.Equal(t, "Filesystem", body["type"])
	params, ok := body["params"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "filesystem_managed", params["connection"])
	assert.Equal(t, "/staging", params["path"])
}

func TestCreateDatasetRejectsUnsupportedKind(t *testing.T) {
	client, captured := newTestClient(t, nil)

	err := client.CreateDataset(context.Background(), "staging", "sql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dataset kind: sql")
	assert.Empty(t, *captured, "no request must be sent")
}

func TestCreateRecipeWithSettings(t *testing.T) {
	routes := map[string]interface{}{
		"POST /public/api/projects/DEMO/recipes/": map[string]string{"name": "aggregate"},
	}
	routes["PUT /public/api/projects/DEMO/recipes/aggregate/settings"] = map[string]string{}
	client, captured := newTestClient(t, routes)

	err := client.CreateRecipe(context.Background(), RecipeDefinition{
		Type:    "grouping",
		Name:    "aggregate",
		Inputs:  []string{"sales"},
		Outputs: []string{"sales_by_region"},
		Payload: map[string]interface{}{
			"keys": []map[string]interface{}{{"column": "region"}},
		},
	})
	require.NoError(t, err)

	require.Len(t, *captured, 2)
	creation := (*captured)[0]
	assert.Equal(t, http.MethodPost, creation.method)
	assert.Equal(t, "grouping", creation.body["type"])
	inputs, ok := creation.body["inputs"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"ref": "sales"}, inputs[0])

	settings := (*captured)[1]
	assert.Equal(t, http.MethodPut, settings.method)
	assert.Contains(t, settings.body, "params")
}

func TestCreateRecipeSkipsSettingsWhenEmpty(t *testing.T) {
	client, captured := newTestClient(t, map[string]interface{}{
		"POST /public/api/projects/DEMO/recipes/": map[string]string{"name": "noop"},
	})

	err := client.CreateRecipe(context.Background(), RecipeDefinition{
		Type:    "python",
		Name:    "noop",
		Inputs:  []string{"a"},
		Outputs: []string{"b"},
	})
	require.NoError(t, err)
	assert.Len(t, *captured, 1)
}

func TestCreateRecipeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"column 'region' not found"}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{BaseURL: server.URL, APIKey: "secret", ProjectKey: "DEMO"}, nil)
	require.NoError(t, err)

	err = client.CreateRecipe(context.Background(), RecipeDefinition{Type: "grouping", Name: "agg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "column 'region' not found")
}

func TestListProjects(t *testing.T) {
	client, _ := newTestClient(t, map[string]interface{}{
		"GET /public/api/projects/": []ProjectInfo{
			{ProjectKey: "DEMO", Name: "Demo project"},
			{ProjectKey: "SALES", Name: "Sales analytics"},
		},
	})

	projects, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "SALES", projects[1].ProjectKey)
}

func TestGetProjectSummary(t *testing.T) {
	client, _ := newTestClient(t, map[string]interface{}{
		"GET /public/api/projects/DEMO/datasets/":  []map[string]string{{"name": "sales"}},
		"GET /public/api/projects/DEMO/recipes/":   []map[string]string{{"name": "agg"}, {"name": "join"}},
		"GET /public/api/projects/DEMO/scenarios/": []map[string]string{},
	})

	summary, err := client.GetProjectSummary(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "DEMO", summary.ProjectKey)
	assert.Equal(t, []string{"sales"}, summary.Datasets)
	assert.Equal(t, []string{"agg", "join"}, summary.Recipes)
	assert.Empty(t, summary.Scenarios)
}

func TestCreatePersonalAPIKey(t *testing.T) {
	client, captured := newTestClient(t, map[string]interface{}{
		"POST /public/api/admin/users/alice/api-keys": map[string]string{"key": "new-secret"},
	})

	key, err := client.CreatePersonalAPIKey(context.Background(), "alice", "rotated")
	require.NoError(t, err)
	assert.Equal(t, "new-secret", key)

	require.Len(t, *captured, 1)
	assert.Equal(t, "rotated", (*captured)[0].body["label"])
}

func TestResolveProjectRequiresKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{BaseURL: server.URL, APIKey: "secret"}, nil)
	require.NoError(t, err)

	_, err = client.ListDatasets(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvProjectKey)

	// An explicit key overrides the missing default.
	_, err = client.ListDatasets(context.Background(), "OTHER")
	require.NoError(t, err)
}

func TestIsNotFound(t *testing.T) {
	nf := &NotFoundError{Path: "/x"}
	wrapped := errors.New("plain")
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(nil))
}
