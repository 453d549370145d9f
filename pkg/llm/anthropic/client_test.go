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

package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsmith-labs/flowsmith/pkg/tool"
	"github.com/flowsmith-labs/flowsmith/pkg/types"
)

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, req *MessagesRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req MessagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(w, &req)
	}))
}

func respond(w http.ResponseWriter, resp *MessagesResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func TestChatTextResponse(t *testing.T) {
	var captured *MessagesRequest
	server := newTestServer(t, func(w http.ResponseWriter, req *MessagesRequest) {
		captured = req
		respond(w, &MessagesResponse{
			Content:    []ContentBlock{{Type: "text", Text: "Hello there."}},
			StopReason: "end_turn",
			Usage:      Usage{InputTokens: 10, OutputTokens: 5},
		})
	})
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", Endpoint: server.URL, Model: "test-model"})

	resp, err := client.Chat(context.Background(), []types.Message{
		{Role: types.RoleSystem, Content: "You are helpful."},
		{Role: types.RoleUser, Content: "hi"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Hello there.", resp.Content)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Empty(t, resp.ToolCalls)
	assert.Equal(t, 15, resp.Usage.TotalTokens)

	// System messages ride in the dedicated field, not the array.
	require.NotNil(t, captured)
	assert.Equal(t, "You are helpful.", captured.System)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Equal(t, "test-model", captured.Model)
}

func TestChatToolUseResponse(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, req *MessagesRequest) {
		respond(w, &MessagesResponse{
			Content: []ContentBlock{
				{Type: "text", Text: "Let me check."},
				{Type: "tool_use", ID: "tu_1", Name: "list_datasets", Input: map[string]interface{}{}},
			},
			StopReason: "tool_use",
		})
	})
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", Endpoint: server.URL})

	resp, err := client.Chat(context.Background(), []types.Message{
		{Role: types.RoleUser, Content: "what data is there?"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "tool_use", resp.StopReason)
	assert.Equal(t, "Let me check.", resp.Content)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "tu_1", resp.ToolCalls[0].ID)
	assert.Equal(t, "list_datasets", resp.ToolCalls[0].Name)
}

func TestChatSendsToolDefinitions(t *testing.T) {
	var captured *MessagesRequest
	server := newTestServer(t, func(w http.ResponseWriter, req *MessagesRequest) {
		captured = req
		respond(w, &MessagesResponse{
			Content:    []ContentBlock{{Type: "text", Text: "ok"}},
			StopReason: "end_turn",
		})
	})
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", Endpoint: server.URL})
	mock := &tool.MockTool{
		MockName:        "get_dataset_info",
		MockDescription: "inspect a dataset",
		MockSchema: tool.NewObjectSchema("", map[string]*tool.JSONSchema{
			"dataset_name": tool.NewStringSchema("dataset to inspect"),
			"kind":         tool.NewStringSchema("dataset kind").WithEnum("managed", "external"),
		}, []string{"dataset_name"}),
	}

	_, err := client.Chat(context.Background(), []types.Message{
		{Role: types.RoleUser, Content: "hi"},
	}, []tool.Tool{mock})
	require.NoError(t, err)

	require.NotNil(t, captured)
	require.Len(t, captured.Tools, 1)
	def := captured.Tools[0]
	assert.Equal(t, "get_dataset_info", def.Name)
	assert.Equal(t, "object", def.InputSchema.Type)
	assert.Equal(t, []string{"dataset_name"}, def.InputSchema.Required)
	assert.Equal(t, "string", def.InputSchema.Properties["dataset_name"]["type"])
	assert.Len(t, def.InputSchema.Properties["kind"]["enum"], 2)
}

func TestChatRoundTripsToolHistory(t *testing.T) {
	var captured *MessagesRequest
	server := newTestServer(t, func(w http.ResponseWriter, req *MessagesRequest) {
		captured = req
		respond(w, &MessagesResponse{
			Content:    []ContentBlock{{Type: "text", Text: "done"}},
			StopReason: "end_turn",
		})
	})
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", Endpoint: server.URL})

	_, err := client.Chat(context.Background(), []types.Message{
		{Role: types.RoleUser, Content: "list my data"},
		{Role: types.RoleAssistant, ToolCalls: []types.ToolCall{
			{ID: "tu_1", Name: "list_datasets", Input: map[string]interface{}{}},
		}},
		{Role: types.RoleUser, ToolResults: []types.ToolResult{
			{ToolUseID: "tu_1", Content: `{"datasets":[]}`},
		}},
	}, nil)
	require.NoError(t, err)

	require.NotNil(t, captured)
	require.Len(t, captured.Messages, 3)

	toolUse := captured.Messages[1].Content[0]
	assert.Equal(t, "tool_use", toolUse.Type)
	assert.Equal(t, "tu_1", toolUse.ID)
	assert.NotNil(t, toolUse.Input, "tool_use must carry input even when empty")

	toolResult := captured.Messages[2].Content[0]
	assert.Equal(t, "tool_result", toolResult.Type)
	assert.Equal(t, "tu_1", toolResult.ToolUseID)
	assert.Equal(t, `{"datasets":[]}`, toolResult.Content)
}

func TestChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", Endpoint: server.URL})

	_, err := client.Chat(context.Background(), []types.Message{
		{Role: types.RoleUser, Content: "hi"},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.Error(), "rate_limit_error")
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{APIKey: "k"})
	assert.Equal(t, DefaultModel, client.Model())
	assert.Equal(t, "anthropic", client.Name())
	assert.Equal(t, DefaultMaxTokens, client.maxTokens)
	assert.Equal(t, DefaultEndpoint, client.endpoint)
}
