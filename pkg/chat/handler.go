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

// Package chat drives the tool-mediated conversation between the user,
// the language model and the workspace.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/flowsmith-labs/flowsmith/pkg/tool"
	"github.com/flowsmith-labs/flowsmith/pkg/types"
)

// Handler runs conversations: it sends the history to the model, routes
// requested tool calls to the workspace and the workflow builder, feeds
// the results back and repeats until the model answers in plain text.
type Handler struct {
	provider     types.LLMProvider
	registry     *tool.Registry
	executor     *tool.Executor
	gate         *planGate
	systemPrompt string
	logger       *zap.Logger
}

// NewHandler builds a Handler bound to one project. The dataset
// overview embedded in the system prompt is fetched once, here;
// individual schema failures are noted inline rather than aborting.
func NewHandler(ctx context.Context, provider types.LLMProvider, ws Workspace, projectKey string, builder Materializer, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	overview, err := datasetOverview(ctx, ws)
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset overview: %w", err)
	}

	gate := &planGate{}
	registry := tool.NewRegistry()
	registry.Register(&listDatasetsTool{ws: ws})
	registry.Register(&datasetInfoTool{ws: ws})
	registry.Register(&proposeWorkflowTool{gate: gate})
	registry.Register(&createWorkflowTool{gate: gate, builder: builder})

	logger.Info("chat handler initialized",
		zap.String("project", projectKey),
		zap.String("model", provider.Model()),
		zap.Int("tools", registry.Count()))

	return &Handler{
		provider:     provider,
		registry:     registry,
		executor:     tool.NewExecutor(registry),
		gate:         gate,
		systemPrompt: systemPrompt(projectKey, overview),
		logger:       logger,
	}, nil
}

// ProcessMessage appends the user message to the history, runs the tool
// loop until the model stops requesting tools, and returns the final
// text answer together with the updated history.
//
// The history a caller passes in holds user and assistant turns only;
// the system prompt is prepended on every model call and never stored.
func (h *Handler) ProcessMessage(ctx context.Context, userMessage string, history []types.Message) (string, []types.Message, error) {
	messages := append(append([]types.Message{}, history...), types.Message{
		Role:    types.RoleUser,
		Content: userMessage,
	})
	h.gate.observeUserMessage(userMessage)

	for {
		withSystem := append([]types.Message{{
			Role:    types.RoleSystem,
			Content: h.systemPrompt,
		}}, messages...)

		resp, err := h.provider.Chat(ctx, withSystem, h.registry.ListTools())
		if err != nil {
			return "", messages, fmt.Errorf("LLM call failed: %w", err)
		}
		h.logger.Debug("model response",
			zap.String("stop_reason", resp.StopReason),
			zap.Int("tool_calls", len(resp.ToolCalls)),
			zap.Int("output_tokens", resp.Usage.OutputTokens))

		switch resp.StopReason {
		case types.StopEndTurn:
			messages = append(messages, types.Message{
				Role:    types.RoleAssistant,
				Content: resp.Content,
			})
			return resp.Content, messages, nil

		case types.StopToolUse:
			results := make([]types.ToolResult, 0, len(resp.ToolCalls))
			for _, call := range resp.ToolCalls {
				results = append(results, types.ToolResult{
					ToolUseID: call.ID,
					Content:   h.dispatch(ctx, call),
				})
			}
			messages = append(messages,
				types.Message{
					Role:      types.RoleAssistant,
					Content:   resp.Content,
					ToolCalls: resp.ToolCalls,
				},
				types.Message{
					Role:        types.RoleUser,
					ToolResults: results,
				})

		default:
			// The assistant turn is not recorded here; the history ends
			// on the user message that triggered this exchange.
			return fmt.Sprintf("Unexpected response (stop reason: %s)", resp.StopReason), messages, nil
		}
	}
}

// Reset clears session state kept outside the message history.
func (h *Handler) Reset() {
	h.gate.reset()
}

// dispatch executes one tool call and serializes its outcome for the
// model. Failures of any kind become an {"error": ...} payload; they
// never abort the conversation.
func (h *Handler) dispatch(ctx context.Context, call types.ToolCall) string {
	h.logger.Info("executing tool", zap.String("tool", call.Name))

	result, err := h.executor.Execute(ctx, call.Name, call.Input)
	if err != nil {
		h.logger.Error("tool execution failed", zap.String("tool", call.Name), zap.Error(err))
		return errorPayload(err.Error())
	}
	if result.Error != nil {
		h.logger.Warn("tool returned an error",
			zap.String("tool", call.Name),
			zap.String("code", result.Error.Code))
		return errorPayload(result.Error.Message)
	}

	data, err := json.Marshal(result.Data)
	if err != nil {
		return errorPayload(fmt.Sprintf("failed to serialize result of %s: %v", call.Name, err))
	}
	return string(data)
}

func errorPayload(message string) string {
	data, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		return `{"error": "internal serialization failure"}`
	}
	return string(data)
}

// datasetOverview formats the project's datasets for the system prompt.
// Schema lookups that fail are reported inline per dataset.
func datasetOverview(ctx context.Context, ws Workspace) (string, error) {
	names, err := ws.ListDatasets(ctx, "")
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "No datasets available in this project.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 %d dataset(s) available:\n", len(names))
	for _, name := range names {
		columns, err := ws.GetDatasetSchema(ctx, name, "")
		if err != nil {
			fmt.Fprintf(&sb, "\n  • %s (schema unavailable: %v)", name, err)
			continue
		}
		summaries := make([]string, 0, len(columns))
		for i, col := range columns {
			if i == 5 {
				summaries = append(summaries, fmt.Sprintf("... (%d total)", len(columns)))
				break
			}
			summaries = append(summaries, fmt.Sprintf("%s (%s)", col.Name, col.Type))
		}
		fmt.Fprintf(&sb, "\n  • %s\n    Columns: %s", name, strings.Join(summaries, ", "))
	}
	return sb.String(), nil
}
