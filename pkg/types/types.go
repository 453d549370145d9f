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

// Package types contains the conversation types shared between the chat
// loop and the LLM provider clients.
package types

import (
	"context"

	"github.com/flowsmith-labs/flowsmith/pkg/tool"
)

// Stop reasons returned by the completion API.
const (
	StopEndTurn = "end_turn"
	StopToolUse = "tool_use"
)

// Roles used in the conversation history.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolCall represents a tool invocation requested by the LLM.
type ToolCall struct {
	// ID is a unique identifier for this tool call
	ID string

	// Name is the tool name
	Name string

	// Input contains the tool parameters as decoded JSON
	Input map[string]interface{}
}

// ToolResult carries the outcome of one tool call back to the model.
// The correlation ID pairs it with the tool_use block of the preceding
// assistant turn.
type ToolResult struct {
	// ToolUseID is the ID of the tool call this result answers
	ToolUseID string

	// Content is the JSON-serialized result payload
	Content string
}

// Message represents a single message in the conversation.
// History is append-only: messages are never mutated once recorded.
type Message struct {
	// Role is the message sender (system, user, assistant)
	Role string

	// Content is the message text
	Content string

	// ToolCalls contains tool invocations (assistant turns only)
	ToolCalls []ToolCall

	// ToolResults contains tool results (user turns following a
	// tool-requesting assistant turn)
	ToolResults []ToolResult
}

// Usage tracks LLM token usage.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// LLMResponse represents a response from the LLM.
type LLMResponse struct {
	// Content is the concatenated text content of the response
	Content string

	// ToolCalls contains requested tool executions, in emission order
	ToolCalls []ToolCall

	// StopReason indicates why the LLM stopped
	StopReason string

	// Usage tracks token usage
	Usage Usage
}

// LLMProvider defines the interface for LLM completion backends.
type LLMProvider interface {
	// Chat sends a conversation to the LLM and returns the response
	Chat(ctx context.Context, messages []Message, tools []tool.Tool) (*LLMResponse, error)

	// Name returns the provider name
	Name() string

	// Model returns the model identifier
	Model() string
}
