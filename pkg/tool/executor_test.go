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

package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorRunsTool(t *testing.T) {
	registry := NewRegistry()
	mock := &MockTool{
		MockName: "echo",
		MockExecute: func(ctx context.Context, params map[string]interface{}) (*Result, error) {
			return &Result{Success: true, Data: params["input"]}, nil
		},
	}
	registry.Register(mock)
	executor := NewExecutor(registry)

	result, err := executor.Execute(context.Background(), "echo", map[string]interface{}{"input": "hello"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "hello", result.Data)
	assert.Equal(t, 1, mock.ExecuteCount)
	assert.Equal(t, "hello", mock.LastParams["input"])
}

func TestExecutorUnknownTool(t *testing.T) {
	executor := NewExecutor(NewRegistry())

	_, err := executor.Execute(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool not found: nope")
}

func TestExecutorValidatesInput(t *testing.T) {
	registry := NewRegistry()
	mock := &MockTool{
		MockName: "strict",
		MockSchema: NewObjectSchema("", map[string]*JSONSchema{
			"name": NewStringSchema("required name"),
		}, []string{"name"}),
	}
	registry.Register(mock)
	executor := NewExecutor(registry)

	result, err := executor.Execute(context.Background(), "strict", map[string]interface{}{})
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, "invalid_arguments", result.Error.Code)
	assert.Contains(t, result.Error.Message, "name")

	// The tool itself never ran.
	assert.Zero(t, mock.ExecuteCount)
}

func TestExecutorRejectsWrongType(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&MockTool{
		MockName: "typed",
		MockSchema: NewObjectSchema("", map[string]*JSONSchema{
			"count": {Type: "integer"},
		}, nil),
	})
	executor := NewExecutor(registry)

	result, err := executor.Execute(context.Background(), "typed", map[string]interface{}{"count": "three"})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "invalid_arguments", result.Error.Code)
}

func TestExecutorPropagatesToolError(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&MockTool{
		MockName:   "broken",
		MockSchema: NewObjectSchema("", map[string]*JSONSchema{}, nil),
		MockExecute: func(ctx context.Context, params map[string]interface{}) (*Result, error) {
			return nil, errors.New("backend exploded")
		},
	})
	executor := NewExecutor(registry)

	_, err := executor.Execute(context.Background(), "broken", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend exploded")
}

func TestExecutorNilParamsAndResult(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&MockTool{
		MockName:   "lazy",
		MockSchema: NewObjectSchema("", map[string]*JSONSchema{}, nil),
		MockExecute: func(ctx context.Context, params map[string]interface{}) (*Result, error) {
			return nil, nil
		},
	})
	executor := NewExecutor(registry)

	result, err := executor.Execute(context.Background(), "lazy", nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
}
