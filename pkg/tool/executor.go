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
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// Executor executes tools by name with input validation and timing.
type Executor struct {
	registry *Registry
}

// NewExecutor creates a new tool executor.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute executes a tool by name with the given parameters.
// Parameters are validated against the tool's declared input schema before
// the tool runs; violations come back as a failed Result, not a Go error,
// so the conversation loop can report them to the model.
func (e *Executor) Execute(ctx context.Context, toolName string, params map[string]interface{}) (*Result, error) {
	tool, ok := e.registry.Get(toolName)
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", toolName)
	}

	if params == nil {
		params = map[string]interface{}{}
	}

	if err := validateParams(tool, params); err != nil {
		return &Result{
			Success: false,
			Error: &Error{
				Code:    "invalid_arguments",
				Message: err.Error(),
			},
		}, nil
	}

	start := time.Now()
	result, err := tool.Execute(ctx, params)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &Result{Success: true}
	}
	result.ExecutionTimeMs = time.Since(start).Milliseconds()
	return result, nil
}

// validateParams validates tool arguments against the tool's JSON Schema.
func validateParams(tool Tool, params map[string]interface{}) error {
	schema := tool.InputSchema()
	if schema == nil {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	paramsLoader := gojsonschema.NewGoLoader(params)

	result, err := gojsonschema.Validate(schemaLoader, paramsLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, verr := range result.Errors() {
			msgs[i] = verr.String()
		}
		return fmt.Errorf("invalid arguments for %s: %s", tool.Name(), strings.Join(msgs, "; "))
	}

	return nil
}
