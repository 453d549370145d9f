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

package chat

import (
	"context"
	"fmt"

	"github.com/flowsmith-labs/flowsmith/pkg/tool"
	"github.com/flowsmith-labs/flowsmith/pkg/workflow"
	"github.com/flowsmith-labs/flowsmith/pkg/workspace"
)

// Workspace is the read-only slice of the workspace API the chat tools
// inspect datasets through.
type Workspace interface {
	ListDatasets(ctx context.Context, projectKey string) ([]string, error)
	GetDatasetSchema(ctx context.Context, datasetName, projectKey string) ([]workspace.Column, error)
}

var _ Workspace = (*workspace.Client)(nil)

// Materializer creates workflows from validated plans.
type Materializer interface {
	CreateWorkflow(ctx context.Context, plan *workflow.Plan) *workflow.Result
}

var _ Materializer = (*workflow.Builder)(nil)

// listDatasetsTool lists every dataset of the project with a compact
// schema summary.
type listDatasetsTool struct {
	ws Workspace
}

var _ tool.Tool = (*listDatasetsTool)(nil)

func (t *listDatasetsTool) Name() string {
	return "list_datasets"
}

func (t *listDatasetsTool) Description() string {
	return "List all datasets available in the project with their column schemas"
}

func (t *listDatasetsTool) InputSchema() *tool.JSONSchema {
	return tool.NewObjectSchema("", map[string]*tool.JSONSchema{}, nil)
}

func (t *listDatasetsTool) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	names, err := t.ws.ListDatasets(ctx, "")
	if err != nil {
		return toolFailure("workspace_error", err), nil
	}

	datasets := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		columns, err := t.ws.GetDatasetSchema(ctx, name, "")
		if err != nil {
			return toolFailure("workspace_error", err), nil
		}
		summaries := make([]string, 0, len(columns))
		for _, col := range columns {
			summaries = append(summaries, fmt.Sprintf("%s (%s)", col.Name, col.Type))
		}
		datasets = append(datasets, map[string]interface{}{
			"name":    name,
			"columns": summaries,
		})
	}

	return &tool.Result{
		Success: true,
		Data:    map[string]interface{}{"datasets": datasets},
	}, nil
}

// datasetInfoTool returns the detailed schema of one dataset.
type datasetInfoTool struct {
	ws Workspace
}

var _ tool.Tool = (*datasetInfoTool)(nil)

func (t *datasetInfoTool) Name() string {
	return "get_dataset_info"
}

func (t *datasetInfoTool) Description() string {
	return "Get detailed information about a specific dataset (columns, types, meanings)"
}

func (t *datasetInfoTool) InputSchema() *tool.JSONSchema {
	return tool.NewObjectSchema("",
		map[string]*tool.JSONSchema{
			"dataset_name": tool.NewStringSchema("Name of the dataset to inspect"),
		},
		[]string{"dataset_name"},
	)
}

func (t *datasetInfoTool) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	name, _ := params["dataset_name"].(string)

	columns, err := t.ws.GetDatasetSchema(ctx, name, "")
	if err != nil {
		return toolFailure("workspace_error", err), nil
	}

	columnsInfo := make([]map[string]interface{}, 0, len(columns))
	for _, col := range columns {
		columnsInfo = append(columnsInfo, map[string]interface{}{
			"name":    col.Name,
			"type":    col.Type,
			"meaning": col.Meaning,
		})
	}

	return &tool.Result{
		Success: true,
		Data: map[string]interface{}{
			"name":       name,
			"columns":    columnsInfo,
			"nb_columns": len(columnsInfo),
		},
	}, nil
}

// proposeWorkflowTool records a validated plan proposal and arms the
// confirmation gate. It never touches the workspace.
type proposeWorkflowTool struct {
	gate *planGate
}

var _ tool.Tool = (*proposeWorkflowTool)(nil)

func (t *proposeWorkflowTool) Name() string {
	return "propose_workflow"
}

func (t *proposeWorkflowTool) Description() string {
	return "Record a workflow plan proposal so the user can confirm it. " +
		"Always call this and wait for the user's explicit approval before create_workflow."
}

func (t *proposeWorkflowTool) InputSchema() *tool.JSONSchema {
	return planSchema()
}

func (t *proposeWorkflowTool) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	plan, err := workflow.ParsePlan(params)
	if err != nil {
		return toolFailure("invalid_plan", err), nil
	}

	t.gate.propose()
	return &tool.Result{
		Success: true,
		Data: map[string]interface{}{
			"status":        "proposed",
			"workflow_name": plan.Name,
			"message":       "Plan recorded. Ask the user to confirm before creating it.",
		},
	}, nil
}

// createWorkflowTool materializes a confirmed plan. The confirmation
// gate is checked first; an unconfirmed call fails without side effects.
type createWorkflowTool struct {
	gate    *planGate
	builder Materializer
}

var _ tool.Tool = (*createWorkflowTool)(nil)

func (t *createWorkflowTool) Name() string {
	return "create_workflow"
}

func (t *createWorkflowTool) Description() string {
	return "Create a complete workflow (datasets + recipes) in the workspace. " +
		"Only usable after the user confirmed a plan recorded with propose_workflow."
}

func (t *createWorkflowTool) InputSchema() *tool.JSONSchema {
	return planSchema()
}

func (t *createWorkflowTool) Execute(ctx context.Context, params map[string]interface{}) (*tool.Result, error) {
	if !t.gate.confirmed() {
		return &tool.Result{
			Success: false,
			Error: &tool.Error{
				Code:    "confirmation_required",
				Message: "the user has not confirmed this plan; call propose_workflow and wait for an explicit approval",
			},
		}, nil
	}

	plan, err := workflow.ParsePlan(params)
	if err != nil {
		return toolFailure("invalid_plan", err), nil
	}

	result := t.builder.CreateWorkflow(ctx, plan)
	t.gate.reset()

	// A partial materialization failure is still a well-formed result;
	// the model explains the ledger to the user.
	return &tool.Result{Success: true, Data: result}, nil
}

// planSchema is the shared input schema of propose_workflow and
// create_workflow.
func planSchema() *tool.JSONSchema {
	recipeItem := tool.NewObjectSchema("One transformation step",
		map[string]*tool.JSONSchema{
			"type":     tool.NewStringSchema("Recipe kind").WithEnum("python", "grouping", "join"),
			"name":     tool.NewStringSchema("Step name"),
			"output":   tool.NewStringSchema("Output dataset of this step (defaults to the workflow's final output)"),
			"inputs":   tool.NewArraySchema("Input datasets (python)", tool.NewStringSchema("")),
			"code":     tool.NewStringSchema("Python transform code (python, optional)"),
			"input":    tool.NewStringSchema("Input dataset (grouping)"),
			"group_by": tool.NewArraySchema("Group-by columns (grouping)", tool.NewStringSchema("")),
			"aggregations": tool.NewArraySchema("Aggregations (grouping): {column, function, output}",
				tool.NewObjectSchema("", map[string]*tool.JSONSchema{
					"column":   tool.NewStringSchema("Source column"),
					"function": tool.NewStringSchema("Aggregation function (sum, avg, count, ...)"),
					"output":   tool.NewStringSchema("Output column name"),
				}, nil)),
			"left":      tool.NewStringSchema("Left dataset (join)"),
			"right":     tool.NewStringSchema("Right dataset (join)"),
			"join_keys": tool.NewArraySchema("Join key pairs (join): [left_column, right_column]", nil),
			"join_type": tool.NewStringSchema("Join kind (join)").WithDefault("LEFT"),
		},
		[]string{"type", "name"},
	)

	return tool.NewObjectSchema("",
		map[string]*tool.JSONSchema{
			"workflow_name":   tool.NewStringSchema("Descriptive name of the workflow"),
			"source_datasets": tool.NewArraySchema("Source datasets used by the workflow", tool.NewStringSchema("")),
			"recipes":         tool.NewArraySchema("Recipe steps to create, in order", recipeItem),
			"output_dataset":  tool.NewStringSchema("Name of the final output dataset"),
		},
		[]string{"workflow_name", "source_datasets", "recipes", "output_dataset"},
	)
}

func toolFailure(code string, err error) *tool.Result {
	return &tool.Result{
		Success: false,
		Error:   &tool.Error{Code: code, Message: err.Error()},
	}
}
