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

package workflow

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/flowsmith-labs/flowsmith/pkg/workspace"
)

// Gateway is the slice of the workspace API the builder needs.
type Gateway interface {
	DatasetExists(ctx context.Context, datasetName string) (bool, error)
	CreateDataset(ctx context.Context, datasetName, kind string) error
	CreateRecipe(ctx context.Context, def workspace.RecipeDefinition) error
}

var _ Gateway = (*workspace.Client)(nil)

// Result is the materialization ledger. It is built incrementally and
// returned even on failure: CreatedRecipes is always a prefix of the
// plan's recipe names in declaration order, and CreatedDatasets lists
// what exists remotely regardless of outcome.
type Result struct {
	Success         bool     `json:"success"`
	WorkflowName    string   `json:"workflow_name,omitempty"`
	CreatedRecipes  []string `json:"created_recipes"`
	CreatedDatasets []string `json:"created_datasets"`
	OutputDataset   string   `json:"output_dataset,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// Builder materializes plans against a workspace gateway.
type Builder struct {
	gw     Gateway
	logger *zap.Logger
}

// NewBuilder creates a Builder. A nil logger is replaced with a no-op.
func NewBuilder(gw Gateway, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{gw: gw, logger: logger}
}

// CreateWorkflow creates the plan's datasets and recipe steps in order.
//
// The final output dataset is created up front when missing; each
// intermediate output is created lazily right before the recipe that
// produces it. Dataset creation is skipped when the dataset already
// exists, recipe creation is attempted unconditionally. On the first
// error materialization stops and the partial ledger is returned with
// Success=false; nothing already created is rolled back. Leaving the
// partial state in place keeps it inspectable in the workspace and
// lets the caller prune completed steps before retrying.
func (b *Builder) CreateWorkflow(ctx context.Context, plan *Plan) *Result {
	result := &Result{
		WorkflowName:    plan.Name,
		CreatedRecipes:  []string{},
		CreatedDatasets: []string{},
		OutputDataset:   plan.OutputDataset,
	}
	b.logger.Info("materializing workflow",
		zap.String("workflow", plan.Name),
		zap.Int("recipes", len(plan.Recipes)))

	if err := b.ensureDataset(ctx, plan.OutputDataset, result); err != nil {
		return fail(result, err)
	}

	for _, spec := range plan.Recipes {
		output := spec.Output()
		if output == "" {
			output = plan.OutputDataset
		}
		if output != plan.OutputDataset {
			if err := b.ensureDataset(ctx, output, result); err != nil {
				return fail(result, err)
			}
		}

		def, err := b.recipeDefinition(spec, output)
		if err != nil {
			return fail(result, err)
		}
		if err := b.gw.CreateRecipe(ctx, def); err != nil {
			return fail(result, err)
		}
		result.CreatedRecipes = append(result.CreatedRecipes, spec.RecipeName())
		b.logger.Info("recipe step created",
			zap.String("workflow", plan.Name),
			zap.String("recipe", spec.RecipeName()),
			zap.String("type", spec.Kind()))
	}

	result.Success = true
	b.logger.Info("workflow materialized",
		zap.String("workflow", plan.Name),
		zap.Strings("created_datasets", result.CreatedDatasets))
	return result
}

// ensureDataset creates a managed dataset unless it already exists,
// recording it in the ledger when created.
func (b *Builder) ensureDataset(ctx context.Context, name string, result *Result) error {
	exists, err := b.gw.DatasetExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := b.gw.CreateDataset(ctx, name, workspace.DatasetKindManaged); err != nil {
		return err
	}
	result.CreatedDatasets = append(result.CreatedDatasets, name)
	return nil
}

func (b *Builder) recipeDefinition(spec RecipeSpec, output string) (workspace.RecipeDefinition, error) {
	switch r := spec.(type) {
	case *PythonRecipe:
		code := r.Code
		if code == "" {
			code = generatePythonTemplate(r.Inputs, output)
		}
		return workspace.RecipeDefinition{
			Type:    KindPython,
			Name:    r.Name,
			Inputs:  r.Inputs,
			Outputs: []string{output},
			Code:    code,
		}, nil

	case *GroupingRecipe:
		keys := make([]map[string]interface{}, 0, len(r.GroupBy))
		for _, col := range r.GroupBy {
			keys = append(keys, map[string]interface{}{"column": col})
		}
		values := make([]map[string]interface{}, 0, len(r.Aggregations))
		for _, agg := range r.Aggregations {
			values = append(values, map[string]interface{}{
				"column":       agg.Column,
				"aggregation":  agg.Function,
				"outputColumn": agg.OutputColumn,
			})
		}
		// The keys and values sections replace whatever defaults the
		// server seeded, they are not merged.
		return workspace.RecipeDefinition{
			Type:    KindGrouping,
			Name:    r.Name,
			Inputs:  []string{r.Input},
			Outputs: []string{output},
			Payload: map[string]interface{}{
				"keys":   keys,
				"values": values,
			},
		}, nil

	case *JoinRecipe:
		on := make([]map[string]interface{}, 0, len(r.Keys))
		for _, k := range r.Keys {
			on = append(on, map[string]interface{}{
				"column1": k.Left,
				"column2": k.Right,
			})
		}
		// Fixed prefixes disambiguate same-named columns from the two
		// sides in the server's internal representation.
		return workspace.RecipeDefinition{
			Type:    KindJoin,
			Name:    r.Name,
			Inputs:  []string{r.Left, r.Right},
			Outputs: []string{output},
			Payload: map[string]interface{}{
				"virtualInputs": []map[string]interface{}{
					{"index": 0, "prefix": "left_"},
					{"index": 1, "prefix": "right_"},
				},
				"joins": []map[string]interface{}{
					{
						"table1": 0,
						"table2": 1,
						"type":   strings.ToUpper(r.JoinType),
						"on":     on,
					},
				},
			},
		}, nil

	default:
		return workspace.RecipeDefinition{}, fmt.Errorf("unsupported recipe type: %s", spec.Kind())
	}
}

func fail(result *Result, err error) *Result {
	result.Success = false
	result.Error = err.Error()
	return result
}

// generatePythonTemplate synthesizes a placeholder script that reads
// every input as a dataframe, copies the first one through unchanged
// and writes it to the output with its inferred schema.
func generatePythonTemplate(inputs []string, output string) string {
	var sb strings.Builder
	sb.WriteString("# Generated transform placeholder\n")
	sb.WriteString("import dataiku\nimport pandas as pd\n\n")
	for _, in := range inputs {
		fmt.Fprintf(&sb, "%s_df = dataiku.Dataset(\"%s\").get_dataframe()\n", identifier(in), in)
	}
	sb.WriteString("\n# Replace this pass-through with the real transformation\n")
	fmt.Fprintf(&sb, "result_df = %s_df.copy()\n\n", identifier(inputs[0]))
	fmt.Fprintf(&sb, "output_ds = dataiku.Dataset(\"%s\")\n", output)
	sb.WriteString("output_ds.write_with_schema(result_df)\n")
	return sb.String()
}

// identifier normalizes a dataset name into a valid local variable name.
func identifier(datasetName string) string {
	return strings.ReplaceAll(strings.ToLower(datasetName), "-", "_")
}
