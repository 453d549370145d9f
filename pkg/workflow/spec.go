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

// Package workflow turns declarative transformation plans into datasets
// and recipe steps in the remote workspace.
package workflow

import (
	"fmt"
	"strings"
)

// Recipe kind tags.
const (
	KindPython   = "python"
	KindGrouping = "grouping"
	KindJoin     = "join"
)

// DefaultJoinType is used when a join recipe does not name one.
const DefaultJoinType = "LEFT"

// RecipeSpec is one transformation step of a plan. The concrete types
// are PythonRecipe, GroupingRecipe and JoinRecipe; each is validated at
// construction so configuration errors surface before any remote call.
type RecipeSpec interface {
	// Kind returns the recipe kind tag.
	Kind() string
	// RecipeName returns the step name.
	RecipeName() string
	// Output returns the declared output dataset, or "" to default to
	// the plan's final output.
	Output() string
}

// Plan is a complete workflow: source datasets, ordered recipe steps
// and a final output dataset.
//
// Recipe inputs are not cross-checked against sources and earlier
// outputs here; a dangling reference surfaces as a remote failure
// during materialization.
type Plan struct {
	Name           string
	SourceDatasets []string
	Recipes        []RecipeSpec
	OutputDataset  string
}

// Aggregation maps a source column through an aggregation function to
// an output column.
type Aggregation struct {
	Column       string
	Function     string
	OutputColumn string
}

// JoinKey pairs a left-side column with a right-side column.
type JoinKey struct {
	Left  string
	Right string
}

// PythonRecipe is a code-based transform with one or more inputs.
// When Code is empty a placeholder script is generated at creation.
type PythonRecipe struct {
	Name          string
	Inputs        []string
	OutputDataset string
	Code          string
}

func (r *PythonRecipe) Kind() string       { return KindPython }
func (r *PythonRecipe) RecipeName() string { return r.Name }
func (r *PythonRecipe) Output() string     { return r.OutputDataset }

func (r *PythonRecipe) validate() error {
	if r.Name == "" {
		return fmt.Errorf("python recipe: name is required")
	}
	if len(r.Inputs) == 0 {
		return fmt.Errorf("python recipe %s: at least one input is required", r.Name)
	}
	for _, in := range r.Inputs {
		if in == "" {
			return fmt.Errorf("python recipe %s: empty input dataset name", r.Name)
		}
	}
	return nil
}

// GroupingRecipe is a single-input aggregation step.
type GroupingRecipe struct {
	Name          string
	Input         string
	OutputDataset string
	GroupBy       []string
	Aggregations  []Aggregation
}

func (r *GroupingRecipe) Kind() string       { return KindGrouping }
func (r *GroupingRecipe) RecipeName() string { return r.Name }
func (r *GroupingRecipe) Output() string     { return r.OutputDataset }

func (r *GroupingRecipe) validate() error {
	if r.Name == "" {
		return fmt.Errorf("grouping recipe: name is required")
	}
	if r.Input == "" {
		return fmt.Errorf("grouping recipe %s: input dataset is required", r.Name)
	}
	if len(r.GroupBy) == 0 {
		return fmt.Errorf("grouping recipe %s: at least one group-by column is required", r.Name)
	}
	for i, agg := range r.Aggregations {
		if agg.Column == "" || agg.Function == "" || agg.OutputColumn == "" {
			return fmt.Errorf("grouping recipe %s: aggregation %d needs column, function and output", r.Name, i)
		}
	}
	return nil
}

// JoinRecipe joins a left and a right dataset on one or more key pairs.
type JoinRecipe struct {
	Name          string
	Left          string
	Right         string
	OutputDataset string
	Keys          []JoinKey
	JoinType      string
}

func (r *JoinRecipe) Kind() string       { return KindJoin }
func (r *JoinRecipe) RecipeName() string { return r.Name }
func (r *JoinRecipe) Output() string     { return r.OutputDataset }

func (r *JoinRecipe) validate() error {
	if r.Name == "" {
		return fmt.Errorf("join recipe: name is required")
	}
	if r.Left == "" || r.Right == "" {
		return fmt.Errorf("join recipe %s: left and right datasets are required", r.Name)
	}
	if len(r.Keys) == 0 {
		return fmt.Errorf("join recipe %s: at least one join key pair is required", r.Name)
	}
	for i, k := range r.Keys {
		if k.Left == "" || k.Right == "" {
			return fmt.Errorf("join recipe %s: join key %d needs both columns", r.Name, i)
		}
	}
	return nil
}

// ParsePlan builds a validated Plan from the raw tool input of a
// workflow-creation call.
func ParsePlan(input map[string]interface{}) (*Plan, error) {
	name, err := stringField(input, "workflow_name")
	if err != nil {
		return nil, err
	}
	output, err := stringField(input, "output_dataset")
	if err != nil {
		return nil, err
	}
	sources, err := stringSliceField(input, "source_datasets")
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one source dataset is required")
	}

	rawRecipes, ok := input["recipes"].([]interface{})
	if !ok || len(rawRecipes) == 0 {
		return nil, fmt.Errorf("at least one recipe is required")
	}

	plan := &Plan{
		Name:           name,
		SourceDatasets: sources,
		OutputDataset:  output,
	}
	for i, raw := range rawRecipes {
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("recipe %d: expected an object", i)
		}
		spec, err := parseRecipe(m)
		if err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i, err)
		}
		plan.Recipes = append(plan.Recipes, spec)
	}
	return plan, nil
}

func parseRecipe(m map[string]interface{}) (RecipeSpec, error) {
	kind, _ := m["type"].(string)
	name, _ := m["name"].(string)
	output, _ := m["output"].(string)

	switch kind {
	case KindPython:
		inputs, err := stringSliceField(m, "inputs")
		if err != nil {
			return nil, err
		}
		code, _ := m["code"].(string)
		r := &PythonRecipe{Name: name, Inputs: inputs, OutputDataset: output, Code: code}
		if err := r.validate(); err != nil {
			return nil, err
		}
		return r, nil

	case KindGrouping:
		input, _ := m["input"].(string)
		groupBy, err := stringSliceField(m, "group_by")
		if err != nil {
			return nil, err
		}
		aggs, err := parseAggregations(m["aggregations"])
		if err != nil {
			return nil, err
		}
		r := &GroupingRecipe{Name: name, Input: input, OutputDataset: output, GroupBy: groupBy, Aggregations: aggs}
		if err := r.validate(); err != nil {
			return nil, err
		}
		return r, nil

	case KindJoin:
		left, _ := m["left"].(string)
		right, _ := m["right"].(string)
		keys, err := parseJoinKeys(m["join_keys"])
		if err != nil {
			return nil, err
		}
		joinType, _ := m["join_type"].(string)
		if joinType == "" {
			joinType = DefaultJoinType
		}
		r := &JoinRecipe{Name: name, Left: left, Right: right, OutputDataset: output, Keys: keys, JoinType: joinType}
		if err := r.validate(); err != nil {
			return nil, err
		}
		return r, nil

	default:
		return nil, fmt.Errorf("unsupported recipe type: %s", kind)
	}
}

func parseAggregations(raw interface{}) ([]Aggregation, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("aggregations must be an array")
	}
	aggs := make([]Aggregation, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("aggregation %d: expected an object", i)
		}
		column, _ := m["column"].(string)
		function, _ := m["function"].(string)
		out, _ := m["output"].(string)
		aggs = append(aggs, Aggregation{Column: column, Function: function, OutputColumn: out})
	}
	return aggs, nil
}

// parseJoinKeys accepts either two-element arrays or {left, right}
// objects; models emit both shapes.
func parseJoinKeys(raw interface{}) ([]JoinKey, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("join_keys must be an array")
	}
	keys := make([]JoinKey, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case []interface{}:
			if len(v) != 2 {
				return nil, fmt.Errorf("join key %d: expected a [left, right] pair", i)
			}
			left, _ := v[0].(string)
			right, _ := v[1].(string)
			keys = append(keys, JoinKey{Left: left, Right: right})
		case map[string]interface{}:
			left, _ := v["left"].(string)
			right, _ := v["right"].(string)
			keys = append(keys, JoinKey{Left: left, Right: right})
		default:
			return nil, fmt.Errorf("join key %d: expected a pair or a {left, right} object", i)
		}
	}
	return keys, nil
}

func stringField(m map[string]interface{}, key string) (string, error) {
	v, ok := m[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

func stringSliceField(m map[string]interface{}, key string) ([]string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s must be an array of strings", key)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d] must be a string", key, i)
		}
		out = append(out, s)
	}
	return out, nil
}
