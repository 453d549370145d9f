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

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Inspect the project's datasets",
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the datasets of the project with their columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := newWorkspaceClient()
		if err != nil {
			return err
		}
		names, err := ws.ListDatasets(cmd.Context(), "")
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No datasets in this project.")
			return nil
		}
		for _, name := range names {
			columns, err := ws.GetDatasetSchema(cmd.Context(), name, "")
			if err != nil {
				fmt.Printf("%s (schema unavailable: %v)\n", name, err)
				continue
			}
			summaries := make([]string, 0, len(columns))
			for _, col := range columns {
				summaries = append(summaries, fmt.Sprintf("%s (%s)", col.Name, col.Type))
			}
			fmt.Printf("%s: %s\n", name, strings.Join(summaries, ", "))
		}
		return nil
	},
}

var datasetsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the project's datasets, recipes and scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := newWorkspaceClient()
		if err != nil {
			return err
		}
		summary, err := ws.GetProjectSummary(cmd.Context(), "")
		if err != nil {
			return err
		}
		fmt.Printf("Project %s\n", summary.ProjectKey)
		fmt.Printf("  Datasets  (%d): %s\n", len(summary.Datasets), joinOrNone(summary.Datasets))
		fmt.Printf("  Recipes   (%d): %s\n", len(summary.Recipes), joinOrNone(summary.Recipes))
		fmt.Printf("  Scenarios (%d): %s\n", len(summary.Scenarios), joinOrNone(summary.Scenarios))
		return nil
	},
}

var datasetsInfoCmd = &cobra.Command{
	Use:   "info <dataset>",
	Short: "Show the schema of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := newWorkspaceClient()
		if err != nil {
			return err
		}
		columns, err := ws.GetDatasetSchema(cmd.Context(), args[0], "")
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d columns)\n", args[0], len(columns))
		for _, col := range columns {
			line := fmt.Sprintf("  %-30s %s", col.Name, col.Type)
			if col.Meaning != "" {
				line += fmt.Sprintf("  [%s]", col.Meaning)
			}
			fmt.Println(strings.TrimRight(line, " "))
		}
		return nil
	},
}

func init() {
	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsInfoCmd)
	datasetsCmd.AddCommand(datasetsSummaryCmd)
	rootCmd.AddCommand(datasetsCmd)
}
