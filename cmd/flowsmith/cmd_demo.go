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
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Validate the workspace connection and explore the project",
	Long: `Run a guided check of the workspace setup: connection, accessible
projects, project contents and optionally one dataset schema.

Set DEMO_DATASET in your .env to inspect a specific dataset.`,
	RunE: runDemoCommand,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemoCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ws, err := newWorkspaceClient()
	if err != nil {
		return err
	}

	banner("Step 1 - Workspace connection")
	info, err := ws.CheckAuth(ctx)
	if err != nil {
		fmt.Printf("  Connection FAILED: %v\n", err)
		fmt.Println("  Check DSS_URL and DSS_API_KEY in your .env.")
		return err
	}
	fmt.Printf("  Connected as : %s\n", info.AuthIdentifier)
	fmt.Printf("  Auth source  : %s\n", info.AuthSource)
	fmt.Println("  Status       : OK")

	banner("Step 2 - Accessible projects")
	projects, err := ws.ListProjects(ctx)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		fmt.Println("  No projects accessible with this API key.")
		return nil
	}
	fmt.Printf("  %d project(s) found:\n\n", len(projects))
	for _, p := range projects {
		fmt.Printf("    [%s] %s\n", p.ProjectKey, p.Name)
	}

	projectKey := ws.ProjectKey()
	if projectKey == "" {
		projectKey = projects[0].ProjectKey
	}

	banner(fmt.Sprintf("Step 3 - Project %q contents", projectKey))
	summary, err := ws.GetProjectSummary(ctx, projectKey)
	if err != nil {
		fmt.Printf("  ERROR: %v\n", err)
	} else {
		fmt.Printf("  Datasets  : %s\n", joinOrNone(summary.Datasets))
		fmt.Printf("  Recipes   : %s\n", joinOrNone(summary.Recipes))
		fmt.Printf("  Scenarios : %s\n", joinOrNone(summary.Scenarios))
	}

	if demoDataset := os.Getenv("DEMO_DATASET"); demoDataset != "" {
		banner(fmt.Sprintf("Step 4 - Dataset %q schema", demoDataset))
		columns, err := ws.GetDatasetSchema(ctx, demoDataset, projectKey)
		if err != nil {
			fmt.Printf("  ERROR: %v\n", err)
		} else {
			fmt.Printf("  %d column(s):\n", len(columns))
			for _, col := range columns {
				fmt.Printf("    %s (%s)\n", col.Name, col.Type)
			}
		}
	} else {
		fmt.Println("\n  INFO: set DEMO_DATASET=<dataset> in .env to inspect a dataset schema.")
	}

	fmt.Println("\nDemo finished.")
	return nil
}

func banner(title string) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("  %s\n", title)
	fmt.Println(strings.Repeat("=", 60))
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
