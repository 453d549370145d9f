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
	"regexp"

	"github.com/spf13/cobra"
)

var rotateLabel string

var rotateKeyCmd = &cobra.Command{
	Use:   "rotate-key",
	Short: "Create a new personal API key and update the env file",
	Long: `Create a new personal API key for the currently authenticated user
and write it into the env file's DSS_API_KEY entry.

The old key stays active on the server; revoke it there once the new
one is verified. Requires API-key management rights.`,
	RunE: runRotateKeyCommand,
}

func init() {
	rotateKeyCmd.Flags().StringVar(&rotateLabel, "label", "flowsmith - auto-rotated", "label of the new API key")
	rootCmd.AddCommand(rotateKeyCmd)
}

func runRotateKeyCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ws, err := newWorkspaceClient()
	if err != nil {
		return err
	}

	info, err := ws.CheckAuth(ctx)
	if err != nil {
		return err
	}
	if info.AuthIdentifier == "" {
		return fmt.Errorf("cannot determine the authenticated user")
	}

	newKey, err := ws.CreatePersonalAPIKey(ctx, info.AuthIdentifier, rotateLabel)
	if err != nil {
		return err
	}

	if _, err := os.Stat(envFile); err != nil {
		// No env file to update; the key would be lost otherwise.
		fmt.Printf("New API key: %s\n", newKey)
		fmt.Printf("WARNING: %s not found, add the key to your env file manually.\n", envFile)
		return nil
	}

	if err := updateEnvKey(envFile, newKey); err != nil {
		return fmt.Errorf("failed to update %s: %w", envFile, err)
	}

	fmt.Printf("New API key created and saved to %s.\n", envFile)
	fmt.Println("The old key is still active; revoke it in the workspace once verified.")
	return nil
}

var dssKeyLine = regexp.MustCompile(`(?m)^DSS_API_KEY=.*$`)

// updateEnvKey rewrites the DSS_API_KEY line in place, appending one
// when the file has none. Other lines are left untouched.
func updateEnvKey(path, newKey string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	entry := "DSS_API_KEY=" + newKey
	var updated string
	if dssKeyLine.Match(content) {
		updated = dssKeyLine.ReplaceAllString(string(content), entry)
	} else {
		updated = string(content)
		if len(updated) > 0 && updated[len(updated)-1] != '\n' {
			updated += "\n"
		}
		updated += entry + "\n"
	}

	return os.WriteFile(path, []byte(updated), 0o600)
}
