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
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/flowsmith-labs/flowsmith/internal/log"
	"github.com/flowsmith-labs/flowsmith/pkg/chat"
	"github.com/flowsmith-labs/flowsmith/pkg/llm/anthropic"
	"github.com/flowsmith-labs/flowsmith/pkg/types"
	"github.com/flowsmith-labs/flowsmith/pkg/workflow"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive workflow-building conversation",
	Long: `Start an interactive session with the assistant.

The assistant inspects the project's datasets, proposes a workflow plan
for your goal and, once you confirm, creates the datasets and recipes
in the workspace.

Session commands:
  /reset   clear the conversation history
  /quit    end the session
`,
	RunE: runChatCommand,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChatCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	apiKey, err := anthropicAPIKey()
	if err != nil {
		return err
	}
	ws, err := newWorkspaceClient()
	if err != nil {
		return err
	}
	if _, err := ws.CheckAuth(ctx); err != nil {
		return err
	}

	provider := anthropic.NewClient(anthropic.Config{APIKey: apiKey})
	builder := workflow.NewBuilder(ws, log.Logger())
	handler, err := chat.NewHandler(ctx, provider, ws, ws.ProjectKey(), builder, log.Logger())
	if err != nil {
		return err
	}

	sessionID := uuid.New().String()
	fmt.Printf("Session %s | project %s | model %s\n", sessionID, ws.ProjectKey(), provider.Model())
	fmt.Println("Describe what you want to build. /reset clears the history, /quit exits.")

	var history []types.Message
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("\nYou> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "/quit", "/exit":
			fmt.Println("Bye.")
			return nil
		case "/reset":
			history = nil
			handler.Reset()
			fmt.Println("Conversation cleared.")
			continue
		}

		reply, updated, err := handler.ProcessMessage(ctx, line, history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		history = updated
		fmt.Printf("\nAssistant> %s\n", reply)
	}
	return scanner.Err()
}
