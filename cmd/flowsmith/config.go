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

	"github.com/spf13/viper"

	"github.com/flowsmith-labs/flowsmith/internal/log"
	"github.com/flowsmith-labs/flowsmith/pkg/workspace"
)

// loadEnvFile reads a dotenv-style file and exports its variables into
// the process environment. Variables already set in the environment win
// over file values. A missing file is not an error; required variables
// are checked later where they are used.
func loadEnvFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if os.Getenv(name) == "" {
			if err := os.Setenv(name, v.GetString(key)); err != nil {
				return err
			}
		}
	}
	return nil
}

// newWorkspaceClient builds a workspace client from the environment,
// letting the --project flag override the default project key.
func newWorkspaceClient() (*workspace.Client, error) {
	cfg, err := workspace.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if project := viper.GetString("project"); project != "" {
		cfg.ProjectKey = project
	}
	return workspace.NewClient(cfg, log.Logger())
}

// anthropicAPIKey returns the Anthropic API key or an error naming the
// missing variable.
func anthropicAPIKey() (string, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return "", fmt.Errorf("required environment variable ANTHROPIC_API_KEY is not set (copy .env.example and fill it in)")
	}
	return key, nil
}
