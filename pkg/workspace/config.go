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

package workspace

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variable names for workspace configuration.
const (
	EnvURL        = "DSS_URL"
	EnvAPIKey     = "DSS_API_KEY"
	EnvProjectKey = "DSS_PROJECT_KEY"
	EnvSSLVerify  = "DSS_SSL_VERIFY"
	EnvTimeout    = "DSS_TIMEOUT"
)

// DefaultTimeout is applied when DSS_TIMEOUT is unset.
const DefaultTimeout = 30 * time.Second

// Config holds connection settings for the workspace server.
// It is plain data passed to constructors; there is no process-wide
// cached instance.
type Config struct {
	// BaseURL is the workspace server URL
	BaseURL string

	// APIKey authenticates against the workspace API
	APIKey string

	// ProjectKey is the default project used when calls don't name one
	ProjectKey string

	// SSLVerify controls TLS certificate verification (default true)
	SSLVerify bool

	// Timeout bounds each HTTP round-trip
	Timeout time.Duration
}

// ConfigFromEnv builds a Config from environment variables.
// Missing required variables fail with an error naming the variable.
func ConfigFromEnv() (*Config, error) {
	url, err := requireEnv(EnvURL)
	if err != nil {
		return nil, err
	}
	apiKey, err := requireEnv(EnvAPIKey)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL:    url,
		APIKey:     apiKey,
		ProjectKey: os.Getenv(EnvProjectKey),
		SSLVerify:  true,
		Timeout:    DefaultTimeout,
	}

	if v := os.Getenv(EnvSSLVerify); v != "" {
		verify, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", EnvSSLVerify, v, err)
		}
		cfg.SSLVerify = verify
	}

	if v := os.Getenv(EnvTimeout); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid %s value %q: expected positive seconds", EnvTimeout, v)
		}
		cfg.Timeout = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("workspace base URL is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("workspace API key is required")
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}

func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set (copy .env.example and fill it in)", key)
	}
	return value, nil
}
