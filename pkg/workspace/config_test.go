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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvURL, "https://dss.example.com")
	t.Setenv(EnvAPIKey, "secret")
	t.Setenv(EnvProjectKey, "DEMO")
	t.Setenv(EnvSSLVerify, "false")
	t.Setenv(EnvTimeout, "45")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://dss.example.com", cfg.BaseURL)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "DEMO", cfg.ProjectKey)
	assert.False(t, cfg.SSLVerify)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
}

func TestConfigFromEnvDefaults(t *testing.T) {
	t.Setenv(EnvURL, "https://dss.example.com")
	t.Setenv(EnvAPIKey, "secret")
	t.Setenv(EnvProjectKey, "")
	t.Setenv(EnvSSLVerify, "")
	t.Setenv(EnvTimeout, "")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Empty(t, cfg.ProjectKey)
	assert.True(t, cfg.SSLVerify)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestConfigFromEnvMissingRequired(t *testing.T) {
	t.Setenv(EnvURL, "")
	t.Setenv(EnvAPIKey, "secret")

	_, err := ConfigFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvURL)

	t.Setenv(EnvURL, "https://dss.example.com")
	t.Setenv(EnvAPIKey, "")

	_, err = ConfigFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvAPIKey)
}

func TestConfigFromEnvInvalidValues(t *testing.T) {
	t.Setenv(EnvURL, "https://dss.example.com")
	t.Setenv(EnvAPIKey, "secret")

	t.Setenv(EnvSSLVerify, "maybe")
	_, err := ConfigFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvSSLVerify)

	t.Setenv(EnvSSLVerify, "true")
	t.Setenv(EnvTimeout, "-5")
	_, err = ConfigFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvTimeout)
}

func TestConfigValidate(t *testing.T) {
	err := (&Config{APIKey: "k"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base URL")

	err = (&Config{BaseURL: "https://x"}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")

	cfg := &Config{BaseURL: "https://x", APIKey: "k"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}
