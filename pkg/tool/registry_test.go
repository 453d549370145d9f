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

package tool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryPreservesRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	registry.Register(&MockTool{MockName: "alpha"})
	registry.Register(&MockTool{MockName: "gamma"})
	registry.Register(&MockTool{MockName: "beta"})

	assert.Equal(t, []string{"alpha", "gamma", "beta"}, registry.List())
	assert.Equal(t, 3, registry.Count())

	tools := registry.ListTools()
	require.Len(t, tools, 3)
	assert.Equal(t, "alpha", tools[0].Name())
	assert.Equal(t, "beta", tools[2].Name())
}

func TestRegistryReplaceKeepsPosition(t *testing.T) {
	registry := NewRegistry()
	first := &MockTool{MockName: "dup", MockDescription: "first"}
	second := &MockTool{MockName: "dup", MockDescription: "second"}
	registry.Register(first)
	registry.Register(&MockTool{MockName: "other"})
	registry.Register(second)

	assert.Equal(t, []string{"dup", "other"}, registry.List())
	got, ok := registry.Get("dup")
	require.True(t, ok)
	assert.Equal(t, "second", got.Description())
}

func TestRegistryGetMissing(t *testing.T) {
	registry := NewRegistry()
	_, ok := registry.Get("ghost")
	assert.False(t, ok)
}
