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

package chat

import "strings"

// planState tracks where a proposed workflow stands in the
// confirmation handshake.
type planState int

const (
	stateIdle planState = iota
	stateProposed
	stateConfirmed
)

// planGate makes user confirmation an explicit precondition of workflow
// creation instead of a soft rule in the prompt text. The model records
// a proposal through the propose_workflow tool, the next user turn is
// classified as approval or rejection, and create_workflow refuses to
// run unless the gate reached the confirmed state.
//
// Not safe for concurrent use; a session drives one conversation.
type planGate struct {
	state planState
}

func (g *planGate) propose() {
	g.state = stateProposed
}

// observeUserMessage advances the gate on the user turn that follows a
// proposal. Messages that are neither clearly affirmative nor clearly
// negative leave the proposal pending.
func (g *planGate) observeUserMessage(text string) {
	if g.state != stateProposed {
		return
	}
	switch {
	case isAffirmative(text):
		g.state = stateConfirmed
	case isNegative(text):
		g.state = stateIdle
	}
}

func (g *planGate) confirmed() bool {
	return g.state == stateConfirmed
}

func (g *planGate) reset() {
	g.state = stateIdle
}

var affirmatives = []string{
	"yes", "y", "yep", "yeah", "ok", "okay", "sure", "confirm", "confirmed",
	"go ahead", "do it", "proceed", "create it", "sounds good", "oui",
}

var negatives = []string{
	"no", "n", "nope", "cancel", "stop", "abort", "wait", "not yet",
	"don't", "dont", "non",
}

func isAffirmative(text string) bool {
	return matchesAny(text, affirmatives)
}

func isNegative(text string) bool {
	return matchesAny(text, negatives)
}

// matchesAny reports whether the message equals or starts with one of
// the candidate phrases, compared case-insensitively.
func matchesAny(text string, candidates []string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	normalized = strings.TrimRight(normalized, ".!?")
	for _, c := range candidates {
		if normalized == c || strings.HasPrefix(normalized, c+" ") || strings.HasPrefix(normalized, c+",") {
			return true
		}
	}
	return false
}
