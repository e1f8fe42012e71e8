package cmd

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/ewhall/lnr/internal/testutil"
)

func statesResponse(nodes ...any) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"workflowStates": map[string]any{"nodes": nodes},
		},
	}
}

func TestStateListScopedToDefaultTeam(t *testing.T) {
	resetStateFlags()

	var filterSeen string
	ms := testutil.NewMockServer(t)
	ms.Handle(
		func(req testutil.GraphQLRequest) bool {
			return strings.Contains(req.Query, "ListStates")
		},
		func(w http.ResponseWriter, req testutil.GraphQLRequest) {
			filterSeen = string(req.Variables)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(statesResponse(
				map[string]any{"id": "st-todo", "name": "Todo", "type": "unstarted"},
				map[string]any{"id": "st-prog", "name": "In Progress", "type": "started"},
			))
		},
	)
	setupTestEnv(t, ms)

	out, err := runCommand(t, "state", "list")
	if err != nil {
		t.Fatalf("state list returned error: %v", err)
	}
	// LNR_TEAM=ENG resolves to team1 from the cache and scopes the fetch.
	if !strings.Contains(filterSeen, "team1") {
		t.Errorf("fetch should filter by default team, variables: %s", filterSeen)
	}
	for _, want := range []string{"NAME", "TYPE", "Todo", "In Progress", "unstarted", "started"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStateListTeamFlagOverride(t *testing.T) {
	resetStateFlags()

	ms := testutil.NewMockServer(t)
	ms.HandleQuery("ListStates", statesResponse(
		map[string]any{"id": "st-ops", "name": "Queued", "type": "backlog"},
	))
	setupTestEnv(t, ms)

	out, err := runCommand(t, "state", "list", "--team", "team2-opaque-id-00000000")
	if err != nil {
		t.Fatalf("state list returned error: %v", err)
	}
	if !strings.Contains(out, "Queued") {
		t.Errorf("output missing overridden team's state:\n%s", out)
	}
}
