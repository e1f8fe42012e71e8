package cmd

import (
	"strings"
	"testing"

	"github.com/ewhall/lnr/internal/testutil"
)

func TestProjectList(t *testing.T) {
	ms := testutil.NewMockServer(t)
	ms.HandleQuery("ListProjects", pagedResponse("projects",
		map[string]any{
			"id":    "prj1",
			"name":  "Billing Revamp",
			"state": "started",
			"teams": map[string]any{
				"nodes": []any{
					map[string]any{"id": "team1"},
					map[string]any{"id": "team2"},
				},
			},
		},
	))
	setupTestEnv(t, ms)

	out, err := runCommand(t, "project", "list")
	if err != nil {
		t.Fatalf("project list returned error: %v", err)
	}
	for _, want := range []string{"NAME", "STATE", "TEAMS", "Billing Revamp", "started", "2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
