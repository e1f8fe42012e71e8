package resolve

import (
	"testing"

	"github.com/ewhall/lnr/internal/cache"
	"github.com/ewhall/lnr/internal/exitcode"
)

func setupStateCache(t *testing.T, teamID string, states []CachedState) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	_ = cache.Set(StateCacheKey(teamID), states)
}

func testStates() []CachedState {
	return []CachedState{
		{ID: "st1", Name: "Backlog", Type: "backlog"},
		{ID: "st2", Name: "Todo", Type: "unstarted"},
		{ID: "st3", Name: "In Progress", Type: "started"},
		{ID: "st4", Name: "Done", Type: "completed"},
		{ID: "st5", Name: "Canceled", Type: "canceled"},
	}
}

func TestStateResolveByName(t *testing.T) {
	setupStateCache(t, "team1", testStates())

	result, err := State(nil, "team1", "Todo", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "st2" {
		t.Errorf("got ID=%s, want st2", result.ID)
	}
}

func TestStateResolveCaseInsensitive(t *testing.T) {
	setupStateCache(t, "team1", testStates())

	result, err := State(nil, "team1", "in progress", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "st3" {
		t.Errorf("got ID=%s, want st3", result.ID)
	}
}

func TestStateScopedToTeam(t *testing.T) {
	setupStateCache(t, "team1", testStates())
	// team2's cache does not exist; a nil client would panic on refresh, so
	// only assert the team1-scoped hit works against team1's key.
	_ = cache.Set(StateCacheKey("team2"), []CachedState{
		{ID: "other", Name: "Todo", Type: "unstarted"},
	})

	result, err := State(nil, "team2", "Todo", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "other" {
		t.Errorf("got ID=%s, want other (team2's Todo)", result.ID)
	}
}

func TestStateAlias(t *testing.T) {
	setupStateCache(t, "team1", testStates())

	result, err := State(nil, "team1", "ip", map[string]string{"ip": "In Progress"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "st3" {
		t.Errorf("got ID=%s, want st3 via alias", result.ID)
	}
}

func TestStateOpaqueIDFastPath(t *testing.T) {
	setupStateCache(t, "team1", nil)

	result, err := State(nil, "team1", "state-uuid-123", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "state-uuid-123" {
		t.Errorf("got ID=%s, want passthrough", result.ID)
	}
}

func TestTerminalStatePrefersDuplicateName(t *testing.T) {
	setupStateCache(t, "team1", []CachedState{
		{ID: "st5", Name: "Canceled", Type: "canceled"},
		{ID: "st6", Name: "Duplicate", Type: "canceled"},
	})

	result, err := TerminalState(nil, "team1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "st6" {
		t.Errorf("got ID=%s, want st6 (named duplicate)", result.ID)
	}
}

func TestTerminalStateFallsBackToCanceledType(t *testing.T) {
	setupStateCache(t, "team1", testStates())

	result, err := TerminalState(nil, "team1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "st5" {
		t.Errorf("got ID=%s, want st5 (type canceled)", result.ID)
	}
}

func TestTerminalStateNotFound(t *testing.T) {
	setupStateCache(t, "team1", []CachedState{
		{ID: "st2", Name: "Todo", Type: "unstarted"},
	})

	_, err := TerminalState(nil, "team1")
	if err == nil {
		t.Fatal("expected error when no terminal state exists")
	}
	if exitcode.ExitCode(err) != exitcode.NotFound {
		t.Errorf("exit code = %d, want %d", exitcode.ExitCode(err), exitcode.NotFound)
	}
}
