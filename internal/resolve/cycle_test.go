package resolve

import (
	"testing"

	"github.com/ewhall/lnr/internal/api"
	"github.com/ewhall/lnr/internal/cache"
	"github.com/ewhall/lnr/internal/exitcode"
	"github.com/ewhall/lnr/internal/testutil"
)

func setupCycleCache(t *testing.T, teamID string, cycles []CachedCycle) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	_ = cache.Set(CycleCacheKey(teamID), cycles)
}

func testCycles() []CachedCycle {
	return []CachedCycle{
		{ID: "cyc41", Number: 41, StartsAt: "2026-08-03", EndsAt: "2026-08-16"},
		{ID: "cyc42", Number: 42, Name: "Stabilization", StartsAt: "2026-08-17", EndsAt: "2026-08-30"},
	}
}

func TestCycleResolveByNumber(t *testing.T) {
	setupCycleCache(t, "team1", testCycles())

	result, err := Cycle(nil, "team1", "41")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "cyc41" {
		t.Errorf("got ID=%s, want cyc41", result.ID)
	}
	if result.Name != "Cycle 41" {
		t.Errorf("got Name=%q, want generated name", result.Name)
	}
}

func TestCycleResolveByCustomName(t *testing.T) {
	setupCycleCache(t, "team1", testCycles())

	result, err := Cycle(nil, "team1", "stabilization")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "cyc42" {
		t.Errorf("got ID=%s, want cyc42", result.ID)
	}
	if result.Name != "Stabilization" {
		t.Errorf("got Name=%q, want custom name", result.Name)
	}
}

func TestCycleOpaqueIDFastPath(t *testing.T) {
	setupCycleCache(t, "team1", nil)

	result, err := Cycle(nil, "team1", "cycle-uuid-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "cycle-uuid-7" {
		t.Errorf("got ID=%s, want passthrough", result.ID)
	}
}

func TestCycleNotFound(t *testing.T) {
	setupCycleCache(t, "team1", testCycles())

	ms := testutil.NewMockServer(t)
	ms.HandleQuery("ListCycles", map[string]any{
		"data": map[string]any{
			"cycles": map[string]any{"nodes": []any{}},
		},
	})
	client := api.New("key", api.WithEndpoint(ms.URL()))

	_, err := Cycle(client, "team1", "99")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if exitcode.ExitCode(err) != exitcode.NotFound {
		t.Errorf("exit code = %d, want %d", exitcode.ExitCode(err), exitcode.NotFound)
	}
}

func TestCycleDisplayName(t *testing.T) {
	named := CachedCycle{Number: 5, Name: "Polish"}
	if got := named.DisplayName(); got != "Polish" {
		t.Errorf("DisplayName() = %q, want Polish", got)
	}

	unnamed := CachedCycle{Number: 5}
	if got := unnamed.DisplayName(); got != "Cycle 5" {
		t.Errorf("DisplayName() = %q, want Cycle 5", got)
	}
}
