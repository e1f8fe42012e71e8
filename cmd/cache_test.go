package cmd

import (
	"strings"
	"testing"

	"github.com/ewhall/lnr/internal/cache"
	"github.com/ewhall/lnr/internal/resolve"
	"github.com/ewhall/lnr/internal/testutil"
)

func TestCacheClearAll(t *testing.T) {
	resetCacheFlags()

	ms := testutil.NewMockServer(t)
	setupTestEnv(t, ms)

	if _, ok := cache.Get[[]resolve.CachedTeam](resolve.TeamCacheKey()); !ok {
		t.Fatal("test env should have warmed the team cache")
	}

	out, err := runCommand(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear returned error: %v", err)
	}
	if !strings.Contains(out, "Cleared all cached data.") {
		t.Errorf("output = %q, want clear confirmation", out)
	}
	if _, ok := cache.Get[[]resolve.CachedTeam](resolve.TeamCacheKey()); ok {
		t.Error("team cache should be empty after clear")
	}
}

func TestCacheClearTeam(t *testing.T) {
	resetCacheFlags()

	ms := testutil.NewMockServer(t)
	setupTestEnv(t, ms)

	out, err := runCommand(t, "cache", "clear", "--team")
	if err != nil {
		t.Fatalf("cache clear --team returned error: %v", err)
	}
	if !strings.Contains(out, "Cleared cache for default team.") {
		t.Errorf("output = %q, want team clear confirmation", out)
	}

	// Team-scoped state cache is gone, unscoped caches survive.
	if _, ok := cache.Get[[]resolve.CachedState](resolve.StateCacheKey("team1")); ok {
		t.Error("team-scoped state cache should be empty after clear")
	}
	if _, ok := cache.Get[[]resolve.CachedTeam](resolve.TeamCacheKey()); !ok {
		t.Error("unscoped team cache should survive a team-scoped clear")
	}
}
