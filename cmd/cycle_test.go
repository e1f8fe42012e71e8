package cmd

import (
	"strings"
	"testing"

	"github.com/ewhall/lnr/internal/testutil"
)

func TestCycleList(t *testing.T) {
	resetCycleFlags()

	ms := testutil.NewMockServer(t)
	ms.HandleQuery("ListCycles", map[string]any{
		"data": map[string]any{
			"cycles": map[string]any{
				"nodes": []any{
					map[string]any{
						"id":       "cyc42",
						"number":   42,
						"name":     "",
						"startsAt": "2026-08-24",
						"endsAt":   "2026-09-06",
						"progress": 0.5,
					},
					map[string]any{
						"id":       "cyc43",
						"number":   43,
						"name":     "Hardening",
						"startsAt": "2026-09-07",
						"endsAt":   "2026-09-20",
						"progress": 0,
					},
				},
			},
		},
	})
	setupTestEnv(t, ms)

	out, err := runCommand(t, "cycle", "list")
	if err != nil {
		t.Fatalf("cycle list returned error: %v", err)
	}
	for _, want := range []string{"CYCLE", "DATES", "Cycle 42", "Hardening", "50%", "Aug 24 → Sep 6, 2026", "Sep 7 → 20, 2026"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCycleDates(t *testing.T) {
	cases := []struct {
		starts, ends string
		want         string
	}{
		{"2026-08-24", "2026-09-06", "Aug 24 → Sep 6, 2026"},
		{"2026-09-07T00:00:00.000Z", "2026-09-20T00:00:00.000Z", "Sep 7 → 20, 2026"},
		{"2026-08-24", "", "Aug 24, 2026 →"},
		{"", "2026-09-06", "→ Sep 6, 2026"},
		{"", "", ""},
	}
	for _, tc := range cases {
		if got := formatCycleDates(tc.starts, tc.ends); got != tc.want {
			t.Errorf("formatCycleDates(%q, %q) = %q, want %q", tc.starts, tc.ends, got, tc.want)
		}
	}
}
