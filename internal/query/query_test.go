package query

import (
	"reflect"
	"testing"
)

func intp(n int) *int { return &n }

func TestParseBasic(t *testing.T) {
	got := Parse("state:Todo team:ENG")
	want := Filter{State: "Todo", Team: "ENG"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParseUnknownKeyDropped(t *testing.T) {
	got := Parse("foo:bar")
	if !got.IsEmpty() {
		t.Errorf("unknown keys should be dropped, got %+v", got)
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		if got := Parse(q); !got.IsEmpty() {
			t.Errorf("Parse(%q) = %+v, want empty filter", q, got)
		}
	}
}

func TestParseQuotedValue(t *testing.T) {
	got := Parse(`team:"Platform Infra" state:Todo`)
	if got.Team != "Platform Infra" {
		t.Errorf("Team = %q, want %q (quotes stripped)", got.Team, "Platform Infra")
	}
	if got.State != "Todo" {
		t.Errorf("State = %q, want Todo", got.State)
	}
}

func TestParseColonWhitespaceNormalized(t *testing.T) {
	got := Parse("state : Todo")
	if got.State != "Todo" {
		t.Errorf("State = %q, want Todo (whitespace around colon removed)", got.State)
	}
}

func TestParseKeyCaseInsensitive(t *testing.T) {
	got := Parse("STATE:Todo Team:ENG")
	if got.State != "Todo" || got.Team != "ENG" {
		t.Errorf("keys should be lower-cased before matching, got %+v", got)
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		q    string
		want *int
	}{
		{"priority:0", intp(0)},
		{"priority:2", intp(2)},
		{"priority:4", intp(4)},
		{"priority:5", nil},  // out of range
		{"priority:-1", nil}, // out of range
		{"priority:high", nil},
		{"priority:", nil},
	}
	for _, tt := range tests {
		got := Parse(tt.q)
		if (got.Priority == nil) != (tt.want == nil) {
			t.Errorf("Parse(%q).Priority = %v, want %v", tt.q, got.Priority, tt.want)
			continue
		}
		if got.Priority != nil && *got.Priority != *tt.want {
			t.Errorf("Parse(%q).Priority = %d, want %d", tt.q, *got.Priority, *tt.want)
		}
	}
}

func TestParseDuplicateKeyLastWins(t *testing.T) {
	got := Parse("state:Todo state:Done")
	if got.State != "Done" {
		t.Errorf("State = %q, want Done (last occurrence wins)", got.State)
	}
}

func TestParseAllKeys(t *testing.T) {
	got := Parse("state:Todo team:ENG assignee:jane@corp.test label:bug project:Roadmap cycle:14 priority:1")
	want := Filter{
		State:    "Todo",
		Team:     "ENG",
		Assignee: "jane@corp.test",
		Label:    "bug",
		Project:  "Roadmap",
		Cycle:    "14",
		Priority: intp(1),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %+v, want %+v", got, want)
	}
}

func TestParseTokenWithoutColonIgnored(t *testing.T) {
	got := Parse("standalone state:Todo")
	if got.State != "Todo" {
		t.Errorf("State = %q, want Todo", got.State)
	}
}

func TestSupportedKeys(t *testing.T) {
	keys := SupportedKeys()
	if len(keys) != 7 {
		t.Fatalf("SupportedKeys() has %d entries, want 7", len(keys))
	}
	if keys[0] != "state" || keys[6] != "priority" {
		t.Errorf("unexpected key order: %v", keys)
	}
}
