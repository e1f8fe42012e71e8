package cmd

import (
	"strings"
	"testing"

	"github.com/ewhall/lnr/internal/testutil"
	"github.com/spf13/cobra"
)

func TestCompletionBash(t *testing.T) {
	ms := testutil.NewMockServer(t)
	setupTestEnv(t, ms)

	out, err := runCommand(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion bash returned error: %v", err)
	}
	if !strings.Contains(out, "bash") {
		t.Error("output should contain bash completion script")
	}
}

func TestCompletionZsh(t *testing.T) {
	ms := testutil.NewMockServer(t)
	setupTestEnv(t, ms)

	out, err := runCommand(t, "completion", "zsh")
	if err != nil {
		t.Fatalf("completion zsh returned error: %v", err)
	}
	if !strings.Contains(out, "compdef") {
		t.Error("output should contain zsh completion script")
	}
}

func TestCompletionSkipsSetup(t *testing.T) {
	ms := testutil.NewMockServer(t)
	setupTestEnv(t, ms)
	t.Setenv("LNR_API_KEY", "")

	if _, err := runCommand(t, "completion", "fish"); err != nil {
		t.Fatalf("completion should not require config: %v", err)
	}
}

func TestCompleteStateNamesFromCache(t *testing.T) {
	ms := testutil.NewMockServer(t)
	setupTestEnv(t, ms)

	names, directive := completeStateNames(nil, nil, "")
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want no-file-comp", directive)
	}

	joined := strings.Join(names, " ")
	for _, want := range []string{"Todo", "Done", "Duplicate"} {
		if !strings.Contains(joined, want) {
			t.Errorf("completions missing %q: %v", want, names)
		}
	}
}

func TestCompleteCycleNamesIncludesClearSentinel(t *testing.T) {
	ms := testutil.NewMockServer(t)
	setupTestEnv(t, ms)

	names, _ := completeCycleNames(nil, nil, "")
	if len(names) == 0 || names[0] != "none" {
		t.Errorf("completions should lead with the clear sentinel, got: %v", names)
	}
	if !strings.Contains(strings.Join(names, " "), "Cycle 42") {
		t.Errorf("completions missing cached cycle, got: %v", names)
	}
}
