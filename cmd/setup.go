package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ewhall/lnr/internal/config"
	"github.com/ewhall/lnr/internal/exitcode"
	"github.com/ewhall/lnr/internal/output"
	"github.com/ewhall/lnr/internal/resolve"
	"github.com/spf13/cobra"
)

// setupCmd is exposed as `lnr setup` for manual re-configuration.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure lnr interactively",
	Long:  `Run the setup wizard to configure your Linear API key and default team.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// needsSetup reports whether the cold start wizard should run.
func needsSetup() bool {
	cfg, err := config.Load()
	if err != nil {
		return true
	}
	return cfg.APIKey == ""
}

// isInteractive reports whether the terminal is interactive (both stdin and
// stdout are TTYs). It's a variable so tests can override it.
var isInteractive = func() bool {
	for _, f := range []*os.File{os.Stdin, os.Stdout} {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		if stat.Mode()&os.ModeCharDevice == 0 {
			return false
		}
	}
	return true
}

// runRoot is the RunE for the bare `lnr` command.
// On first run (no config), it launches the setup wizard.
// Otherwise, it shows help.
func runRoot(cmd *cobra.Command, args []string) error {
	if needsSetup() {
		if !isInteractive() {
			return cmd.Help()
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Welcome to lnr! Let's get you set up.")
		return runSetup(cmd, nil)
	}
	return cmd.Help()
}

// setupPersistentPreRun is installed as PersistentPreRunE on the root command.
// It checks whether setup is needed and, if so, runs the wizard before any
// subcommand executes — unless the subcommand is one that doesn't need config
// (version, help, setup, cache).
func setupPersistentPreRun(cmd *cobra.Command, args []string) error {
	path := cmd.CommandPath() // e.g. "lnr version", "lnr cache clear"
	for _, skip := range []string{"lnr version", "lnr help", "lnr setup", "lnr completion", "lnr cache"} {
		if path == skip || strings.HasPrefix(path, skip+" ") {
			return nil
		}
	}
	// Skip the bare root command (shows help).
	if path == "lnr" {
		return nil
	}

	// Skip if API key is already set (via config or env).
	if !needsSetup() {
		return nil
	}

	// Non-interactive: just tell the user what to do.
	if !isInteractive() {
		return exitcode.Auth("no API key configured — set LNR_API_KEY or run 'lnr setup' in a terminal", nil)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Welcome to lnr! Let's get you set up.")
	return runSetup(cmd, nil)
}

// validateAPIKeyNonInteractive validates an API key by fetching the team
// list. It returns the teams so the wizard can offer a default-team choice.
func validateAPIKeyNonInteractive(apiKey string) ([]teamChoice, error) {
	client := apiNewFunc(apiKey)
	teams, err := resolve.FetchTeams(client)
	if err != nil {
		return nil, err
	}

	choices := make([]teamChoice, len(teams))
	for i, t := range teams {
		choices[i] = teamChoice{id: t.ID, key: t.Key, name: t.Name}
	}
	return choices, nil
}

// runSetup implements the cold start wizard.
func runSetup(cmd *cobra.Command, args []string) error {
	if !isInteractive() {
		return exitcode.General("setup requires an interactive terminal — set LNR_API_KEY and LNR_TEAM environment variables for non-interactive use", nil)
	}

	m := newSetupModel()
	p := tea.NewProgram(m, tea.WithOutput(cmd.ErrOrStderr()))
	finalModel, err := p.Run()
	if err != nil {
		return exitcode.General("setup wizard", err)
	}

	result := finalModel.(setupModel)
	if result.cancelled {
		fmt.Fprintln(cmd.OutOrStdout(), "Setup cancelled.")
		return nil
	}

	if result.err != nil {
		return result.err
	}

	cfg := &config.Config{
		APIKey: result.apiKey,
		Team:   result.teamKey,
	}
	if err := config.Write(cfg); err != nil {
		return exitcode.General("saving config", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w)
	fmt.Fprintln(w, output.Green("Configuration saved."))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Default team: %s\n", result.teamName)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run "+output.Bold("lnr issue list")+" to see your issues.")
	fmt.Fprintln(w, "Run "+output.Bold("lnr --help")+" to see available commands.")
	return nil
}

// --- Bubble Tea model ---

type setupStep int

const (
	stepAPIKey setupStep = iota
	stepValidating
	stepSelectTeam
	stepDone
)

type setupModel struct {
	step setupStep
	err  error

	apiKeyInput textinput.Model
	statusMsg   string

	teams         []teamChoice
	teamListModel list.Model

	// Results
	apiKey    string
	teamKey   string
	teamName  string
	cancelled bool
}

type teamChoice struct {
	id   string
	key  string
	name string
}

func (t teamChoice) Title() string {
	return t.name + "  " + lipgloss.NewStyle().Faint(true).Render("("+t.key+")")
}
func (t teamChoice) Description() string { return "" }
func (t teamChoice) FilterValue() string { return t.name + " " + t.key }

type apiKeyValidatedMsg struct {
	teams []teamChoice
	err   error
}

func newSetupModel() setupModel {
	apiKey := textinput.New()
	apiKey.Placeholder = "lin_api_xxx..."
	apiKey.Focus()
	apiKey.CharLimit = 256
	apiKey.Width = 50

	return setupModel{
		step:        stepAPIKey,
		apiKeyInput: apiKey,
	}
}

func (m setupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	case apiKeyValidatedMsg:
		if msg.err != nil {
			m.step = stepAPIKey
			m.statusMsg = output.Red("Invalid API key: " + msg.err.Error())
			m.apiKeyInput.Focus()
			return m, textinput.Blink
		}
		m.teams = msg.teams
		m.statusMsg = ""
		m.step = stepSelectTeam

		items := make([]list.Item, len(m.teams))
		for i, t := range m.teams {
			items[i] = t
		}
		delegate := list.NewDefaultDelegate()
		delegate.ShowDescription = false
		m.teamListModel = list.New(items, delegate, 60, min(len(items)+8, 20))
		m.teamListModel.Title = "Select a default team"
		m.teamListModel.SetShowStatusBar(false)
		m.teamListModel.SetShowHelp(true)
		return m, nil
	}

	switch m.step {
	case stepAPIKey:
		return m.updateAPIKey(msg)
	case stepSelectTeam:
		return m.updateTeamSelect(msg)
	}

	return m, nil
}

func (m setupModel) updateAPIKey(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		value := strings.TrimSpace(m.apiKeyInput.Value())
		if value == "" {
			m.statusMsg = output.Red("API key is required")
			return m, nil
		}
		m.apiKey = value
		m.step = stepValidating
		m.statusMsg = "Validating API key..."
		return m, m.validateAPIKey
	}

	var cmd tea.Cmd
	m.apiKeyInput, cmd = m.apiKeyInput.Update(msg)
	return m, cmd
}

func (m setupModel) updateTeamSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		selected, ok := m.teamListModel.SelectedItem().(teamChoice)
		if !ok {
			return m, nil
		}
		m.teamKey = selected.key
		m.teamName = selected.name
		m.step = stepDone
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.teamListModel, cmd = m.teamListModel.Update(msg)
	return m, cmd
}

// validateAPIKey is the tea.Cmd that checks the entered key against the API.
func (m setupModel) validateAPIKey() tea.Msg {
	teams, err := validateAPIKeyNonInteractive(m.apiKey)
	return apiKeyValidatedMsg{teams: teams, err: err}
}

func (m setupModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true)
	b.WriteString(titleStyle.Render("lnr setup"))
	b.WriteString("\n\n")

	switch m.step {
	case stepAPIKey:
		b.WriteString("Enter your Linear personal API key:\n")
		b.WriteString("(Create one at https://linear.app/settings/api)\n\n")
		b.WriteString(m.apiKeyInput.View())
		b.WriteString("\n")
		if m.statusMsg != "" {
			b.WriteString("\n" + m.statusMsg + "\n")
		}
	case stepValidating:
		b.WriteString(m.statusMsg)
		b.WriteString("\n")
	case stepSelectTeam:
		b.WriteString(m.teamListModel.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press Esc to cancel"))
	b.WriteString("\n")

	return b.String()
}
