package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type fetchRoundDoneMsg struct{}

// fetchSpinnerModel spins while one fetch round runs in a tea.Cmd.
type fetchSpinnerModel struct {
	spinner spinner.Model
	label   string
	round   tea.Cmd
	done    bool
}

func newFetchSpinnerModel(label string, round tea.Cmd) fetchSpinnerModel {
	return fetchSpinnerModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("173"))),
		),
		label: label,
		round: round,
	}
}

func (m fetchSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.round)
}

func (m fetchSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case fetchRoundDoneMsg:
		m.done = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m fetchSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

func fetchLabel(accounts int) string {
	if accounts == 1 {
		return "Fetching usage for 1 account..."
	}

	return fmt.Sprintf("Fetching usage for %d accounts...", accounts)
}

// runFetchSpinner blocks until round returns, drawing the spinner on output.
func runFetchSpinner(ctx context.Context, output io.Writer, accounts int, round func(context.Context)) error {
	roundCmd := func() tea.Msg {
		round(ctx)
		return fetchRoundDoneMsg{}
	}

	p := tea.NewProgram(
		newFetchSpinnerModel(fetchLabel(accounts), roundCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if _, ok := finalModel.(fetchSpinnerModel); !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return nil
}
