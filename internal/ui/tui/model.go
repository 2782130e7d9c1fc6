package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/h2oai/h2o-kubernetes/internal/cluster"
)

// Model is the Bubble Tea model for the status view.
type Model struct {
	Cluster cluster.Identity
	Status  StatusMsg
	Fetched bool

	// Animation
	SpinnerFrame int

	// UI state
	Width int
	Err   error
	Watch bool
}

// NewModel creates a model showing the cluster id.
func NewModel(id cluster.Identity) Model {
	return Model{Cluster: id}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width

	case StatusMsg:
		if msg.NotFound {
			m.Err = fmt.Errorf("H2O cluster %s not found", m.Cluster)
			return m, tea.Quit
		}
		if msg.FetchErr != "" {
			m.Err = fmt.Errorf("failed to fetch cluster status: %s", msg.FetchErr)
			return m, tea.Quit
		}
		m.Status = msg
		m.Fetched = true

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
