package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxLogLines is how many recent log lines the view keeps.
const maxLogLines = 6

// Phase is a deployment phase for display.
type Phase struct {
	Name   string
	Key    string
	Done   bool
	Active bool
	Err    error
}

// AddOn is an add-on for display.
type AddOn struct {
	Name    string
	Status  AddOnStatus
	Message string
}

// Model is the Bubble Tea model of the deploy view.
type Model struct {
	BlueprintID string

	Phases    []Phase
	AddOns    []AddOn
	Teams     []string
	Resources []string
	Logs      []string

	StartTime    time.Time
	SpinnerFrame int

	Width  int
	Height int

	Err     error
	Done    bool
	Aborted bool
}

// NewDeployModel creates the model for deploying a blueprint with the given
// add-ons, in declared order.
func NewDeployModel(blueprintID string, addOns []string) Model {
	m := Model{
		BlueprintID: blueprintID,
		StartTime:   time.Now(),
		Phases: []Phase{
			{Name: "Validation", Key: "validation"},
			{Name: "Network", Key: "network"},
			{Name: "Resources", Key: "resources"},
			{Name: "Cluster", Key: "cluster"},
			{Name: "Add-ons", Key: "addons"},
			{Name: "Teams", Key: "teams"},
			{Name: "Await add-ons", Key: "await"},
			{Name: "Post-deploy", Key: "postdeploy"},
		},
	}
	for _, name := range addOns {
		m.AddOns = append(m.AddOns, AddOn{Name: name, Status: AddOnWaiting})
	}
	return m
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
			m.Aborted = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case PhaseMsg:
		m.updatePhase(msg)

	case AddOnMsg:
		m.updateAddOn(msg)

	case TeamMsg:
		m.Teams = append(m.Teams, msg.Name)

	case ResourceMsg:
		m.Resources = append(m.Resources, msg.Key)

	case LogMsg:
		m.Logs = append(m.Logs, msg.Line)
		if len(m.Logs) > maxLogLines {
			m.Logs = m.Logs[len(m.Logs)-maxLogLines:]
		}

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case DoneMsg:
		m.Done = true
		m.Err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updatePhase(msg PhaseMsg) {
	idx := -1
	for i, phase := range m.Phases {
		if phase.Key == msg.Phase {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	for i := range idx {
		if m.Phases[i].Err == nil {
			m.Phases[i].Done = true
		}
		m.Phases[i].Active = false
	}

	phase := &m.Phases[idx]
	switch {
	case msg.Err != nil:
		phase.Err = msg.Err
		phase.Active = false
	case msg.Done:
		phase.Done = true
		phase.Active = false
	default:
		phase.Active = true
	}
}

func (m *Model) updateAddOn(msg AddOnMsg) {
	for i := range m.AddOns {
		if m.AddOns[i].Name == msg.Name {
			m.AddOns[i].Status = msg.Status
			m.AddOns[i].Message = msg.Message
			return
		}
	}
	m.AddOns = append(m.AddOns, AddOn{Name: msg.Name, Status: msg.Status, Message: msg.Message})
}

// progress is the share of finished phases.
func (m Model) progress() float64 {
	if m.Done && m.Err == nil {
		return 1
	}
	done := 0
	for _, p := range m.Phases {
		if p.Done {
			done++
		}
	}
	return float64(done) / float64(len(m.Phases))
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
