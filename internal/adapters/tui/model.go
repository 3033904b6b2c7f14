package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultLogHeight = 10
	minLogHeight     = 3
	// chromeLines counts the title, the blank line and the log header.
	chromeLines = 3
)

// Status is where a target stands in the current session.
type Status string

const (
	// StatusPending means the target has not been visited yet.
	StatusPending Status = "Pending"
	// StatusRunning means the target's task is executing.
	StatusRunning Status = "Running"
	// StatusDone means the target was rebuilt.
	StatusDone Status = "Done"
	// StatusFailed means the target's task failed.
	StatusFailed Status = "Failed"
	// StatusUpToDate means the session ended without running the target.
	StatusUpToDate Status = "UpToDate"
)

// MsgPlan starts a session over targets, listed in build order.
type MsgPlan struct {
	Targets []string
	Root    string
}

// MsgTargetStart marks a target as running.
type MsgTargetStart struct {
	SpanID    string
	Name      string
	StartTime time.Time
}

// MsgTargetLog carries task output.
type MsgTargetLog struct {
	SpanID string
	Data   []byte
}

// MsgTargetComplete marks a running target as done or failed.
type MsgTargetComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}

// MsgFinish ends the session. Targets never started are up to date.
type MsgFinish struct{}

// TargetNode is one row of the target list.
type TargetNode struct {
	Name    string
	Status  Status
	Term    *Vterm
	Started time.Time
	Elapsed time.Duration
}

// Model is the bubbletea model for one build session.
type Model struct {
	Root     string
	Targets  []*TargetNode
	Active   string
	Width    int
	Height   int
	Finished bool

	byName map[string]*TargetNode
	bySpan map[string]*TargetNode
}

// NewModel returns an empty Model.
func NewModel() *Model {
	return &Model{
		byName: make(map[string]*TargetNode),
		bySpan: make(map[string]*TargetNode),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // one case per message
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.resize()

	case MsgPlan:
		m.Root = msg.Root
		m.Targets = make([]*TargetNode, 0, len(msg.Targets))
		m.byName = make(map[string]*TargetNode, len(msg.Targets))
		m.bySpan = make(map[string]*TargetNode)
		m.Active = ""
		m.Finished = false
		for _, name := range msg.Targets {
			m.node(name)
		}
		m.resize()

	case MsgTargetStart:
		node := m.node(msg.Name)
		node.Status = StatusRunning
		node.Started = msg.StartTime
		m.bySpan[msg.SpanID] = node
		m.Active = node.Name

	case MsgTargetLog:
		if node, ok := m.bySpan[msg.SpanID]; ok {
			_, _ = node.Term.Write(msg.Data)
		}

	case MsgTargetComplete:
		node, ok := m.bySpan[msg.SpanID]
		if !ok {
			break
		}
		delete(m.bySpan, msg.SpanID)
		node.Elapsed = msg.EndTime.Sub(node.Started)
		if msg.Err != nil {
			node.Status = StatusFailed
			break
		}
		node.Status = StatusDone
		if m.Active == node.Name {
			m.followRunning()
		}

	case MsgFinish:
		m.Finished = true
		for _, node := range m.Targets {
			if node.Status == StatusPending {
				node.Status = StatusUpToDate
			}
		}
		for _, node := range m.Targets {
			if node.Status == StatusFailed {
				m.Active = node.Name
				break
			}
		}
		return m, tea.Quit
	}

	return m, nil
}

// Node returns the row for name, or nil.
func (m *Model) Node(name string) *TargetNode {
	return m.byName[name]
}

// node returns the row for name, appending one when the plan did not list it.
func (m *Model) node(name string) *TargetNode {
	if node, ok := m.byName[name]; ok {
		return node
	}
	node := &TargetNode{Name: name, Status: StatusPending, Term: NewVterm()}
	if m.Width > 0 {
		node.Term.SetWidth(m.Width)
	}
	node.Term.SetHeight(m.logHeight())
	m.Targets = append(m.Targets, node)
	m.byName[name] = node
	return node
}

// followRunning moves the log pane to the most recently started running target.
func (m *Model) followRunning() {
	var latest *TargetNode
	for _, node := range m.bySpan {
		if latest == nil || node.Started.After(latest.Started) {
			latest = node
		}
	}
	if latest != nil {
		m.Active = latest.Name
	}
}

func (m *Model) listHeight() int {
	if m.Height == 0 {
		return len(m.Targets)
	}
	return max(m.Height-chromeLines-minLogHeight, 1)
}

func (m *Model) logHeight() int {
	if m.Height == 0 {
		return defaultLogHeight
	}
	rows := min(len(m.Targets), m.listHeight())
	return max(m.Height-chromeLines-rows, minLogHeight)
}

func (m *Model) resize() {
	h := m.logHeight()
	for _, node := range m.Targets {
		if m.Width > 0 {
			node.Term.SetWidth(m.Width)
		}
		node.Term.SetHeight(h)
	}
}
