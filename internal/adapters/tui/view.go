package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/vrog/internal/ui/style"
)

// View renders the target list followed by the active target's output.
func (m *Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("BUILD %s", m.Root)) + "\n")

	start, end := m.window()
	for _, node := range m.Targets[start:end] {
		s.WriteString(renderRow(node) + "\n")
	}
	if hidden := len(m.Targets) - (end - start); hidden > 0 {
		s.WriteString(pendingStyle.Render(fmt.Sprintf("  … %d more", hidden)) + "\n")
	}

	node, ok := m.byName[m.Active]
	if !ok || node.Term.UsedHeight() == 0 {
		return s.String()
	}

	header := titleStyle
	if node.Status == StatusFailed {
		header = failureTitleStyle
	}
	s.WriteString("\n" + header.Render("LOGS: "+node.Name) + "\n")
	s.WriteString(node.Term.View())
	return s.String()
}

// window returns the slice of Targets to list, keeping the active target in view.
func (m *Model) window() (start, end int) {
	rows := m.listHeight()
	if len(m.Targets) <= rows {
		return 0, len(m.Targets)
	}

	active := 0
	for i, node := range m.Targets {
		if node.Name == m.Active {
			active = i
			break
		}
	}
	start = max(active-rows/2, 0)
	end = min(start+rows, len(m.Targets))
	return end - rows, end
}

func renderRow(node *TargetNode) string {
	content := icon(node.Status) + " " + node.Name
	if node.Status == StatusDone || node.Status == StatusFailed {
		content += " " + node.Elapsed.Round(time.Millisecond).String()
	}
	return "  " + rowStyle(node.Status).Render(content)
}

func icon(status Status) string {
	switch status {
	case StatusRunning:
		return style.Dot
	case StatusDone:
		return style.Check
	case StatusFailed:
		return style.Cross
	case StatusUpToDate:
		return "="
	default:
		return "○"
	}
}

func rowStyle(status Status) lipgloss.Style {
	switch status {
	case StatusRunning:
		return runningStyle
	case StatusDone:
		return doneStyle
	case StatusFailed:
		return failedStyle
	case StatusUpToDate:
		return upToDateStyle
	default:
		return pendingStyle
	}
}
