package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pylocator/internal/messaging"
	"pylocator/internal/model"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // Orange
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	activeColor = lipgloss.Color("205")
	borderColor = lipgloss.Color("63")
)

func (m AppModel) View() string {
	if m.Err != nil {
		return fmt.Sprintf("\n  Error reading stream after %d frames: %v\n\n  Press q to quit.\n", m.Frames, m.Err)
	}
	if m.Loading && m.Frames == 0 {
		return "\n  Waiting for frames...\n"
	}

	width := m.WindowSize.Width
	height := m.WindowSize.Height

	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth

	boxHeight := height - 6
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight := boxHeight - 2

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(activeColor).
		Render(m.renderList(leftWidth, interiorHeight))

	var rightContent string
	if m.ShowLogs {
		rightContent = m.renderLogs(rightWidth, interiorHeight)
	} else {
		rightContent = m.renderDetails()
	}
	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		Render(rightContent)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, right),
		m.renderFooter(),
	)
}

func (m AppModel) renderList(width, height int) string {
	var view strings.Builder
	view.WriteString(titleStyle.Render(fmt.Sprintf("Reports (%d)", len(m.Entries))))
	view.WriteString("\n\n")

	// Windowing: header takes 2 lines.
	visibleItems := height - 2
	if visibleItems < 1 {
		visibleItems = 1
	}
	startIdx := 0
	endIdx := len(m.FilteredIndices)
	if len(m.FilteredIndices) > visibleItems {
		if m.SelectedIdx >= visibleItems/2 {
			startIdx = m.SelectedIdx - visibleItems/2
		}
		if startIdx+visibleItems > len(m.FilteredIndices) {
			startIdx = len(m.FilteredIndices) - visibleItems
		}
		endIdx = startIdx + visibleItems
	}

	for i := startIdx; i < endIdx; i++ {
		entry := m.Entries[m.FilteredIndices[i]]

		icon := model.IconManager
		if entry.Kind == EntryEnvironment {
			icon = model.KindIcon(entry.Environment.Category)
		}
		line := icon + " " + entry.Label()
		if entry.Repeats > 0 {
			line += fmt.Sprintf(" %s%d", model.IconDuplicate, entry.Repeats)
		}

		// Truncate
		if len(line) > width-2 && width > 5 {
			line = line[:width-5] + "..."
		}

		style := normalStyle
		if i == m.SelectedIdx {
			style = selectedStyle
		} else if entry.Repeats > 0 {
			style = warnStyle
		}
		view.WriteString(style.Render(line))
		view.WriteString("\n")
	}
	return strings.TrimSuffix(view.String(), "\n")
}

func (m AppModel) renderDetails() string {
	return titleStyle.Render("Details") + "\n\n" + m.DetailsViewport.View()
}

// detailsContent is the text scrolled by the details viewport.
func (m AppModel) detailsContent() string {
	if len(m.FilteredIndices) == 0 || m.SelectedIdx >= len(m.FilteredIndices) {
		return dimStyle.Render("Nothing selected.")
	}
	entry := m.Entries[m.FilteredIndices[m.SelectedIdx]]

	var payload any = entry.Environment
	if entry.Kind == EntryManager {
		payload = entry.Manager
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errorStyle.Render(err.Error())
	}
	content := string(data)
	if entry.Repeats > 0 {
		content += "\n\n" + warnStyle.Render(fmt.Sprintf("%s repeated %d time(s) on the stream", model.IconDuplicate, entry.Repeats))
	}
	return content
}

func (m AppModel) renderLogs(width, height int) string {
	var view strings.Builder
	view.WriteString(titleStyle.Render(fmt.Sprintf("Log (%d)", len(m.Logs))))
	view.WriteString("\n\n")

	// Show the tail that fits.
	start := len(m.Logs) - (height - 2)
	if start < 0 {
		start = 0
	}
	for _, entry := range m.Logs[start:] {
		line := fmt.Sprintf("%s %-7s %s", model.IconLog, entry.Level, entry.Message)
		if len(line) > width-2 && width > 5 {
			line = line[:width-5] + "..."
		}
		switch entry.Level {
		case messaging.LogError:
			line = errorStyle.Render(line)
		case messaging.LogWarning:
			line = warnStyle.Render(line)
		case messaging.LogDebug:
			line = dimStyle.Render(line)
		}
		view.WriteString(line)
		view.WriteString("\n")
	}
	return strings.TrimSuffix(view.String(), "\n")
}

func (m AppModel) renderFooter() string {
	if m.InputMode {
		return " Search: " + m.InputBuffer.View()
	}

	status := fmt.Sprintf("%d frames", m.Frames)
	switch {
	case m.Exits > 1:
		status += errorStyle.Render(fmt.Sprintf(" · exit seen %d times", m.Exits))
	case m.Exits == 1:
		status += " · exited"
	case m.Loading:
		status += " · streaming"
	default:
		status += warnStyle.Render(" · stream ended without exit")
	}
	if m.KindFilter != 0 {
		status += fmt.Sprintf(" · kind %s", kindFilters[m.KindFilter])
	}
	if m.SearchActive {
		status += fmt.Sprintf(" · filter %q", m.InputBuffer.Value())
	}
	return dimStyle.Render(" ↑/↓ move · pgup/pgdn scroll · / search · c kind · l log · q quit  ") + status
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, ReadFrameCmd(m.frames))
}
