package tui

import (
	"errors"
	"io"
	"strings"

	"pylocator/internal/messaging"
	"pylocator/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgFrame carries one decoded frame.
type MsgFrame messaging.RawEnvelope

// MsgStreamEnd indicates the input reached EOF between frames.
type MsgStreamEnd struct{}

// MsgError indicates the stream could not be read.
type MsgError error

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.DetailsViewport.SetContent(next.detailsContent())
	return next, cmd
}

func (m AppModel) update(msg tea.Msg) (AppModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		netWidth := max(msg.Width-6, 20)
		m.DetailsViewport.Width = netWidth - netWidth/2
		m.DetailsViewport.Height = max(msg.Height-10, 2)
		return m, nil

	case MsgFrame:
		m.applyFrame(messaging.RawEnvelope(msg))
		return m, ReadFrameCmd(m.frames)

	case MsgStreamEnd:
		m.Loading = false
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.performSearch()
				return m, nil
			case tea.KeyEsc:
				m.clearSearch()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			m.performSearch()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			switch {
			case m.SearchActive:
				m.clearSearch()
			case m.KindFilter != 0:
				m.KindFilter = 0
				m.performSearch()
			default:
				m.ShowLogs = false
			}
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.DetailsViewport.GotoTop()
			}
		case "down", "j":
			if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
				m.DetailsViewport.GotoTop()
			}
		case "home", "g":
			m.SelectedIdx = 0
			m.DetailsViewport.GotoTop()
		case "end", "G":
			if len(m.FilteredIndices) > 0 {
				m.SelectedIdx = len(m.FilteredIndices) - 1
			}
			m.DetailsViewport.GotoTop()
		case "pgup", "pgdown":
			m.DetailsViewport, cmd = m.DetailsViewport.Update(msg)
		case "c":
			m.KindFilter = (m.KindFilter + 1) % len(kindFilters)
			m.performSearch()
			m.DetailsViewport.GotoTop()
		case "l":
			m.ShowLogs = !m.ShowLogs
		case "/":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("")
			return m, textinput.Blink
		}
	}

	return m, cmd
}

// applyFrame folds one envelope into the model. Frames the viewer does
// not understand still count towards Frames.
func (m *AppModel) applyFrame(envelope messaging.RawEnvelope) {
	m.Frames++

	switch envelope.Method {
	case messaging.MethodManager:
		var manager model.Manager
		if err := envelope.DecodeParams(&manager); err != nil {
			m.noteBadFrame(err)
			return
		}
		key, _ := messaging.KeyForManager(manager)
		m.addEntry("manager:"+string(key), Entry{Kind: EntryManager, Manager: manager})

	case messaging.MethodEnvironment:
		var env model.Environment
		if err := envelope.DecodeParams(&env); err != nil {
			m.noteBadFrame(err)
			return
		}
		key, _ := messaging.KeyForEnvironment(env)
		m.addEntry("environment:"+string(key), Entry{Kind: EntryEnvironment, Environment: env})

	case messaging.MethodLog:
		var message messaging.LogMessage
		if err := envelope.DecodeParams(&message); err != nil {
			m.noteBadFrame(err)
			return
		}
		m.Logs = append(m.Logs, message)

	case messaging.MethodExit:
		m.Exits++
	}
}

func (m *AppModel) addEntry(identity string, entry Entry) {
	if i, ok := m.index[identity]; ok {
		m.Entries[i].Repeats++
		return
	}
	m.index[identity] = len(m.Entries)
	m.Entries = append(m.Entries, entry)
	m.performSearch()
}

func (m *AppModel) noteBadFrame(err error) {
	m.Logs = append(m.Logs, messaging.LogMessage{Message: err.Error(), Level: messaging.LogError})
}

func (m *AppModel) clearSearch() {
	m.InputMode = false
	m.InputBuffer.Blur()
	m.InputBuffer.SetValue("")
	m.performSearch()
}

func (m *AppModel) performSearch() {
	term := strings.ToLower(strings.TrimSpace(m.InputBuffer.Value()))
	m.SearchActive = term != ""

	filter := kindFilters[m.KindFilter]

	m.FilteredIndices = make([]int, 0, len(m.Entries))
	for i, entry := range m.Entries {
		if !filter.matches(entry) {
			continue
		}
		if term == "" || strings.Contains(strings.ToLower(entry.Label()), term) {
			m.FilteredIndices = append(m.FilteredIndices, i)
		}
	}

	// Bounds check
	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
}

// ReadFrameCmd reads the next frame in the background.
func ReadFrameCmd(reader *messaging.FrameReader) tea.Cmd {
	return func() tea.Msg {
		envelope, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return MsgStreamEnd{}
		}
		if err != nil {
			return MsgError(err)
		}
		return MsgFrame(envelope)
	}
}
