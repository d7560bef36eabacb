package tui

import (
	"pylocator/internal/messaging"
	"pylocator/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// EntryKind says which report an Entry came from.
type EntryKind int

const (
	EntryManager EntryKind = iota
	EntryEnvironment
)

// Entry is one manager or environment seen on the stream.
type Entry struct {
	Kind        EntryKind
	Manager     model.Manager
	Environment model.Environment

	// Repeats counts frames that carried an identity already shown. A
	// well-behaved producer never repeats one.
	Repeats int
}

// AppModel holds the viewer state.
type AppModel struct {
	// Data
	Entries []Entry
	Logs    []messaging.LogMessage
	Frames  int
	Exits   int
	Loading bool
	Err     error

	// UI State
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg
	ShowLogs    bool

	// Search State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int // Indices of Entries to show
	SearchActive    bool
	KindFilter      int // index into kindFilters; 0 shows every kind

	// Components
	DetailsViewport viewport.Model

	frames *messaging.FrameReader
	index  map[string]int // identity -> index into Entries
}

// InitialModel returns a viewer that reads frames from reader.
func InitialModel(reader *messaging.FrameReader) AppModel {
	ti := textinput.New()
	ti.Placeholder = "path or name..."
	ti.CharLimit = 80
	ti.Width = 30

	return AppModel{
		Loading:         true,
		InputBuffer:     ti,
		DetailsViewport: viewport.New(40, 10),
		frames:          reader,
		index:           make(map[string]int),
	}
}

// kindFilter narrows the list to one manager tool or environment
// category.
type kindFilter struct {
	entry EntryKind
	kind  string
}

// kindFilters are the values the kind filter cycles through. The first
// shows everything.
var kindFilters = buildKindFilters()

func buildKindFilters() []kindFilter {
	filters := []kindFilter{{}}
	for _, kind := range model.ManagerKinds {
		filters = append(filters, kindFilter{entry: EntryManager, kind: string(kind)})
	}
	for _, kind := range model.EnvironmentKinds {
		filters = append(filters, kindFilter{entry: EntryEnvironment, kind: string(kind)})
	}
	return filters
}

func (f kindFilter) String() string {
	switch {
	case f.kind == "":
		return "all"
	case f.entry == EntryManager:
		return "manager " + f.kind
	default:
		return f.kind
	}
}

func (f kindFilter) matches(e Entry) bool {
	if f.kind == "" {
		return true
	}
	if e.Kind != f.entry {
		return false
	}
	if e.Kind == EntryManager {
		return string(e.Manager.Tool) == f.kind
	}
	return string(e.Environment.Category) == f.kind
}

// Label is the one-line description of an entry.
func (e Entry) Label() string {
	if e.Kind == EntryManager {
		return string(e.Manager.Tool) + " " + e.Manager.ExecutablePath
	}
	env := e.Environment
	label := string(env.Category)
	if env.Name != "" {
		label += " " + env.Name
	}
	if env.Version != "" {
		label += " " + env.Version
	}
	return label + " " + firstNonEmpty(env.PythonExecutablePath, env.EnvPath)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
