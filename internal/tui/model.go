// Package tui renders the artwork table in the terminal: a paginated table
// with a selection column and an overlay that selects the first N records of
// the whole collection.
package tui

import (
	"context"
	"errors"
	"sort"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sternrassler/artic-table/pkg/pagination"
	"github.com/Sternrassler/artic-table/pkg/table"
)

// DefaultPageSizes are the page sizes cycled with +/-.
var DefaultPageSizes = []int{5, 10, 20, 50}

// Model is the bubbletea model of the table view.
type Model struct {
	ctx       context.Context
	session   *table.Session
	keys      keyMap
	help      help.Model
	pageSizes []int

	cursor int
	status string

	// bulk overlay
	overlay    bool
	input      textinput.Model
	walking    bool
	cancelWalk context.CancelFunc
	cancelled  bool
}

type pageLoadedMsg struct{ err error }

type bulkDoneMsg struct {
	res *pagination.BulkResult
	err error
}

// New creates the view over session. pageSizes may be nil.
func New(ctx context.Context, session *table.Session, pageSizes []int) *Model {
	if len(pageSizes) == 0 {
		pageSizes = DefaultPageSizes
	}
	sizes := append([]int(nil), pageSizes...)
	sort.Ints(sizes)

	in := textinput.New()
	in.Placeholder = "Number of rows"
	in.CharLimit = 9
	in.Prompt = "› "
	in.Cursor.SetMode(cursor.CursorStatic)

	return &Model{
		ctx:       ctx,
		session:   session,
		keys:      defaultKeyMap(),
		help:      help.New(),
		pageSizes: sizes,
		input:     in,
	}
}

func (m *Model) Init() tea.Cmd {
	st := m.session.State()
	return m.loadCmd(func(ctx context.Context) error {
		return m.session.LoadPage(ctx, 1, st.PageSize)
	})
}

func (m *Model) loadCmd(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return pageLoadedMsg{err: fn(m.ctx)}
	}
}

func (m *Model) bulkCmd(ctx context.Context, input string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.session.BulkSelect(ctx, input)
		return bulkDoneMsg{res: res, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.overlay {
			return m.handleOverlayKey(msg)
		}
		return m.handleTableKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case pageLoadedMsg:
		// Fetch failures are logged by the session; the previous page stays.
		m.clampCursor()

	case bulkDoneMsg:
		m.walking = false
		if m.cancelWalk != nil {
			m.cancelWalk()
			m.cancelWalk = nil
		}
		switch {
		case msg.err == nil:
			m.input.Reset()
			m.input.Blur()
			m.overlay = false
			m.cursor = 0
			m.status = ""
		case m.cancelled:
			m.status = "bulk selection cancelled"
		case errors.Is(msg.err, table.ErrSuperseded):
			m.status = ""
		}
		m.cancelled = false
		m.clampCursor()
	}
	return m, nil
}

func (m *Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.cancelWalk != nil {
			m.cancelWalk()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.stopWalk()

	case key.Matches(msg, m.keys.Prev):
		if m.session.State().HasPrev() {
			m.status = ""
			return m, m.loadCmd(m.session.PrevPage)
		}

	case key.Matches(msg, m.keys.Next):
		if m.session.State().HasNext() {
			m.status = ""
			return m, m.loadCmd(m.session.NextPage)
		}

	case key.Matches(msg, m.keys.Reload):
		m.status = ""
		return m, m.loadCmd(m.session.Reload)

	case key.Matches(msg, m.keys.Bigger):
		return m, m.resize(+1)

	case key.Matches(msg, m.keys.Smaller):
		return m, m.resize(-1)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.session.State().Rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		rows := m.session.State().Rows
		if m.cursor < len(rows) {
			m.session.ToggleRow(rows[m.cursor])
		}

	case key.Matches(msg, m.keys.ToggleVisible):
		m.session.ToggleVisible()

	case key.Matches(msg, m.keys.Bulk):
		m.overlay = true
		m.status = ""
		return m, m.input.Focus()
	}
	return m, nil
}

func (m *Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		if m.cancelWalk != nil {
			m.cancelWalk()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if m.walking {
			m.stopWalk()
			return m, nil
		}
		m.overlay = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		value := m.input.Value()
		if m.walking || !m.session.CanSubmit(value) {
			return m, nil
		}
		ctx, cancel := context.WithCancel(m.ctx)
		m.walking = true
		m.cancelWalk = cancel
		m.status = ""
		return m, m.bulkCmd(ctx, value)
	}

	if m.walking {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize moves to the next page size in direction dir and reloads page 1.
func (m *Model) resize(dir int) tea.Cmd {
	current := m.session.State().PageSize
	next := current
	if dir > 0 {
		for _, s := range m.pageSizes {
			if s > current {
				next = s
				break
			}
		}
	} else {
		for i := len(m.pageSizes) - 1; i >= 0; i-- {
			if m.pageSizes[i] < current {
				next = m.pageSizes[i]
				break
			}
		}
	}
	if next == current {
		return nil
	}
	m.cursor = 0
	return m.loadCmd(func(ctx context.Context) error {
		return m.session.ChangePageSize(ctx, next)
	})
}

func (m *Model) stopWalk() {
	if !m.walking || m.cancelWalk == nil {
		return
	}
	m.cancelled = true
	m.status = "cancelling…"
	m.cancelWalk()
}

func (m *Model) clampCursor() {
	n := len(m.session.State().Rows)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
