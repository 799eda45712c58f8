package detail

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/postfeed/internal/logging"
	"github.com/rshade/postfeed/internal/posts"
)

// State is the detail pane's load state.
type State int

const (
	// StateLoading means the fetch is outstanding.
	StateLoading State = iota
	// StateLoaded means the post is displayed.
	StateLoaded
	// StateError means the fetch failed; 'r' retries.
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Pane layout.
const (
	DefaultHeight = 9
	minBodyHeight = 1
	chromeLines   = 5 // border (2) + id/title lines (2) + actions line (1)
)

// FetchFunc loads a single post.
type FetchFunc func(ctx context.Context, id int) (posts.Detail, error)

// LoadedMsg carries the result of a detail fetch.
type LoadedMsg struct {
	ID   int
	Seq  uint64
	Post posts.Detail
	Err  error
}

// ClearSelectionMsg asks the parent to reset the selected post.
type ClearSelectionMsg struct{}

// KeyMap holds the pane's bindings.
type KeyMap struct {
	Clear      key.Binding
	Retry      key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

// DefaultKeyMap returns the pane's default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Clear:      key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc/c", "clear selection")),
		Retry:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		ScrollUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "scroll body up")),
		ScrollDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "scroll body down")),
	}
}

//nolint:gochecknoglobals // Lip Gloss styles are immutable values.
var (
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("250")).
			Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	actionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("252")).Padding(0, 1)
)

// Model is the detail pane for one selected post.
type Model struct {
	ctx     context.Context
	id      int
	seq     uint64
	fetch   FetchFunc
	preview *posts.Detail

	state State
	post  posts.Detail
	err   error

	spinner  spinner.Model
	viewport viewport.Model
	keys     KeyMap

	width  int
	height int
}

// New creates a pane for post id. seq identifies this mount so that results
// from an earlier mount of the same id are ignored. preview, if non-nil, is
// shown while the fetch is outstanding.
func New(ctx context.Context, id int, seq uint64, fetch FetchFunc, preview *posts.Detail) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	keys := DefaultKeyMap()
	vp := viewport.New(0, minBodyHeight)
	vp.KeyMap = viewport.KeyMap{Up: keys.ScrollUp, Down: keys.ScrollDown}

	return Model{
		ctx:      ctx,
		id:       id,
		seq:      seq,
		fetch:    fetch,
		preview:  preview,
		state:    StateLoading,
		spinner:  s,
		viewport: vp,
		keys:     keys,
		height:   DefaultHeight,
	}
}

// Init starts the fetch and the loading spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.spinner.Tick)
}

// load returns the command that fetches the post.
func (m Model) load() tea.Cmd {
	ctx, id, seq, fetch := m.ctx, m.id, m.seq, m.fetch
	return func() tea.Msg {
		p, err := fetch(ctx, id)
		return LoadedMsg{ID: id, Seq: seq, Post: p, Err: err}
	}
}

// Update handles load results, spinner ticks, and pane keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		return m.handleLoaded(msg), nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleLoaded(msg LoadedMsg) Model {
	if msg.ID != m.id || msg.Seq != m.seq {
		return m
	}
	logger := logging.FromContext(m.ctx)
	if msg.Err != nil {
		logger.Error().
			Ctx(m.ctx).
			Str("component", "detail").
			Int("post_id", m.id).
			Err(msg.Err).
			Msg("post detail fetch failed")
		m.state = StateError
		m.err = msg.Err
		return m
	}
	m.state = StateLoaded
	m.post = msg.Post
	m.err = nil
	m.viewport.SetContent(m.wrappedBody())
	m.viewport.GotoTop()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Clear):
		return m, func() tea.Msg { return ClearSelectionMsg{} }
	case key.Matches(msg, m.keys.Retry):
		if m.state != StateError {
			return m, nil
		}
		m.state = StateLoading
		m.err = nil
		return m, tea.Batch(m.load(), m.spinner.Tick)
	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// SetSize sets the pane's outer dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = m.innerWidth()
	m.viewport.Height = max(height-chromeLines, minBodyHeight)
	if m.state == StateLoaded {
		m.viewport.SetContent(m.wrappedBody())
	}
}

func (m Model) innerWidth() int {
	// border (2) + horizontal padding (2)
	return max(m.width-4, 1)
}

func (m Model) wrappedBody() string {
	return lipgloss.NewStyle().Width(m.innerWidth()).Render("Body: " + m.post.Body)
}

// View renders the pane.
func (m Model) View() string {
	var b strings.Builder

	switch m.state {
	case StateLoading:
		b.WriteString(m.spinner.View() + " Loading post " + strconv.Itoa(m.id) + "...")
		if m.preview != nil {
			b.WriteString("\n" + mutedStyle.Render(truncate(m.preview.Title, m.innerWidth())))
		}
	case StateLoaded:
		b.WriteString(labelStyle.Render("ID: ") + strconv.Itoa(m.post.ID) + "\n")
		b.WriteString(labelStyle.Render("Title: ") + m.post.Title + "\n")
		b.WriteString(m.viewport.View())
	case StateError:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Could not load post %d: %v", m.id, m.err)))
		b.WriteString("\n" + mutedStyle.Render("Press r to retry."))
	}

	b.WriteString("\n" + actionStyle.Render("Clear Selection") + mutedStyle.Render(" esc"))

	style := paneStyle
	if m.width > 0 {
		style = style.Width(m.width - 2)
	}
	return style.Render(b.String())
}

// SetPreview replaces the summary shown while the fetch is outstanding.
func (m *Model) SetPreview(preview *posts.Detail) {
	m.preview = preview
}

// Preview returns the summary preview, or nil.
func (m Model) Preview() *posts.Detail {
	return m.preview
}

// ID returns the post id this pane shows.
func (m Model) ID() int {
	return m.id
}

// Seq returns the mount sequence number.
func (m Model) Seq() uint64 {
	return m.seq
}

// State returns the load state.
func (m Model) State() State {
	return m.state
}

// Post returns the loaded post; it is zero until StateLoaded.
func (m Model) Post() posts.Detail {
	return m.post
}

// Err returns the last fetch error.
func (m Model) Err() error {
	return m.err
}

// Height returns the pane's outer height.
func (m Model) Height() int {
	return m.height
}

// Keys returns the pane's bindings for help rendering.
func (m Model) Keys() KeyMap {
	return m.keys
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width || width < 4 {
		return s
	}
	r := []rune(s)
	if len(r) > width-3 {
		r = r[:width-3]
	}
	return string(r) + "..."
}
