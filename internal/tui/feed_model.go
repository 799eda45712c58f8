package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/postfeed/internal/logging"
	"github.com/rshade/postfeed/internal/pagination"
	"github.com/rshade/postfeed/internal/posts"
	"github.com/rshade/postfeed/internal/tui/detail"
	listview "github.com/rshade/postfeed/internal/tui/list"
)

// ViewState represents the feed's top-level state.
type ViewState int

const (
	// ViewStateLoading means the first page is outstanding.
	ViewStateLoading ViewState = iota
	// ViewStateList means the list is shown.
	ViewStateList
	// ViewStateQuitting means the program is exiting.
	ViewStateQuitting
)

// Layout constants.
const (
	defaultWidth  = 80
	defaultHeight = 24
	headerHeight  = 2
	footerHeight  = 2
	minListHeight = 3
	idColumnWidth = 5
)

// PageLoadedMsg carries the result of a listing fetch.
type PageLoadedMsg struct {
	Advance pagination.Advance
	Posts   []posts.Summary
	Err     error
	Initial bool
}

// FeedModel is the Bubble Tea model for the post feed. It owns the loaded
// collection, the page cursor, and the selected post id; the detail pane is
// mounted while a post is selected.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type FeedModel struct {
	ctx       context.Context
	fetcher   posts.Fetcher
	pager     *pagination.Paginator
	threshold float64

	state ViewState
	list  *listview.VirtualListModel[posts.Summary]

	// loadingMore is set while a page after the first is outstanding.
	loadingMore bool
	// endFiredAt is the collection length when loadMore last fired; a new
	// trigger needs the length to change. -1 re-arms after a failure.
	endFiredAt int
	notice     string

	selectedID int
	detail     *detail.Model
	detailSeq  uint64
	memo       *posts.Memo

	loading *LoadingState
	keys    KeyMap
	help    help.Model
	printer *message.Printer

	width  int
	height int
}

// NewFeedModel creates the feed. threshold is the end-of-list distance, as a
// fraction of the list viewport height, that triggers the next page.
func NewFeedModel(
	ctx context.Context,
	fetcher posts.Fetcher,
	pager *pagination.Paginator,
	threshold float64,
) FeedModel {
	m := FeedModel{
		ctx:        ctx,
		fetcher:    fetcher,
		pager:      pager,
		threshold:  threshold,
		state:      ViewStateLoading,
		endFiredAt: -1,
		memo:       &posts.Memo{},
		loading:    NewLoadingState(),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		printer:    message.NewPrinter(language.English),
		width:      defaultWidth,
		height:     defaultHeight,
	}

	var lst *listview.VirtualListModel[posts.Summary]
	lst = listview.NewVirtualListModel[posts.Summary](nil, minListHeight, defaultWidth,
		func(p posts.Summary, selected bool) string {
			return renderRow(p, selected, lst.Width())
		})
	m.list = lst
	m.layout()
	return m
}

// Init issues the first page fetch (Bubble Tea interface).
func (m FeedModel) Init() tea.Cmd {
	return tea.Batch(m.fetchPage(m.pager.First(), true), m.loading.Init())
}

// fetchPage returns the command that fetches the page in a.Request.
func (m FeedModel) fetchPage(a pagination.Advance, initial bool) tea.Cmd {
	ctx, fetcher := m.ctx, m.fetcher
	return func() tea.Msg {
		items, err := fetcher.ListPosts(ctx, a.Request.Page, a.Request.Limit)
		return PageLoadedMsg{Advance: a, Posts: items, Err: err, Initial: initial}
	}
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m FeedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, m.maybeLoadMore()

	case PageLoadedMsg:
		return m.handlePageLoaded(msg)

	case detail.LoadedMsg:
		if m.detail == nil {
			m.logger().Debug().Ctx(m.ctx).Int("post_id", msg.ID).Msg("dropping detail result for unmounted pane")
			return m, nil
		}
		d, cmd := m.detail.Update(msg)
		m.detail = &d
		return m, cmd

	case detail.ClearSelectionMsg:
		m.clearSelection()
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.state == ViewStateLoading || m.loadingMore {
			cmds = append(cmds, m.loading.Update(msg))
		}
		if m.detail != nil {
			d, cmd := m.detail.Update(msg)
			m.detail = &d
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m FeedModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.state = ViewStateQuitting
		return m, tea.Quit
	}
	if m.state != ViewStateList {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Select):
		item := m.list.GetSelectedItem()
		if item == nil {
			return m, nil
		}
		return m, m.selectPost(item.ID)

	case key.Matches(msg, m.keys.LoadMore):
		if m.list.ItemCount() == 0 {
			m.state = ViewStateLoading
			m.notice = ""
			return m, tea.Batch(m.fetchPage(m.pager.First(), true), m.loading.Init())
		}
		return m, m.startLoadMore()
	}

	if m.detail != nil {
		dk := m.detail.Keys()
		if key.Matches(msg, dk.Clear, dk.Retry, dk.ScrollUp, dk.ScrollDown) {
			d, cmd := m.detail.Update(msg)
			m.detail = &d
			return m, cmd
		}
	}

	_, _ = m.list.Update(msg)
	return m, m.maybeLoadMore()
}

func (m FeedModel) handlePageLoaded(msg PageLoadedMsg) (tea.Model, tea.Cmd) {
	logger := m.logger()
	req := msg.Advance.Request

	if msg.Initial {
		m.state = ViewStateList
	} else {
		m.loadingMore = false
	}

	if msg.Err != nil {
		logger.Error().
			Ctx(m.ctx).
			Str("operation", "list_posts").
			Int("page", req.Page).
			Int("limit", req.Limit).
			Err(msg.Err).
			Msg("page fetch failed")
		m.notice = fmt.Sprintf("Could not load page %d; scroll or press m to retry.", req.Page)
		m.endFiredAt = -1
		return m, nil
	}

	m.pager.Complete(msg.Advance)
	m.list.AppendItems(msg.Posts...)
	m.notice = ""
	m.refreshPreview()

	logger.Debug().
		Ctx(m.ctx).
		Int("page", req.Page).
		Int("limit", req.Limit).
		Int("received", len(msg.Posts)).
		Int("total", m.list.ItemCount()).
		Msg("page appended")

	return m, m.maybeLoadMore()
}

// maybeLoadMore fires loadMore when the end of the list is within the
// threshold, at most once per collection length.
func (m *FeedModel) maybeLoadMore() tea.Cmd {
	if m.state != ViewStateList || m.loadingMore {
		return nil
	}
	if !m.list.EndReached(m.threshold) {
		return nil
	}
	if m.endFiredAt == m.list.ItemCount() {
		return nil
	}
	return m.startLoadMore()
}

// startLoadMore issues the next page fetch unless one is outstanding.
func (m *FeedModel) startLoadMore() tea.Cmd {
	if m.loadingMore {
		return nil
	}
	m.loadingMore = true
	m.endFiredAt = m.list.ItemCount()
	a := m.pager.Begin()

	m.logger().Debug().
		Ctx(m.ctx).
		Str("mode", string(m.pager.Mode())).
		Int("page", a.Request.Page).
		Int("limit", a.Request.Limit).
		Msg("loading more posts")

	return tea.Batch(m.fetchPage(a, false), m.loading.Init())
}

// selectPost sets the selected id and mounts a detail pane for it.
// Re-selecting the current post keeps the mounted pane.
func (m *FeedModel) selectPost(id int) tea.Cmd {
	if m.detail != nil && m.selectedID == id {
		return nil
	}
	m.selectedID = id
	m.detailSeq++

	d := detail.New(m.ctx, id, m.detailSeq, m.fetcher.GetPost, nil)
	m.detail = &d
	m.refreshPreview()
	m.layout()
	return d.Init()
}

// clearSelection resets the selected id and unmounts the detail pane.
func (m *FeedModel) clearSelection() {
	m.selectedID = 0
	m.detail = nil
	m.layout()
}

// refreshPreview recomputes the derived detail shown while the pane loads.
// The memo only recomputes when the selection or the collection changed.
func (m *FeedModel) refreshPreview() {
	if m.detail == nil {
		return
	}
	m.detail.SetPreview(m.memo.Get(m.ctx, m.selectedID, m.list.Items()))
}

// layout sizes the list and detail pane to the window.
func (m *FeedModel) layout() {
	listHeight := m.height - headerHeight - footerHeight
	if m.detail != nil {
		m.detail.SetSize(m.width, detail.DefaultHeight)
		listHeight -= detail.DefaultHeight
	}
	m.list.SetSize(max(listHeight, minListHeight), m.width)
	m.help.Width = m.width
}

func (m FeedModel) logger() *zerolog.Logger {
	l := logging.FromContext(m.ctx).With().Str("component", "feed").Logger()
	return &l
}

// View renders the feed (Bubble Tea interface).
func (m FeedModel) View() string {
	if m.state == ViewStateQuitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Width(m.width).Render("Posts Data"))
	b.WriteString("\n\n")

	if m.state == ViewStateLoading {
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.loading.View("Loading posts...")))
		return b.String()
	}

	listView := m.list.ViewWindow()
	b.WriteString(listView)
	if pad := m.list.Height() - lipgloss.Height(listView); pad > 0 && listView != "" {
		b.WriteString(strings.Repeat("\n", pad))
	}
	if listView == "" {
		b.WriteString(InfoStyle.Render("No posts."))
		b.WriteString(strings.Repeat("\n", m.list.Height()-1))
	}
	b.WriteString("\n")

	if m.detail != nil {
		b.WriteString(m.detail.View())
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{
		m.keys.Up, m.keys.Down, m.keys.Select, m.keys.LoadMore, m.detailClearBinding(), m.keys.Quit,
	}))
	return b.String()
}

func (m FeedModel) detailClearBinding() key.Binding {
	if m.detail == nil {
		return key.NewBinding(key.WithDisabled())
	}
	return m.detail.Keys().Clear
}

// statusLine renders the list footer: the loading indicator while a later
// page is outstanding, otherwise the failure notice or the post count.
func (m FeedModel) statusLine() string {
	switch {
	case m.loadingMore:
		return m.loading.View("Loading more posts...")
	case m.notice != "":
		return ErrorStyle.Render(m.notice)
	default:
		c := m.pager.Cursor()
		return InfoStyle.Render(m.printer.Sprintf("%d posts loaded · page %d", m.list.ItemCount(), c.Page))
	}
}

// renderRow formats a post as a list row: id then title.
func renderRow(p posts.Summary, selected bool, width int) string {
	title := p.Title
	if avail := width - idColumnWidth - 2; avail > 3 {
		title = truncateTitle(title, avail)
	}
	id := fmt.Sprintf("%*d", idColumnWidth, p.ID)
	if selected {
		return RowSelectedStyle.Render(id + "  " + title)
	}
	return IDStyle.Render(id) + "  " + title
}

// State returns the current view state.
func (m FeedModel) State() ViewState {
	return m.state
}

// Posts returns the loaded collection in append order.
func (m FeedModel) Posts() []posts.Summary {
	return m.list.Items()
}

// SelectedID returns the selected post id, or 0.
func (m FeedModel) SelectedID() int {
	return m.selectedID
}

// Detail returns the mounted detail pane, or nil.
func (m FeedModel) Detail() *detail.Model {
	return m.detail
}

// LoadingMore reports whether a later page is outstanding.
func (m FeedModel) LoadingMore() bool {
	return m.loadingMore
}

// Cursor returns the committed page cursor.
func (m FeedModel) Cursor() pagination.Cursor {
	return m.pager.Cursor()
}

// Notice returns the footer failure notice, if any.
func (m FeedModel) Notice() string {
	return m.notice
}
