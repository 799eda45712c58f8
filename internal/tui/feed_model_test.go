package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/postfeed/internal/pagination"
	"github.com/rshade/postfeed/internal/posts"
	"github.com/rshade/postfeed/internal/tui/detail"
)

var errUpstream = errors.New("upstream unavailable")

// stubFetcher serves generated pages and records every request.
type stubFetcher struct {
	listCalls []pagination.Cursor
	getCalls  []int
	// failPages lists pages whose next request fails once.
	failPages map[int]bool
	getErr    error
}

func (s *stubFetcher) ListPosts(_ context.Context, page, limit int) ([]posts.Summary, error) {
	s.listCalls = append(s.listCalls, pagination.Cursor{Page: page, Limit: limit})
	if s.failPages[page] {
		delete(s.failPages, page)
		return nil, errUpstream
	}
	out := make([]posts.Summary, 0, limit)
	for i := range limit {
		id := (page-1)*limit + i + 1
		out = append(out, posts.Summary{ID: id, Title: fmt.Sprintf("post %d", id), UserID: 1})
	}
	return out, nil
}

func (s *stubFetcher) GetPost(_ context.Context, id int) (posts.Detail, error) {
	s.getCalls = append(s.getCalls, id)
	if s.getErr != nil {
		return posts.Detail{}, s.getErr
	}
	return posts.Detail{ID: id, Title: fmt.Sprintf("post %d", id), Body: "body", UserID: 1}, nil
}

// collect runs cmd and any batched commands it produces, returning the
// resulting messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

func pageMsg(t *testing.T, cmd tea.Cmd) PageLoadedMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if pm, ok := msg.(PageLoadedMsg); ok {
			return pm
		}
	}
	require.FailNow(t, "command did not fetch a page")
	return PageLoadedMsg{}
}

func detailMsg(t *testing.T, cmd tea.Cmd) detail.LoadedMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if lm, ok := msg.(detail.LoadedMsg); ok {
			return lm
		}
	}
	require.FailNow(t, "command did not fetch a post")
	return detail.LoadedMsg{}
}

func hasPageFetch(cmd tea.Cmd) bool {
	for _, msg := range collect(cmd) {
		if _, ok := msg.(PageLoadedMsg); ok {
			return true
		}
	}
	return false
}

func update(t *testing.T, m FeedModel, msg tea.Msg) (FeedModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	fm, ok := next.(FeedModel)
	require.True(t, ok)
	return fm, cmd
}

func keyDown() tea.KeyMsg     { return tea.KeyMsg{Type: tea.KeyDown} }
func keyEnterMsg() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func keyEsc() tea.KeyMsg      { return tea.KeyMsg{Type: tea.KeyEscape} }
func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// newLoadedFeed returns a feed with a 10-row list viewport and the first
// page applied.
func newLoadedFeed(t *testing.T, f *stubFetcher, mode pagination.Mode) FeedModel {
	t.Helper()
	pager, err := pagination.New(mode, pagination.DefaultPageSize)
	require.NoError(t, err)

	m := NewFeedModel(context.Background(), f, pager, 0.5)
	assert.Equal(t, ViewStateLoading, m.State())

	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 80, Height: 14})
	assert.Nil(t, cmd, "an empty list never reaches its end")

	first := pageMsg(t, m.Init())
	m, cmd = update(t, m, first)
	assert.False(t, hasPageFetch(cmd))
	return m
}

func TestFeed_InitialLoad(t *testing.T) {
	f := &stubFetcher{}
	m := newLoadedFeed(t, f, pagination.ModeSequential)

	assert.Equal(t, ViewStateList, m.State())
	assert.Equal(t, []pagination.Cursor{{Page: 1, Limit: 15}}, f.listCalls)
	assert.Len(t, m.Posts(), 15)
	assert.Nil(t, m.Detail())
	assert.Zero(t, m.SelectedID())
	assert.Empty(t, f.getCalls)

	view := m.View()
	assert.Contains(t, view, "Posts Data")
	assert.Contains(t, view, "post 1")
	assert.Contains(t, view, "15 posts loaded")
}

func TestFeed_LoadingViewBeforeFirstPage(t *testing.T) {
	pager, err := pagination.New(pagination.ModeSequential, 15)
	require.NoError(t, err)
	m := NewFeedModel(context.Background(), &stubFetcher{}, pager, 0.5)

	assert.Contains(t, m.View(), "Loading posts...")

	// Keys other than quit are ignored until the first page arrives.
	m, cmd := update(t, m, keyEnterMsg())
	assert.Nil(t, cmd)
	assert.Equal(t, ViewStateLoading, m.State())
}

func TestFeed_LoadMoreFiresOncePerCrossing(t *testing.T) {
	f := &stubFetcher{}
	m := newLoadedFeed(t, f, pagination.ModeSequential)

	var cmd tea.Cmd
	for range 5 {
		m, cmd = update(t, m, keyDown())
		assert.Nil(t, cmd, "threshold not yet crossed")
	}

	// Sixth row leaves 4 rows below the viewport, under half its height.
	m, cmd = update(t, m, keyDown())
	require.True(t, m.LoadingMore())
	pending := pageMsg(t, cmd)
	assert.Equal(t, pagination.Cursor{Page: 2, Limit: 15}, pending.Advance.Request)
	assert.Contains(t, m.View(), "Loading more posts...")

	// Further scrolling while the page is outstanding does not refire.
	for range 3 {
		m, cmd = update(t, m, keyDown())
		assert.False(t, hasPageFetch(cmd))
	}
	m, cmd = update(t, m, keyRune('m'))
	assert.Nil(t, cmd)

	m, _ = update(t, m, pending)
	assert.False(t, m.LoadingMore())
	assert.Len(t, m.Posts(), 30)
	assert.Equal(t, pagination.Cursor{Page: 2, Limit: 15}, m.Cursor())
	assert.Equal(t, []pagination.Cursor{{Page: 1, Limit: 15}, {Page: 2, Limit: 15}}, f.listCalls)
}

func TestFeed_LegacyModeArithmetic(t *testing.T) {
	f := &stubFetcher{}
	m := newLoadedFeed(t, f, pagination.ModeLegacy)

	m, cmd := update(t, m, keyRune('m'))
	pending := pageMsg(t, cmd)
	assert.Equal(t, pagination.Cursor{Page: 1, Limit: 15}, pending.Advance.Request)
	assert.Equal(t, pagination.Cursor{Page: 2, Limit: 0}, m.Cursor())

	m, _ = update(t, m, pending)

	// Page 1 was requested twice; the duplicates are kept in order.
	items := m.Posts()
	require.Len(t, items, 30)
	assert.Equal(t, items[0], items[15])
	assert.Equal(t, []pagination.Cursor{{Page: 1, Limit: 15}, {Page: 1, Limit: 15}}, f.listCalls)
}

func TestFeed_FailedPageKeepsStateAndRetries(t *testing.T) {
	f := &stubFetcher{failPages: map[int]bool{2: true}}
	m := newLoadedFeed(t, f, pagination.ModeSequential)

	m, cmd := update(t, m, keyRune('m'))
	m, cmd = update(t, m, pageMsg(t, cmd))
	assert.Nil(t, cmd)
	assert.False(t, m.LoadingMore())
	assert.Len(t, m.Posts(), 15)
	assert.Equal(t, pagination.Cursor{Page: 1, Limit: 15}, m.Cursor())
	assert.Contains(t, m.Notice(), "page 2")
	assert.Contains(t, m.View(), "Could not load page 2")

	// The failure re-arms the trigger; crossing the threshold again retries
	// the same page.
	for range 6 {
		m, cmd = update(t, m, keyDown())
		if hasPageFetch(cmd) {
			break
		}
	}
	retry := pageMsg(t, cmd)
	assert.Equal(t, pagination.Cursor{Page: 2, Limit: 15}, retry.Advance.Request)

	m, _ = update(t, m, retry)
	assert.Empty(t, m.Notice())
	assert.Len(t, m.Posts(), 30)
}

func TestFeed_FailedFirstPageRetriesWithLoadMoreKey(t *testing.T) {
	f := &stubFetcher{failPages: map[int]bool{1: true}}
	pager, err := pagination.New(pagination.ModeSequential, 15)
	require.NoError(t, err)
	m := NewFeedModel(context.Background(), f, pager, 0.5)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 14})

	m, _ = update(t, m, pageMsg(t, m.Init()))
	assert.Equal(t, ViewStateList, m.State())
	assert.Empty(t, m.Posts())
	assert.NotEmpty(t, m.Notice())

	m, cmd := update(t, m, keyRune('m'))
	assert.Equal(t, ViewStateLoading, m.State())
	m, _ = update(t, m, pageMsg(t, cmd))
	assert.Len(t, m.Posts(), 15)
	assert.Equal(t, []pagination.Cursor{{Page: 1, Limit: 15}, {Page: 1, Limit: 15}}, f.listCalls)
}

// selectRow moves the cursor to index and presses enter.
func selectRow(t *testing.T, m FeedModel, index int) (FeedModel, tea.Cmd) {
	t.Helper()
	for m.list.Selected() < index {
		m, _ = update(t, m, keyDown())
	}
	return update(t, m, keyEnterMsg())
}

func TestFeed_SelectMountsDetailOnce(t *testing.T) {
	f := &stubFetcher{}
	m := newLoadedFeed(t, f, pagination.ModeSequential)

	m, cmd := selectRow(t, m, 4)
	assert.Equal(t, 5, m.SelectedID())
	require.NotNil(t, m.Detail())
	assert.Equal(t, detail.StateLoading, m.Detail().State())

	// The derived summary previews the post while the fetch is outstanding.
	require.NotNil(t, m.Detail().Preview())
	assert.Equal(t, "post 5", m.Detail().Preview().Title)

	m, _ = update(t, m, detailMsg(t, cmd))
	assert.Equal(t, []int{5}, f.getCalls)
	assert.Equal(t, detail.StateLoaded, m.Detail().State())
	assert.Contains(t, m.View(), "Title: post 5")

	// Selecting the same post again keeps the mounted pane.
	m, cmd = update(t, m, keyEnterMsg())
	assert.Nil(t, cmd)
	assert.Equal(t, []int{5}, f.getCalls)
}

func TestFeed_ClearUnmountsDetail(t *testing.T) {
	f := &stubFetcher{}
	m := newLoadedFeed(t, f, pagination.ModeSequential)

	m, cmd := selectRow(t, m, 4)
	m, _ = update(t, m, detailMsg(t, cmd))

	m, cmd = update(t, m, keyEsc())
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	m, cmd = update(t, m, msgs[0])

	assert.Nil(t, cmd)
	assert.Nil(t, m.Detail())
	assert.Zero(t, m.SelectedID())
	assert.Equal(t, []int{5}, f.getCalls, "clearing does not fetch")
	assert.NotContains(t, m.View(), "Clear Selection")
}

func TestFeed_StaleDetailResultsDropped(t *testing.T) {
	f := &stubFetcher{}
	m := newLoadedFeed(t, f, pagination.ModeSequential)

	m, cmd := selectRow(t, m, 4)
	stale := detailMsg(t, cmd)

	// Switching to another post drops the earlier result.
	m, cmd = selectRow(t, m, 5)
	assert.Equal(t, 6, m.SelectedID())
	m, _ = update(t, m, stale)
	assert.Equal(t, detail.StateLoading, m.Detail().State())

	current := detailMsg(t, cmd)
	m, _ = update(t, m, current)
	assert.Equal(t, 6, m.Detail().Post().ID)

	// After clearing, late results are ignored.
	m, cmd = update(t, m, keyEsc())
	m, _ = update(t, m, collect(cmd)[0])
	m, _ = update(t, m, current)
	assert.Nil(t, m.Detail())
}

func TestFeed_DetailErrorAndRetry(t *testing.T) {
	f := &stubFetcher{getErr: errUpstream}
	m := newLoadedFeed(t, f, pagination.ModeSequential)

	m, cmd := selectRow(t, m, 0)
	m, _ = update(t, m, detailMsg(t, cmd))
	assert.Equal(t, detail.StateError, m.Detail().State())
	assert.Contains(t, m.View(), "Press r to retry.")

	f.getErr = nil
	m, cmd = update(t, m, keyRune('r'))
	m, _ = update(t, m, detailMsg(t, cmd))
	assert.Equal(t, detail.StateLoaded, m.Detail().State())
	assert.Equal(t, []int{1, 1}, f.getCalls)
}

func TestFeed_PreviewRecomputedOnlyOnChange(t *testing.T) {
	f := &stubFetcher{}
	m := newLoadedFeed(t, f, pagination.ModeSequential)

	m, _ = selectRow(t, m, 2)
	assert.Equal(t, 1, m.memo.Computations())

	// Unrelated updates reuse the cached value.
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 14})
	assert.Equal(t, 1, m.memo.Computations())

	// A new page changes the collection.
	m, cmd := update(t, m, keyRune('m'))
	m, _ = update(t, m, pageMsg(t, cmd))
	assert.Equal(t, 2, m.memo.Computations())
	assert.Equal(t, "post 3", m.Detail().Preview().Title)
}

func TestFeed_Quit(t *testing.T) {
	m := newLoadedFeed(t, &stubFetcher{}, pagination.ModeSequential)

	m, cmd := update(t, m, keyRune('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, ViewStateQuitting, m.State())
	assert.Empty(t, m.View())
}

func TestRenderRow(t *testing.T) {
	p := posts.Summary{ID: 7, Title: "a fairly long title that will not fit"}

	row := renderRow(p, false, 20)
	assert.Contains(t, row, "7")
	assert.Contains(t, row, "...")
	assert.NotContains(t, row, "not fit")

	assert.Contains(t, renderRow(posts.Summary{ID: 1, Title: "short"}, true, 80), "short")
}
