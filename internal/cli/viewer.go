package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/postfeed/internal/pagination"
	"github.com/rshade/postfeed/internal/posts"
	"github.com/rshade/postfeed/internal/tui"
)

// runViewer runs the interactive feed, or prints the first page when stdout
// cannot host it.
func (a *app) runViewer(cmd *cobra.Command) error {
	ctx := cmd.Context()

	mode, err := pagination.ParseMode(a.cfg.Pagination.Mode)
	if err != nil {
		return err
	}
	pager, err := pagination.New(mode, a.cfg.Pagination.PageSize)
	if err != nil {
		return err
	}

	if !a.ownsTerminal(cmd) {
		logger.Debug().Ctx(ctx).Msg("stdout is not interactive, printing first page")
		return printFirstPage(ctx, cmd.OutOrStdout(), a.client, pager)
	}
	return runFeedTUI(ctx, a.client, pager, a.cfg.Pagination.Threshold)
}

// runFeedTUI runs the feed until the user quits. Outstanding fetches are
// cancelled when it returns.
func runFeedTUI(ctx context.Context, fetcher posts.Fetcher, pager *pagination.Paginator, threshold float64) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.NewFeedModel(ctx, fetcher, pager, threshold)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}

// printFirstPage renders the page the viewer would load first.
func printFirstPage(ctx context.Context, w io.Writer, fetcher posts.Fetcher, pager *pagination.Paginator) error {
	req := pager.First().Request
	items, err := fetcher.ListPosts(ctx, req.Page, req.Limit)
	if err != nil {
		return fmt.Errorf("fetching page %d: %w", req.Page, err)
	}
	return tui.RenderPostsTable(w, items, tui.TerminalWidth())
}
