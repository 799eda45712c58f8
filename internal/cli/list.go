package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/postfeed/internal/pagination"
	"github.com/rshade/postfeed/internal/tui"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
)

func validateOutput(format string) error {
	switch format {
	case outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want %s or %s)", format, outputTable, outputJSON)
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		page   int
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of posts",
		Example: `  # First page at the configured page size
  postfeed list

  # Page 3 with 5 posts, as JSON
  postfeed list --page 3 --limit 5 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			params := pagination.Params{Page: page, Limit: limit}
			if !cmd.Flags().Changed("limit") {
				params.Limit = a.cfg.Pagination.PageSize
			}
			if err := params.Validate(); err != nil {
				return fmt.Errorf("invalid page selection: %w", err)
			}

			ctx := cmd.Context()
			items, err := a.client.ListPosts(ctx, params.Page, params.Limit)
			if err != nil {
				return fmt.Errorf("listing posts: %w", err)
			}

			logger.Debug().
				Ctx(ctx).
				Int("page", params.Page).
				Int("limit", params.Limit).
				Int("count", len(items)).
				Msg("listed posts")

			if output == outputJSON {
				return tui.RenderPostsJSON(cmd.OutOrStdout(), items)
			}
			return tui.RenderPostsTable(cmd.OutOrStdout(), items, 0)
		},
	}

	cmd.Flags().IntVar(&page, "page", pagination.DefaultPage, "page number (1-based)")
	cmd.Flags().IntVar(&limit, "limit", pagination.DefaultPageSize, "posts per page (default: configured page size)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")

	return cmd
}
