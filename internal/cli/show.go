package cli

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/postfeed/internal/posts"
	"github.com/rshade/postfeed/internal/tui"
)

func newShowCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show ID...",
		Short: "Fetch and print posts by id",
		Example: `  # Show one post
  postfeed show 1

  # Show several posts as JSON
  postfeed show 1 2 3 --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil || id <= 0 {
					return fmt.Errorf("%w: %q", posts.ErrInvalidID, arg)
				}
				ids = append(ids, id)
			}

			results, err := fetchPosts(cmd, a.client, ids)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output == outputJSON {
				return tui.RenderPostsJSON(w, results)
			}
			for i, p := range results {
				if i > 0 {
					if _, err = fmt.Fprintln(w); err != nil {
						return err
					}
				}
				if err = tui.RenderPostDetail(w, p); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")

	return cmd
}

// fetchPosts fetches ids concurrently with a concurrency limit of
// runtime.NumCPU(). Results keep the order of ids; the first failure
// cancels the rest.
func fetchPosts(cmd *cobra.Command, fetcher posts.Fetcher, ids []int) ([]posts.Detail, error) {
	results := make([]posts.Detail, len(ids))

	g, gCtx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())

	for i, id := range ids {
		g.Go(func() error {
			p, err := fetcher.GetPost(gCtx, id)
			if err != nil {
				return fmt.Errorf("fetching post %d: %w", id, err)
			}
			results[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
