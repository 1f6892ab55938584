package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapdash/internal/api"
	"github.com/leapstack-labs/leapdash/internal/catalog"
	"github.com/leapstack-labs/leapdash/internal/cli/output"
	"github.com/leapstack-labs/leapdash/pkg/core"
	"github.com/leapstack-labs/leapdash/pkg/tableview"
	"github.com/spf13/cobra"
)

// BrowseOptions holds options for the browse command.
type BrowseOptions struct {
	Filter   string
	Sort     string
	Page     int
	PageSize int
	UserID   int
	PostID   int
}

// NewBrowseCommand creates the browse command.
func NewBrowseCommand() *cobra.Command {
	opts := &BrowseOptions{}

	cmd := &cobra.Command{
		Use:   "browse <users|posts|comments>",
		Short: "Print one page of a collection",
		Long: `Fetch a collection from the API and print one page of it, filtered and
sorted the same way the dashboard tables are.

Users filter on name and username, posts filter on title and sort by title.
Comments belong to a post and need --post.`,
		Example: `  # First page of users
  leapdash browse users

  # Posts whose title contains "dolorem", sorted descending
  leapdash browse posts --filter dolorem --sort title:desc

  # Posts of user 2 as CSV
  leapdash browse posts --user 2 -o csv

  # Comments on post 1, second page of 5
  leapdash browse comments --post 1 --page 2 --page-size 5`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(core.EntityUsers), string(core.EntityPosts), string(core.EntityComments)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cctx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return runBrowse(cmd.Context(), cctx, core.Entity(args[0]), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "Case-insensitive filter text")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "Sort column, optionally with direction (e.g. title:desc)")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page number (1-based)")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "Rows per page (default from table.default_page_size)")
	cmd.Flags().IntVar(&opts.UserID, "user", 0, "Only posts of this user")
	cmd.Flags().IntVar(&opts.PostID, "post", 0, "Post whose comments to list")

	return cmd
}

// browseKey picks the query key for entity and the scoping flags.
func browseKey(entity core.Entity, opts *BrowseOptions) (core.QueryKey, error) {
	switch entity {
	case core.EntityUsers:
		return core.UsersKey(), nil
	case core.EntityPosts:
		if opts.UserID > 0 {
			return core.UserPostsKey(opts.UserID), nil
		}
		return core.PostsKey(), nil
	case core.EntityComments:
		if opts.PostID <= 0 {
			return core.QueryKey{}, errors.New("comments need --post <id>")
		}
		return core.PostCommentsKey(opts.PostID), nil
	}
	return core.QueryKey{}, fmt.Errorf("unknown collection %q", entity)
}

func runBrowse(ctx context.Context, cctx *CommandContext, entity core.Entity, opts *BrowseOptions) error {
	key, err := browseKey(entity, opts)
	if err != nil {
		return err
	}

	switch entity {
	case core.EntityUsers:
		return browse(ctx, cctx, key, catalog.UserColumns(), opts)
	case core.EntityPosts:
		return browse(ctx, cctx, key, catalog.PostColumns(), opts)
	default:
		return browse(ctx, cctx, key, catalog.CommentColumns(), opts)
	}
}

func browse[R any](ctx context.Context, cctx *CommandContext, key core.QueryKey, columns []tableview.Column[R], opts *BrowseOptions) error {
	cfg := cctx.Cfg
	engine := tableview.New(columns,
		tableview.WithPageSizes(cfg.Table.PageSizes...),
		tableview.WithDefaultPageSize(cfg.Table.DefaultPageSize),
	)
	if err := applyBrowseOptions(engine, opts); err != nil {
		return err
	}

	rows, err := api.Fetch[R](ctx, cctx.Client, key)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", key, err)
	}
	cctx.Logger.Debug("fetched collection", "key", key.String(), "rows", len(rows))

	engine.SetRows(rows)
	if opts.Page > 1 {
		engine.GoToPage(opts.Page - 1)
	}

	return renderView(cctx.Renderer, key, engine.Columns(), engine.View())
}

// applyBrowseOptions validates and applies the filter, sort and page size.
func applyBrowseOptions[R any](engine *tableview.Engine[R], opts *BrowseOptions) error {
	columns := engine.Columns()

	if opts.Filter != "" {
		if !catalog.Searchable(columns) {
			return errors.New("this collection has no filterable columns")
		}
		engine.SetFilterText(opts.Filter)
	}

	if opts.Sort != "" {
		column, dir, err := parseSort(opts.Sort)
		if err != nil {
			return err
		}
		idx := slices.IndexFunc(columns, func(c tableview.Column[R]) bool { return c.Key == column })
		if idx < 0 || !columns[idx].Sortable {
			return fmt.Errorf("column %q is not sortable", column)
		}
		engine.SetSort(column, dir)
	}

	if opts.PageSize != 0 {
		if !slices.Contains(engine.AllowedPageSizes(), opts.PageSize) {
			return fmt.Errorf("page size %d is not one of %v", opts.PageSize, engine.AllowedPageSizes())
		}
		engine.SetPageSize(opts.PageSize)
	}

	if opts.Page < 1 {
		return fmt.Errorf("page must be at least 1, got %d", opts.Page)
	}
	return nil
}

// parseSort splits "title" or "title:desc".
func parseSort(s string) (string, tableview.SortDirection, error) {
	column, dir, found := strings.Cut(s, ":")
	if !found {
		return column, tableview.SortAsc, nil
	}
	switch tableview.SortDirection(strings.ToLower(dir)) {
	case tableview.SortAsc:
		return column, tableview.SortAsc, nil
	case tableview.SortDesc:
		return column, tableview.SortDesc, nil
	}
	return "", "", fmt.Errorf("sort direction %q must be asc or desc", dir)
}

func renderView[R any](r *output.Renderer, key core.QueryKey, columns []tableview.Column[R], view tableview.DerivedView[R]) error {
	keys := make([]string, len(columns))
	headers := make([]string, len(columns))
	for i, col := range columns {
		keys[i] = col.Key
		headers[i] = col.Header
	}

	rows := make([][]string, len(view.Rows))
	for i, row := range view.Rows {
		cells := make([]string, len(columns))
		for j, col := range columns {
			cells[j] = col.Accessor(row).String()
		}
		rows[i] = cells
	}

	mode := r.EffectiveMode()
	if mode == output.ModeMarkdown {
		r.Header(1, key.String())
		r.Println("")
	}

	if err := r.Table(keys, headers, rows); err != nil {
		return err
	}

	footer := fmt.Sprintf("Page %d of %d, %d rows", view.PageNumber(), view.DisplayPageCount(), view.TotalFiltered)
	switch mode {
	case output.ModeText:
		r.Println(r.Styles().Muted.Render(footer))
	case output.ModeMarkdown:
		r.Println("")
		r.Println("_" + footer + "_")
	}
	return nil
}
