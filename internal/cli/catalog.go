package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rakeshthota234/Online-Retail-Application/internal/catalog"
	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
)

// ItemList is a list of catalog items.
type ItemList struct {
	Items []retail.Item `json:"items"`
}

// WriteText implements textWriter.
func (l ItemList) WriteText(w io.Writer) error {
	if len(l.Items) == 0 {
		_, err := fmt.Fprintln(w, "No items found.")
		return err
	}
	rows := make([][]any, len(l.Items))
	for i, it := range l.Items {
		rows[i] = []any{it.ID, it.Name, it.Category, it.Price.StringFixed(2)}
	}
	return writeTable(w, []string{"ID", "NAME", "CATEGORY", "PRICE"}, rows)
}

// CategoryList is the list of visible categories.
type CategoryList struct {
	Categories []string `json:"categories"`
}

// WriteText implements textWriter.
func (l CategoryList) WriteText(w io.Writer) error {
	if len(l.Categories) == 0 {
		_, err := fmt.Fprintln(w, "No categories found.")
		return err
	}
	for _, c := range l.Categories {
		if _, err := fmt.Fprintln(w, c); err != nil {
			return err
		}
	}
	return nil
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse categories and items",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "categories",
		Short: "List categories that have at least one item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(rootOpts, cmd, func(ctx context.Context, r *catalog.Reader) (any, error) {
				cats, err := r.Categories(ctx)
				return CategoryList{Categories: cats}, err
			})
		},
	})

	var category string
	items := &cobra.Command{
		Use:   "items",
		Short: "List the items of a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(rootOpts, cmd, func(ctx context.Context, r *catalog.Reader) (any, error) {
				list, err := r.ItemsByCategory(ctx, category)
				return ItemList{Items: list}, err
			})
		},
	}
	items.Flags().StringVar(&category, "category", "", "category name (required)")
	_ = items.MarkFlagRequired("category")
	cmd.AddCommand(items)

	cmd.AddCommand(&cobra.Command{
		Use:   "item <id>",
		Short: "Show one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid item id %q", args[0]))
			}
			return withCatalog(rootOpts, cmd, func(ctx context.Context, r *catalog.Reader) (any, error) {
				it, err := r.Item(ctx, id)
				return ItemList{Items: []retail.Item{it}}, err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "featured",
		Short: "List the featured items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(rootOpts, cmd, func(ctx context.Context, r *catalog.Reader) (any, error) {
				list, err := r.Featured(ctx)
				return ItemList{Items: list}, err
			})
		},
	})

	return cmd
}

func withCatalog(opts *RootOptions, cmd *cobra.Command, read func(context.Context, *catalog.Reader) (any, error)) error {
	a, err := openApp(opts, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	data, err := read(cmd.Context(), a.catalog)
	if err != nil {
		return a.out.Fail("catalog read failed", err)
	}
	return a.out.Success(data)
}
