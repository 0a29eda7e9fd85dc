package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/service"
)

// ProductsOptions holds flags for the products command.
type ProductsOptions struct {
	*RootOptions
	Category string
}

// NewProductsCommand lists the catalog, optionally filtered by category.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products, optionally filtered by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			if err := app.loadCatalog(cmd.Context()); err != nil {
				return reportLoadError(cmd, err)
			}

			app.session.SelectCategory(opts.Category)
			products := app.session.VisibleProducts()
			if opts.Format == "json" {
				return writeJSON(out, products)
			}
			return renderProducts(out, products)
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "all", "category to show")
	return cmd
}

// NewCategoriesCommand lists the catalog's categories.
func NewCategoriesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.loadCatalog(cmd.Context()); err != nil {
				return reportLoadError(cmd, err)
			}

			categories := app.session.Categories()
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), categories)
			}
			return renderCategories(cmd.OutOrStdout(), categories, app.session.SelectedCategory())
		},
	}
}

// reportLoadError prints the user-facing load message in place of the
// catalog and returns err.
func reportLoadError(cmd *cobra.Command, err error) error {
	var loadErr *service.LoadError
	if errors.As(err, &loadErr) {
		fmt.Fprintln(cmd.OutOrStdout(), loadErr.Message())
	}
	return err
}
