package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewAddCommand adds products to the cart by ID.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>...",
		Short: "Add products to the cart",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid product id %q", arg)
				}
				ids = append(ids, id)
			}

			app, err := newApp(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.loadCatalog(cmd.Context()); err != nil {
				return reportLoadError(cmd, err)
			}

			for _, id := range ids {
				if _, err := app.session.AddToCart(cmd.Context(), id); err != nil {
					return fmt.Errorf("failed to add product %d: %w", id, err)
				}
			}
			return printCart(cmd, opts, app)
		},
	}
}

// NewCartCommand shows the stored cart without fetching the catalog.
func NewCartCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cart",
		Short: "Show the cart and its total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			return printCart(cmd, opts, app)
		},
	}
}

func printCart(cmd *cobra.Command, opts *RootOptions, app *App) error {
	cart := app.session.Cart()
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), cartView{Items: cart, Total: cart.Total()})
	}
	return renderCart(cmd.OutOrStdout(), cart)
}
