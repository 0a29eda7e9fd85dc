package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository/postgres"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository/rest"
)

// builtinProducts seeds the catalog when the public feed is not used.
var builtinProducts = []entity.Product{
	{ID: 1, Title: "Wireless Noise-Cancelling Headphones", Price: 349.99, Description: "Over-ear headphones with active noise cancellation and 30-hour battery life.", Category: "electronics", Image: "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400"},
	{ID: 2, Title: "Mechanical Keyboard RGB", Price: 179.99, Description: "Per-key RGB lighting and an aluminum frame.", Category: "electronics", Image: "https://images.unsplash.com/photo-1618384887929-16ec33fab9ef?w=400"},
	{ID: 3, Title: "Slim Fit Cotton Shirt", Price: 22.3, Description: "Lightweight casual shirt.", Category: "men's clothing", Image: "https://images.unsplash.com/photo-1596755094514-f87e34085b2c?w=400"},
	{ID: 4, Title: "Silver Dragon Station Chain Bracelet", Price: 695, Description: "Sterling silver chain bracelet.", Category: "jewelery", Image: "https://images.unsplash.com/photo-1611591437281-460bfbe1220a?w=400"},
	{ID: 5, Title: "Rain Jacket Women Windbreaker", Price: 39.99, Description: "Lightweight hooded rain jacket.", Category: "women's clothing", Image: "https://images.unsplash.com/photo-1591047139829-d91aecb6caea?w=400"},
	{ID: 6, Title: "Premium Laptop Backpack", Price: 129.99, Description: "Water-resistant 17\" laptop compartment with anti-theft design.", Category: "men's clothing", Image: "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=400"},
}

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Builtin bool
}

// NewSeedCommand fills the Postgres catalog, from the public feed by default.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the Postgres product catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if opts.cfg.Catalog.DSN == "" {
				return fmt.Errorf("seed needs a Postgres DSN (catalog.dsn or DATABASE_URL)")
			}

			products := builtinProducts
			if !opts.Builtin {
				fetched, err := rest.NewProductSource(opts.cfg.ProductsURL, nil).FindAll(ctx)
				if err != nil {
					return err
				}
				products = fetched
			}

			db, err := postgres.InitDB(opts.cfg.Catalog.DSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.NewProductRepository(db).Seed(ctx, products); err != nil {
				return fmt.Errorf("failed to seed products: %w", err)
			}
			opts.logger.Info("Seeded products", "count", len(products))
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Builtin, "builtin", false, "seed the built-in product list instead of the public feed")
	return cmd
}
