package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpdelivery "github.com/egannguyen/go-kafka-ecommerce/storefront/internal/delivery/http"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand runs the JSON API over one long-lived session.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront session over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Addr != "" {
				opts.cfg.HTTP.Addr = opts.Addr
			}
			return runServe(cmd.Context(), opts.RootOptions)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func runServe(ctx context.Context, opts *RootOptions) error {
	app, err := newApp(ctx, opts.cfg, opts.logger)
	if err != nil {
		return err
	}
	defer app.Close()

	app.session.Start(ctx)

	mux := http.NewServeMux()
	httpdelivery.NewHandler(app.session).RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              opts.cfg.HTTP.Addr,
		Handler:           httpdelivery.EnableCORS(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		opts.logger.Info("HTTP server starting", "addr", httpServer.Addr, "session_id", app.session.ID())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		opts.logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// In-process events are only observable from inside this process.
	if opts.cfg.Broker.Driver == "gochannel" && app.subscriber != nil {
		g.Go(func() error {
			app.subscriber.Consume(gctx, opts.cfg.Broker.Topic, opts.cfg.Broker.GroupID, func(ctx context.Context, payload []byte) error {
				var event entity.ItemAddedToCart
				if err := json.Unmarshal(payload, &event); err != nil {
					return err
				}
				opts.logger.Info("Cart event", "product_id", event.ProductID, "quantity", event.Quantity, "cart_total", event.CartTotal)
				return nil
			})
			return nil
		})
	}

	return g.Wait()
}
