package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
)

// NewEventsCommand tails cart events from the configured broker.
func NewEventsCommand(opts *RootOptions) *cobra.Command {
	var groupID string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print cart events as they are published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch opts.cfg.Broker.Driver {
			case "kafka", "watermill":
			default:
				return fmt.Errorf("events needs the kafka or watermill broker driver, got %q", opts.cfg.Broker.Driver)
			}
			if groupID != "" {
				opts.cfg.Broker.GroupID = groupID
			}

			app, err := newApp(cmd.Context(), opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			app.subscriber.Consume(cmd.Context(), opts.cfg.Broker.Topic, opts.cfg.Broker.GroupID, func(ctx context.Context, payload []byte) error {
				var event entity.ItemAddedToCart
				if err := json.Unmarshal(payload, &event); err != nil {
					return fmt.Errorf("failed to unmarshal cart event: %w", err)
				}
				if opts.Format == "json" {
					return writeJSON(out, event)
				}
				_, err := fmt.Fprintf(out, "%s session=%s product=%d qty=%d total=%s\n",
					event.AddedAt.Format(time.RFC3339), event.SessionID, event.ProductID, event.Quantity, FormatPrice(event.CartTotal))
				return err
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&groupID, "group", "", "consumer group (default from config)")
	return cmd
}
