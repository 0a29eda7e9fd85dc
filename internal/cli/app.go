package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/config"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging/kafka"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging/watermill"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository/memory"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository/postgres"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository/redis"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository/rest"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/repository/sqlite"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/service"
)

// App wires a session to the collaborators named in the configuration.
type App struct {
	cfg        config.Config
	logger     *slog.Logger
	session    *service.Session
	publisher  messaging.Publisher
	subscriber messaging.Subscriber
	closers    []io.Closer
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{cfg: cfg, logger: logger}

	source, err := app.openProductSource()
	if err != nil {
		app.Close()
		return nil, err
	}

	blobs, err := app.openBlobStore(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	if err := app.openBroker(); err != nil {
		app.Close()
		return nil, err
	}

	app.session = service.NewSession(ctx, service.SessionConfig{
		Loader:    service.NewCatalogLoader(source, cfg.FetchTimeout, logger),
		Carts:     service.NewCartStore(blobs, cfg.Store.Key, logger),
		Publisher: app.publisher,
		Topic:     cfg.Broker.Topic,
		Logger:    logger,
	})
	return app, nil
}

func (a *App) openProductSource() (repository.ProductSource, error) {
	switch a.cfg.Catalog.Driver {
	case "http":
		return rest.NewProductSource(a.cfg.ProductsURL, &http.Client{}), nil
	case "postgres":
		db, err := postgres.InitDB(a.cfg.Catalog.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog database: %w", err)
		}
		a.closers = append(a.closers, db)
		return postgres.NewProductRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown catalog driver %q", a.cfg.Catalog.Driver)
	}
}

func (a *App) openBlobStore(ctx context.Context) (repository.BlobStore, error) {
	var (
		blobs repository.BlobStore
		err   error
	)
	switch a.cfg.Store.Driver {
	case "sqlite":
		blobs, err = sqlite.Open(a.cfg.Store.Path)
	case "postgres":
		db, dbErr := postgres.InitDB(a.cfg.Store.DSN)
		if dbErr != nil {
			return nil, fmt.Errorf("failed to open cart database: %w", dbErr)
		}
		blobs = postgres.NewBlobStore(db)
	case "redis":
		blobs, err = redis.Open(ctx, a.cfg.Store.RedisAddr, "storefront:")
	case "memory":
		blobs = memory.NewBlobStore()
	default:
		return nil, fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open cart store: %w", err)
	}
	a.closers = append(a.closers, blobs)
	return blobs, nil
}

func (a *App) openBroker() error {
	switch a.cfg.Broker.Driver {
	case "none":
		a.publisher = messaging.NopPublisher{}
	case "kafka":
		a.publisher, a.subscriber = kafka.NewKafkaBroker(a.cfg.Broker.Brokers, a.logger)
	case "watermill":
		broker := watermill.NewKafka(a.cfg.Broker.Brokers, a.cfg.Broker.GroupID, a.logger)
		a.publisher, a.subscriber = broker, broker
	case "gochannel":
		broker := watermill.NewGoChannel(a.logger, a.cfg.Broker.Persistent)
		a.publisher, a.subscriber = broker, broker
	default:
		return fmt.Errorf("unknown broker driver %q", a.cfg.Broker.Driver)
	}
	a.closers = append(a.closers, a.publisher)
	return nil
}

// Close ends the session and releases every opened resource, newest first.
func (a *App) Close() {
	if a.session != nil {
		a.session.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("Failed to close resource", "err", err)
		}
	}
	a.closers = nil
}

// loadCatalog starts the session's fetch and waits for it to settle.
func (a *App) loadCatalog(ctx context.Context) error {
	a.session.Start(ctx)
	if err := a.session.Wait(ctx); err != nil {
		return err
	}
	return a.session.Err()
}
