package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/catalog"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging"
)

// DefaultEventTopic is the topic cart events are published to.
const DefaultEventTopic = "cart.events"

// CatalogStatus is the state of a session's catalog.
type CatalogStatus int

const (
	CatalogNotLoaded CatalogStatus = iota
	CatalogLoaded
	CatalogFailed
)

func (s CatalogStatus) String() string {
	switch s {
	case CatalogNotLoaded:
		return "loading"
	case CatalogLoaded:
		return "loaded"
	case CatalogFailed:
		return "error"
	default:
		return fmt.Sprintf("CatalogStatus(%d)", int(s))
	}
}

// SessionConfig holds the collaborators of a Session.
type SessionConfig struct {
	Loader    *CatalogLoader
	Carts     *CartStore
	Publisher messaging.Publisher // optional
	Topic     string              // defaults to DefaultEventTopic
	Logger    *slog.Logger
}

// Session is one storefront session: the catalog, the selected category and
// the cart. Commands are serialized; the catalog fetch runs on its own
// goroutine and its result is dropped if the session was closed first.
type Session struct {
	id        string
	loader    *CatalogLoader
	carts     *CartStore
	publisher messaging.Publisher
	topic     string
	logger    *slog.Logger

	mu       sync.Mutex
	status   CatalogStatus
	products []entity.Product
	loadErr  *LoadError
	selected string
	cart     entity.Cart
	started  bool
	closed   bool
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSession creates a session and restores its cart from the durable store.
func NewSession(ctx context.Context, cfg SessionConfig) *Session {
	s := &Session{
		id:        uuid.NewString(),
		loader:    cfg.Loader,
		carts:     cfg.Carts,
		publisher: cfg.Publisher,
		topic:     cfg.Topic,
		logger:    cfg.Logger,
		selected:  catalog.AllCategories,
		done:      make(chan struct{}),
	}
	if s.publisher == nil {
		s.publisher = messaging.NopPublisher{}
	}
	if s.topic == "" {
		s.topic = DefaultEventTopic
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("session_id", s.id)

	s.cart = s.carts.Restore(ctx)
	s.logger.Debug("Session: Cart restored", "lines", len(s.cart))
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Start begins the catalog fetch in the background. Only the first call has
// an effect, and none after Close.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.closed {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	go s.fetch(ctx)
}

func (s *Session) fetch(ctx context.Context) {
	defer close(s.done)

	products, err := s.loader.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.Debug("Session: Closed before catalog arrived, discarding result")
		return
	}

	if err != nil {
		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			loadErr = &LoadError{cause: err}
		}
		s.status = CatalogFailed
		s.loadErr = loadErr
		s.logger.Error("Session: Catalog load failed", "err", err)
		return
	}

	s.products = products
	s.status = CatalogLoaded
	s.logger.Info("Session: Catalog loaded", "products", len(products))
}

// Done is closed once the catalog fetch has finished, or on Close if it
// never started.
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait blocks until the catalog fetch finishes or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close ends the session. An in-flight fetch is cancelled and its result ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	} else {
		close(s.done)
	}
}

// Status returns the catalog state.
func (s *Session) Status() CatalogStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Loading reports whether the catalog has neither loaded nor failed yet.
func (s *Session) Loading() bool {
	return s.Status() == CatalogNotLoaded
}

// Err returns the catalog load failure, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr == nil {
		return nil
	}
	return s.loadErr
}

// Categories returns "all" plus the catalog's categories in first-seen order.
func (s *Session) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.Categories(s.products)
}

// SelectedCategory returns the active category filter.
func (s *Session) SelectedCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SelectCategory changes the category filter. An empty label selects all.
func (s *Session) SelectCategory(label string) {
	if label == "" {
		label = catalog.AllCategories
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = label
	s.logger.Debug("Session: Category selected", "category", label)
}

// VisibleProducts returns the catalog filtered by the selected category.
func (s *Session) VisibleProducts() []entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(catalog.VisibleProducts(s.products, s.selected))
}

// Cart returns a copy of the current cart.
func (s *Session) Cart() entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCart(s.cart)
}

// Total returns the cart total.
func (s *Session) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

// AddToCart adds the catalog product with productID to the cart, persists
// the cart and publishes an ItemAddedToCart event. Persist and publish
// failures are logged, not returned.
func (s *Session) AddToCart(ctx context.Context, productID int) (entity.Cart, error) {
	cart, event, err := s.addToCart(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishEvent(ctx, s.topic, s.id, event); err != nil {
		s.logger.Warn("Session: Failed to publish cart event", "product_id", productID, "err", err)
	}
	return cart, nil
}

func (s *Session) addToCart(ctx context.Context, productID int) (entity.Cart, entity.ItemAddedToCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != CatalogLoaded {
		return nil, entity.ItemAddedToCart{}, ErrCatalogNotReady
	}
	product, ok := findProduct(s.products, productID)
	if !ok {
		return nil, entity.ItemAddedToCart{}, fmt.Errorf("%w: %d", ErrUnknownProduct, productID)
	}

	s.logger.Info("Session: Adding item to cart", "product_id", productID)
	s.cart = s.cart.AddItem(product)

	if err := s.carts.Persist(ctx, s.cart); err != nil {
		s.logger.Error("Session: Failed to persist cart", "err", err)
	}

	line, _ := s.cart.Line(productID)
	event := entity.ItemAddedToCart{
		SessionID: s.id,
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Quantity:  line.Qty,
		CartTotal: s.cart.Total(),
		AddedAt:   time.Now().UTC(),
	}
	return cloneCart(s.cart), event, nil
}

// Snapshot is every value the presentation layer reads, taken at one instant.
type Snapshot struct {
	SessionID        string           `json:"session_id"`
	Status           string           `json:"status"`
	Loading          bool             `json:"loading"`
	Error            string           `json:"error,omitempty"`
	Categories       []string         `json:"categories"`
	SelectedCategory string           `json:"selected_category"`
	Products         []entity.Product `json:"products"`
	Cart             entity.Cart      `json:"cart"`
	Total            float64          `json:"total"`
}

// Snapshot returns the current presentation values.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID:        s.id,
		Status:           s.status.String(),
		Loading:          s.status == CatalogNotLoaded,
		Categories:       catalog.Categories(s.products),
		SelectedCategory: s.selected,
		Products:         cloneProducts(catalog.VisibleProducts(s.products, s.selected)),
		Cart:             cloneCart(s.cart),
		Total:            s.cart.Total(),
	}
	if s.loadErr != nil {
		snap.Error = s.loadErr.Message()
	}
	return snap
}

func findProduct(products []entity.Product, id int) (entity.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}

func cloneProducts(products []entity.Product) []entity.Product {
	out := make([]entity.Product, len(products))
	copy(out, products)
	return out
}

func cloneCart(cart entity.Cart) entity.Cart {
	out := make(entity.Cart, len(cart))
	copy(out, cart)
	return out
}
