package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// Service implements the order use cases on top of a Repository.
type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides order id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService returns a Service backed by repo.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates req, builds a pending order and stores it. The total is
// fixed at creation.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Order, error) {
	p, err := req.Validate()
	if err != nil {
		return Order{}, err
	}
	o := Order{
		ID:           s.newID(),
		CustomerName: p.CustomerName,
		ProductName:  p.ProductName,
		Quantity:     p.Quantity,
		Price:        p.Price,
		Total:        float64(p.Quantity) * p.Price,
		Status:       StatusPending,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return Order{}, errors.Wrap(err, "create order")
	}
	return o, nil
}

// Get returns the order with the given id or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns every stored order.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

// UpdateStatus applies req to the order with the given id. Existence is
// checked before the request is validated.
func (s *Service) UpdateStatus(ctx context.Context, id string, req StatusRequest) (Order, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return Order{}, err
	}
	status, err := req.Validate()
	if err != nil {
		return Order{}, err
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete removes the order with the given id or returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
