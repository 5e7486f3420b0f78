package order

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockRepo struct {
	orders    map[string]Order
	createErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{orders: make(map[string]Order)}
}

func (m *mockRepo) Create(_ context.Context, o Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.orders[o.ID] = o
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (m *mockRepo) List(_ context.Context) ([]Order, error) {
	out := make([]Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id string, status Status) (Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	o.Status = status
	m.orders[id] = o
	return o, nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.orders[id]; !ok {
		return ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

// --- Helpers ---

func createRequest(t *testing.T, body string) CreateRequest {
	t.Helper()
	req, err := DecodeCreateRequest([]byte(body))
	require.NoError(t, err)
	return req
}

func statusRequest(t *testing.T, body string) StatusRequest {
	t.Helper()
	req, err := DecodeStatusRequest([]byte(body))
	require.NoError(t, err)
	return req
}

// --- Tests ---

func TestService_Create(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newMockRepo()
	svc := NewService(repo,
		WithClock(func() time.Time { return created }),
		WithIDGenerator(func() string { return "order-1" }),
	)

	o, err := svc.Create(context.Background(), createRequest(t, `{"customer_name":"Jane Doe","product_name":"Phone","quantity":2,"price":500.0}`))
	require.NoError(t, err)

	assert.Equal(t, Order{
		ID:           "order-1",
		CustomerName: "Jane Doe",
		ProductName:  "Phone",
		Quantity:     2,
		Price:        500,
		Total:        1000,
		Status:       StatusPending,
		CreatedAt:    created,
	}, o)
	assert.Equal(t, o, repo.orders["order-1"])
}

func TestService_CreateValidationError(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), createRequest(t, `{"customer_name":"a","product_name":"b","quantity":0,"price":1}`))
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "quantity", vErr.Field)
	assert.Empty(t, repo.orders)
}

func TestService_CreateRepoError(t *testing.T) {
	repo := newMockRepo()
	repo.createErr = errors.New("store unavailable")
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), createRequest(t, `{"customer_name":"a","product_name":"b","quantity":1,"price":1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
}

func TestService_UniqueIDs(t *testing.T) {
	svc := NewService(newMockRepo())
	seen := make(map[string]struct{})
	for i := range 100 {
		o, err := svc.Create(context.Background(), createRequest(t, fmt.Sprintf(`{"customer_name":"c%d","product_name":"p","quantity":1,"price":1}`, i)))
		require.NoError(t, err)
		_, dup := seen[o.ID]
		require.False(t, dup, "duplicate id %s", o.ID)
		seen[o.ID] = struct{}{}
	}
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMockRepo())
	o, err := svc.Create(ctx, createRequest(t, `{"customer_name":"a","product_name":"b","quantity":1,"price":10}`))
	require.NoError(t, err)

	// No transition order is enforced.
	for _, st := range []Status{StatusDelivered, StatusPending, StatusCancelled, StatusProcessing} {
		updated, err := svc.UpdateStatus(ctx, o.ID, statusRequest(t, `{"status":"`+string(st)+`"}`))
		require.NoError(t, err)
		assert.Equal(t, st, updated.Status)
		assert.Equal(t, o.Total, updated.Total)

		got, err := svc.Get(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, st, got.Status)
	}
}

func TestService_UpdateStatusNotFoundBeforeValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.UpdateStatus(context.Background(), "missing", statusRequest(t, `{}`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMockRepo())
	o, err := svc.Create(ctx, createRequest(t, `{"customer_name":"a","product_name":"b","quantity":1,"price":10}`))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, o.ID))
	_, err = svc.Get(ctx, o.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, o.ID), ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
