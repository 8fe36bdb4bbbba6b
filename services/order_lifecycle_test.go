package services_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/quickserve/database"
	"github.com/yeremiapane/quickserve/database/dbtest"
	"github.com/yeremiapane/quickserve/events"
	"github.com/yeremiapane/quickserve/models"
	"github.com/yeremiapane/quickserve/services"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event events.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockPublisher) Close() error { return nil }

func eventOfType(t events.EventType) interface{} {
	return mock.MatchedBy(func(e events.OrderEvent) bool { return e.Type == t })
}

type orderCore struct {
	lifecycle *services.OrderLifecycle
	tracking  *services.OrderTracking
	repo      *database.OrderRepository
	menu      map[string]models.Menu
	events    *mockPublisher
}

// newOrderCore wires the services over a fresh store. The clock advances one
// second per read so creation order is unambiguous.
func newOrderCore(t *testing.T) *orderCore {
	t.Helper()

	db := dbtest.Open(t)
	menu := dbtest.SeedMenu(t, db)
	repo := database.NewOrderRepository(db, 5*time.Second)

	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	pricing := services.NewPricingEngine(services.NewMenuService(database.NewMenuCatalog(db, 5*time.Second)))
	lifecycle := services.NewOrderLifecycle(repo, pricing, pub)

	var mu sync.Mutex
	clock := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	lifecycle.Now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}

	return &orderCore{
		lifecycle: lifecycle,
		tracking:  services.NewOrderTracking(repo),
		repo:      repo,
		menu:      menu,
		events:    pub,
	}
}

func (oc *orderCore) place(t *testing.T, table string) *models.Order {
	t.Helper()
	order, err := oc.lifecycle.CreateOrder(context.Background(), table, []services.CartLine{
		{Name: "Burger", Quantity: 2},
		{MenuID: oc.menu["Fries"].ID, Quantity: 1},
	})
	require.NoError(t, err)
	return order
}

func TestCreateOrderPricesFromMenu(t *testing.T) {
	core := newOrderCore(t)

	order := core.place(t, " A1 ")

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "A1", order.TableNumber)
	assert.Equal(t, models.StatusPlaced, order.Status)
	assert.Equal(t, models.PaymentPayAtCounter, order.PaymentMode)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(380)))
	assert.True(t, order.RecomputeTotal().Equal(order.TotalAmount))

	stored, err := core.tracking.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlaced, stored.Status)
	assert.True(t, stored.TotalAmount.Equal(decimal.NewFromInt(380)))
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Burger", stored.Items[0].Name)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.Equal(t, "Fries", stored.Items[1].Name)

	core.events.AssertCalled(t, "Publish", mock.Anything, eventOfType(events.OrderPlaced))
}

func TestCreateOrderRejectedCartStoresNothing(t *testing.T) {
	core := newOrderCore(t)

	_, err := core.lifecycle.CreateOrder(context.Background(), "A1", []services.CartLine{
		{Name: "Burger", Quantity: 1},
		{Name: "Milkshake", Quantity: 1},
	})
	assert.True(t, models.IsValidation(err))

	_, err = core.lifecycle.CreateOrder(context.Background(), "", []services.CartLine{{Name: "Burger", Quantity: 1}})
	assert.True(t, models.IsValidation(err))

	_, found, err := core.tracking.GetLatestForTable(context.Background(), "A1")
	require.NoError(t, err)
	assert.False(t, found)
	core.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCreateOrderStoredTotalMatchesResponse(t *testing.T) {
	core := newOrderCore(t)
	ctx := context.Background()

	_, err := core.lifecycle.CreateOrder(ctx, "T1", []services.CartLine{{Name: "Burger", Quantity: math.MaxInt64}})
	assert.True(t, models.IsValidation(err), "got %v", err)

	_, found, err := core.tracking.GetLatestForTable(ctx, "T1")
	require.NoError(t, err)
	assert.False(t, found)

	order, err := core.lifecycle.CreateOrder(ctx, "T1", []services.CartLine{{Name: "Burger", Quantity: 1000}})
	require.NoError(t, err)
	stored, err := core.tracking.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(stored.TotalAmount), "created %s stored %s", order.TotalAmount, stored.TotalAmount)
	assert.True(t, stored.RecomputeTotal().Equal(stored.TotalAmount))
}

func TestAdvanceFollowsForwardSequence(t *testing.T) {
	core := newOrderCore(t)
	ctx := context.Background()
	order := core.place(t, "A1")

	updated, err := core.lifecycle.Advance(ctx, order.ID, models.StatusPreparing, "chef:2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, updated.Status)

	_, err = core.lifecycle.Advance(ctx, order.ID, models.StatusServed, "chef:2")
	var it *models.InvalidTransitionError
	require.ErrorAs(t, err, &it)
	assert.Equal(t, models.StatusPreparing, it.From)
	assert.Equal(t, models.StatusServed, it.To)

	stored, err := core.tracking.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, stored.Status, "rejected change must not be stored")

	for _, next := range []models.OrderStatus{models.StatusReady, models.StatusServed} {
		_, err = core.lifecycle.Advance(ctx, order.ID, next, "staff:1")
		require.NoError(t, err)
	}

	_, err = core.lifecycle.Advance(ctx, order.ID, models.StatusCancelled, "staff:1")
	assert.True(t, models.IsInvalidTransition(err))

	history, err := core.tracking.History(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, models.StatusPlaced, history[0].ToStatus)
	assert.Equal(t, services.CustomerActor, history[0].ChangedBy)
	assert.Equal(t, models.StatusPlaced, history[1].FromStatus)
	assert.Equal(t, models.StatusPreparing, history[1].ToStatus)
	assert.Equal(t, "chef:2", history[1].ChangedBy)
	assert.Equal(t, models.StatusPreparing, history[2].FromStatus)
	assert.Equal(t, models.StatusReady, history[2].ToStatus)
	assert.Equal(t, models.StatusServed, history[3].ToStatus)
}

func TestAdvanceToCurrentStatusIsNoop(t *testing.T) {
	core := newOrderCore(t)
	ctx := context.Background()
	order := core.place(t, "A1")

	_, err := core.lifecycle.Advance(ctx, order.ID, models.StatusPreparing, "")
	require.NoError(t, err)

	again, err := core.lifecycle.Advance(ctx, order.ID, models.StatusPreparing, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, again.Status)

	history, err := core.tracking.History(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, models.RoleStaff, history[1].ChangedBy)

	core.events.AssertNumberOfCalls(t, "Publish", 2)
	core.events.AssertCalled(t, "Publish", mock.Anything, eventOfType(events.OrderStatusChanged))
}

func TestAdvanceRejectsSkips(t *testing.T) {
	core := newOrderCore(t)
	order := core.place(t, "A1")

	_, err := core.lifecycle.Advance(context.Background(), order.ID, models.StatusReady, "staff:1")
	assert.True(t, models.IsInvalidTransition(err))

	stored, err := core.tracking.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlaced, stored.Status)
}

func TestCancelOnlyBeforeReady(t *testing.T) {
	core := newOrderCore(t)
	ctx := context.Background()

	placed := core.place(t, "A1")
	_, err := core.lifecycle.Advance(ctx, placed.ID, models.StatusCancelled, "staff:1")
	require.NoError(t, err)
	_, err = core.lifecycle.Advance(ctx, placed.ID, models.StatusPreparing, "staff:1")
	assert.True(t, models.IsInvalidTransition(err), "cancelled is terminal")

	cooking := core.place(t, "A2")
	_, err = core.lifecycle.Advance(ctx, cooking.ID, models.StatusPreparing, "staff:1")
	require.NoError(t, err)
	_, err = core.lifecycle.Advance(ctx, cooking.ID, models.StatusCancelled, "staff:1")
	require.NoError(t, err)

	plated := core.place(t, "A3")
	for _, st := range []models.OrderStatus{models.StatusPreparing, models.StatusReady} {
		_, err = core.lifecycle.Advance(ctx, plated.ID, st, "staff:1")
		require.NoError(t, err)
	}
	_, err = core.lifecycle.Advance(ctx, plated.ID, models.StatusCancelled, "staff:1")
	assert.True(t, models.IsInvalidTransition(err))
}

func TestAdvanceUnknownOrder(t *testing.T) {
	core := newOrderCore(t)

	_, err := core.lifecycle.Advance(context.Background(), "no-such-order", models.StatusPreparing, "staff:1")
	assert.True(t, models.IsNotFound(err))
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	core := newOrderCore(t)
	failing := &mockPublisher{}
	failing.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	core.lifecycle.Events = failing

	order := core.place(t, "A1")
	_, err := core.lifecycle.Advance(context.Background(), order.ID, models.StatusPreparing, "staff:1")
	require.NoError(t, err)

	failing.AssertNumberOfCalls(t, "Publish", 2)
}

func TestConcurrentAdvanceAppliesOnce(t *testing.T) {
	core := newOrderCore(t)
	order := core.place(t, "A1")

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := core.lifecycle.Advance(context.Background(), order.ID, models.StatusPreparing, "staff:1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			assert.True(t, models.IsPersistence(err), "unexpected error %v", err)
		}
	}

	history, err := core.tracking.History(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2, "the change is recorded exactly once")
}

// racingStore simulates another writer that changes the order between the
// read and the compare-and-set.
type racingStore struct {
	order     models.Order
	interfere func(o *models.Order) bool
	updates   int
}

func (s *racingStore) Insert(context.Context, *models.Order, string) error { return nil }

func (s *racingStore) FindByID(_ context.Context, id string) (*models.Order, error) {
	if id != s.order.ID {
		return nil, &models.NotFoundError{Resource: "order", ID: id}
	}
	o := s.order
	return &o, nil
}

func (s *racingStore) UpdateStatus(_ context.Context, _ string, from, to models.OrderStatus, _ string, _ time.Time) error {
	s.updates++
	if s.interfere != nil && s.interfere(&s.order) {
		return models.ErrStatusConflict
	}
	if s.order.Status != from {
		return models.ErrStatusConflict
	}
	s.order.Status = to
	return nil
}

func racingLifecycle(store *racingStore) *services.OrderLifecycle {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	return services.NewOrderLifecycle(store, nil, pub)
}

func TestAdvanceRevalidatesAfterConflict(t *testing.T) {
	t.Run("concurrent cancel wins", func(t *testing.T) {
		store := &racingStore{order: models.Order{ID: "o-1", Status: models.StatusPlaced}}
		store.interfere = func(o *models.Order) bool {
			if o.Status == models.StatusPlaced {
				o.Status = models.StatusCancelled
				return true
			}
			return false
		}

		_, err := racingLifecycle(store).Advance(context.Background(), "o-1", models.StatusPreparing, "chef:1")
		var it *models.InvalidTransitionError
		require.ErrorAs(t, err, &it)
		assert.Equal(t, models.StatusCancelled, it.From)
		assert.Equal(t, models.StatusCancelled, store.order.Status)
	})

	t.Run("concurrent writer reached the same status", func(t *testing.T) {
		store := &racingStore{order: models.Order{ID: "o-1", Status: models.StatusPlaced}}
		store.interfere = func(o *models.Order) bool {
			if o.Status == models.StatusPlaced {
				o.Status = models.StatusPreparing
				return true
			}
			return false
		}

		order, err := racingLifecycle(store).Advance(context.Background(), "o-1", models.StatusPreparing, "chef:1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPreparing, order.Status)
		assert.Equal(t, 1, store.updates)
	})

	t.Run("persistent contention gives up", func(t *testing.T) {
		store := &racingStore{order: models.Order{ID: "o-1", Status: models.StatusPlaced}}
		store.interfere = func(*models.Order) bool { return true }

		_, err := racingLifecycle(store).Advance(context.Background(), "o-1", models.StatusPreparing, "chef:1")
		assert.True(t, models.IsPersistence(err))
		assert.ErrorIs(t, err, models.ErrStatusConflict)
		assert.Equal(t, 2, store.updates)
		assert.Equal(t, models.StatusPlaced, store.order.Status)
	})
}
