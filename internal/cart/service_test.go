package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront-be/internal/apperror"
	"storefront-be/internal/identity"
	"storefront-be/internal/metrics"
	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetByOwner(ctx context.Context, owner identity.OwnerKey) (*Cart, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Cart), args.Error(1)
}

func (m *MockRepository) GetOrCreate(ctx context.Context, owner identity.OwnerKey) (*Cart, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Cart), args.Error(1)
}

func (m *MockRepository) UpsertItem(ctx context.Context, cartID, productID uint, quantity int, override bool) (*CartItem, error) {
	args := m.Called(ctx, cartID, productID, quantity, override)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartItem), args.Error(1)
}

func (m *MockRepository) RemoveItem(ctx context.Context, cartID, productID uint) (bool, error) {
	args := m.Called(ctx, cartID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Lines(ctx context.Context, cartID uint) ([]Line, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Line), args.Error(1)
}

func (m *MockRepository) CountItems(ctx context.Context, owner identity.OwnerKey) (int, error) {
	args := m.Called(ctx, owner)
	return args.Int(0), args.Error(1)
}

type MockProducts struct {
	mock.Mock
}

func (m *MockProducts) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

// memRepository keeps carts in memory with the same uniqueness and upsert
// rules the SQL enforces.
type memRepository struct {
	mu     sync.Mutex
	nextID uint
	carts  map[string]*Cart
	items  map[uint]map[uint]int
	prices map[uint]decimal.Decimal
}

func newMemRepository(prices map[uint]decimal.Decimal) *memRepository {
	return &memRepository{
		carts:  map[string]*Cart{},
		items:  map[uint]map[uint]int{},
		prices: prices,
	}
}

func (r *memRepository) GetByOwner(_ context.Context, owner identity.OwnerKey) (*Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[owner.String()]; ok {
		return c, nil
	}
	return nil, ErrCartNotFound
}

func (r *memRepository) GetOrCreate(_ context.Context, owner identity.OwnerKey) (*Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[owner.String()]; ok {
		return c, nil
	}
	r.nextID++
	c := &Cart{ID: r.nextID}
	r.carts[owner.String()] = c
	r.items[c.ID] = map[uint]int{}
	return c, nil
}

func (r *memRepository) UpsertItem(_ context.Context, cartID, productID uint, quantity int, override bool) (*CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if override {
		r.items[cartID][productID] = quantity
	} else {
		r.items[cartID][productID] += quantity
	}
	return &CartItem{CartID: cartID, ProductID: productID, Quantity: r.items[cartID][productID]}, nil
}

func (r *memRepository) RemoveItem(_ context.Context, cartID, productID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[cartID][productID]
	delete(r.items[cartID], productID)
	return ok, nil
}

func (r *memRepository) Lines(_ context.Context, cartID uint) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]Line, 0)
	for pid, qty := range r.items[cartID] {
		lines = append(lines, Line{ProductID: pid, UnitPrice: r.prices[pid], Quantity: qty})
	}
	return lines, nil
}

func (r *memRepository) CountItems(ctx context.Context, owner identity.OwnerKey) (int, error) {
	c, err := r.GetByOwner(ctx, owner)
	if err != nil {
		return 0, nil
	}
	lines, _ := r.Lines(ctx, c.ID)
	return TotalItems(Snapshot{Lines: lines}), nil
}

func anyProducts() *MockProducts {
	p := new(MockProducts)
	p.On("GetByID", mock.Anything, mock.Anything).Return(&product.Product{}, nil)
	return p
}

// --- Tests ---

func TestService_ResolveOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("InvalidOwner", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, anyProducts(), nil)

		_, err := svc.ResolveOrCreate(ctx, identity.OwnerKey{})
		assert.ErrorIs(t, err, identity.ErrInvalidOwner)
		repo.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
	})

	// Runs against the in-memory repository. The SQL get-or-create race is
	// covered in repository_test.go (LostRaceRereads, UniqueViolationRereads).
	t.Run("ConcurrentCallsReturnRepositoryCart", func(t *testing.T) {
		svc := NewService(newMemRepository(nil), anyProducts(), nil)
		owner := identity.Session("same")

		var wg sync.WaitGroup
		ids := make([]uint, 8)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				c, err := svc.ResolveOrCreate(ctx, owner)
				if err == nil {
					ids[i] = c.ID
				}
			}(i)
		}
		wg.Wait()

		for _, id := range ids {
			assert.Equal(t, ids[0], id)
		}
		assert.NotZero(t, ids[0])
	})
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()
	c := &Cart{ID: 1}

	t.Run("InvalidQuantity", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProducts)
		svc := NewService(repo, products, nil)

		_, err := svc.AddItem(ctx, c, AddItemInput{ProductID: 2, Quantity: 0})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)

		var verr *apperror.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "quantity must be at least 1", verr.Fields["quantity"])
		products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "UpsertItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProducts)
		products.On("GetByID", ctx, uint(99)).Return(nil, product.ErrProductNotFound)
		svc := NewService(repo, products, nil)

		_, err := svc.AddItem(ctx, c, AddItemInput{ProductID: 99, Quantity: 1})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		repo.AssertNotCalled(t, "UpsertItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("UpsertItem", ctx, uint(1), uint(2), 3, true).
			Return(&CartItem{CartID: 1, ProductID: 2, Quantity: 3}, nil)
		products := new(MockProducts)
		products.On("GetByID", ctx, uint(2)).Return(&product.Product{ID: 2, Name: "Go Book"}, nil)
		m := metrics.New()
		svc := NewService(repo, products, m)

		item, err := svc.AddItem(ctx, c, AddItemInput{ProductID: 2, Quantity: 3, Override: true})
		assert.NoError(t, err)
		assert.Equal(t, 3, item.Quantity)
		assert.Equal(t, "Go Book", item.ProductName)
		repo.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("UpsertItem", ctx, uint(1), uint(2), 1, false).Return(nil, errors.New("db down"))
		svc := NewService(repo, anyProducts(), nil)

		_, err := svc.AddItem(ctx, c, AddItemInput{ProductID: 2, Quantity: 1})
		assert.EqualError(t, err, "db down")
	})
}

func TestService_AddItem_QuantityPolicies(t *testing.T) {
	ctx := context.Background()
	owner := identity.Session("s")

	t.Run("AccumulateTwice", func(t *testing.T) {
		svc := NewService(newMemRepository(nil), anyProducts(), nil)
		c, err := svc.ResolveOrCreate(ctx, owner)
		require.NoError(t, err)

		_, err = svc.AddItem(ctx, c, AddItemInput{ProductID: 1, Quantity: 4})
		require.NoError(t, err)
		item, err := svc.AddItem(ctx, c, AddItemInput{ProductID: 1, Quantity: 4})
		require.NoError(t, err)

		assert.Equal(t, 8, item.Quantity)
		sum, err := svc.Summary(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, sum.Lines, 1)
	})

	t.Run("OverrideTwice", func(t *testing.T) {
		svc := NewService(newMemRepository(nil), anyProducts(), nil)
		c, err := svc.ResolveOrCreate(ctx, owner)
		require.NoError(t, err)

		_, err = svc.AddItem(ctx, c, AddItemInput{ProductID: 1, Quantity: 4, Override: true})
		require.NoError(t, err)
		item, err := svc.AddItem(ctx, c, AddItemInput{ProductID: 1, Quantity: 4, Override: true})
		require.NoError(t, err)

		assert.Equal(t, 4, item.Quantity)
	})
}

func TestService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	c := &Cart{ID: 1}

	t.Run("NotInCartIsNoop", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("RemoveItem", ctx, uint(1), uint(5)).Return(false, nil)
		svc := NewService(repo, anyProducts(), nil)

		removed, err := svc.RemoveItem(ctx, c, 5)
		assert.NoError(t, err)
		assert.Nil(t, removed)
	})

	t.Run("Removed", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("RemoveItem", ctx, uint(1), uint(5)).Return(true, nil)
		products := new(MockProducts)
		products.On("GetByID", ctx, uint(5)).Return(&product.Product{ID: 5, Name: "Go Book"}, nil)
		svc := NewService(repo, products, nil)

		removed, err := svc.RemoveItem(ctx, c, 5)
		require.NoError(t, err)
		assert.Equal(t, "Go Book", removed.ProductName)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		repo := new(MockRepository)
		products := new(MockProducts)
		products.On("GetByID", ctx, uint(6)).Return(nil, product.ErrProductNotFound)
		svc := NewService(repo, products, nil)

		_, err := svc.RemoveItem(ctx, c, 6)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		repo.AssertNotCalled(t, "RemoveItem", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_SummaryTracksEveryChange(t *testing.T) {
	ctx := context.Background()
	owner := identity.User(1)
	prices := map[uint]decimal.Decimal{
		1: decimal.RequireFromString("10.00"),
		2: decimal.RequireFromString("5.00"),
		3: decimal.RequireFromString("0.99"),
	}
	svc := NewService(newMemRepository(prices), anyProducts(), nil)
	c, err := svc.ResolveOrCreate(ctx, owner)
	require.NoError(t, err)

	want := func(items int, price string) {
		t.Helper()
		sum, err := svc.Summary(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, items, sum.TotalItems)
		assert.True(t, sum.TotalPrice.Equal(decimal.RequireFromString(price)), "got %s want %s", sum.TotalPrice, price)
	}

	want(0, "0")

	_, _ = svc.AddItem(ctx, c, AddItemInput{ProductID: 1, Quantity: 2})
	want(2, "20.00")

	_, _ = svc.AddItem(ctx, c, AddItemInput{ProductID: 2, Quantity: 1})
	want(3, "25.00")

	_, _ = svc.AddItem(ctx, c, AddItemInput{ProductID: 3, Quantity: 3})
	want(6, "27.97")

	_, _ = svc.RemoveItem(ctx, c, 4)
	want(6, "27.97")

	_, _ = svc.RemoveItem(ctx, c, 1)
	want(4, "7.97")

	_, _ = svc.AddItem(ctx, c, AddItemInput{ProductID: 3, Quantity: 1, Override: true})
	want(2, "5.99")
}

func TestService_Count(t *testing.T) {
	ctx := context.Background()

	t.Run("Counts", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountItems", ctx, identity.Session("s")).Return(3, nil)
		svc := NewService(repo, anyProducts(), nil)

		assert.Equal(t, 3, svc.Count(ctx, identity.Session("s")))
	})

	t.Run("ErrorIsZero", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountItems", ctx, identity.Session("s")).Return(0, errors.New("db down"))
		svc := NewService(repo, anyProducts(), nil)

		assert.Equal(t, 0, svc.Count(ctx, identity.Session("s")))
	})

	t.Run("NoOwner", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, anyProducts(), nil)

		assert.Equal(t, 0, svc.Count(ctx, identity.OwnerKey{}))
		repo.AssertNotCalled(t, "CountItems", mock.Anything, mock.Anything)
	})
}
