package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"lifeline-store/internal/types/product"
)

// recordingCommitter запоминает каждый зафиксированный список строк
type recordingCommitter struct {
	commits [][]Line
	err     error
}

func (c *recordingCommitter) Commit(_ context.Context, lines []Line) error {
	c.commits = append(c.commits, copyLines(lines))
	return c.err
}

func testProduct(id string, price string) product.Product {
	return product.Product{
		ID:      id,
		Name:    "product " + id,
		Price:   decimal.RequireFromString(price),
		InStock: true,
	}
}

func newTestStore(t *testing.T) (*Store, *recordingCommitter) {
	t.Helper()
	c := &recordingCommitter{}

	return NewStore("cart-1", nil, c, zaptest.NewLogger(t).Sugar()), c
}

func TestStore_AddToCart_SameProductTwice(t *testing.T) {
	s, c := newTestStore(t)
	ctx := context.Background()
	p := testProduct("1", "348.00")

	s.AddToCart(ctx, p)
	s.AddToCart(ctx, p)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Len(t, c.commits, 2)
}

func TestStore_AddToCart_AppendsInInsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.AddToCart(ctx, testProduct("b", "1"))
	s.AddToCart(ctx, testProduct("a", "1"))
	s.AddToCart(ctx, testProduct("b", "1"))

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "b", lines[0].Product.ID)
	assert.Equal(t, "a", lines[1].Product.ID)
}

func TestStore_AddToCart_IgnoresStockFlag(t *testing.T) {
	s, _ := newTestStore(t)
	p := testProduct("1", "10")
	p.InStock = false

	s.AddToCart(context.Background(), p)

	assert.Equal(t, 1, s.TotalItems())
}

func TestStore_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name          string
		productID     string
		quantity      int
		expectedLines int
		expectedQty   int
		expectCommit  bool
	}{
		{
			name:          "выставляет количество",
			productID:     "1",
			quantity:      3,
			expectedLines: 1,
			expectedQty:   3,
			expectCommit:  true,
		},
		{
			name:          "ноль удаляет строку",
			productID:     "1",
			quantity:      0,
			expectedLines: 0,
			expectCommit:  true,
		},
		{
			name:          "отрицательное удаляет строку",
			productID:     "1",
			quantity:      -1,
			expectedLines: 0,
			expectCommit:  true,
		},
		{
			name:          "отсутствующий товар - no-op",
			productID:     "missing",
			quantity:      3,
			expectedLines: 1,
			expectedQty:   1,
			expectCommit:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, c := newTestStore(t)
			ctx := context.Background()
			s.AddToCart(ctx, testProduct("1", "5"))
			before := len(c.commits)

			s.UpdateQuantity(ctx, tt.productID, tt.quantity)

			lines := s.Lines()
			require.Len(t, lines, tt.expectedLines)
			if tt.expectedLines > 0 {
				assert.Equal(t, tt.expectedQty, lines[0].Quantity)
			}
			assert.Equal(t, tt.expectCommit, len(c.commits) > before)
		})
	}
}

func TestStore_RemoveFromCart(t *testing.T) {
	s, c := newTestStore(t)
	ctx := context.Background()
	s.AddToCart(ctx, testProduct("1", "5"))
	s.AddToCart(ctx, testProduct("2", "5"))

	s.RemoveFromCart(ctx, "missing")
	assert.Len(t, s.Lines(), 2)
	assert.Len(t, c.commits, 2)

	s.RemoveFromCart(ctx, "1")
	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "2", lines[0].Product.ID)
	assert.Len(t, c.commits, 3)
}

func TestStore_ClearCart(t *testing.T) {
	s, c := newTestStore(t)
	ctx := context.Background()
	s.AddToCart(ctx, testProduct("1", "5"))
	s.AddToCart(ctx, testProduct("2", "7"))

	s.ClearCart(ctx)

	assert.Equal(t, 0, s.TotalItems())
	assert.Empty(t, s.Lines())
	assert.True(t, s.TotalPrice().IsZero())
	assert.Empty(t, c.commits[len(c.commits)-1])
}

func TestStore_Totals(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	a := testProduct("a", "19.99")
	b := testProduct("b", "5.01")

	assert.Equal(t, 0, s.TotalItems())
	assert.True(t, s.TotalPrice().IsZero())

	s.AddToCart(ctx, a)
	s.AddToCart(ctx, a)
	s.AddToCart(ctx, b)

	assert.Equal(t, 3, s.TotalItems())
	expected := a.Price.Mul(decimal.NewFromInt(2)).Add(b.Price)
	assert.True(t, expected.Equal(s.TotalPrice()), "got %s", s.TotalPrice())
}

func TestStore_Scenario_AddTwiceThenUpdate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	p := testProduct("1", "348.00")

	s.AddToCart(ctx, p)
	s.AddToCart(ctx, p)
	s.UpdateQuantity(ctx, "1", 5)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("1740.00").Equal(s.TotalPrice()))
}

func TestStore_PriceIsSnapshot(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	original := decimal.RequireFromString("399.99")
	p := testProduct("1", "348.00")
	p.OriginalPrice = &original

	s.AddToCart(ctx, p)

	p.Price = decimal.RequireFromString("1.00")
	*p.OriginalPrice = decimal.RequireFromString("2.00")

	lines := s.Lines()
	assert.True(t, decimal.RequireFromString("348").Equal(lines[0].Product.Price))
	assert.True(t, decimal.RequireFromString("399.99").Equal(*lines[0].Product.OriginalPrice))
	assert.True(t, decimal.RequireFromString("348").Equal(s.TotalPrice()))
}

func TestStore_LinesReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddToCart(context.Background(), testProduct("1", "5"))

	lines := s.Lines()
	lines[0].Quantity = 100

	assert.Equal(t, 1, s.TotalItems())
}

func TestStore_CommitErrorIsNotVisible(t *testing.T) {
	s, c := newTestStore(t)
	c.err = errors.New("storage down")

	s.AddToCart(context.Background(), testProduct("1", "5"))

	assert.Equal(t, 1, s.TotalItems())
}

func TestStore_PanelFlagIsNotCommitted(t *testing.T) {
	s, c := newTestStore(t)
	ctx := context.Background()

	assert.False(t, s.IsCartOpen())
	s.SetCartOpen(ctx, true)

	assert.True(t, s.IsCartOpen())
	assert.Empty(t, c.commits)
}

func TestStore_Subscribe(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var got []Change
	unsubscribe := s.Subscribe(func(_ context.Context, ch Change) {
		got = append(got, ch)
	})

	s.AddToCart(ctx, testProduct("1", "5"))
	s.UpdateQuantity(ctx, "1", 4)
	s.UpdateQuantity(ctx, "missing", 4)
	s.RemoveFromCart(ctx, "1")
	s.ClearCart(ctx)

	require.Len(t, got, 4)
	assert.Equal(t, OpAdd, got[0].Op)
	assert.Equal(t, 1, got[0].Quantity)
	assert.Equal(t, OpUpdate, got[1].Op)
	assert.Equal(t, 4, got[1].Quantity)
	assert.Equal(t, OpRemove, got[2].Op)
	assert.Equal(t, "1", got[2].ProductID)
	assert.Equal(t, OpClear, got[3].Op)
	assert.Equal(t, "cart-1", got[3].CartID)

	unsubscribe()
	s.AddToCart(ctx, testProduct("2", "5"))
	assert.Len(t, got, 4)
}

func TestStore_ListenerMayReadStore(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	var totals []int
	s.Subscribe(func(_ context.Context, _ Change) {
		totals = append(totals, s.TotalItems())
	})

	s.AddToCart(ctx, testProduct("1", "5"))
	s.AddToCart(ctx, testProduct("1", "5"))

	assert.Equal(t, []int{1, 2}, totals)
}

func TestStore_NilCommitterDefaultsToNop(t *testing.T) {
	s := NewStore("cart", nil, nil, zaptest.NewLogger(t).Sugar())

	s.AddToCart(context.Background(), testProduct("1", "5"))

	assert.Equal(t, 1, s.TotalItems())
}

func TestStore_ConcurrentAddsAreSerialized(t *testing.T) {
	s, c := newTestStore(t)
	ctx := context.Background()
	p := testProduct("1", "5")

	var seen []int
	s.Subscribe(func(_ context.Context, ch Change) {
		seen = append(seen, ch.Quantity)
	})

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddToCart(ctx, p)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, s.TotalItems())
	require.Len(t, c.commits, workers)
	require.Len(t, seen, workers)
	for i := 0; i < workers; i++ {
		assert.Equal(t, i+1, seen[i])
		assert.Equal(t, i+1, c.commits[i][0].Quantity)
	}
}

func TestStore_ConcurrentUpdatesPersistLastApplied(t *testing.T) {
	s, c := newTestStore(t)
	ctx := context.Background()
	s.AddToCart(ctx, testProduct("1", "5"))

	var seen []int
	s.Subscribe(func(_ context.Context, ch Change) {
		seen = append(seen, ch.Quantity)
	})

	const workers = 50
	var wg sync.WaitGroup
	for i := 1; i <= workers; i++ {
		wg.Add(1)
		go func(q int) {
			defer wg.Done()
			s.UpdateQuantity(ctx, "1", q)
		}(i)
	}
	wg.Wait()

	lines := s.Lines()
	require.Len(t, lines, 1)
	require.Len(t, c.commits, workers+1)
	require.Len(t, seen, workers)

	last := c.commits[len(c.commits)-1]
	assert.Equal(t, lines[0].Quantity, last[0].Quantity)
	assert.Equal(t, lines[0].Quantity, seen[len(seen)-1])
}

func TestStore_ListenerMayMutateStore(t *testing.T) {
	s, c := newTestStore(t)
	ctx := context.Background()

	var ops []Op
	s.Subscribe(func(ctx context.Context, ch Change) {
		ops = append(ops, ch.Op)
		if ch.Op == OpAdd && ch.Quantity == 1 {
			s.UpdateQuantity(ctx, ch.ProductID, 3)
		}
	})

	s.AddToCart(ctx, testProduct("1", "5"))

	assert.Equal(t, []Op{OpAdd, OpUpdate}, ops)
	assert.Equal(t, 3, s.TotalItems())
	assert.Len(t, c.commits, 2)
}
