package cart

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeo0314/JEPK-creation/internal/domain"
)

type failingPersister struct {
	*MemoryPersister
	err       error
	deleteErr error
}

func (f *failingPersister) Save(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	if f.err != nil {
		return f.err
	}
	return f.MemoryPersister.Save(ctx, sessionID, lines)
}

func (f *failingPersister) Delete(ctx context.Context, sessionID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.MemoryPersister.Delete(ctx, sessionID)
}

func newTestStore() *Store {
	return NewStore("session-1", nil, NewMemoryPersister())
}

var (
	scarf = Item{ProductID: "1", Name: "Écharpe", UnitPrice: 8000, Color: "Rose"}
	hat   = Item{ProductID: "2", Name: "Bonnet", UnitPrice: 5000}
)

func TestAddItem_NewAndExistingLine(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	require.NoError(t, s.AddItem(ctx, scarf, 1))
	require.NoError(t, s.AddItem(ctx, hat, 2))
	require.NoError(t, s.AddItem(ctx, scarf, 3))

	lines := s.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "1:Rose", lines[0].LineID())
	assert.Equal(t, 4, lines[0].Quantity)
	assert.Equal(t, 2, lines[1].Quantity)
	assert.Equal(t, 6, s.Count())
	assert.Equal(t, int64(4*8000+2*5000), s.Total())
}

func TestAddItem_SameProductDifferentVariant(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	blue := scarf
	blue.Color = "Bleu"
	require.NoError(t, s.AddItem(ctx, scarf, 1))
	require.NoError(t, s.AddItem(ctx, blue, 1))

	assert.Len(t, s.Lines(), 2)
}

func TestAddItem_NonPositiveQuantityDefaultsToOne(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.AddItem(context.Background(), hat, 0))
	assert.Equal(t, 1, s.Count())
}

func TestUpdateQuantity_ClampsAtOne(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	require.NoError(t, s.AddItem(ctx, hat, 3))

	require.NoError(t, s.UpdateQuantity(ctx, "2", -10))
	assert.Equal(t, 1, s.Lines()[0].Quantity)

	require.NoError(t, s.UpdateQuantity(ctx, "2", 2))
	assert.Equal(t, 3, s.Lines()[0].Quantity)
}

func TestUpdateQuantity_UnknownLine(t *testing.T) {
	err := newTestStore().UpdateQuantity(context.Background(), "nope", 1)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	require.NoError(t, s.AddItem(ctx, hat, 1))
	require.NoError(t, s.AddItem(ctx, scarf, 1))

	require.NoError(t, s.RemoveItem(ctx, "2"))
	require.NoError(t, s.RemoveItem(ctx, "missing"))

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0].ProductID)
}

func TestEmptyCartTotals(t *testing.T) {
	s := newTestStore()
	assert.Equal(t, int64(0), s.Total())
	assert.Equal(t, 0, s.Count())
	assert.True(t, s.Empty())
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()
	s := NewStore("s", nil, p)
	require.NoError(t, s.AddItem(ctx, hat, 1))

	require.NoError(t, s.Clear(ctx))

	assert.True(t, s.Empty())
	_, err := p.Load(ctx, "s")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestLines_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	require.NoError(t, s.AddItem(ctx, hat, 1))

	lines := s.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, s.Count())
}

func TestMutationsArePersisted(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister()
	s := NewStore("s", nil, p)
	require.NoError(t, s.AddItem(ctx, scarf, 2))

	reloaded, err := Load(ctx, "s", p)
	require.NoError(t, err)
	assert.Equal(t, s.Lines(), reloaded.Lines())
}

func TestSaveErrorIsReturned(t *testing.T) {
	p := &failingPersister{MemoryPersister: NewMemoryPersister(), err: errors.New("disk full")}
	s := NewStore("s", nil, p)

	err := s.AddItem(context.Background(), hat, 1)
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, s.Lines())
	assert.Equal(t, int64(0), s.Total())
}

func TestFailedSaveLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	p := &failingPersister{MemoryPersister: NewMemoryPersister()}
	s := NewStore("s", nil, p)
	require.NoError(t, s.AddItem(ctx, scarf, 2))
	before := s.Lines()
	lineID := before[0].LineID()

	p.err = errors.New("redis down")

	assert.Error(t, s.AddItem(ctx, scarf, 1))
	assert.Error(t, s.AddItem(ctx, hat, 3))
	assert.Error(t, s.UpdateQuantity(ctx, lineID, 4))
	assert.Error(t, s.RemoveItem(ctx, lineID))

	assert.Equal(t, before, s.Lines())
	assert.Equal(t, int64(16000), s.Total())
	persisted, err := p.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, s.Lines(), persisted)
}

func TestFailedClearKeepsLines(t *testing.T) {
	ctx := context.Background()
	p := &failingPersister{MemoryPersister: NewMemoryPersister()}
	s := NewStore("s", nil, p)
	require.NoError(t, s.AddItem(ctx, hat, 2))

	p.deleteErr = errors.New("redis down")

	assert.ErrorContains(t, s.Clear(ctx), "redis down")
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, int64(10000), s.Total())

	p.deleteErr = nil
	require.NoError(t, s.Clear(ctx))
	assert.True(t, s.Empty())
}

// Total always matches the lines left after any sequence of mutations.
func TestTotalMatchesLines_RandomSequences(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	items := []Item{
		scarf,
		hat,
		{ProductID: "3", Name: "Sac", UnitPrice: 12000, Color: "Vert"},
		{ProductID: "4", Name: "Amigurumi", UnitPrice: 0},
	}

	for run := 0; run < 50; run++ {
		s := newTestStore()
		for step := 0; step < 40; step++ {
			item := items[rng.Intn(len(items))]
			id := domain.LineID(item.ProductID, item.Color)
			switch rng.Intn(3) {
			case 0:
				require.NoError(t, s.AddItem(ctx, item, rng.Intn(4)))
			case 1:
				err := s.UpdateQuantity(ctx, id, rng.Intn(11)-5)
				if err != nil {
					require.ErrorIs(t, err, ErrLineNotFound)
				}
			case 2:
				require.NoError(t, s.RemoveItem(ctx, id))
			}

			var want int64
			for _, l := range s.Lines() {
				require.GreaterOrEqual(t, l.Quantity, 1)
				want += l.UnitPrice * int64(l.Quantity)
			}
			require.Equal(t, want, s.Total())
			require.GreaterOrEqual(t, s.Total(), int64(0))
		}
	}
}
