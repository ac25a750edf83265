package cart

import (
	"context"
	"testing"
	"time"

	pkgredis "github.com/blackboxinc/storefront-backend/pkg/redis"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	data     map[string]string
	lastTTL  time.Duration
	setCalls int
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", pkgredis.Nil
	}
	return v, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.setCalls++
	f.lastTTL = ttl
	f.data[key] = value.(string)
	return nil
}

func (f *fakeKV) CartKey(shopperID string) string {
	return "storefront:cart:" + shopperID
}

func TestRedisRepositoryRoundTrip(t *testing.T) {
	kv := newFakeKV()
	repo, err := NewRedisRepository(kv, time.Hour)
	require.NoError(t, err)

	ctx := context.Background()
	state := State{
		Open: true,
		Lines: []Line{
			{CartID: "10-3-7", ProductID: 10, VariantID: 3, SizeID: 7, Name: "Relaxed Shirt", UnitPrice: decimal.NewFromInt(249000), Quantity: 2},
			{CartID: "11-0-0", ProductID: 11, Quantity: 1},
		},
	}

	require.NoError(t, repo.Save(ctx, "shopper-1", state))
	assert.Equal(t, time.Hour, kv.lastTTL)

	loaded, err := repo.Load(ctx, "shopper-1")
	require.NoError(t, err)
	assert.True(t, loaded.Open)
	require.Len(t, loaded.Lines, 2)
	assert.Equal(t, state.Lines[0].CartID, loaded.Lines[0].CartID)
	assert.True(t, loaded.Lines[0].UnitPrice.Equal(state.Lines[0].UnitPrice))
	assert.Equal(t, state.Lines[1].CartID, loaded.Lines[1].CartID)
	assert.Equal(t, state.Lines[1].Quantity, loaded.Lines[1].Quantity)
	assert.True(t, loaded.Lines[1].UnitPrice.IsZero())
}

func TestRedisRepositoryMissingKeyIsEmptyCart(t *testing.T) {
	repo, err := NewRedisRepository(newFakeKV(), time.Hour)
	require.NoError(t, err)

	state, err := repo.Load(context.Background(), "shopper-1")
	require.NoError(t, err)
	assert.Empty(t, state.Lines)
	assert.False(t, state.Open)
}

func TestRedisRepositoryCorruptPayloadErrors(t *testing.T) {
	kv := newFakeKV()
	kv.data[kv.CartKey("shopper-1")] = "{not json"
	repo, err := NewRedisRepository(kv, time.Hour)
	require.NoError(t, err)

	_, err = repo.Load(context.Background(), "shopper-1")
	require.Error(t, err)
}
