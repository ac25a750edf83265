package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgredis "github.com/blackboxinc/storefront-backend/pkg/redis"
)

type fakeGuestKV struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeGuestKV() *fakeGuestKV {
	return &fakeGuestKV{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeGuestKV) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", pkgredis.Nil
	}
	return value, nil
}

func (f *fakeGuestKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	f.values[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return nil
}

func (f *fakeGuestKV) GuestInfoKey(sessionID string) string {
	return "storefront:guest-info:" + sessionID
}

func TestGuestInfoStoreRoundTrip(t *testing.T) {
	kv := newFakeGuestKV()
	store, err := NewGuestInfoStore(kv, time.Hour)
	require.NoError(t, err)

	info := GuestInfo{
		Name:         "Budi",
		Email:        "guest@example.com",
		AddressLine1: "Jl. Sudirman 2",
		PostalCode:   "40115",
		DistrictID:   327301,
	}
	require.NoError(t, store.Save(context.Background(), "sess-1", info))
	assert.Equal(t, time.Hour, kv.ttls["storefront:guest-info:sess-1"])

	loaded, err := store.Load(context.Background(), "sess-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, info, *loaded)
}

func TestGuestInfoStoreMissingSession(t *testing.T) {
	store, err := NewGuestInfoStore(newFakeGuestKV(), time.Hour)
	require.NoError(t, err)

	loaded, err := store.Load(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestGuestInfoStoreCorruptPayload(t *testing.T) {
	kv := newFakeGuestKV()
	store, err := NewGuestInfoStore(kv, time.Hour)
	require.NoError(t, err)

	kv.values[kv.GuestInfoKey("sess-2")] = "{not json"

	_, err = store.Load(context.Background(), "sess-2")
	require.Error(t, err)
}

func TestNewGuestInfoStoreValidation(t *testing.T) {
	_, err := NewGuestInfoStore(nil, time.Hour)
	require.Error(t, err)

	_, err = NewGuestInfoStore(newFakeGuestKV(), 0)
	require.Error(t, err)
}
