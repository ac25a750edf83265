package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgredis "github.com/blackboxinc/storefront-backend/pkg/redis"
)

// GuestInfo is the last set of shipping details a guest submitted, kept so
// the storefront can prefill the form on their next visit.
type GuestInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_1"`
	AddressLine2 string `json:"address_2,omitempty"`
	PostalCode   string `json:"postal_code"`
	ProvinceID   int64  `json:"province_id"`
	CityID       int64  `json:"city_id"`
	DistrictID   int64  `json:"district_id"`
}

type guestInfoKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GuestInfoKey(sessionID string) string
}

// GuestInfoStore persists guest shipping details keyed by session.
type GuestInfoStore struct {
	kv  guestInfoKV
	ttl time.Duration
}

// NewGuestInfoStore builds the store. TTL bounds how long prefill data
// outlives the guest's last checkout attempt.
func NewGuestInfoStore(kv guestInfoKV, ttl time.Duration) (*GuestInfoStore, error) {
	if kv == nil {
		return nil, fmt.Errorf("guest info kv store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("guest info ttl must be positive")
	}
	return &GuestInfoStore{kv: kv, ttl: ttl}, nil
}

// Save writes the guest's shipping details for later prefill.
func (g *GuestInfoStore) Save(ctx context.Context, sessionID string, info GuestInfo) error {
	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal guest info: %w", err)
	}
	if err := g.kv.Set(ctx, g.kv.GuestInfoKey(sessionID), payload, g.ttl); err != nil {
		return fmt.Errorf("persist guest info: %w", err)
	}
	return nil
}

// Load returns the stored details, or nil when the session has none.
func (g *GuestInfoStore) Load(ctx context.Context, sessionID string) (*GuestInfo, error) {
	raw, err := g.kv.Get(ctx, g.kv.GuestInfoKey(sessionID))
	if err != nil {
		if err == pkgredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load guest info: %w", err)
	}
	var info GuestInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil, fmt.Errorf("decode guest info: %w", err)
	}
	return &info, nil
}
