package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound indicates the requested cart session could not be located.
var ErrNotFound = errors.New("cart not found")

const sessionKeyPrefix = "cart:"

// Line is a cart entry as persisted: a product reference plus quantity.
// The invariant of at most one line per product id is enforced by the service.
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Session is the cart-session state stored as a JSON document under a
// well-known Redis key. CouponCode is the selected coupon, empty when the
// session is in the no-coupon state.
type Session struct {
	ID         string    `json:"id"`
	Lines      []Line    `json:"lines"`
	CouponCode string    `json:"couponCode,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SessionStore persists cart sessions in Redis.
type SessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func (s *SessionStore) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

// Get loads a session by id.
func (s *SessionStore) Get(ctx context.Context, id string) (Session, error) {
	if s == nil || s.Client == nil {
		return Session{}, errors.New("session store not configured")
	}
	data, err := s.Client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, fmt.Errorf("load session %q: %w", id, err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, fmt.Errorf("decode session %q: %w", id, err)
	}
	return session, nil
}

// Save serialises the session and refreshes its TTL.
func (s *SessionStore) Save(ctx context.Context, session Session) error {
	if s == nil || s.Client == nil {
		return errors.New("session store not configured")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session %q: %w", session.ID, err)
	}
	return s.Client.Set(ctx, sessionKey(session.ID), data, s.ttl()).Err()
}

// ClearCouponEverywhere removes the given coupon code from every live session
// that currently selects it. Used when an admin deletes the coupon.
func (s *SessionStore) ClearCouponEverywhere(ctx context.Context, code string) error {
	if s == nil || s.Client == nil || code == "" {
		return nil
	}
	iter := s.Client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := s.Client.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return err
		}
		var session Session
		if err := json.Unmarshal(data, &session); err != nil {
			continue
		}
		if session.CouponCode != code {
			continue
		}
		session.CouponCode = ""
		if err := s.Save(ctx, session); err != nil {
			return err
		}
	}
	return iter.Err()
}
