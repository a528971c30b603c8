// Package mailbox holds the per-session single-slot channels that carry state
// across the handoff steps: the BookingIntent written on the venue page and
// the SuccessNotice written after booking creation. Each slot is
// write-once/take-once; a second take observes an empty slot.
package mailbox

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/holvik/staybook/internal/cache"
	"github.com/holvik/staybook/internal/domain"
)

var (
	// ErrEmpty means the slot holds nothing. Callers treat it as absence,
	// never as a failure.
	ErrEmpty = errors.New("mailbox: empty slot")
	// ErrCorrupt means the slot held an unparsable payload. The slot is
	// consumed either way.
	ErrCorrupt = errors.New("mailbox: corrupt payload")
)

type Mailbox struct {
	store cache.Store
	ttl   time.Duration
}

func New(store cache.Store, ttl time.Duration) *Mailbox {
	return &Mailbox{store: store, ttl: ttl}
}

func (m *Mailbox) PutIntent(ctx context.Context, sid string, in domain.BookingIntent) error {
	return m.put(ctx, intentKey(sid), in)
}

// TakeIntent consumes the intent slot. The read and the clear are a single
// store operation, so two takes can never observe the same intent.
func (m *Mailbox) TakeIntent(ctx context.Context, sid string) (*domain.BookingIntent, error) {
	var intent domain.BookingIntent
	if err := m.take(ctx, intentKey(sid), &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// PeekIntent reads the slot without consuming it; the payment summary renders
// from a peek so an abandoned page leaves the intent intact.
func (m *Mailbox) PeekIntent(ctx context.Context, sid string) (*domain.BookingIntent, error) {
	var intent domain.BookingIntent
	if err := m.peek(ctx, intentKey(sid), &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (m *Mailbox) HasIntent(ctx context.Context, sid string) (bool, error) {
	data, err := m.store.Get(ctx, intentKey(sid))
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

func (m *Mailbox) PutNotice(ctx context.Context, sid string, n domain.SuccessNotice) error {
	return m.put(ctx, noticeKey(sid), n)
}

func (m *Mailbox) TakeNotice(ctx context.Context, sid string) (*domain.SuccessNotice, error) {
	var notice domain.SuccessNotice
	if err := m.take(ctx, noticeKey(sid), &notice); err != nil {
		return nil, err
	}
	return &notice, nil
}

func (m *Mailbox) put(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, key, payload, m.ttl)
}

func (m *Mailbox) take(ctx context.Context, key string, out any) error {
	data, err := m.store.GetDel(ctx, key)
	if err != nil {
		return err
	}
	if data == nil {
		return ErrEmpty
	}
	if err := json.Unmarshal(data, out); err != nil {
		return ErrCorrupt
	}
	return nil
}

func (m *Mailbox) peek(ctx context.Context, key string, out any) error {
	data, err := m.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if data == nil {
		return ErrEmpty
	}
	if err := json.Unmarshal(data, out); err != nil {
		return ErrCorrupt
	}
	return nil
}

func intentKey(sid string) string {
	return "intent:" + sid
}

func noticeKey(sid string) string {
	return "notice:" + sid
}
