// Package suppress implements the time-boxed "already submitted" marker that
// prevents a recently-submitted form from being shown again. The store is a
// small key-value port with injectable backings: in-memory for tests,
// SQLite for hosts that embed the runtime outside a browser.
//
// Storage failures are always swallowed. A broken backing degrades to "not
// suppressed" / "not recorded" and never propagates an error to the caller;
// re-showing a form is preferable to breaking the host page.
package suppress

import (
	"encoding/json"
	"time"
)

const keyPrefix = "w24_form_submitted_"

// KV is the minimal persistence contract a backing must satisfy.
type KV interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Record is the persisted marker. Timestamps are milliseconds since epoch to
// stay byte-compatible with records written by the browser runtime.
type Record struct {
	SubmittedAt int64 `json:"submittedAt"`
	ExpiresAt   int64 `json:"expiresAt"`
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store reads and writes suppression records for form ids.
type Store struct {
	kv  KV
	now func() time.Time
}

// New constructs a Store over the given backing.
func New(kv KV, options ...Option) *Store {
	s := &Store{kv: kv, now: time.Now}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Has reports whether formID carries a live suppression record. A stale or
// unreadable record is deleted as a side effect; the second call on the same
// record also returns false without error.
func (s *Store) Has(formID string) bool {
	if s == nil || s.kv == nil || formID == "" {
		return false
	}

	raw, ok, err := s.kv.Get(keyPrefix + formID)
	if err != nil || !ok {
		return false
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		_ = s.kv.Delete(keyPrefix + formID)
		return false
	}
	if s.now().UnixMilli() >= rec.ExpiresAt {
		_ = s.kv.Delete(keyPrefix + formID)
		return false
	}
	return true
}

// Mark records a successful submission with the given TTL. A negative TTL is
// treated as zero, producing a record that is already expired.
func (s *Store) Mark(formID string, ttl time.Duration) {
	if s == nil || s.kv == nil || formID == "" {
		return
	}
	if ttl < 0 {
		ttl = 0
	}

	now := s.now().UnixMilli()
	raw, err := json.Marshal(Record{
		SubmittedAt: now,
		ExpiresAt:   now + ttl.Milliseconds(),
	})
	if err != nil {
		return
	}
	_ = s.kv.Set(keyPrefix+formID, raw)
}
