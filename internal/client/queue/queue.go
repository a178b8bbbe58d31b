package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/iudanet/keepsake/internal/client/storage"
)

const keyPrefix = "queue/"

// Payload is what a queue carries: any value naming its own kind.
type Payload interface {
	Kind() string
}

// Decoder restores a payload from its kind tag and JSON body.
type Decoder[T Payload] func(kind string, raw json.RawMessage) (T, error)

// Item is a queued operation together with its delivery state.
type Item[T Payload] struct {
	EnqueuedAt time.Time
	UpdatedAt  time.Time
	Payload    T
	// DecodeErr is set when the stored payload could not be decoded.
	// Such an item can only be discarded or marked dead.
	DecodeErr        error
	ID               string
	Kind             string
	Status           Status
	LastError        string
	IdempotencyKey   string
	TargetCollection string
	TargetID         string
	Attempts         int
}

// storedItem is the on-disk form; the payload stays raw so that the item
// envelope can be rewritten without knowing the variant.
type storedItem struct {
	EnqueuedAt       time.Time       `json:"enqueued_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	ID               string          `json:"id"`
	Kind             string          `json:"kind"`
	Status           Status          `json:"status"`
	LastError        string          `json:"last_error,omitempty"`
	IdempotencyKey   string          `json:"idempotency_key"`
	TargetCollection string          `json:"target_collection,omitempty"`
	TargetID         string          `json:"target_id,omitempty"`
	Payload          json.RawMessage `json:"payload"`
	Attempts         int             `json:"attempts"`
	// corrupt holds the reason the stored envelope could not be read
	corrupt error
}

// Counts holds the number of items per status
type Counts struct {
	Pending  int `json:"pending"`
	InFlight int `json:"in_flight"`
	Failed   int `json:"failed"`
	Dead     int `json:"dead"`
}

// Undelivered is the number of items still expected to reach the remote.
func (c Counts) Undelivered() int {
	return c.Pending + c.InFlight + c.Failed
}

// Total is the number of stored items
func (c Counts) Total() int {
	return c.Undelivered() + c.Dead
}

// Queue is a durable FIFO of operations stored in the KV under
// "queue/<name>/<id>". Item ids are ULIDs, so the KV's key order is the
// enqueue order.
type Queue[T Payload] struct {
	kv     storage.KV
	decode Decoder[T]
	ids    *IDGenerator
	now    func() time.Time
	name   string
	prefix string
	// mu serialises read-modify-write cycles on single items
	mu sync.Mutex
}

// Option configures a Queue
type Option func(*options)

type options struct {
	ids *IDGenerator
	now func() time.Time
}

// WithClock overrides the clock used for timestamps and ids
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
		o.ids = NewIDGeneratorWithClock(now)
	}
}

// WithIDGenerator shares an id generator between queues
func WithIDGenerator(ids *IDGenerator) Option {
	return func(o *options) {
		o.ids = ids
	}
}

// New creates a queue named name on top of kv
func New[T Payload](kv storage.KV, name string, decode Decoder[T], opts ...Option) *Queue[T] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ids == nil {
		o.ids = NewIDGeneratorWithClock(o.now)
	}

	return &Queue[T]{
		kv:     kv,
		decode: decode,
		ids:    o.ids,
		now:    o.now,
		name:   name,
		prefix: keyPrefix + name + "/",
	}
}

// Name returns the queue name
func (q *Queue[T]) Name() string {
	return q.name
}

// Enqueue durably appends payload as a pending item and returns its id.
// It performs a single local KV write and never touches the network.
func (q *Queue[T]) Enqueue(ctx context.Context, payload T) (string, error) {
	id, err := q.ids.Next()
	if err != nil {
		return "", err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	now := q.now()
	si := storedItem{
		ID:             id,
		Kind:           payload.Kind(),
		Status:         StatusPending,
		IdempotencyKey: uuid.NewString(),
		EnqueuedAt:     now,
		UpdatedAt:      now,
		Payload:        raw,
	}

	// У действий есть целевой документ, сохраняем его в конверте
	if t, ok := any(payload).(interface{ Target() (string, string) }); ok {
		si.TargetCollection, si.TargetID = t.Target()
	}

	if err := q.save(ctx, &si); err != nil {
		return "", fmt.Errorf("failed to enqueue %s item: %w", q.name, err)
	}

	return id, nil
}

// List returns every stored item in enqueue order
func (q *Queue[T]) List(ctx context.Context) ([]*Item[T], error) {
	keys, err := q.kv.Keys(ctx, q.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s queue: %w", q.name, err)
	}

	items := make([]*Item[T], 0, len(keys))
	for _, key := range keys {
		si, err := q.loadKey(ctx, key)
		if err != nil {
			// Элемент мог быть удалён между Keys и Get
			if errors.Is(err, ErrItemNotFound) {
				continue
			}
			return nil, err
		}
		items = append(items, q.toItem(si))
	}

	return items, nil
}

// Get returns a single item
func (q *Queue[T]) Get(ctx context.Context, id string) (*Item[T], error) {
	si, err := q.loadKey(ctx, q.key(id))
	if err != nil {
		return nil, err
	}
	return q.toItem(si), nil
}

// UpdateStatus moves an item to status, recording errMsg as its last error
// when the new status is failed or dead. Moving to in_flight counts an attempt.
func (q *Queue[T]) UpdateStatus(ctx context.Context, id string, status Status, errMsg string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	si, err := q.loadKey(ctx, q.key(id))
	if err != nil {
		return err
	}

	if err := checkTransition(si.Status, status); err != nil {
		return fmt.Errorf("item %s: %w", id, err)
	}

	si.Status = status
	si.UpdatedAt = q.now()

	switch status {
	case StatusInFlight:
		si.Attempts++
	case StatusFailed, StatusDead:
		si.LastError = errMsg
	case StatusPending:
		si.LastError = ""
	}

	return q.save(ctx, si)
}

// Requeue returns a failed or dead item to pending with a fresh attempt count
func (q *Queue[T]) Requeue(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	si, err := q.loadKey(ctx, q.key(id))
	if err != nil {
		return err
	}

	if err := checkTransition(si.Status, StatusPending); err != nil {
		return fmt.Errorf("item %s: %w", id, err)
	}

	si.Status = StatusPending
	si.LastError = ""
	si.Attempts = 0
	si.UpdatedAt = q.now()

	return q.save(ctx, si)
}

// Remove deletes an item; removing an unknown id is not an error
func (q *Queue[T]) Remove(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.kv.Remove(ctx, q.key(id)); err != nil {
		return fmt.Errorf("failed to remove item %s: %w", id, err)
	}
	return nil
}

// RemoveUnlessInFlight deletes an item unless a drain is delivering it.
// Returns ErrItemNotFound for an unknown id and ErrItemInFlight when the
// item is in flight.
func (q *Queue[T]) RemoveUnlessInFlight(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	si, err := q.loadKey(ctx, q.key(id))
	if err != nil {
		return err
	}
	if si.Status == StatusInFlight {
		return fmt.Errorf("%w: %s", ErrItemInFlight, id)
	}

	if err := q.kv.Remove(ctx, q.key(id)); err != nil {
		return fmt.Errorf("failed to remove item %s: %w", id, err)
	}
	return nil
}

// RecoverInFlight marks items left in_flight by an interrupted process as
// failed so the next drain retries them. Returns the number of items moved.
func (q *Queue[T]) RecoverInFlight(ctx context.Context) (int, error) {
	items, err := q.List(ctx)
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, item := range items {
		if item.Status != StatusInFlight {
			continue
		}
		if err := q.UpdateStatus(ctx, item.ID, StatusFailed, "interrupted before completion"); err != nil {
			if errors.Is(err, ErrItemNotFound) {
				continue
			}
			return recovered, err
		}
		recovered++
	}

	return recovered, nil
}

// Counts returns per-status item counts
func (q *Queue[T]) Counts(ctx context.Context) (Counts, error) {
	items, err := q.List(ctx)
	if err != nil {
		return Counts{}, err
	}

	var c Counts
	for _, item := range items {
		switch item.Status {
		case StatusPending:
			c.Pending++
		case StatusInFlight:
			c.InFlight++
		case StatusFailed:
			c.Failed++
		case StatusDead:
			c.Dead++
		}
	}
	return c, nil
}

func (q *Queue[T]) key(id string) string {
	return q.prefix + id
}

func (q *Queue[T]) loadKey(ctx context.Context, key string) (*storedItem, error) {
	data, err := q.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, strings.TrimPrefix(key, q.prefix))
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var si storedItem
	if err := json.Unmarshal(data, &si); err != nil {
		return q.corruptItem(key, err), nil
	}
	return &si, nil
}

// corruptItem stands in for an envelope that is not valid JSON. It is
// reported as failed so that a drain can move it to dead; saving it
// replaces the broken bytes with a readable envelope.
func (q *Queue[T]) corruptItem(key string, cause error) *storedItem {
	id := strings.TrimPrefix(key, q.prefix)
	si := &storedItem{
		ID:      id,
		Status:  StatusFailed,
		corrupt: fmt.Errorf("%w: %w", ErrCorruptItem, cause),
	}
	if parsed, err := ulid.ParseStrict(id); err == nil {
		si.EnqueuedAt = ulid.Time(parsed.Time()).UTC()
		si.UpdatedAt = si.EnqueuedAt
	}
	return si
}

func (q *Queue[T]) save(ctx context.Context, si *storedItem) error {
	data, err := json.Marshal(si)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	return q.kv.Set(ctx, q.key(si.ID), data)
}

func (q *Queue[T]) toItem(si *storedItem) *Item[T] {
	item := &Item[T]{
		ID:               si.ID,
		Kind:             si.Kind,
		Status:           si.Status,
		LastError:        si.LastError,
		IdempotencyKey:   si.IdempotencyKey,
		TargetCollection: si.TargetCollection,
		TargetID:         si.TargetID,
		Attempts:         si.Attempts,
		EnqueuedAt:       si.EnqueuedAt,
		UpdatedAt:        si.UpdatedAt,
	}

	if si.corrupt != nil {
		item.DecodeErr = si.corrupt
		return item
	}

	payload, err := q.decode(si.Kind, si.Payload)
	if err != nil {
		item.DecodeErr = err
	} else {
		item.Payload = payload
	}

	return item
}
