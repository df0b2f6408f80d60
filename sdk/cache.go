package sdk

import (
	"context"
	"strings"
	"sync"
	"time"
)

// QueryCache memoizes read endpoints by key. Invalidate drops entries and
// notifies subscribers so views can refetch.
type QueryCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	subs    map[string]map[int]func()
	nextSub int
	now     func() time.Time
}

type cacheEntry struct {
	value     interface{}
	fetchedAt time.Time
}

// NewQueryCache creates an empty cache
func NewQueryCache() *QueryCache {
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		subs:    make(map[string]map[int]func()),
		now:     time.Now,
	}
}

// Query returns the cached value for key when it is younger than staleAfter,
// otherwise calls fetch and stores the result. staleAfter <= 0 keeps the
// value until it is invalidated. Failed fetches are not cached.
func Query[T any](ctx context.Context, qc *QueryCache, key string, staleAfter time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := lookup[T](qc, key, staleAfter); ok {
		return v, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	qc.mu.Lock()
	qc.entries[key] = &cacheEntry{value: v, fetchedAt: qc.now()}
	qc.mu.Unlock()
	return v, nil
}

// Peek returns the cached value for key regardless of age
func Peek[T any](qc *QueryCache, key string) (T, bool) {
	return lookup[T](qc, key, 0)
}

func lookup[T any](qc *QueryCache, key string, staleAfter time.Duration) (T, bool) {
	var zero T
	qc.mu.Lock()
	defer qc.mu.Unlock()

	e, ok := qc.entries[key]
	if !ok {
		return zero, false
	}
	if staleAfter > 0 && qc.now().Sub(e.fetchedAt) >= staleAfter {
		return zero, false
	}
	v, ok := e.value.(T)
	return v, ok
}

// Set stores v under key and notifies its subscribers
func (qc *QueryCache) Set(key string, v interface{}) {
	qc.mu.Lock()
	qc.entries[key] = &cacheEntry{value: v, fetchedAt: qc.now()}
	fns := qc.subscribersLocked(key)
	qc.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Invalidate drops keys and notifies their subscribers
func (qc *QueryCache) Invalidate(keys ...string) {
	qc.mu.Lock()
	var fns []func()
	for _, key := range keys {
		delete(qc.entries, key)
		fns = append(fns, qc.subscribersLocked(key)...)
	}
	qc.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// InvalidatePrefix drops every key starting with prefix
func (qc *QueryCache) InvalidatePrefix(prefix string) {
	qc.mu.Lock()
	keys := make([]string, 0)
	for key := range qc.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	for key := range qc.subs {
		if strings.HasPrefix(key, prefix) {
			if _, cached := qc.entries[key]; !cached {
				keys = append(keys, key)
			}
		}
	}
	qc.mu.Unlock()

	qc.Invalidate(keys...)
}

// Subscribe registers fn to run whenever key is set or invalidated
func (qc *QueryCache) Subscribe(key string, fn func()) (unsubscribe func()) {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	id := qc.nextSub
	qc.nextSub++
	if qc.subs[key] == nil {
		qc.subs[key] = make(map[int]func())
	}
	qc.subs[key][id] = fn

	return func() {
		qc.mu.Lock()
		defer qc.mu.Unlock()
		delete(qc.subs[key], id)
		if len(qc.subs[key]) == 0 {
			delete(qc.subs, key)
		}
	}
}

func (qc *QueryCache) subscribersLocked(key string) []func() {
	fns := make([]func(), 0, len(qc.subs[key]))
	for _, fn := range qc.subs[key] {
		fns = append(fns, fn)
	}
	return fns
}

// Cache keys
const keyUnread = "unread"

func keyConversations(weddingId string) string   { return "conversations:" + weddingId }
func keyConvStatus(conversationId string) string { return "conv_status:" + conversationId }
func keyMessages(conversationId string) string   { return "messages:" + conversationId }
func keyWidgets(weddingId string) string         { return "widgets:" + weddingId }
