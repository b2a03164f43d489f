package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process DocumentStore. Documents iterate in insertion
// order. It backs the "memory" driver and the test suites.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
	now         func() time.Time
	newID       func(collection string) string
}

type memCollection struct {
	order []string
	docs  map[string]map[string]interface{}
}

// MemoryOption customizes a MemoryStore
type MemoryOption func(*MemoryStore)

// WithClock sets the clock used for ServerTimestamp fields
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) { m.now = now }
}

// WithIDGenerator sets how document ids are minted
func WithIDGenerator(fn func(collection string) string) MemoryOption {
	return func(m *MemoryStore) { m.newID = fn }
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		collections: make(map[string]*memCollection),
		now:         func() time.Time { return time.Now().UTC() },
		newID: func(collection string) string {
			return collection + ":" + strings.ReplaceAll(uuid.NewString(), "-", "")
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Insert creates a document in path
func (m *MemoryStore) Insert(ctx context.Context, path string, fields map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	collection, _, err := splitPath(path)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			v = m.now()
		}
		doc[k] = v
	}

	c := m.collection(path, true)
	id := m.newID(collection)
	if _, exists := c.docs[id]; exists {
		return "", fmt.Errorf("%w: duplicate id %s", ErrQuery, id)
	}
	c.order = append(c.order, id)
	c.docs[id] = doc
	return id, nil
}

// Query returns the documents of path whose field equals value
func (m *MemoryStore) Query(ctx context.Context, path, field string, value interface{}) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, _, err := splitPath(path); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	c := m.collection(path, false)
	if c == nil {
		return []Document{}, nil
	}
	docs := make([]Document, 0)
	for _, id := range c.order {
		fields := c.docs[id]
		if v, ok := fields[field]; ok && reflect.DeepEqual(v, value) {
			docs = append(docs, copyDocument(id, fields))
		}
	}
	return docs, nil
}

// List returns every document of path
func (m *MemoryStore) List(ctx context.Context, path string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, _, err := splitPath(path); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	c := m.collection(path, false)
	if c == nil {
		return []Document{}, nil
	}
	docs := make([]Document, 0, len(c.order))
	for _, id := range c.order {
		docs = append(docs, copyDocument(id, c.docs[id]))
	}
	return docs, nil
}

// Get returns the document or nil
func (m *MemoryStore) Get(ctx context.Context, path, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, _, err := splitPath(path); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	c := m.collection(path, false)
	if c == nil {
		return nil, nil
	}
	fields, ok := c.docs[id]
	if !ok {
		return nil, nil
	}
	doc := copyDocument(id, fields)
	return &doc, nil
}

// Delete removes a document; missing documents are ignored
func (m *MemoryStore) Delete(ctx context.Context, path, id string) error {
	return m.DeleteMany(ctx, path, []string{id})
}

// DeleteMany removes every id in one critical section
func (m *MemoryStore) DeleteMany(ctx context.Context, path string, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := splitPath(path); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(path, false)
	if c == nil {
		return nil
	}
	doomed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := c.docs[id]; ok {
			doomed[id] = struct{}{}
			delete(c.docs, id)
		}
	}
	if len(doomed) == 0 {
		return nil
	}
	kept := c.order[:0]
	for _, id := range c.order {
		if _, gone := doomed[id]; !gone {
			kept = append(kept, id)
		}
	}
	c.order = kept
	return nil
}

// Len reports how many documents path holds
func (m *MemoryStore) Len(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c := m.collection(path, false); c != nil {
		return len(c.order)
	}
	return 0
}

func (m *MemoryStore) collection(path string, create bool) *memCollection {
	c, ok := m.collections[path]
	if !ok && create {
		c = &memCollection{docs: make(map[string]map[string]interface{})}
		m.collections[path] = c
	}
	return c
}

func copyDocument(id string, fields map[string]interface{}) Document {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return Document{ID: id, Fields: out}
}
