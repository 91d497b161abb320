package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/bytedance/sonic"

	"join/internal/firebase"
)

// Remote collection paths.
const (
	ContactsPath = "contacts"
	TasksPath    = "tasks"
	UsersPath    = "users"
)

// CollectionStore persists whole JSON collections. Writes always replace the
// full collection; there is no per-entity update.
type CollectionStore interface {
	Load(ctx context.Context, path string) (json.RawMessage, error)
	Replace(ctx context.Context, path string, value any) error
	Delete(ctx context.Context, path string) error
}

var _ CollectionStore = (*firebase.Client)(nil)

// collection is the typed view of one path in a CollectionStore.
type collection[T any] struct {
	store CollectionStore
	path  string
}

func (c collection[T]) all(ctx context.Context) ([]T, error) {
	raw, err := c.store.Load(ctx, c.path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.path, err)
	}
	items, err := decodeCollection[T](raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.path, err)
	}
	return items, nil
}

func (c collection[T]) replaceAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	if err := c.store.Replace(ctx, c.path, items); err != nil {
		return fmt.Errorf("replace %s: %w", c.path, err)
	}
	return nil
}

// decodeCollection accepts either a JSON array or an object keyed by numeric
// strings, which is how Firebase returns sparse arrays. Null entries left
// behind by deletions are dropped.
func decodeCollection[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var ptrs []*T
	switch raw[0] {
	case '[':
		if err := sonic.Unmarshal(raw, &ptrs); err != nil {
			return nil, err
		}
	case '{':
		var byKey map[string]*T
		if err := sonic.Unmarshal(raw, &byKey); err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(byKey))
		for k := range byKey {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
		for _, k := range keys {
			ptrs = append(ptrs, byKey[k])
		}
	default:
		return nil, fmt.Errorf("unexpected collection payload starting with %q", raw[0])
	}

	items := make([]T, 0, len(ptrs))
	for _, p := range ptrs {
		if p != nil {
			items = append(items, *p)
		}
	}
	return items, nil
}

func keyLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
