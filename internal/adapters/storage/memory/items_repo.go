package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/devribero/caremind-sub000/internal/domain/items"
)

var (
	ErrNotFound = errors.New("not found")
)

type itemsRepo struct {
	mu   sync.RWMutex
	byID map[string]items.ScheduledItem
}

func NewItemsRepo() items.Repository {
	return &itemsRepo{
		byID: make(map[string]items.ScheduledItem),
	}
}

func (r *itemsRepo) Create(ctx context.Context, it items.ScheduledItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if it.ID == "" {
		return errors.New("item id required")
	}
	if _, exists := r.byID[it.ID]; exists {
		return errors.New("item already exists")
	}

	r.byID[it.ID] = it
	return nil
}

func (r *itemsRepo) GetByID(ctx context.Context, id string) (items.ScheduledItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.byID[id]
	if !ok {
		return items.ScheduledItem{}, ErrNotFound
	}
	return it, nil
}

func (r *itemsRepo) ListByProfile(ctx context.Context, profileID string) ([]items.ScheduledItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]items.ScheduledItem, 0)
	for _, it := range r.byID {
		if it.ProfileID == profileID {
			out = append(out, it)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *itemsRepo) Update(ctx context.Context, it items.ScheduledItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[it.ID]; !ok {
		return ErrNotFound
	}
	r.byID[it.ID] = it
	return nil
}

func (r *itemsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
