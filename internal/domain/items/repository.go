package items

import "context"

type Repository interface {
	Create(ctx context.Context, it ScheduledItem) error
	GetByID(ctx context.Context, id string) (ScheduledItem, error)
	ListByProfile(ctx context.Context, profileID string) ([]ScheduledItem, error)
	Update(ctx context.Context, it ScheduledItem) error
	Delete(ctx context.Context, id string) error
}
