package items

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devribero/caremind-sub000/internal/domain/schedule"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("item not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
	loc  *time.Location // zona por defecto del perfil
}

func NewService(repo Repository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo: repo,
		now:  time.Now,
		loc:  loc,
	}
}

type CreateInput struct {
	Type ItemType
	Name string
	Rule json.RawMessage
}

func (s *Service) Create(ctx context.Context, profileID string, in CreateInput) (ScheduledItem, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return ScheduledItem{}, ErrInvalidInput
	}
	if !ValidItemType(in.Type) {
		return ScheduledItem{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return ScheduledItem{}, ErrInvalidInput
	}

	now := s.now()

	// alternate_days sin anchor_date: el día 0 es el día de creación
	// en la zona del perfil, y queda persistido explícito en la regla.
	rule, err := schedule.ParseRuleWithAnchor(in.Rule, now.In(s.loc).Format("2006-01-02"))
	if err != nil {
		return ScheduledItem{}, err
	}

	it := ScheduledItem{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Type:      in.Type,
		Name:      strings.TrimSpace(in.Name),
		Rule:      rule,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return ScheduledItem{}, err
	}
	return it, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (ScheduledItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ScheduledItem{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByProfile(ctx context.Context, profileID string) ([]ScheduledItem, error) {
	return s.repo.ListByProfile(ctx, profileID)
}

// ReplaceRule reemplaza la regla completa del item (editar = valor nuevo,
// nunca mutación parcial de campos de la regla).
func (s *Service) ReplaceRule(ctx context.Context, id string, name string, rawRule json.RawMessage) (ScheduledItem, error) {
	it, err := s.GetByID(ctx, id)
	if err != nil {
		return ScheduledItem{}, err
	}

	now := s.now()

	rule, err := schedule.ParseRuleWithAnchor(rawRule, now.In(s.loc).Format("2006-01-02"))
	if err != nil {
		return ScheduledItem{}, err
	}

	if name = strings.TrimSpace(name); name != "" {
		it.Name = name
	}
	it.Rule = rule
	it.UpdatedAt = now

	if err := s.repo.Update(ctx, it); err != nil {
		return ScheduledItem{}, err
	}
	return it, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
