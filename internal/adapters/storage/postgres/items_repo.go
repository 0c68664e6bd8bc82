package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/devribero/caremind-sub000/internal/domain/items"
	"github.com/devribero/caremind-sub000/internal/domain/schedule"
)

type ItemsRepo struct {
	db *sql.DB
}

func NewItemsRepo(db *sql.DB) *ItemsRepo {
	return &ItemsRepo{db: db}
}

func (r *ItemsRepo) Create(ctx context.Context, it items.ScheduledItem) error {
	rule, err := schedule.EncodeRule(it.Rule)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO scheduled_items (
			id, profile_id,
			item_type, name, rule,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		it.ID,
		it.ProfileID,
		string(it.Type),
		it.Name,
		[]byte(rule),
		it.CreatedAt,
		it.UpdatedAt,
	)
	return err
}

func (r *ItemsRepo) GetByID(ctx context.Context, id string) (items.ScheduledItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return items.ScheduledItem{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, profile_id,
			item_type, name, rule,
			created_at, updated_at
		FROM scheduled_items
		WHERE id = $1
	`, id)

	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return items.ScheduledItem{}, ErrNotFound
	}
	return it, err
}

func (r *ItemsRepo) ListByProfile(ctx context.Context, profileID string) ([]items.ScheduledItem, error) {
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, profile_id,
			item_type, name, rule,
			created_at, updated_at
		FROM scheduled_items
		WHERE profile_id = $1
		ORDER BY created_at ASC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]items.ScheduledItem, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}

	return out, rows.Err()
}

func (r *ItemsRepo) Update(ctx context.Context, it items.ScheduledItem) error {
	rule, err := schedule.EncodeRule(it.Rule)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE scheduled_items
		SET name = $2, rule = $3, updated_at = $4
		WHERE id = $1
	`,
		it.ID,
		it.Name,
		[]byte(rule),
		it.UpdatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ItemsRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM scheduled_items
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (items.ScheduledItem, error) {
	var it items.ScheduledItem
	var typ string
	var rawRule []byte

	if err := row.Scan(
		&it.ID,
		&it.ProfileID,
		&typ,
		&it.Name,
		&rawRule,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return items.ScheduledItem{}, err
	}

	rule, err := schedule.ParseRule(rawRule)
	if err != nil {
		return items.ScheduledItem{}, err
	}

	it.Type = items.ItemType(typ)
	it.Rule = rule

	return it, nil
}
