package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"pricelist/internal/adapter/database"
	"pricelist/internal/core/domain"
)

type CatalogRepository struct {
	db *database.DB
}

func NewCatalogRepository(db *database.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) Insert(ctx context.Context, entity domain.Entity, changes domain.Changes) (int64, error) {
	now := time.Now().UTC()
	columns := entity.Columns()
	values := make([]any, 0, len(columns)+2)

	for _, col := range columns {
		values = append(values, changes[col])
	}

	query, args, err := r.db.QueryBuilder.
		Insert(entity.Table).
		Columns(append(columns, "created_at", "updated_at")...).
		Values(append(values, now, now)...).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("build insert %s: %w", entity.Table, err)
	}

	var id int64

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, database.Translate("insert "+entity.Table, err)
	}

	return id, nil
}

func (r *CatalogRepository) Update(ctx context.Context, entity domain.Entity, id int64, changes domain.Changes) error {
	set := make(map[string]any, len(changes)+1)

	for col, value := range changes {
		set[col] = value
	}

	set["updated_at"] = time.Now().UTC()

	return r.updateLive(ctx, entity.Table, id, set)
}

func (r *CatalogRepository) SoftDelete(ctx context.Context, entity domain.Entity, id int64, at time.Time) error {
	set := map[string]any{
		"deleted_at": at.UTC(),
		"updated_at": at.UTC(),
	}

	for col, value := range entity.Tombstone {
		set[col] = value
	}

	return r.updateLive(ctx, entity.Table, id, set)
}

func (r *CatalogRepository) updateLive(ctx context.Context, table string, id int64, set map[string]any) error {
	query, args, err := r.db.QueryBuilder.
		Update(table).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()

	if err != nil {
		return fmt.Errorf("build update %s: %w", table, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)

	if err != nil {
		return database.Translate("update "+table, err)
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("update %s rows affected: %w", table, err)
	}

	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *CatalogRepository) Find(ctx context.Context, entity domain.Entity, id int64) (domain.Record, error) {
	columns := entity.Columns()
	selected := append([]string{"id"}, columns...)
	selected = append(selected, "created_at", "updated_at", "deleted_at")

	query, args, err := r.db.QueryBuilder.
		Select(selected...).
		From(entity.Table).
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()

	if err != nil {
		return domain.Record{}, fmt.Errorf("build find %s: %w", entity.Table, err)
	}

	values := make([]sql.NullString, len(columns))
	record := domain.Record{Kind: entity.Kind, Values: make(map[string]string, len(columns))}

	var deletedAt sql.NullTime

	dest := []any{&record.ID}

	for i := range values {
		dest = append(dest, &values[i])
	}

	dest = append(dest, &record.CreatedAt, &record.UpdatedAt, &deletedAt)

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(dest...); err != nil {
		return domain.Record{}, database.Translate("find "+entity.Table, err)
	}

	for i, col := range columns {
		record.Values[col] = values[i].String
	}

	if deletedAt.Valid {
		record.DeletedAt = &deletedAt.Time
	}

	return record, nil
}

func (r *CatalogRepository) Taken(ctx context.Context, entity domain.Entity, column, value string, excludeID int64, includeDeleted bool) (bool, error) {
	builder := r.db.QueryBuilder.
		Select("1").
		From(entity.Table).
		Where(sq.Eq{column: value}).
		Limit(1)

	if excludeID > 0 {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}

	if !includeDeleted {
		builder = builder.Where("deleted_at IS NULL")
	}

	query, args, err := builder.ToSql()

	if err != nil {
		return false, fmt.Errorf("build taken %s: %w", entity.Table, err)
	}

	var one int

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, database.Translate("taken "+entity.Table, err)
	}

	return true, nil
}
