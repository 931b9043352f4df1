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

var userColumns = []string{"id", "name", "email", "password_digest", "is_admin", "created_at", "updated_at", "deleted_at"}

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	now := time.Now().UTC()

	query, args, err := r.db.QueryBuilder.
		Insert("users").
		Columns("name", "email", "password_digest", "is_admin", "created_at", "updated_at").
		Values(user.Name, user.Email, user.PasswordDigest, user.IsAdmin(), now, now).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.User{}, fmt.Errorf("build insert user: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&user.ID); err != nil {
		return domain.User{}, database.Translate("insert user", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, sq.Eq{"email": email})
}

func (r *UserRepository) getOne(ctx context.Context, where sq.Eq) (domain.User, error) {
	query, args, err := r.db.QueryBuilder.
		Select(userColumns...).
		From("users").
		Where(where).
		Where("deleted_at IS NULL").
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, fmt.Errorf("build get user: %w", err)
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))

	if err != nil {
		return domain.User{}, database.Translate("get user", err)
	}

	return user, nil
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	builder := r.db.QueryBuilder.
		Select("1").
		From("users").
		Where(sq.Eq{"email": email}).
		Where("deleted_at IS NULL").
		Limit(1)

	if excludeID > 0 {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}

	query, args, err := builder.ToSql()

	if err != nil {
		return false, fmt.Errorf("build email taken: %w", err)
	}

	var one int

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, database.Translate("email taken", err)
	}

	return true, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, changes map[string]any) error {
	set := make(map[string]any, len(changes)+1)

	for col, value := range changes {
		set[col] = value
	}

	set["updated_at"] = time.Now().UTC()

	return r.updateLive(ctx, id, set)
}

func (r *UserRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	return r.updateLive(ctx, id, map[string]any{
		"name":            domain.DeletedUserSentinel,
		"email":           domain.DeletedUserSentinel,
		"password_digest": domain.DeletedUserSentinel,
		"deleted_at":      at.UTC(),
		"updated_at":      at.UTC(),
	})
}

func (r *UserRepository) updateLive(ctx context.Context, id int64, set map[string]any) error {
	query, args, err := r.db.QueryBuilder.
		Update("users").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()

	if err != nil {
		return fmt.Errorf("build update user: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)

	if err != nil {
		return database.Translate("update user", err)
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("update user rows affected: %w", err)
	}

	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// List filters by role only; soft-deleted accounts are part of the result.
func (r *UserRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int, error) {
	where := sq.Eq{"is_admin": filter.IsAdmin}

	query, args, err := r.db.QueryBuilder.
		Select(userColumns...).
		From("users").
		Where(where).
		OrderBy("id ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		ToSql()

	if err != nil {
		return nil, 0, fmt.Errorf("build list users: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)

	if err != nil {
		return nil, 0, database.Translate("list users", err)
	}

	users := make([]domain.User, 0, filter.Limit)

	for rows.Next() {
		user, err := scanUser(rows)

		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}

	rows.Close()

	total, err := count(ctx, r.db, r.db.QueryBuilder.Select("COUNT(*)").From("users").Where(where))

	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user      domain.User
		isAdmin   bool
		deletedAt sql.NullTime
	)

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordDigest,
		&isAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
		&deletedAt,
	)

	if err != nil {
		return domain.User{}, err
	}

	user.Role = domain.RoleFromFlag(isAdmin)

	if deletedAt.Valid {
		user.DeletedAt = &deletedAt.Time
	}

	return user, nil
}

func count(ctx context.Context, db *database.DB, builder sq.SelectBuilder) (int, error) {
	query, args, err := builder.ToSql()

	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var total int

	if err := db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, database.Translate("count", err)
	}

	return total, nil
}
