package port

import (
	"context"
	"time"

	"pricelist/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Update(ctx context.Context, id int64, changes map[string]any) error
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	List(ctx context.Context, filter domain.UserFilter) ([]domain.User, int, error)
}

type UserService interface {
	Profile(ctx context.Context, subjectID int64) (domain.User, error)
	UpdateName(ctx context.Context, subjectID int64, name string) (domain.User, error)
	UpdateEmail(ctx context.Context, subjectID int64, email string) (domain.User, error)
	UpdatePassword(ctx context.Context, subjectID int64, current, next string) error
	Delete(ctx context.Context, subjectID int64) error
	List(ctx context.Context, filter domain.UserFilter) (domain.Result[domain.User], error)
}
