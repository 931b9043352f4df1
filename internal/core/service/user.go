package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"pricelist/internal/core/domain"
	"pricelist/internal/core/port"
	"pricelist/internal/core/util"
)

// UserService covers self-service account management and the admin listing.
// subjectID is always the authenticated principal's id.
type UserService struct {
	repo port.UserRepository
	now  func() time.Time
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo, now: time.Now}
}

func (s *UserService) Profile(ctx context.Context, subjectID int64) (domain.User, error) {
	user, err := s.repo.GetByID(ctx, subjectID)

	if err != nil {
		return domain.User{}, userError("find user", err)
	}

	return user, nil
}

func (s *UserService) UpdateName(ctx context.Context, subjectID int64, name string) (domain.User, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return domain.User{}, domain.NewValidationError("newName", "newName is required.")
	}

	user, err := s.Profile(ctx, subjectID)

	if err != nil {
		return domain.User{}, err
	}

	if user.Name == name {
		return domain.User{}, domain.NewConflictError("newName", "The new name is the same as the current name.")
	}

	if err := s.repo.Update(ctx, subjectID, map[string]any{"name": name}); err != nil {
		return domain.User{}, userError("update name", err)
	}

	return s.Profile(ctx, subjectID)
}

func (s *UserService) UpdateEmail(ctx context.Context, subjectID int64, email string) (domain.User, error) {
	email = strings.TrimSpace(email)

	if email == "" {
		return domain.User{}, domain.NewValidationError("newEmail", "newEmail is required.")
	}

	user, err := s.Profile(ctx, subjectID)

	if err != nil {
		return domain.User{}, err
	}

	if user.Email == email {
		return domain.User{}, domain.NewConflictError("newEmail", "The new email is the same as the current email.")
	}

	taken, err := s.repo.EmailTaken(ctx, email, subjectID)

	if err != nil {
		return domain.User{}, domain.NewInternalError("check email", err)
	}

	if taken {
		return domain.User{}, domain.NewConflictError("newEmail", "Email is already taken.")
	}

	if err := s.repo.Update(ctx, subjectID, map[string]any{"email": email}); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.User{}, domain.NewConflictError("newEmail", "Email is already taken.")
		}

		return domain.User{}, userError("update email", err)
	}

	return s.Profile(ctx, subjectID)
}

func (s *UserService) UpdatePassword(ctx context.Context, subjectID int64, current, next string) error {
	if next == "" {
		return domain.NewValidationError("newPassword", "newPassword is required.")
	}

	user, err := s.Profile(ctx, subjectID)

	if err != nil {
		return err
	}

	if util.ComparePassword(current, user.PasswordDigest) != nil {
		return domain.NewUnauthenticatedError("Invalid current password.")
	}

	if current == next {
		return domain.NewConflictError("newPassword", "The new password is the same as the current password.")
	}

	digest, err := util.HashPassword(next)

	if err != nil {
		return hashError("newPassword", err)
	}

	if err := s.repo.Update(ctx, subjectID, map[string]any{"password_digest": digest}); err != nil {
		return userError("update password", err)
	}

	return nil
}

// Delete soft-deletes the account and scrubs its personal data.
func (s *UserService) Delete(ctx context.Context, subjectID int64) error {
	if err := s.repo.SoftDelete(ctx, subjectID, s.now()); err != nil {
		return userError("delete user", err)
	}

	return nil
}

// List pages through accounts of one role, deleted ones included.
func (s *UserService) List(ctx context.Context, filter domain.UserFilter) (domain.Result[domain.User], error) {
	page := domain.Page{Limit: filter.Limit, Offset: filter.Offset}.Normalize(domain.DefaultUserLimit)
	filter.Limit, filter.Offset = page.Limit, page.Offset

	users, total, err := s.repo.List(ctx, filter)

	if err != nil {
		return domain.Result[domain.User]{}, domain.NewInternalError("list users", err)
	}

	return result(users, total, page), nil
}

func userError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFoundError("user", "User not found")
	}

	return domain.NewInternalError(op, err)
}
