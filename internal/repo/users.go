package repo

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/uptime/internal/domain"
)

// UserSpec is the payload for registering a user.
type UserSpec struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

// UserPatch carries optional user updates; at least one must be set.
type UserPatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Password  *string `json:"password"`
}

func (p UserPatch) empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Password == nil
}

// CreateUser registers a new user keyed by phone. Registration is the one
// mutation with no token gate: there is nothing to own yet.
func (r *Repository) CreateUser(ctx context.Context, spec UserSpec) error {
	spec.FirstName = strings.TrimSpace(spec.FirstName)
	spec.LastName = strings.TrimSpace(spec.LastName)
	spec.Phone = strings.TrimSpace(spec.Phone)

	if spec.FirstName == "" || spec.LastName == "" {
		return fmt.Errorf("%w: firstName and lastName are required", ErrInvalidInput)
	}
	if !domain.ValidPhone(spec.Phone) {
		return fmt.Errorf("%w: phone must be %d digits", ErrInvalidInput, domain.PhoneLength)
	}
	if strings.TrimSpace(spec.Password) == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	u := domain.User{
		FirstName:      spec.FirstName,
		LastName:       spec.LastName,
		Phone:          spec.Phone,
		HashedPassword: r.hasher.Hash(spec.Password),
	}
	return r.store.Create(ctx, domain.CollUsers, u.Phone, &u)
}

// GetUser returns the user record with the password digest stripped.
func (r *Repository) GetUser(ctx context.Context, tokenID, phone string) (*domain.User, error) {
	if !domain.ValidPhone(phone) {
		return nil, fmt.Errorf("%w: phone must be %d digits", ErrInvalidInput, domain.PhoneLength)
	}
	if !r.tokens.Verify(ctx, tokenID, phone) {
		return nil, fmt.Errorf("%w: user %s", ErrUnauthorized, phone)
	}
	var u domain.User
	if err := r.store.Read(ctx, domain.CollUsers, phone, &u); err != nil {
		return nil, err
	}
	u.HashedPassword = ""
	return &u, nil
}

// UpdateUser applies the fields present in patch; a password change is
// re-hashed before storage.
func (r *Repository) UpdateUser(ctx context.Context, tokenID, phone string, patch UserPatch) error {
	if !domain.ValidPhone(phone) {
		return fmt.Errorf("%w: phone must be %d digits", ErrInvalidInput, domain.PhoneLength)
	}
	if patch.empty() {
		return fmt.Errorf("%w: no updatable field supplied", ErrInvalidInput)
	}
	if !r.tokens.Verify(ctx, tokenID, phone) {
		return fmt.Errorf("%w: user %s", ErrUnauthorized, phone)
	}
	var u domain.User
	if err := r.store.Read(ctx, domain.CollUsers, phone, &u); err != nil {
		return err
	}
	if patch.FirstName != nil {
		if strings.TrimSpace(*patch.FirstName) == "" {
			return fmt.Errorf("%w: firstName must not be empty", ErrInvalidInput)
		}
		u.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		if strings.TrimSpace(*patch.LastName) == "" {
			return fmt.Errorf("%w: lastName must not be empty", ErrInvalidInput)
		}
		u.LastName = strings.TrimSpace(*patch.LastName)
	}
	if patch.Password != nil {
		if strings.TrimSpace(*patch.Password) == "" {
			return fmt.Errorf("%w: password must not be empty", ErrInvalidInput)
		}
		u.HashedPassword = r.hasher.Hash(*patch.Password)
	}
	return r.store.Update(ctx, domain.CollUsers, phone, &u)
}

// DeleteUser removes the user, then best-effort deletes every check on the
// user's list. Individual check deletions that fail are aggregated and
// reported together rather than aborting the cascade.
func (r *Repository) DeleteUser(ctx context.Context, tokenID, phone string) error {
	if !domain.ValidPhone(phone) {
		return fmt.Errorf("%w: phone must be %d digits", ErrInvalidInput, domain.PhoneLength)
	}
	if !r.tokens.Verify(ctx, tokenID, phone) {
		return fmt.Errorf("%w: user %s", ErrUnauthorized, phone)
	}
	var u domain.User
	if err := r.store.Read(ctx, domain.CollUsers, phone, &u); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, domain.CollUsers, phone); err != nil {
		return err
	}

	var errs error
	for _, checkID := range u.Checks {
		if err := r.store.Delete(ctx, domain.CollChecks, checkID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("check %s: %w", checkID, err))
		}
	}
	if errs != nil {
		r.log.Warn("user_delete_partial",
			zap.String("phone", phone),
			zap.Int("checks", len(u.Checks)),
			zap.Error(errs),
		)
		return fmt.Errorf("user %s deleted, some checks were not: %w", phone, errs)
	}
	return nil
}
