package repo

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hamed0406/uptime/internal/auth"
	"github.com/hamed0406/uptime/internal/domain"
	"github.com/hamed0406/uptime/internal/store"
)

// CreateCheck validates the spec, enforces the quota, and performs the two
// linked writes: the check record first (canonical), then the owner's check
// list. If the second write fails the fresh check is deleted again so no
// orphan survives the failure path; only a crash between the writes can
// leave one, and the scheduler skips those.
func (r *Repository) CreateCheck(ctx context.Context, tokenID string, spec domain.CheckSpec) (*domain.Check, error) {
	if err := domain.ValidateSpec(&spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	tok, err := r.tokens.Get(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad token", ErrUnauthorized)
	}
	if !r.tokens.Verify(ctx, tokenID, tok.Phone) {
		return nil, fmt.Errorf("%w: bad token", ErrUnauthorized)
	}

	var u domain.User
	if err := r.store.Read(ctx, domain.CollUsers, tok.Phone, &u); err != nil {
		if errors.Is(err, store.ErrCorrupt) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: owner %s: %v", ErrUnauthorized, tok.Phone, err)
	}
	if len(u.Checks) >= r.maxChecks {
		return nil, fmt.Errorf("%w: user %s already has %d checks", ErrQuotaExceeded, u.Phone, len(u.Checks))
	}

	id, err := auth.RandomKey(domain.KeyLength)
	if err != nil {
		return nil, err
	}
	chk := &domain.Check{
		ID:             id,
		UserPhone:      u.Phone,
		Protocol:       spec.Protocol,
		URL:            spec.URL,
		Method:         spec.Method,
		SuccessCodes:   spec.SuccessCodes,
		TimeoutSeconds: spec.TimeoutSeconds,
		State:          domain.StateDown,
	}
	if err := r.store.Create(ctx, domain.CollChecks, id, chk); err != nil {
		return nil, err
	}

	u.Checks = append(u.Checks, id)
	if err := r.store.Update(ctx, domain.CollUsers, u.Phone, &u); err != nil {
		// compensate: drop the check we just wrote
		if derr := r.store.Delete(ctx, domain.CollChecks, id); derr != nil {
			r.log.Error("check_orphaned",
				zap.String("check_id", id),
				zap.String("phone", u.Phone),
				zap.NamedError("update_err", err),
				zap.NamedError("delete_err", derr),
			)
		}
		return nil, fmt.Errorf("link check %s to user %s: %w", id, u.Phone, err)
	}
	return chk, nil
}

// GetCheck returns the check, gated on the owner's token.
func (r *Repository) GetCheck(ctx context.Context, tokenID, id string) (*domain.Check, error) {
	var chk domain.Check
	if err := r.store.Read(ctx, domain.CollChecks, id, &chk); err != nil {
		return nil, err
	}
	if !r.tokens.Verify(ctx, tokenID, chk.UserPhone) {
		return nil, fmt.Errorf("%w: check %s", ErrUnauthorized, id)
	}
	return &chk, nil
}

// UpdateCheck applies only the fields present in patch, re-validating the
// result with the same rules as create.
func (r *Repository) UpdateCheck(ctx context.Context, tokenID, id string, patch domain.CheckPatch) (*domain.Check, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("%w: no updatable field supplied", ErrInvalidInput)
	}
	var chk domain.Check
	if err := r.store.Read(ctx, domain.CollChecks, id, &chk); err != nil {
		return nil, err
	}
	if !r.tokens.Verify(ctx, tokenID, chk.UserPhone) {
		return nil, fmt.Errorf("%w: check %s", ErrUnauthorized, id)
	}

	spec := domain.CheckSpec{
		Protocol:       chk.Protocol,
		URL:            chk.URL,
		Method:         chk.Method,
		SuccessCodes:   chk.SuccessCodes,
		TimeoutSeconds: chk.TimeoutSeconds,
	}
	if patch.Protocol != nil {
		spec.Protocol = *patch.Protocol
	}
	if patch.URL != nil {
		spec.URL = *patch.URL
	}
	if patch.Method != nil {
		spec.Method = *patch.Method
	}
	if patch.SuccessCodes != nil {
		spec.SuccessCodes = patch.SuccessCodes
	}
	if patch.TimeoutSeconds != nil {
		spec.TimeoutSeconds = *patch.TimeoutSeconds
	}
	if err := domain.ValidateSpec(&spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	chk.Protocol = spec.Protocol
	chk.URL = spec.URL
	chk.Method = spec.Method
	chk.SuccessCodes = spec.SuccessCodes
	chk.TimeoutSeconds = spec.TimeoutSeconds
	if err := r.store.Update(ctx, domain.CollChecks, id, &chk); err != nil {
		return nil, err
	}
	return &chk, nil
}

// DeleteCheck removes the check, then unlinks it from the owner. Finding
// the owner unreadable, or the id already missing from the owner's list,
// is an integrity fault (ErrConflict): the linkage was broken before we
// got here.
func (r *Repository) DeleteCheck(ctx context.Context, tokenID, id string) error {
	var chk domain.Check
	if err := r.store.Read(ctx, domain.CollChecks, id, &chk); err != nil {
		return err
	}
	if !r.tokens.Verify(ctx, tokenID, chk.UserPhone) {
		return fmt.Errorf("%w: check %s", ErrUnauthorized, id)
	}
	if err := r.store.Delete(ctx, domain.CollChecks, id); err != nil {
		return err
	}

	var u domain.User
	if err := r.store.Read(ctx, domain.CollUsers, chk.UserPhone, &u); err != nil {
		return fmt.Errorf("%w: check %s deleted but owner %s unreadable: %v", ErrConflict, id, chk.UserPhone, err)
	}
	idx := -1
	for i, cid := range u.Checks {
		if cid == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: check %s was not on user %s's list", ErrConflict, id, chk.UserPhone)
	}
	u.Checks = append(u.Checks[:idx], u.Checks[idx+1:]...)
	if err := r.store.Update(ctx, domain.CollUsers, u.Phone, &u); err != nil {
		return fmt.Errorf("unlink check %s from user %s: %w", id, u.Phone, err)
	}
	return nil
}
