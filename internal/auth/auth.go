package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hamed0406/uptime/internal/domain"
	"github.com/hamed0406/uptime/internal/store"
)

// TokenTTL is how long a freshly issued or extended token stays valid.
const TokenTTL = time.Hour

var (
	// ErrUnauthorized means the phone is unknown or the password does not match.
	ErrUnauthorized = errors.New("auth: unauthorized")
	// ErrExpired means the token is past expiry and must be re-issued.
	ErrExpired = errors.New("auth: token expired")
)

// DocStore is the slice of the document store the authority needs.
type DocStore interface {
	Create(ctx context.Context, collection, key string, doc any) error
	Read(ctx context.Context, collection, key string, out any) error
	Update(ctx context.Context, collection, key string, doc any) error
	Delete(ctx context.Context, collection, key string) error
}

// Authority issues, extends, revokes and verifies bearer tokens.
type Authority struct {
	store  DocStore
	hasher Hasher
	now    func() time.Time
}

func New(store DocStore, hasher Hasher) *Authority {
	return &Authority{store: store, hasher: hasher, now: time.Now}
}

// Issue checks phone+password against the stored user and persists a new
// token with a random 20-character id, expiring in one hour. Unknown phone
// and wrong password are indistinguishable to the caller.
func (a *Authority) Issue(ctx context.Context, phone, password string) (*domain.Token, error) {
	var u domain.User
	if err := a.store.Read(ctx, domain.CollUsers, phone, &u); err != nil {
		if errors.Is(err, store.ErrCorrupt) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, phone)
	}
	if !digestEqual(a.hasher.Hash(password), u.HashedPassword) {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, phone)
	}
	id, err := RandomKey(domain.KeyLength)
	if err != nil {
		return nil, err
	}
	tok := &domain.Token{
		ID:      id,
		Phone:   phone,
		Expires: a.now().Add(TokenTTL),
	}
	if err := a.store.Create(ctx, domain.CollTokens, tok.ID, tok); err != nil {
		// id collision surfaces as the store's AlreadyExists
		return nil, err
	}
	return tok, nil
}

// Get reads a token record. Tokens carry no secret material beyond the id
// itself, so the record is safe to return as is.
func (a *Authority) Get(ctx context.Context, id string) (*domain.Token, error) {
	var tok domain.Token
	if err := a.store.Read(ctx, domain.CollTokens, id, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Extend resets expiry to one hour from now, but only while the token is
// still live. An expired token gets no grace: re-issue instead.
func (a *Authority) Extend(ctx context.Context, id string) (*domain.Token, error) {
	var tok domain.Token
	if err := a.store.Read(ctx, domain.CollTokens, id, &tok); err != nil {
		return nil, err
	}
	if !a.now().Before(tok.Expires) {
		return nil, fmt.Errorf("%w: %s", ErrExpired, id)
	}
	tok.Expires = a.now().Add(TokenTTL)
	if err := a.store.Update(ctx, domain.CollTokens, id, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Revoke deletes the token record.
func (a *Authority) Revoke(ctx context.Context, id string) error {
	return a.store.Delete(ctx, domain.CollTokens, id)
}

// Verify is the boolean gate every mutating handler passes through: true
// only if the token exists, is bound to phone, and has not expired. It
// never returns an error; any failure reads as false.
func (a *Authority) Verify(ctx context.Context, id, phone string) bool {
	if id == "" || phone == "" {
		return false
	}
	var tok domain.Token
	if err := a.store.Read(ctx, domain.CollTokens, id, &tok); err != nil {
		return false
	}
	return tok.Phone == phone && a.now().Before(tok.Expires)
}
