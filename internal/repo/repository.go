package repo

import (
	"context"

	"go.uber.org/zap"

	"github.com/hamed0406/uptime/internal/auth"
	"github.com/hamed0406/uptime/internal/domain"
)

// DocStore is the slice of the document store the repository needs.
type DocStore interface {
	Create(ctx context.Context, collection, key string, doc any) error
	Read(ctx context.Context, collection, key string, out any) error
	Update(ctx context.Context, collection, key string, doc any) error
	Delete(ctx context.Context, collection, key string) error
	List(ctx context.Context, collection string) ([]string, error)
}

// TokenSource resolves and verifies bearer tokens.
type TokenSource interface {
	Get(ctx context.Context, id string) (*domain.Token, error)
	Verify(ctx context.Context, id, phone string) bool
}

const defaultMaxChecks = 5

// Repository enforces the user↔check linkage, the per-user quota, and the
// token gate on every mutating path.
type Repository struct {
	store     DocStore
	tokens    TokenSource
	hasher    auth.Hasher
	maxChecks int
	log       *zap.Logger
}

func New(store DocStore, tokens TokenSource, hasher auth.Hasher, maxChecks int, log *zap.Logger) *Repository {
	if maxChecks < 1 {
		maxChecks = defaultMaxChecks
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{
		store:     store,
		tokens:    tokens,
		hasher:    hasher,
		maxChecks: maxChecks,
		log:       log,
	}
}

// MaxChecks is the per-user check quota.
func (r *Repository) MaxChecks() int { return r.maxChecks }
