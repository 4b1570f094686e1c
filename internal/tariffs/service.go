package tariffs

import (
	"context"

	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes tariff snapshot reads and full-set replacement. A
// replacement validates, persists and swaps atomically; readers keep
// whatever snapshot they already hold.
type Service interface {
	Current() *Set
	Replace(ctx context.Context, set *Set) error
}

type service struct {
	store *Store
	repo  *Repository
	tx    txRunner
}

// NewService wires the tariff admin surface.
func NewService(store *Store, repo *Repository, tx txRunner) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tariff service requires a store")
	}
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tariff service requires a repository")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tariff service requires a transaction runner")
	}
	return &service{store: store, repo: repo, tx: tx}, nil
}

func (s *service) Current() *Set {
	return s.store.Snapshot()
}

func (s *service) Replace(ctx context.Context, set *Set) error {
	if err := Validate(set); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "tariff set rejected")
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Save(ctx, set)
	})
	if err != nil {
		return err
	}
	// The set already validated; the in-memory swap cannot fail now.
	return s.store.Replace(set)
}
