package tariffs

import (
	"context"
	"testing"

	pkgerrors "github.com/johnkommas/corgres/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTxRunner struct {
	db   *gorm.DB
	fail error
}

func (f *fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if f.fail != nil {
		return f.fail
	}
	return f.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func TestServiceReplacePersistsAndSwaps(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	store, err := NewStore(fixtureSet())
	require.NoError(t, err)
	svc, err := NewService(store, NewRepository(db), &fakeTxRunner{db: db})
	require.NoError(t, err)

	updated := fixtureSet()
	rule := updated.Origins["ES"]
	newDefault := decimal.RequireFromString("0.19")
	rule.DefaultEURPerKg = &newDefault
	updated.Origins["ES"] = rule

	require.NoError(t, svc.Replace(context.Background(), updated))

	// Snapshot swapped in memory.
	es, err := svc.Current().Origin("ES")
	require.NoError(t, err)
	require.NotNil(t, es.DefaultEURPerKg)
	assert.True(t, es.DefaultEURPerKg.Equal(newDefault))

	// And persisted.
	loaded, err := NewRepository(db).Load(context.Background())
	require.NoError(t, err)
	persisted, err := loaded.Origin("ES")
	require.NoError(t, err)
	assert.True(t, persisted.DefaultEURPerKg.Equal(newDefault))
}

func TestServiceReplaceRejectsInvalidSet(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	store, err := NewStore(fixtureSet())
	require.NoError(t, err)
	svc, err := NewService(store, NewRepository(db), &fakeTxRunner{db: db})
	require.NoError(t, err)

	bad := fixtureSet()
	bad.Pallets = nil
	err = svc.Replace(context.Background(), bad)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	// Current snapshot untouched.
	assert.NotEmpty(t, svc.Current().Pallets)
}

func TestServiceReplaceKeepsSnapshotOnPersistFailure(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	store, err := NewStore(fixtureSet())
	require.NoError(t, err)
	boom := pkgerrors.New(pkgerrors.CodeDependency, "database unavailable")
	svc, err := NewService(store, NewRepository(db), &fakeTxRunner{db: db, fail: boom})
	require.NoError(t, err)

	updated := fixtureSet()
	rule := updated.Origins["ES"]
	newDefault := decimal.RequireFromString("0.50")
	rule.DefaultEURPerKg = &newDefault
	updated.Origins["ES"] = rule

	err = svc.Replace(context.Background(), updated)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	es, err := svc.Current().Origin("ES")
	require.NoError(t, err)
	assert.False(t, es.DefaultEURPerKg.Equal(newDefault))
}

func TestNewServiceRequiresDeps(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	store, err := NewStore(fixtureSet())
	require.NoError(t, err)

	_, err = NewService(nil, NewRepository(db), &fakeTxRunner{db: db})
	require.Error(t, err)
	_, err = NewService(store, nil, &fakeTxRunner{db: db})
	require.Error(t, err)
	_, err = NewService(store, NewRepository(db), nil)
	require.Error(t, err)
}
