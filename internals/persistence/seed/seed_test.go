package seed_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/persistence"
	"schoolku_backend/internals/persistence/seed"
	"schoolku_backend/internals/persistence/uow"
	"schoolku_backend/internals/testkit"
)

type colour struct {
	persistence.BaseEntity
	Name string `gorm:"size:50;uniqueIndex"`
}

func (colour) SoftDelete() bool { return true }

func setup(t *testing.T) (*seed.Guard, *uow.Factory) {
	t.Helper()
	db := testkit.OpenDB(t, &colour{})
	require.NoError(t, seed.Migrate(db))
	f := testkit.Factory(db)
	return seed.NewGuard(f, zerolog.Nop()), f
}

func historyCount(t *testing.T, f *uow.Factory, key string) int64 {
	t.Helper()
	n, err := uow.Use[seed.SeedHistory, uint](f.New()).Count(context.Background(), uow.Where("seed_key = ?", key))
	require.NoError(t, err)
	return n
}

func TestRunOnce_ExecutesOnce(t *testing.T) {
	g, f := setup(t)
	ctx := context.Background()

	runs := 0
	action := func(context.Context, *uow.UnitOfWork) error {
		runs++
		return nil
	}

	assert.True(t, g.RunOnce(ctx, "X", action))
	assert.False(t, g.RunOnce(ctx, "X", action))
	assert.Equal(t, 1, runs)
	assert.EqualValues(t, 1, historyCount(t, f, "X"))
}

func TestRunOnce_FailureIsRetried(t *testing.T) {
	g, f := setup(t)
	ctx := context.Background()

	runs := 0
	failing := func(context.Context, *uow.UnitOfWork) error {
		runs++
		return errors.New("reference data unavailable")
	}
	assert.False(t, g.RunOnce(ctx, "X", failing))
	assert.Zero(t, historyCount(t, f, "X"))

	ok := func(context.Context, *uow.UnitOfWork) error {
		runs++
		return nil
	}
	assert.True(t, g.RunOnce(ctx, "X", ok))
	assert.Equal(t, 2, runs)
	assert.EqualValues(t, 1, historyCount(t, f, "X"))
}

func TestRunOnce_ActionWritesShareTheFlush(t *testing.T) {
	g, f := setup(t)
	ctx := context.Background()

	action := func(ctx context.Context, u *uow.UnitOfWork) error {
		repo := uow.Use[colour, uint](u)
		for _, name := range []string{"red", "green"} {
			exists, err := repo.Any(ctx, uow.Where("name = ?", name))
			if err != nil {
				return err
			}
			if !exists {
				repo.Add(&colour{Name: name})
			}
		}
		return nil
	}
	require.True(t, g.RunOnce(ctx, "colours", action))

	n, err := uow.Use[colour, uint](f.New()).Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
