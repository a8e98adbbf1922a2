package uow_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/persistence"
	"schoolku_backend/internals/persistence/uow"
	"schoolku_backend/internals/testkit"
)

type widget struct {
	persistence.BaseEntity
	Code string `gorm:"size:20;uniqueIndex"`
	Name string `gorm:"size:100"`
}

func (widget) SoftDelete() bool { return true }

// ledgerLine is auditable but physically deletable.
type ledgerLine struct {
	persistence.BaseEntity
	Memo string
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func setup(t *testing.T) (*uow.Factory, *clock) {
	t.Helper()
	db := testkit.OpenDB(t, &widget{}, &ledgerLine{})
	c := &clock{t: time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)}
	return testkit.Factory(db, uow.WithClock(c.now)), c
}

func TestComplete_StampsCreatedOnInsert(t *testing.T) {
	f, c := setup(t)
	ctx := context.Background()
	u := f.New()

	w := &widget{Code: "W1", Name: "first"}
	w.IsActive = false
	uow.Use[widget, uint](u).Add(w)

	n, err := u.Complete(ctx, "user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.NotZero(t, w.ID)

	got, err := uow.Use[widget, uint](f.New()).GetByID(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsActive)
	assert.True(t, got.CreatedDate.Equal(c.now()))
	require.NotNil(t, got.CreatedByID)
	assert.Equal(t, "user-1", *got.CreatedByID)
	assert.Nil(t, got.UpdatedDate)
	assert.Nil(t, got.UpdatedByID)
}

func TestComplete_StampsUpdatedOnModify(t *testing.T) {
	f, c := setup(t)
	ctx := context.Background()
	u := f.New()
	repo := uow.Use[widget, uint](u)

	w := &widget{Code: "W1", Name: "first"}
	repo.Add(w)
	_, err := u.Complete(ctx, "")
	require.NoError(t, err)

	c.advance(time.Hour)
	w.Name = "renamed"
	repo.Update(w)
	_, err = u.Complete(ctx, "editor")
	require.NoError(t, err)

	got, err := uow.Use[widget, uint](f.New()).GetByID(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "renamed", got.Name)
	assert.Nil(t, got.CreatedByID, "system insert has no actor")
	require.NotNil(t, got.UpdatedDate)
	assert.False(t, got.UpdatedDate.Before(got.CreatedDate))
	require.NotNil(t, got.UpdatedByID)
	assert.Equal(t, "editor", *got.UpdatedByID)
}

func TestRemove_SoftDeletesCapableEntities(t *testing.T) {
	f, _ := setup(t)
	ctx := context.Background()
	u := f.New()
	repo := uow.Use[widget, uint](u)

	w := &widget{Code: "W1"}
	repo.Add(w)
	_, err := u.Complete(ctx, "")
	require.NoError(t, err)

	repo.Remove(w)
	_, err = u.Complete(ctx, "admin")
	require.NoError(t, err)

	fresh := uow.Use[widget, uint](f.New())
	got, err := fresh.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "inactive rows are hidden from ordinary reads")

	n, err := fresh.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	all := fresh.IgnoreQueryFilters()
	got, err = all.GetByID(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.DeletedDate)
	require.NotNil(t, got.DeletedByID)
	assert.Equal(t, "admin", *got.DeletedByID)
}

func TestUpdate_DeactivationStampsDeletion(t *testing.T) {
	f, _ := setup(t)
	ctx := context.Background()
	u := f.New()
	repo := uow.Use[widget, uint](u)

	w := &widget{Code: "W1"}
	repo.Add(w)
	_, err := u.Complete(ctx, "")
	require.NoError(t, err)

	w.IsActive = false
	repo.Update(w)
	_, err = u.Complete(ctx, "admin")
	require.NoError(t, err)

	got, err := uow.Use[widget, uint](f.New()).IgnoreQueryFilters().GetByID(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NotNil(t, got.DeletedDate)
	assert.NotNil(t, got.DeletedByID)
}

func TestRemove_PhysicallyDeletesOtherEntities(t *testing.T) {
	f, _ := setup(t)
	ctx := context.Background()
	u := f.New()
	repo := uow.Use[ledgerLine, uint](u)

	l := &ledgerLine{Memo: "tmp"}
	repo.Add(l)
	_, err := u.Complete(ctx, "")
	require.NoError(t, err)

	repo.Remove(l)
	n, err := u.Complete(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := uow.Use[ledgerLine, uint](f.New()).IgnoreQueryFilters().GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepository_PredicatesAndMemoization(t *testing.T) {
	f, _ := setup(t)
	ctx := context.Background()
	u := f.New()
	repo := uow.Use[widget, uint](u)
	assert.Same(t, repo, uow.Use[widget, uint](u))

	repo.AddRange(&widget{Code: "A", Name: "alpha"}, &widget{Code: "B", Name: "beta"}, &widget{Code: "C", Name: "gamma"})
	_, err := u.Complete(ctx, "")
	require.NoError(t, err)

	found, err := repo.Find(ctx, uow.Where("name LIKE ?", "%a"))
	require.NoError(t, err)
	assert.Len(t, found, 3)

	ok, err := repo.Any(ctx, uow.Where("code = ?", "B"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Any(ctx, uow.Where("code = ?", "Z"))
	require.NoError(t, err)
	assert.False(t, ok)

	missing, err := repo.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	repo.RemoveRange(&found[0], &found[1])
	_, err = u.Complete(ctx, "")
	require.NoError(t, err)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = repo.IgnoreQueryFilters().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestStage_AddThenRemoveIsDropped(t *testing.T) {
	f, _ := setup(t)
	u := f.New()
	repo := uow.Use[widget, uint](u)

	w := &widget{Code: "W1"}
	repo.Add(w)
	repo.Remove(w)
	assert.False(t, u.HasChanges())

	n, err := u.Complete(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBeginTransaction_Twice(t *testing.T) {
	f, _ := setup(t)
	ctx := context.Background()
	u := f.New()

	require.NoError(t, u.BeginTransaction(ctx, sql.LevelDefault))
	err := u.BeginTransaction(ctx, sql.LevelDefault)
	assert.ErrorIs(t, err, uow.ErrTransactionActive)
	require.NoError(t, u.RollbackTransaction())
	assert.False(t, u.InTransaction())
}

func TestRollbackTransaction_NoopWithoutTransaction(t *testing.T) {
	f, _ := setup(t)
	assert.NoError(t, f.New().RollbackTransaction())
}

func TestCommitTransaction_PersistsAll(t *testing.T) {
	f, _ := setup(t)
	ctx := context.Background()
	u := f.New()
	repo := uow.Use[widget, uint](u)

	require.NoError(t, u.BeginTransaction(ctx, sql.LevelDefault))
	repo.Add(&widget{Code: "A"})
	_, err := u.Complete(ctx, "")
	require.NoError(t, err)
	repo.Add(&widget{Code: "B"})

	n, err := u.CommitTransaction(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.False(t, u.InTransaction())

	count, err := uow.Use[widget, uint](f.New()).Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestCommitTransaction_FailureRollsBack(t *testing.T) {
	f, _ := setup(t)
	ctx := context.Background()
	u := f.New()
	repo := uow.Use[widget, uint](u)

	require.NoError(t, u.BeginTransaction(ctx, sql.LevelDefault))
	repo.Add(&widget{Code: "DUP"})
	_, err := u.Complete(ctx, "")
	require.NoError(t, err)

	repo.Add(&widget{Code: "DUP"})
	_, err = u.CommitTransaction(ctx, "")
	require.Error(t, err)
	assert.False(t, u.InTransaction())
	assert.False(t, u.HasChanges())

	count, err := uow.Use[widget, uint](f.New()).IgnoreQueryFilters().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "rows flushed earlier in the transaction are rolled back")
}

func TestCommitTransaction_WithoutBegin(t *testing.T) {
	f, _ := setup(t)
	_, err := f.New().CommitTransaction(context.Background(), "")
	assert.ErrorIs(t, err, uow.ErrNoTransaction)
}

func TestFlushHooks_RunInOrder(t *testing.T) {
	db := testkit.OpenDB(t, &widget{})
	ctx := context.Background()

	var calls []string
	before := func(_ context.Context, fc *persistence.FlushContext) error {
		calls = append(calls, "before")
		return nil
	}
	after := func(_ context.Context, fc *persistence.FlushContext) error {
		calls = append(calls, "after")
		assert.EqualValues(t, 1, fc.Affected)
		return errors.New("ignored")
	}
	u := uow.New(db, uow.WithBeforeFlush(before), uow.WithAfterFlush(after))
	uow.Use[widget, uint](u).Add(&widget{Code: "X"})

	n, err := u.Complete(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, []string{"before", "after"}, calls)
}

func TestFlushHooks_BeforeErrorAbortsFlush(t *testing.T) {
	db := testkit.OpenDB(t, &widget{})
	ctx := context.Background()

	boom := errors.New("boom")
	u := uow.New(db, uow.WithBeforeFlush(func(context.Context, *persistence.FlushContext) error { return boom }))
	repo := uow.Use[widget, uint](u)
	repo.Add(&widget{Code: "X"})

	_, err := u.Complete(ctx, "")
	assert.ErrorIs(t, err, boom)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
