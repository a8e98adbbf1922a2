package uow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"schoolku_backend/internals/persistence"
	"schoolku_backend/internals/persistence/uow"
	"schoolku_backend/internals/testkit"
)

type shelf struct {
	persistence.BaseEntity
	Name  string
	Books []book `gorm:"foreignKey:ShelfID"`
}

func (shelf) SoftDelete() bool { return true }

type book struct {
	persistence.BaseEntity
	ShelfID uint
	Title   string
	Shelf   *shelf `gorm:"foreignKey:ShelfID"`
}

func (book) SoftDelete() bool { return true }

func shelfWithBooks(t *testing.T) (*uow.Factory, *shelf, *book, *book) {
	t.Helper()
	f := testkit.Factory(testkit.OpenDB(t, &shelf{}, &book{}))
	ctx := context.Background()

	u := f.New()
	s := &shelf{Name: "Sains"}
	uow.Use[shelf, uint](u).Add(s)
	_, err := u.Complete(ctx, "")
	require.NoError(t, err)

	live, dead := &book{ShelfID: s.ID, Title: "live"}, &book{ShelfID: s.ID, Title: "dead"}
	books := uow.Use[book, uint](u)
	books.AddRange(live, dead)
	_, err = u.Complete(ctx, "")
	require.NoError(t, err)

	books.Remove(dead)
	_, err = u.Complete(ctx, "")
	require.NoError(t, err)
	return f, s, live, dead
}

func TestActiveFilter_HidesRemovedChildrenInPreload(t *testing.T) {
	f, s, live, _ := shelfWithBooks(t)
	ctx := context.Background()

	n, err := uow.Use[book, uint](f.New()).Count(ctx, uow.Where("shelf_id = ?", s.ID))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := uow.Use[shelf, uint](f.New()).FirstWhere(ctx,
		func(db *gorm.DB) *gorm.DB { return db.Preload("Books") },
		uow.Where("id = ?", s.ID))
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Books, 1)
	assert.Equal(t, live.ID, got.Books[0].ID)
	assert.True(t, got.Books[0].IsActive)

	all, err := uow.Use[shelf, uint](f.New()).IgnoreQueryFilters().FirstWhere(ctx,
		func(db *gorm.DB) *gorm.DB { return db.Preload("Books") },
		uow.Where("id = ?", s.ID))
	require.NoError(t, err)
	assert.Len(t, all.Books, 2)
}

func TestActiveFilter_HidesRemovedParentInPreload(t *testing.T) {
	f, s, live, _ := shelfWithBooks(t)
	ctx := context.Background()

	u := f.New()
	parent, err := uow.Use[shelf, uint](u).GetByID(ctx, s.ID)
	require.NoError(t, err)
	uow.Use[shelf, uint](u).Remove(parent)
	_, err = u.Complete(ctx, "")
	require.NoError(t, err)

	got, err := uow.Use[book, uint](f.New()).FirstWhere(ctx,
		func(db *gorm.DB) *gorm.DB { return db.Preload("Shelf") },
		uow.Where("id = ?", live.ID))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Shelf)
}

func TestActiveFilter_CountThenFindOnOneQuery(t *testing.T) {
	f, s, _, _ := shelfWithBooks(t)

	q := uow.Use[book, uint](f.New()).Query(context.Background()).Where("shelf_id = ?", s.ID)
	var total int64
	require.NoError(t, q.Count(&total).Error)
	var rows []book
	require.NoError(t, q.Find(&rows).Error)

	assert.EqualValues(t, 1, total)
	assert.Len(t, rows, 1)
}

func TestForUpdate_OnlyLocksOnPostgres(t *testing.T) {
	pg, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=x dbname=x sslmode=disable"}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	sql := pg.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var s shelf
		return tx.Scopes(uow.ForUpdate).Where("id = ?", 1).Take(&s)
	})
	assert.Contains(t, sql, "FOR UPDATE")

	lite, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{DryRun: true})
	require.NoError(t, err)
	sql = lite.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var s shelf
		return tx.Scopes(uow.ForUpdate).Where("id = ?", 1).Take(&s)
	})
	assert.NotContains(t, sql, "FOR UPDATE")
}
