package uow

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolku_backend/internals/persistence"
)

// Predicate narrows a query. Any gorm scope fits.
type Predicate = func(*gorm.DB) *gorm.DB

// Where is the common single-condition predicate.
func Where(query any, args ...any) Predicate {
	return func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) }
}

// ForUpdate locks the selected rows until the transaction ends. Only postgres
// takes row locks; sqlite serializes writers on its own.
func ForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() != "postgres" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Repository reads through the unit of work's connection (its transaction
// when one is open) and stages writes until Complete.
type Repository[T any, K comparable] struct {
	uow      *UnitOfWork
	unscoped bool
}

func (r *Repository[T, K]) db(ctx context.Context) *gorm.DB {
	q := r.uow.conn(ctx).Model(new(T))
	if r.unscoped {
		q = q.Unscoped()
	}
	return q
}

// IgnoreQueryFilters returns a view that also sees inactive rows.
func (r *Repository[T, K]) IgnoreQueryFilters() *Repository[T, K] {
	cp := *r
	cp.unscoped = true
	return &cp
}

// Query exposes the filtered base query for joins, preloads and paging.
func (r *Repository[T, K]) Query(ctx context.Context) *gorm.DB {
	return r.db(ctx)
}

// GetByID returns nil, nil when no live row has the key.
func (r *Repository[T, K]) GetByID(ctx context.Context, id K) (*T, error) {
	return r.FirstWhere(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: clause.PrimaryColumn, Value: id})
	})
}

// FirstWhere returns nil, nil when nothing matches.
func (r *Repository[T, K]) FirstWhere(ctx context.Context, preds ...Predicate) (*T, error) {
	var out T
	err := r.db(ctx).Scopes(preds...).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repository[T, K]) Find(ctx context.Context, preds ...Predicate) ([]T, error) {
	var out []T
	if err := r.db(ctx).Scopes(preds...).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository[T, K]) Count(ctx context.Context, preds ...Predicate) (int64, error) {
	var n int64
	err := r.db(ctx).Scopes(preds...).Count(&n).Error
	return n, err
}

func (r *Repository[T, K]) Any(ctx context.Context, preds ...Predicate) (bool, error) {
	n, err := r.Count(ctx, preds...)
	return n > 0, err
}

func (r *Repository[T, K]) Add(e *T) {
	r.uow.stage(e, persistence.Added)
}

func (r *Repository[T, K]) AddRange(es ...*T) {
	for _, e := range es {
		r.Add(e)
	}
}

func (r *Repository[T, K]) Update(e *T) {
	r.uow.stage(e, persistence.Modified)
}

// Remove stages a delete; soft-deletable types become an IsActive flip on flush.
func (r *Repository[T, K]) Remove(e *T) {
	r.uow.stage(e, persistence.Deleted)
}

func (r *Repository[T, K]) RemoveRange(es ...*T) {
	for _, e := range es {
		r.Remove(e)
	}
}

type groupCount struct {
	RefID uint
	N     int64
}

// CountGrouped counts live rows per value of an integer foreign-key column.
func (r *Repository[T, K]) CountGrouped(ctx context.Context, column string, preds ...Predicate) (map[uint]int64, error) {
	var rows []groupCount
	err := r.db(ctx).Scopes(preds...).
		Select(column + " AS ref_id, COUNT(*) AS n").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.RefID] = row.N
	}
	return out, nil
}
