// Package uow binds repository changes into one flush and, optionally, one
// explicit database transaction.
package uow

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolku_backend/internals/persistence"
	"schoolku_backend/internals/persistence/audit"
)

var (
	// ErrTransactionActive is a programmer error: one transaction per unit of work.
	ErrTransactionActive = errors.New("uow: a transaction is already active")
	ErrNoTransaction     = errors.New("uow: no active transaction")
)

// FlushHook runs before or after the pending changes reach the store.
type FlushHook func(ctx context.Context, fc *persistence.FlushContext) error

type repoKey struct {
	entity reflect.Type
	id     reflect.Type
}

// UnitOfWork is request scoped and must not be shared between goroutines.
type UnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	pending []*persistence.Entry
	repos   map[repoKey]any
	before  []FlushHook
	after   []FlushHook
	now     func() time.Time
	log     zerolog.Logger
}

type Option func(*UnitOfWork)

func WithClock(now func() time.Time) Option {
	return func(u *UnitOfWork) { u.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(u *UnitOfWork) { u.log = l }
}

func WithBeforeFlush(hooks ...FlushHook) Option {
	return func(u *UnitOfWork) { u.before = append(u.before, hooks...) }
}

func WithAfterFlush(hooks ...FlushHook) Option {
	return func(u *UnitOfWork) { u.after = append(u.after, hooks...) }
}

// New builds a bare unit of work; only the given hooks run on flush.
// Application code goes through Factory, which always installs the audit hooks.
func New(db *gorm.DB, opts ...Option) *UnitOfWork {
	u := &UnitOfWork{
		db:    db,
		repos: map[repoKey]any{},
		now:   time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Factory creates units of work that share the audit interceptor.
type Factory struct {
	db   *gorm.DB
	opts []Option
}

func NewFactory(db *gorm.DB, logger zerolog.Logger, opts ...Option) *Factory {
	ic := audit.New(logger)
	base := []Option{
		WithLogger(logger.With().Str("component", "uow").Logger()),
		WithBeforeFlush(ic.BeforeFlush),
		WithAfterFlush(ic.AfterFlush),
	}
	return &Factory{db: db, opts: append(base, opts...)}
}

func (f *Factory) New() *UnitOfWork {
	return New(f.db, f.opts...)
}

// DB is the shared handle, for health checks and migrations.
func (f *Factory) DB() *gorm.DB {
	return f.db
}

func (u *UnitOfWork) conn(ctx context.Context) *gorm.DB {
	if u.tx != nil {
		return u.tx.WithContext(ctx)
	}
	return u.db.WithContext(ctx)
}

func (u *UnitOfWork) InTransaction() bool {
	return u.tx != nil
}

func (u *UnitOfWork) HasChanges() bool {
	return len(u.pending) > 0
}

// BeginTransaction opens the single transaction of this unit of work.
func (u *UnitOfWork) BeginTransaction(ctx context.Context, level sql.IsolationLevel) error {
	if u.tx != nil {
		return ErrTransactionActive
	}
	var opts *sql.TxOptions
	if level != sql.LevelDefault {
		opts = &sql.TxOptions{Isolation: level}
	}
	tx := u.db.WithContext(ctx).Begin(opts)
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

// Complete flushes every staged change and returns the affected row count.
// actor is stamped into the audit columns; "" means system.
func (u *UnitOfWork) Complete(ctx context.Context, actor string) (int64, error) {
	if len(u.pending) == 0 {
		return 0, nil
	}
	fc := &persistence.FlushContext{
		Entries: u.pending,
		Actor:   persistence.ActorOf(actor),
		Now:     u.now().UTC(),
	}
	for _, hook := range u.before {
		if err := hook(ctx, fc); err != nil {
			return 0, err
		}
	}

	var affected int64
	apply := func(tx *gorm.DB) error {
		affected = 0
		for _, e := range fc.Entries {
			n, err := applyEntry(tx, e)
			if err != nil {
				return err
			}
			affected += n
		}
		return nil
	}

	var err error
	if u.tx != nil {
		err = apply(u.tx.WithContext(ctx))
	} else {
		err = u.db.WithContext(ctx).Transaction(apply)
	}
	if err != nil {
		return 0, err
	}

	u.pending = nil
	fc.Affected = affected
	for _, hook := range u.after {
		if err := hook(ctx, fc); err != nil {
			u.log.Warn().Err(err).Msg("after-flush hook failed")
		}
	}
	return affected, nil
}

func applyEntry(tx *gorm.DB, e *persistence.Entry) (int64, error) {
	var res *gorm.DB
	switch e.State {
	case persistence.Added:
		res = tx.Omit(clause.Associations).Create(e.Entity)
	case persistence.Modified:
		res = tx.Model(e.Entity).
			Select("*").
			Omit(clause.Associations, "created_date", "created_by_id").
			Updates(e.Entity)
	case persistence.Deleted:
		res = tx.Delete(e.Entity)
	default:
		return 0, nil
	}
	return res.RowsAffected, res.Error
}

// CommitTransaction completes and commits. On any failure the transaction is
// rolled back and the original error returned. The handle is always released.
func (u *UnitOfWork) CommitTransaction(ctx context.Context, actor string) (int64, error) {
	if u.tx == nil {
		return 0, ErrNoTransaction
	}
	tx := u.tx
	defer func() { u.tx = nil }()

	n, err := u.Complete(ctx, actor)
	if err == nil {
		err = tx.Commit().Error
	}
	if err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			u.log.Error().Err(rbErr).Msg("rollback after failed commit")
		}
		u.pending = nil
		return 0, err
	}
	return n, nil
}

// RollbackTransaction is a no-op without an open transaction.
func (u *UnitOfWork) RollbackTransaction() error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	u.pending = nil
	if err := tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func (u *UnitOfWork) stage(entity any, state persistence.State) {
	for i, e := range u.pending {
		if e.Entity != entity {
			continue
		}
		switch {
		case e.State == persistence.Added && state == persistence.Deleted:
			u.pending = append(u.pending[:i], u.pending[i+1:]...)
			return
		case e.State == persistence.Added && state == persistence.Modified:
			return
		default:
			e.State = state
			return
		}
	}
	u.pending = append(u.pending, &persistence.Entry{Entity: entity, State: state})
}

// Use returns the memoized repository for T keyed by K.
func Use[T any, K comparable](u *UnitOfWork) *Repository[T, K] {
	key := repoKey{
		entity: reflect.TypeOf((*T)(nil)).Elem(),
		id:     reflect.TypeOf((*K)(nil)).Elem(),
	}
	if r, ok := u.repos[key]; ok {
		return r.(*Repository[T, K])
	}
	r := &Repository[T, K]{uow: u}
	u.repos[key] = r
	return r
}
