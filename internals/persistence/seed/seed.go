// Package seed runs bootstrap actions at most once per key, recording each
// successful run in the seed_histories table.
package seed

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"schoolku_backend/internals/persistence/uow"
)

// SeedHistory marks a seed key as already executed.
type SeedHistory struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SeedKey   string    `gorm:"column:seed_key;size:150;not null;uniqueIndex" json:"seed_key"`
	CreatedOn time.Time `gorm:"column:created_on;not null" json:"created_on"`
}

func (SeedHistory) TableName() string {
	return "seed_histories"
}

// Action populates data through the given unit of work. Every step must be a
// check-then-insert so a partially applied run can be retried.
type Action func(ctx context.Context, u *uow.UnitOfWork) error

type Guard struct {
	uows *uow.Factory
	log  zerolog.Logger
	now  func() time.Time
}

func NewGuard(uows *uow.Factory, logger zerolog.Logger) *Guard {
	return &Guard{
		uows: uows,
		log:  logger.With().Str("component", "seed").Logger(),
		now:  time.Now,
	}
}

// RunOnce executes action unless key is already recorded. It reports whether
// the action ran and was recorded. Failures are logged, never returned: a
// missing history row means the next start retries.
func (g *Guard) RunOnce(ctx context.Context, key string, action Action) bool {
	u := g.uows.New()
	history := uow.Use[SeedHistory, uint](u)

	done, err := history.Any(ctx, uow.Where("seed_key = ?", key))
	if err != nil {
		g.log.Error().Err(err).Str("seed", key).Msg("❌ Gagal cek riwayat seed")
		return false
	}
	if done {
		g.log.Info().Str("seed", key).Msg("⏭️ Seed sudah pernah dijalankan, dilewati")
		return false
	}

	if err := action(ctx, u); err != nil {
		g.log.Error().Err(err).Str("seed", key).Msg("❌ Seed gagal, akan diulang pada start berikutnya")
		return false
	}

	history.Add(&SeedHistory{SeedKey: key, CreatedOn: g.now().UTC()})
	if _, err := u.Complete(ctx, ""); err != nil {
		g.log.Error().Err(err).Str("seed", key).Msg("❌ Gagal menyimpan riwayat seed")
		return false
	}
	g.log.Info().Str("seed", key).Msg("✅ Seed selesai")
	return true
}

// Migrate creates the history table; it must exist before the first RunOnce.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&SeedHistory{})
}
