package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"schoolku_backend/internals/features/notifications/notifications/service"
	"schoolku_backend/internals/scheduler"
)

const purgeTimeout = 5 * time.Minute

// RegisterReadPurge menjadwalkan penghapusan notifikasi terbaca yang lebih tua dari retention.
func RegisterReadPurge(s *scheduler.Scheduler, spec string, retention time.Duration, svc *service.NotificationService, logger zerolog.Logger) error {
	log := logger.With().Str("component", "notification_purge").Logger()
	return s.Register("notification-purge", spec, purgeTimeout, func(ctx context.Context) error {
		n, err := svc.PurgeRead(ctx, retention)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info().Int("purged", n).Dur("retention", retention).Msg("[CLEANUP] notifikasi lama dihapus")
		}
		return nil
	})
}
