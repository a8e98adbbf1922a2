package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"schoolku_backend/internals/features/users/auth/service"
	"schoolku_backend/internals/scheduler"
)

const refreshCleanupTimeout = 2 * time.Minute

// RegisterRefreshTokenCleanup menjadwalkan pembersihan refresh token kadaluarsa.
func RegisterRefreshTokenCleanup(s *scheduler.Scheduler, spec string, svc *service.AuthService, logger zerolog.Logger) error {
	log := logger.With().Str("component", "refresh_cleanup").Logger()
	return s.Register("refresh-token-cleanup", spec, refreshCleanupTimeout, func(ctx context.Context) error {
		n, err := svc.CleanupExpiredRefreshTokens(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info().Int("cleared", n).Msg("[CLEANUP] refresh token kadaluarsa dihapus")
		}
		return nil
	})
}
