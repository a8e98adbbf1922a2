// Package scheduler runs the periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job satu kali eksekusi; ctx dibatasi timeout job.
type Job func(ctx context.Context) error

type Scheduler struct {
	c   *cron.Cron
	log zerolog.Logger
}

func New(logger zerolog.Logger) *Scheduler {
	l := logger.With().Str("component", "scheduler").Logger()
	cl := cronLogger{log: l}
	return &Scheduler{
		c:   cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		log: l,
	}
}

// Register menambah job bernama. Jadwal cron standar 5 field.
func (s *Scheduler) Register(name, spec string, timeout time.Duration, job Job) error {
	_, err := s.c.AddFunc(spec, func() {
		s.Run(name, timeout, job)
	})
	if err != nil {
		return errors.Wrapf(err, "add cron %s", name)
	}
	s.log.Info().Str("job", name).Str("schedule", spec).Msg("⏱ Job terdaftar")
	return nil
}

// Run mengeksekusi job sekali dengan timeout; error hanya dicatat.
func (s *Scheduler) Run(name string, timeout time.Duration, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		s.log.Error().Err(err).Str("job", name).Msg("❌ Job gagal")
		return
	}
	s.log.Info().Str("job", name).Dur("elapsed", time.Since(start)).Msg("✅ Job selesai")
}

func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop menunggu job yang sedang jalan sampai ctx habis.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("⚠️ Scheduler berhenti sebelum job selesai")
	}
}

func (s *Scheduler) Len() int {
	return len(s.c.Entries())
}

// cronLogger meneruskan log internal cron ke zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
