package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/scheduler"
)

func TestRegister_RejectsBadSpec(t *testing.T) {
	s := scheduler.New(zerolog.Nop())
	err := s.Register("broken", "not a schedule", time.Second, func(context.Context) error { return nil })
	assert.Error(t, err)
	assert.Zero(t, s.Len())
}

func TestRegister_Valid(t *testing.T) {
	s := scheduler.New(zerolog.Nop())
	require.NoError(t, s.Register("nightly", "15 2 * * *", time.Second, func(context.Context) error { return nil }))
	assert.Equal(t, 1, s.Len())
}

func TestRun_PassesDeadlineAndSwallowsErrors(t *testing.T) {
	s := scheduler.New(zerolog.Nop())
	called := false
	s.Run("x", time.Minute, func(ctx context.Context) error {
		called = true
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return errors.New("boom")
	})
	assert.True(t, called)
}
