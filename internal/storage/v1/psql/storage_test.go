package psql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	storageErrors "acs-toolkit/internal/storage/errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBareStorage() *Storage {
	log := zerolog.Nop()
	return &Storage{log: &log}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestAwaitReturnsResult(t *testing.T) {
	s := newBareStorage()
	require.NoError(t, s.await(context.Background(), "op", "u1", func(prepareFunc) error { return nil }))

	notFound := &storageErrors.NotFoundError{ID: "u1"}
	err := s.await(context.Background(), "op", "u1", func(prepareFunc) error { return notFound })
	assert.Same(t, notFound, err)
}

func TestAwaitHonoursContext(t *testing.T) {
	s := newBareStorage()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	release := make(chan struct{})
	defer close(release)
	err := s.await(ctx, "op", "u1", func(prepareFunc) error {
		<-release
		return nil
	})

	var timeoutErr *storageErrors.ContextTimeoutExceededError
	require.ErrorAs(t, err, &timeoutErr)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAwaitWorkerOutlivesTimeout(t *testing.T) {
	s := newBareStorage()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	started := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan struct{})
	err := s.await(ctx, "op", "u1", func(prepareFunc) error {
		close(started)
		<-release
		close(finished)
		return nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// the worker still holds the storage lock until its statement work is over
	<-started
	assert.False(t, s.mu.TryLock())
	close(release)
	<-finished
	assert.Eventually(t, func() bool {
		if s.mu.TryLock() {
			s.mu.Unlock()
			return true
		}
		return false
	}, time.Second, time.Millisecond)
}
