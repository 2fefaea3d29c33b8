package service

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewave/influenceengine/internal/models"
)

func TestRunCachesResultByID(t *testing.T) {
	svc := NewQueryService(2, time.Second, time.Minute, zerolog.Nop())

	val, err := svc.Run(func() (interface{}, error) {
		return &models.MaximizeResult{ResultID: "r1"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "r1", val.(*models.MaximizeResult).ResultID)

	cached, ok := svc.Result("r1")
	require.True(t, ok)
	assert.Same(t, val, cached)
}

func TestRunCachesBothMinimizeIDs(t *testing.T) {
	svc := NewQueryService(1, time.Second, time.Minute, zerolog.Nop())

	_, err := svc.Run(func() (interface{}, error) {
		return &models.MinimizeResult{OriginalResultID: "orig", BlockedResultID: "blocked"}, nil
	})
	require.NoError(t, err)

	_, ok := svc.Result("orig")
	assert.True(t, ok)
	_, ok = svc.Result("blocked")
	assert.True(t, ok)
}

func TestRunPropagatesError(t *testing.T) {
	svc := NewQueryService(1, time.Second, time.Minute, zerolog.Nop())
	sentinel := errors.New("boom")

	val, err := svc.Run(func() (interface{}, error) {
		return nil, sentinel
	})
	assert.Nil(t, val)
	assert.ErrorIs(t, err, sentinel)
}

func TestRunTimesOut(t *testing.T) {
	svc := NewQueryService(1, 10*time.Millisecond, time.Minute, zerolog.Nop())

	done := make(chan struct{})
	_, err := svc.Run(func() (interface{}, error) {
		<-done
		return &models.MaximizeResult{ResultID: "late"}, nil
	})
	close(done)

	var timeoutErr *ErrTimeout
	assert.ErrorAs(t, err, &timeoutErr)
}

func TestResultMissing(t *testing.T) {
	svc := NewQueryService(1, time.Second, time.Minute, zerolog.Nop())
	_, ok := svc.Result("nope")
	assert.False(t, ok)
}
