package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSuppressor(t *testing.T, ttl time.Duration) (*Suppressor, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewSuppressor(mr.Addr(), 0, ttl, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestSuppressorFirstClaimPasses(t *testing.T) {
	s, _ := newTestSuppressor(t, time.Hour)
	ctx := context.Background()

	assert.False(t, s.ShouldSuppress(ctx, "fp-1"))
	assert.True(t, s.ShouldSuppress(ctx, "fp-1"))
	assert.True(t, s.ShouldSuppress(ctx, "fp-1"))
}

func TestSuppressorDistinctFingerprintsIndependent(t *testing.T) {
	s, _ := newTestSuppressor(t, time.Hour)
	ctx := context.Background()

	assert.False(t, s.ShouldSuppress(ctx, "fp-1"))
	assert.False(t, s.ShouldSuppress(ctx, "fp-2"))
}

func TestSuppressorWindowExpires(t *testing.T) {
	s, mr := newTestSuppressor(t, time.Minute)
	ctx := context.Background()

	require.False(t, s.ShouldSuppress(ctx, "fp-1"))
	require.True(t, s.ShouldSuppress(ctx, "fp-1"))

	mr.FastForward(2 * time.Minute)

	assert.False(t, s.ShouldSuppress(ctx, "fp-1"))
}

func TestSuppressorReleaseReopensWindow(t *testing.T) {
	s, _ := newTestSuppressor(t, time.Hour)
	ctx := context.Background()

	require.False(t, s.ShouldSuppress(ctx, "fp-1"))
	s.Release(ctx, "fp-1")

	assert.False(t, s.ShouldSuppress(ctx, "fp-1"))
	assert.True(t, s.ShouldSuppress(ctx, "fp-1"))
}

func TestSuppressorEmptyFingerprintNeverSuppressed(t *testing.T) {
	s, _ := newTestSuppressor(t, time.Hour)

	assert.False(t, s.ShouldSuppress(context.Background(), ""))
	assert.False(t, s.ShouldSuppress(context.Background(), ""))
}

func TestSuppressorFailsOpenWhenRedisDown(t *testing.T) {
	s, mr := newTestSuppressor(t, time.Hour)
	mr.Close()

	// A broken window must not drop alerts
	assert.False(t, s.ShouldSuppress(context.Background(), "fp-1"))
}

func TestSuppressorRefusesUnreachableRedis(t *testing.T) {
	_, err := NewSuppressor("127.0.0.1:1", 0, time.Hour, nil)
	assert.Error(t, err)
}
