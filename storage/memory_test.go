package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/core"
)

func testAlert(id string, at time.Time) *core.Alert {
	return &core.Alert{
		AlertID:   id,
		Timestamp: at,
		Status:    core.AlertStatusPending,
		Summary:   "test alert " + id,
		Severity:  core.SeverityHigh,
		Priority:  core.PriorityMedium,
		Detector:  "reconnaissance",
		Signals:   []string{"port_scan"},
		Reasoning: []string{"test alert " + id},
		RiskScore: 560,
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	alert := testAlert("alert-1", time.Now().UTC())
	require.NoError(t, store.InsertAlert(ctx, alert))

	got, err := store.GetAlertByID(ctx, "alert-1")
	require.NoError(t, err)
	assert.Equal(t, alert.Summary, got.Summary)
	assert.Equal(t, alert.RiskScore, got.RiskScore)

	count, err := store.CountAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryStoreMissReturnsNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetAlertByID(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func TestMemoryStoreRejectsNil(t *testing.T) {
	store := NewMemoryStore()

	assert.ErrorIs(t, store.InsertAlert(context.Background(), nil), ErrNilAlert)
}

func TestMemoryStoreListNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("alert-%d", i)
		require.NoError(t, store.InsertAlert(ctx, testAlert(id, now.Add(time.Duration(i)*time.Minute))))
	}

	alerts, err := store.ListAlerts(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 5)
	assert.Equal(t, "alert-4", alerts[0].AlertID)
	assert.Equal(t, "alert-0", alerts[4].AlertID)
}

func TestMemoryStoreListPaging(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("alert-%d", i)
		require.NoError(t, store.InsertAlert(ctx, testAlert(id, now.Add(time.Duration(i)*time.Minute))))
	}

	page, err := store.ListAlerts(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "alert-3", page[0].AlertID)
	assert.Equal(t, "alert-2", page[1].AlertID)

	empty, err := store.ListAlerts(ctx, 10, 100)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.InsertAlert(ctx, testAlert("alert-1", time.Now().UTC())))

	got, err := store.GetAlertByID(ctx, "alert-1")
	require.NoError(t, err)
	got.Summary = "mutated"

	again, err := store.GetAlertByID(ctx, "alert-1")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Summary)
}
