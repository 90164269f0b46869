package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/core"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "alerts.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func fullAlert(id string, at time.Time) *core.Alert {
	return &core.Alert{
		AlertID:         id,
		Timestamp:       at,
		Status:          core.AlertStatusPending,
		Summary:         "Source 10.0.0.5 touched 12 distinct destination ports",
		Severity:        core.SeverityHigh,
		Priority:        core.PriorityMedium,
		Confidence:      0.8,
		Detector:        "reconnaissance",
		Signals:         []string{"port_scan", "reconnaissance"},
		MitreTactics:    []string{"Reconnaissance"},
		MitreTechniques: []string{"T1046"},
		Reasoning:       []string{"Source 10.0.0.5 touched 12 distinct destination ports"},
		EventIDs:        []string{"ev-1", "ev-2"},
		RiskScore:       320,
		RiskObject:      "10.0.0.5",
		RiskObjectType:  core.RiskObjectTypeSystem,
		RiskMessage:     "Threat indicator port_scan observed on system 10.0.0.5",
		RuleID:          "reconnaissance@@1710500400000",
		RuleName:        "reconnaissance_Detection",
		StartTime:       at.Add(-time.Minute),
		Fingerprint:     "abc123",
		CreatedAt:       at,
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	alert := fullAlert("alert-1", now)
	require.NoError(t, store.InsertAlert(ctx, alert))

	got, err := store.GetAlertByID(ctx, "alert-1")
	require.NoError(t, err)

	assert.Equal(t, alert.Summary, got.Summary)
	assert.Equal(t, alert.Status, got.Status)
	assert.Equal(t, alert.Signals, got.Signals)
	assert.Equal(t, alert.MitreTechniques, got.MitreTechniques)
	assert.Equal(t, alert.EventIDs, got.EventIDs)
	assert.Equal(t, alert.RiskScore, got.RiskScore)
	assert.Equal(t, alert.RiskObjectType, got.RiskObjectType)
	assert.Equal(t, alert.RuleID, got.RuleID)
	assert.Equal(t, alert.Fingerprint, got.Fingerprint)
	assert.True(t, alert.Timestamp.Equal(got.Timestamp))
	assert.True(t, alert.StartTime.Equal(got.StartTime))
}

func TestSQLiteStoreEmptyListColumns(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	alert := fullAlert("alert-1", time.Now().UTC())
	alert.MitreTactics = nil
	alert.MitreTechniques = nil
	alert.EventIDs = nil
	require.NoError(t, store.InsertAlert(ctx, alert))

	got, err := store.GetAlertByID(ctx, "alert-1")
	require.NoError(t, err)
	assert.Empty(t, got.MitreTactics)
	assert.Empty(t, got.EventIDs)
}

func TestSQLiteStoreMissReturnsNotFound(t *testing.T) {
	store := newTestSQLiteStore(t)

	_, err := store.GetAlertByID(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrAlertNotFound)
}

func TestSQLiteStoreRejectsNil(t *testing.T) {
	store := newTestSQLiteStore(t)

	assert.ErrorIs(t, store.InsertAlert(context.Background(), nil), ErrNilAlert)
}

func TestSQLiteStoreRejectsDuplicateID(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	alert := fullAlert("alert-1", time.Now().UTC())

	require.NoError(t, store.InsertAlert(ctx, alert))
	assert.Error(t, store.InsertAlert(ctx, alert))
}

func TestSQLiteStoreListAndCount(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("alert-%d", i)
		require.NoError(t, store.InsertAlert(ctx, fullAlert(id, now.Add(time.Duration(i)*time.Minute))))
	}

	count, err := store.CountAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	alerts, err := store.ListAlerts(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 3)
	assert.Equal(t, "alert-4", alerts[0].AlertID)

	page, err := store.ListAlerts(ctx, 3, 3)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "alert-1", page[0].AlertID)
}
