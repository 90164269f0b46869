package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"argus/core"
)

// SQLiteStore is the file-backed alert store. WAL mode gives concurrent
// readers against the single writer the engine's persist path needs.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *zap.SugaredLogger
}

const alertSchema = `
CREATE TABLE IF NOT EXISTS alerts (
	alert_id         TEXT PRIMARY KEY,
	timestamp        TIMESTAMP NOT NULL,
	status           TEXT NOT NULL,
	summary          TEXT NOT NULL,
	severity         TEXT NOT NULL,
	priority         TEXT NOT NULL,
	confidence       REAL NOT NULL,
	detector         TEXT NOT NULL,
	signals          TEXT NOT NULL,
	mitre_tactics    TEXT NOT NULL,
	mitre_techniques TEXT NOT NULL,
	reasoning        TEXT NOT NULL,
	event_ids        TEXT NOT NULL,
	risk_score       REAL NOT NULL,
	risk_object      TEXT NOT NULL,
	risk_object_type TEXT NOT NULL,
	risk_message     TEXT NOT NULL,
	rule_id          TEXT NOT NULL,
	rule_name        TEXT NOT NULL,
	start_time       TIMESTAMP NOT NULL,
	fingerprint      TEXT NOT NULL,
	created_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_alerts_timestamp ON alerts(timestamp);
CREATE INDEX IF NOT EXISTS idx_alerts_severity ON alerts(severity);
CREATE INDEX IF NOT EXISTS idx_alerts_fingerprint ON alerts(fingerprint);
`

// NewSQLiteStore opens (creating if needed) the alert database at path
// and applies the schema.
func NewSQLiteStore(path string, logger *zap.SugaredLogger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	// WAL must be set via PRAGMA; connection-string parameters are not
	// reliable across drivers.
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if _, err := db.Exec(alertSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply alert schema: %w", err)
	}

	logger.Infof("SQLite alert store ready at %s", path)
	return &SQLiteStore{db: db, path: path, logger: logger}, nil
}

// InsertAlert implements AlertStore
func (s *SQLiteStore) InsertAlert(ctx context.Context, alert *core.Alert) error {
	if alert == nil {
		return ErrNilAlert
	}

	signals, err := marshalList(alert.Signals)
	if err != nil {
		return err
	}
	tactics, err := marshalList(alert.MitreTactics)
	if err != nil {
		return err
	}
	techniques, err := marshalList(alert.MitreTechniques)
	if err != nil {
		return err
	}
	reasoning, err := marshalList(alert.Reasoning)
	if err != nil {
		return err
	}
	eventIDs, err := marshalList(alert.EventIDs)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO alerts (
			alert_id, timestamp, status, summary, severity, priority,
			confidence, detector, signals, mitre_tactics, mitre_techniques,
			reasoning, event_ids, risk_score, risk_object, risk_object_type,
			risk_message, rule_id, rule_name, start_time, fingerprint, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		alert.AlertID, alert.Timestamp.UTC(), string(alert.Status), alert.Summary,
		alert.Severity, alert.Priority, alert.Confidence, alert.Detector,
		signals, tactics, techniques, reasoning, eventIDs,
		alert.RiskScore, alert.RiskObject, string(alert.RiskObjectType),
		alert.RiskMessage, alert.RuleID, alert.RuleName, alert.StartTime.UTC(),
		alert.Fingerprint, alert.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert %s: %w", alert.AlertID, err)
	}
	return nil
}

// GetAlertByID implements AlertStore
func (s *SQLiteStore) GetAlertByID(ctx context.Context, alertID string) (*core.Alert, error) {
	row := s.db.QueryRowContext(ctx, selectAlertColumns+` FROM alerts WHERE alert_id = ?`, alertID)
	alert, err := scanAlert(row)
	if err == sql.ErrNoRows {
		return nil, ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load alert %s: %w", alertID, err)
	}
	return alert, nil
}

// ListAlerts implements AlertStore, newest first
func (s *SQLiteStore) ListAlerts(ctx context.Context, limit, offset int) ([]*core.Alert, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		selectAlertColumns+` FROM alerts ORDER BY timestamp DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*core.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert row: %w", err)
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

// CountAlerts implements AlertStore
func (s *SQLiteStore) CountAlerts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alerts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return count, nil
}

// Close implements AlertStore
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const selectAlertColumns = `SELECT
	alert_id, timestamp, status, summary, severity, priority,
	confidence, detector, signals, mitre_tactics, mitre_techniques,
	reasoning, event_ids, risk_score, risk_object, risk_object_type,
	risk_message, rule_id, rule_name, start_time, fingerprint, created_at`

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (*core.Alert, error) {
	var alert core.Alert
	var status, objectType string
	var signals, tactics, techniques, reasoning, eventIDs string
	var timestamp, startTime, createdAt time.Time

	err := row.Scan(
		&alert.AlertID, &timestamp, &status, &alert.Summary, &alert.Severity,
		&alert.Priority, &alert.Confidence, &alert.Detector, &signals,
		&tactics, &techniques, &reasoning, &eventIDs, &alert.RiskScore,
		&alert.RiskObject, &objectType, &alert.RiskMessage, &alert.RuleID,
		&alert.RuleName, &startTime, &alert.Fingerprint, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	alert.Timestamp = timestamp
	alert.StartTime = startTime
	alert.CreatedAt = createdAt
	alert.Status = core.AlertStatus(status)
	alert.RiskObjectType = core.RiskObjectType(objectType)

	for _, pair := range []struct {
		raw  string
		dest *[]string
	}{
		{signals, &alert.Signals},
		{tactics, &alert.MitreTactics},
		{techniques, &alert.MitreTechniques},
		{reasoning, &alert.Reasoning},
		{eventIDs, &alert.EventIDs},
	} {
		if err := unmarshalList(pair.raw, pair.dest); err != nil {
			return nil, err
		}
	}
	return &alert, nil
}

// List columns are stored as JSON text
func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to serialize list column: %w", err)
	}
	return string(data), nil
}

func unmarshalList(raw string, dest *[]string) error {
	if raw == "" {
		*dest = nil
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("failed to parse list column: %w", err)
	}
	if len(*dest) == 0 {
		*dest = nil
	}
	return nil
}
