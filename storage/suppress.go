package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Suppressor implements the alert suppression window over Redis: the
// first alert with a given fingerprint inside the TTL goes through,
// structurally identical repeats are dropped. SET NX gives the
// check-and-claim in one round trip, so concurrent engine runs cannot
// both claim the same fingerprint.
type Suppressor struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewSuppressor connects the suppression window to Redis at addr
func NewSuppressor(addr string, db int, ttl time.Duration, logger *zap.SugaredLogger) (*Suppressor, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	logger.Infof("Alert suppression window ready (redis %s, ttl %v)", addr, ttl)
	return &Suppressor{client: client, ttl: ttl, logger: logger}, nil
}

// ShouldSuppress claims the fingerprint and reports whether an alert with
// it was already persisted inside the window. Redis errors fail open:
// a broken suppression window must not drop real alerts.
func (s *Suppressor) ShouldSuppress(ctx context.Context, fingerprint string) bool {
	if fingerprint == "" {
		return false
	}
	claimed, err := s.client.SetNX(ctx, suppressionKey(fingerprint), 1, s.ttl).Result()
	if err != nil {
		s.logger.Warnf("Suppression check failed for %s: %v", fingerprint, err)
		return false
	}
	return !claimed
}

// Release drops the fingerprint's claim so the next alert carrying it
// passes the window again. Errors are logged only: a failed release at
// worst suppresses until the TTL expires.
func (s *Suppressor) Release(ctx context.Context, fingerprint string) {
	if fingerprint == "" {
		return
	}
	if err := s.client.Del(ctx, suppressionKey(fingerprint)).Err(); err != nil {
		s.logger.Warnf("Failed to release suppression claim for %s: %v", fingerprint, err)
	}
}

// Close releases the Redis connection
func (s *Suppressor) Close() error {
	return s.client.Close()
}

func suppressionKey(fingerprint string) string {
	return "argus:suppress:" + fingerprint
}
