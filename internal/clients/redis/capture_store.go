package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/envutil"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

// CaptureStore keeps the per-session pending capture in Redis, keyed
// capture:{session_id}, with a TTL so abandoned conversations expire on
// their own. DEL's return value makes consume-vs-cancel races atomic.
type CaptureStore struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewCaptureStore(log *logger.Logger) (*CaptureStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &CaptureStore{
		log: log.With("service", "RedisCaptureStore"),
		rdb: rdb,
		ttl: envutil.Duration("CAPTURE_TTL", time.Hour),
	}, nil
}

func captureKey(sessionID uuid.UUID) string {
	return "capture:" + sessionID.String()
}

func (s *CaptureStore) Get(ctx context.Context, sessionID uuid.UUID) (*domain.PendingCapture, error) {
	raw, err := s.rdb.Get(ctx, captureKey(sessionID)).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get pending capture: %w", err)
	}
	var pc domain.PendingCapture
	if err := json.Unmarshal(raw, &pc); err != nil {
		return nil, fmt.Errorf("decode pending capture: %w", err)
	}
	return &pc, nil
}

func (s *CaptureStore) Put(ctx context.Context, pc *domain.PendingCapture) error {
	raw, err := json.Marshal(pc)
	if err != nil {
		return fmt.Errorf("encode pending capture: %w", err)
	}
	if err := s.rdb.Set(ctx, captureKey(pc.SessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set pending capture: %w", err)
	}
	return nil
}

// replaceScript rewrites the pending capture only while the stored record
// still carries the expected continuation id, so a concurrent cancel's DEL
// wins over a stale writer.
var replaceScript = goredis.NewScript(`
local cur = redis.call("GET", KEYS[1])
if not cur then
  return 0
end
if cjson.decode(cur)["continuation_id"] ~= ARGV[1] then
  return 0
end
redis.call("SET", KEYS[1], ARGV[2], "EX", ARGV[3])
return 1
`)

func (s *CaptureStore) Replace(ctx context.Context, pc *domain.PendingCapture) (bool, error) {
	raw, err := json.Marshal(pc)
	if err != nil {
		return false, fmt.Errorf("encode pending capture: %w", err)
	}
	n, err := replaceScript.Run(ctx, s.rdb,
		[]string{captureKey(pc.SessionID)},
		pc.ContinuationID.String(), raw, int(s.ttl.Seconds())).Int()
	if err != nil {
		return false, fmt.Errorf("redis replace pending capture: %w", err)
	}
	return n > 0, nil
}

func (s *CaptureStore) Delete(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	n, err := s.rdb.Del(ctx, captureKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis del pending capture: %w", err)
	}
	return n > 0, nil
}

func (s *CaptureStore) Close() error {
	return s.rdb.Close()
}
