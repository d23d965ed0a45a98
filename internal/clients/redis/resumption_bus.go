package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/converse-backend/internal/domain"
	"github.com/yungbote/converse-backend/internal/platform/logger"
)

// ResumptionBus carries finished captures back to the script runtime over
// Redis pub/sub. The runtime subscribes to the shared channel and matches
// resolutions to its suspended turns by continuation id.
type ResumptionBus interface {
	Publish(ctx context.Context, res domain.CaptureResolution) error
	StartForwarder(ctx context.Context, onResolution func(r domain.CaptureResolution)) error
	Close() error
}

type resumptionBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewResumptionBus(log *logger.Logger) (ResumptionBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_RESUMPTION_CHANNEL"))
	if ch == "" {
		ch = "resumptions"
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

	return &resumptionBus{
		log:     log.With("service", "RedisResumptionBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *resumptionBus) Publish(ctx context.Context, res domain.CaptureResolution) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("resumption bus not initialized")
	}
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *resumptionBus) StartForwarder(ctx context.Context, onResolution func(r domain.CaptureResolution)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("resumption bus not initialized")
	}
	if onResolution == nil {
		return fmt.Errorf("onResolution callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var r domain.CaptureResolution
				if err := json.Unmarshal([]byte(m.Payload), &r); err != nil {
					b.log.Warn("bad resolution payload", "error", err)
					continue
				}
				onResolution(r)
			}
		}
	}()

	return nil
}

func (b *resumptionBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
