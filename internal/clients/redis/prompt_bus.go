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

// PromptBus carries outbound prompts toward the transport adapters over
// Redis pub/sub. Adapters subscribe to the shared channel and deliver each
// prompt on the session's messaging channel.
type PromptBus interface {
	Publish(ctx context.Context, prompt domain.OutboundPrompt) error
	StartForwarder(ctx context.Context, onPrompt func(p domain.OutboundPrompt)) error
	Close() error
}

type promptBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewPromptBus(log *logger.Logger) (PromptBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_PROMPT_CHANNEL"))
	if ch == "" {
		ch = "prompts"
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

	return &promptBus{
		log:     log.With("service", "RedisPromptBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *promptBus) Publish(ctx context.Context, prompt domain.OutboundPrompt) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("prompt bus not initialized")
	}
	raw, err := json.Marshal(prompt)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *promptBus) StartForwarder(ctx context.Context, onPrompt func(p domain.OutboundPrompt)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("prompt bus not initialized")
	}
	if onPrompt == nil {
		return fmt.Errorf("onPrompt callback required")
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
				var p domain.OutboundPrompt
				if err := json.Unmarshal([]byte(m.Payload), &p); err != nil {
					b.log.Warn("bad prompt payload", "error", err)
					continue
				}
				onPrompt(p)
			}
		}
	}()

	return nil
}

func (b *promptBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
