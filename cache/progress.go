package cache

import (
	"context"
	"time"

	"cmacbench/logger"

	"github.com/redis/go-redis/v9"
)

// progressChannel carries prep progress events from the CLI process to
// reporting server processes.
const progressChannel = "cmacbench:progress"

// PublishProgress publishes one JSON-encoded progress event. Errors
// are logged and swallowed; progress streaming is best-effort.
func PublishProgress(payload []byte) {
	if RedisClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := RedisClient.Publish(ctx, progressChannel, payload).Err(); err != nil {
		logger.Warn("Failed to publish progress event", logger.ErrorField(err))
	}
}

// SubscribeProgress subscribes to prep progress events. The returned
// channel closes when the context is cancelled.
func SubscribeProgress(ctx context.Context) (<-chan *redis.Message, error) {
	sub := RedisClient.Subscribe(ctx, progressChannel)
	// Receive confirms the subscription before we hand out the channel.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}
	ch := sub.Channel()
	go func() {
		<-ctx.Done()
		sub.Close()
	}()
	return ch, nil
}
