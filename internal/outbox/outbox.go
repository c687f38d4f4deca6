package outbox

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Glenne01/sneakers-sub000/internal/config"
	"github.com/Glenne01/sneakers-sub000/internal/integrations/mailer"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const retryBatchSize = 20

// Sender delivers one order confirmation.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, msg mailer.OrderConfirmation) error
}

type task struct {
	Message  mailer.OrderConfirmation `json:"message"`
	Attempts int                      `json:"attempts"`
}

// NotificationOutbox is a Redis-backed retry queue for order confirmations
// that failed to deliver during fulfillment. Fulfillment itself never blocks
// on it: failed sends are parked here and retried in the background until the
// attempt budget runs out.
type NotificationOutbox struct {
	client      *redis.Client
	sender      Sender
	log         *zap.Logger
	key         string
	maxAttempts int
	ticker      *time.Ticker
	stop        chan struct{}
	stopOnce    sync.Once
}

func NewNotificationOutbox(cfg config.RedisConfig, sender Sender, log *zap.Logger) (*NotificationOutbox, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	o := &NotificationOutbox{
		client:      client,
		sender:      sender,
		log:         log,
		key:         "sneakers:notifications:pending",
		maxAttempts: cfg.MaxAttempts,
		ticker:      time.NewTicker(cfg.RetryInterval),
		stop:        make(chan struct{}),
	}

	go o.retryLoop()

	return o, nil
}

// Enqueue parks a failed confirmation for background retry.
func (o *NotificationOutbox) Enqueue(ctx context.Context, msg mailer.OrderConfirmation) error {
	data, err := json.Marshal(task{Message: msg, Attempts: 1})
	if err != nil {
		return err
	}

	return o.client.RPush(ctx, o.key, data).Err()
}

// Pending returns the number of queued confirmations.
func (o *NotificationOutbox) Pending(ctx context.Context) (int64, error) {
	return o.client.LLen(ctx, o.key).Result()
}

func (o *NotificationOutbox) retryLoop() {
	for {
		select {
		case <-o.ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			o.drainBatch(ctx)
			cancel()
		case <-o.stop:
			return
		}
	}
}

func (o *NotificationOutbox) drainBatch(ctx context.Context) {
	for i := 0; i < retryBatchSize; i++ {
		data, err := o.client.LPop(ctx, o.key).Bytes()
		if err == redis.Nil {
			return
		}
		if err != nil {
			o.log.Warn("notification outbox read failed", zap.Error(err))
			return
		}

		var t task
		if err := json.Unmarshal(data, &t); err != nil {
			o.log.Warn("dropping malformed outbox entry", zap.Error(err))
			continue
		}

		sendErr := o.sender.SendOrderConfirmation(ctx, t.Message)
		if sendErr == nil {
			o.log.Info("order confirmation delivered on retry",
				zap.String("order_number", t.Message.OrderNumber),
				zap.Int("attempts", t.Attempts+1))
			continue
		}

		t.Attempts++
		if t.Attempts >= o.maxAttempts {
			o.log.Error("order confirmation dropped after retry budget",
				zap.String("order_number", t.Message.OrderNumber),
				zap.Int("attempts", t.Attempts),
				zap.Error(sendErr))
			continue
		}

		requeued, err := json.Marshal(t)
		if err != nil {
			o.log.Warn("failed to requeue outbox entry", zap.Error(err))
			continue
		}
		if err := o.client.RPush(ctx, o.key, requeued).Err(); err != nil {
			o.log.Warn("failed to requeue outbox entry", zap.Error(err))
		}
	}
}

// Close stops the retry loop and releases the Redis connection.
func (o *NotificationOutbox) Close() error {
	o.stopOnce.Do(func() {
		o.ticker.Stop()
		close(o.stop)
	})
	return o.client.Close()
}
