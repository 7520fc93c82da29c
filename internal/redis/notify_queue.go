package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/pkg/e"

	"github.com/redis/go-redis/v9"
)

// NotifyQueue is the buffer between lifecycle transitions and SMS fanout.
// Producers LPUSH from the request path; the dispatcher BRPOPs on its own
// goroutine.
type NotifyQueue struct {
	client *redis.Client
	key    string
}

func NewNotifyQueue(client *redis.Client, key string) *NotifyQueue {
	return &NotifyQueue{client: client, key: key}
}

func (q *NotifyQueue) Enqueue(ctx context.Context, job domain.NotificationJob) error {
	b, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, b).Err()
}

func (q *NotifyQueue) Dequeue(ctx context.Context, timeout time.Duration) (domain.NotificationJob, error) {
	var job domain.NotificationJob

	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return job, e.ErrQueueEmpty
		}
		return job, err
	}
	if len(res) < 2 {
		return job, redis.Nil
	}
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return job, err
	}
	return job, nil
}
