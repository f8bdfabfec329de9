// Package queue implements the durable background work queue that decouples
// ranking computation from request latency. Tasks are JSON documents on
// Redis lists (one per priority), with a sorted set holding retries until
// their backoff elapses and SETNX-based dedupe keys collapsing concurrent
// triggers for the same subject into one unit of work.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Priority selects which ready list a task lands on. Workers drain High
// before Default.
type Priority string

const (
	PriorityHigh    Priority = "high"
	PriorityDefault Priority = "default"
)

// Redis key layout.
const (
	keyReadyHigh    = "match:queue:ready:high"
	keyReadyDefault = "match:queue:ready:default"
	keyDelayed      = "match:queue:delayed"
	keyDedupePrefix = "match:queue:dedupe:"
)

// dedupeTTL bounds how long a dedupe key can suppress re-enqueues if a task
// is lost before completion.
const dedupeTTL = time.Hour

// DefaultMaxAttempts caps retries for tasks enqueued without an explicit
// attempt budget.
const DefaultMaxAttempts = 3

// Task is one unit of background work.
type Task struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"maxAttempts"`
	DedupeKey   string          `json:"dedupeKey,omitempty"`
	Priority    Priority        `json:"priority"`
	EnqueuedAt  time.Time       `json:"enqueuedAt"`
}

// Options tune a single enqueue. The zero value means default priority,
// no dedupe, DefaultMaxAttempts.
type Options struct {
	DedupeKey   string
	Priority    Priority
	MaxAttempts int
}

// Enqueuer is the producer side of the queue, as seen by the orchestrator
// and the scheduler.
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload any, opts Options) error
}

// Queue is the Redis-backed implementation of both queue sides.
type Queue struct {
	rdb    *redis.Client
	logger *zap.Logger
	now    func() time.Time
}

// New wraps an already-connected Redis client.
func New(rdb *redis.Client, logger *zap.Logger) *Queue {
	return &Queue{
		rdb:    rdb,
		logger: logger.Named("queue"),
		now:    time.Now,
	}
}

// Enqueue pushes a task onto the ready list for its priority. When a dedupe
// key is set and a task holding it is already in flight, the enqueue is
// silently collapsed into the existing one.
func (q *Queue) Enqueue(ctx context.Context, taskType string, payload any, opts Options) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload for %s: %w", taskType, err)
	}

	if opts.DedupeKey != "" {
		acquired, err := q.rdb.SetNX(ctx, keyDedupePrefix+opts.DedupeKey, "1", dedupeTTL).Result()
		if err != nil {
			return fmt.Errorf("acquire dedupe key %s: %w", opts.DedupeKey, err)
		}
		if !acquired {
			q.logger.Debug("enqueue collapsed by dedupe key",
				zap.String("task_type", taskType),
				zap.String("dedupe_key", opts.DedupeKey),
			)
			return nil
		}
	}

	task := Task{
		ID:          uuid.NewString(),
		Type:        taskType,
		Payload:     raw,
		MaxAttempts: opts.MaxAttempts,
		DedupeKey:   opts.DedupeKey,
		Priority:    opts.Priority,
		EnqueuedAt:  q.now().UTC(),
	}
	if task.MaxAttempts <= 0 {
		task.MaxAttempts = DefaultMaxAttempts
	}
	if task.Priority == "" {
		task.Priority = PriorityDefault
	}

	if err := q.push(ctx, task); err != nil {
		return err
	}

	q.logger.Debug("task enqueued",
		zap.String("task_id", task.ID),
		zap.String("task_type", task.Type),
		zap.String("priority", string(task.Priority)),
	)
	return nil
}

func (q *Queue) push(ctx context.Context, task Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task %s: %w", task.ID, err)
	}
	key := keyReadyDefault
	if task.Priority == PriorityHigh {
		key = keyReadyHigh
	}
	if err := q.rdb.LPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("push task %s: %w", task.ID, err)
	}
	return nil
}

// pop blocks up to timeout waiting for a ready task, draining the
// high-priority list first.
func (q *Queue) pop(ctx context.Context, timeout time.Duration) (*Task, error) {
	res, err := q.rdb.BRPop(ctx, timeout, keyReadyHigh, keyReadyDefault).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pop task: %w", err)
	}
	// BRPOP returns [key, value].
	var task Task
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		return nil, fmt.Errorf("unmarshal task: %w", err)
	}
	return &task, nil
}

// delay schedules a retry: the task rejoins a ready list once readyAt passes.
func (q *Queue) delay(ctx context.Context, task Task, readyAt time.Time) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal task %s: %w", task.ID, err)
	}
	err = q.rdb.ZAdd(ctx, keyDelayed, redis.Z{
		Score:  float64(readyAt.Unix()),
		Member: data,
	}).Err()
	if err != nil {
		return fmt.Errorf("delay task %s: %w", task.ID, err)
	}
	return nil
}

// pumpDelayed moves tasks whose backoff has elapsed back onto their ready
// list. ZRem decides the winner if several pumps race on the same member.
func (q *Queue) pumpDelayed(ctx context.Context) error {
	members, err := q.rdb.ZRangeByScore(ctx, keyDelayed, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%d", q.now().Unix()),
		Count: 100,
	}).Result()
	if err != nil {
		return fmt.Errorf("scan delayed tasks: %w", err)
	}

	for _, member := range members {
		removed, err := q.rdb.ZRem(ctx, keyDelayed, member).Result()
		if err != nil {
			return fmt.Errorf("claim delayed task: %w", err)
		}
		if removed == 0 {
			continue // another pump claimed it
		}
		var task Task
		if err := json.Unmarshal([]byte(member), &task); err != nil {
			q.logger.Error("dropping undecodable delayed task", zap.Error(err))
			continue
		}
		if err := q.push(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

// release frees a task's dedupe key so the subject can be enqueued again.
func (q *Queue) release(ctx context.Context, task Task) {
	if task.DedupeKey == "" {
		return
	}
	if err := q.rdb.Del(ctx, keyDedupePrefix+task.DedupeKey).Err(); err != nil {
		q.logger.Warn("release dedupe key failed",
			zap.String("dedupe_key", task.DedupeKey),
			zap.Error(err),
		)
	}
}
