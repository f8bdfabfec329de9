package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handler processes one task payload. Returning an error wrapped with
// Transient requests a retry with backoff; any other error is permanent.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Backoff schedule for transient retries: base doubles per attempt, capped.
const (
	backoffBase = 30 * time.Second
	backoffCap  = time.Hour
)

// popTimeout bounds how long an idle worker blocks before re-checking for
// shutdown.
const popTimeout = 2 * time.Second

// pumpInterval is how often due delayed tasks are moved back to ready.
const pumpInterval = time.Second

// Workers is the pool of goroutines draining the queue.
type Workers struct {
	queue    *Queue
	handlers map[string]Handler
	count    int
	logger   *zap.Logger

	mu sync.Mutex
	wg sync.WaitGroup
}

// NewWorkers builds a pool of count workers over the queue.
func NewWorkers(q *Queue, count int, logger *zap.Logger) *Workers {
	if count < 1 {
		count = 1
	}
	return &Workers{
		queue:    q,
		handlers: make(map[string]Handler),
		count:    count,
		logger:   logger.Named("workers"),
	}
}

// Register binds a handler to a task type. Registering a duplicate type is a
// wiring bug and panics at startup.
func (w *Workers) Register(taskType string, h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, dup := w.handlers[taskType]; dup {
		panic(fmt.Sprintf("queue: handler for %q registered twice", taskType))
	}
	w.handlers[taskType] = h
}

// Start launches the worker goroutines and the delayed-task pump. It returns
// immediately; workers drain until ctx is cancelled. Call Wait to block for
// their shutdown.
func (w *Workers) Start(ctx context.Context) {
	for i := 0; i < w.count; i++ {
		w.wg.Add(1)
		go func(worker int) {
			defer w.wg.Done()
			w.runWorker(ctx, worker)
		}(i)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.runPump(ctx)
	}()

	w.logger.Info("worker pool started", zap.Int("workers", w.count))
}

// Wait blocks until every worker goroutine has exited.
func (w *Workers) Wait() {
	w.wg.Wait()
}

func (w *Workers) runWorker(ctx context.Context, worker int) {
	for {
		if ctx.Err() != nil {
			return
		}
		task, err := w.queue.pop(ctx, popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("pop failed", zap.Int("worker", worker), zap.Error(err))
			time.Sleep(popTimeout)
			continue
		}
		if task == nil {
			continue
		}
		w.process(ctx, worker, *task)
	}
}

func (w *Workers) runPump(ctx context.Context) {
	ticker := time.NewTicker(pumpInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.queue.pumpDelayed(ctx); err != nil && ctx.Err() == nil {
				w.logger.Error("delayed pump failed", zap.Error(err))
			}
		}
	}
}

// process dispatches one task, classifying failures as transient (retry with
// backoff until the attempt budget runs out) or permanent (logged with full
// context, task dropped). A panicking handler counts as a permanent failure.
func (w *Workers) process(ctx context.Context, worker int, task Task) {
	w.mu.Lock()
	handler, ok := w.handlers[task.Type]
	w.mu.Unlock()
	if !ok {
		w.logger.Error("no handler for task type",
			zap.String("task_id", task.ID),
			zap.String("task_type", task.Type),
		)
		w.queue.release(ctx, task)
		return
	}

	err := w.invoke(ctx, handler, task)
	if err == nil {
		w.queue.release(ctx, task)
		return
	}

	task.Attempts++
	if IsTransient(err) && task.Attempts < task.MaxAttempts {
		delay := RetryDelay(task.Attempts)
		w.logger.Warn("task failed, retrying",
			zap.Int("worker", worker),
			zap.String("task_id", task.ID),
			zap.String("task_type", task.Type),
			zap.Int("attempt", task.Attempts),
			zap.Int("max_attempts", task.MaxAttempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if derr := w.queue.delay(ctx, task, w.queue.now().Add(delay)); derr != nil {
			w.logger.Error("scheduling retry failed", zap.String("task_id", task.ID), zap.Error(derr))
			w.queue.release(ctx, task)
		}
		// Dedupe key stays held across retries so concurrent triggers for
		// the same subject keep collapsing into this task.
		return
	}

	w.logger.Error("task failed permanently",
		zap.Int("worker", worker),
		zap.String("task_id", task.ID),
		zap.String("task_type", task.Type),
		zap.Int("attempts", task.Attempts),
		zap.String("payload", string(task.Payload)),
		zap.Error(err),
	)
	w.queue.release(ctx, task)
}

func (w *Workers) invoke(ctx context.Context, handler Handler, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(ctx, task.Payload)
}

// RetryDelay returns the backoff before the given attempt number (1-based):
// base × 2^(attempt−1), capped.
func RetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := backoffBase
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= backoffCap {
			return backoffCap
		}
	}
	return delay
}
