package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Enqueuer for tests: tasks accumulate in order
// instead of going to Redis, with the same dedupe collapsing semantics as
// the real queue.
type Memory struct {
	mu     sync.Mutex
	tasks  []Task
	dedupe map[string]struct{}
}

// NewMemoryEnqueuer returns an empty in-memory enqueuer.
func NewMemoryEnqueuer() *Memory {
	return &Memory{dedupe: make(map[string]struct{})}
}

// Enqueue records the task, collapsing duplicates by dedupe key.
func (m *Memory) Enqueue(_ context.Context, taskType string, payload any, opts Options) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload for %s: %w", taskType, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if opts.DedupeKey != "" {
		if _, held := m.dedupe[opts.DedupeKey]; held {
			return nil
		}
		m.dedupe[opts.DedupeKey] = struct{}{}
	}

	task := Task{
		ID:          uuid.NewString(),
		Type:        taskType,
		Payload:     raw,
		MaxAttempts: opts.MaxAttempts,
		DedupeKey:   opts.DedupeKey,
		Priority:    opts.Priority,
		EnqueuedAt:  time.Now().UTC(),
	}
	if task.MaxAttempts <= 0 {
		task.MaxAttempts = DefaultMaxAttempts
	}
	if task.Priority == "" {
		task.Priority = PriorityDefault
	}
	m.tasks = append(m.tasks, task)
	return nil
}

// Tasks returns a copy of everything enqueued so far, in order.
func (m *Memory) Tasks() []Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// Release frees a dedupe key so its subject can be enqueued again.
func (m *Memory) Release(dedupeKey string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.dedupe, dedupeKey)
}
