package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TaskQueue = (*MockTaskQueue)(nil)

// MockTaskQueue is a mock implementation of TaskQueue for testing.
// Enqueued tasks are recorded in order; Dequeue serves them FIFO.
type MockTaskQueue struct {
	mu       sync.Mutex
	tasks    []*domain.Task
	cursor   int
	failNext error
}

// NewMockTaskQueue creates a new MockTaskQueue
func NewMockTaskQueue() *MockTaskQueue {
	return &MockTaskQueue{}
}

func (m *MockTaskQueue) Enqueue(ctx context.Context, task *domain.Task) error {
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *MockTaskQueue) EnqueueBatch(ctx context.Context, tasks []*domain.Task) error {
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, tasks...)
	return nil
}

func (m *MockTaskQueue) Dequeue(ctx context.Context) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor >= len(m.tasks) {
		return nil, nil
	}
	task := m.tasks[m.cursor]
	m.cursor++
	task.MarkProcessing()
	return task, nil
}

func (m *MockTaskQueue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error) {
	return m.Dequeue(ctx)
}

func (m *MockTaskQueue) Ack(ctx context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, task := range m.tasks {
		if task.ID == taskID {
			task.MarkCompleted()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockTaskQueue) Nack(ctx context.Context, taskID string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, task := range m.tasks {
		if task.ID == taskID {
			if task.CanRetry() {
				task.Retry(reason)
			} else {
				task.MarkFailed(reason)
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *MockTaskQueue) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, task := range m.tasks {
		if task.ID == taskID {
			return task, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockTaskQueue) ListTasks(ctx context.Context, filter driven.TaskFilter) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Task
	for _, task := range m.tasks {
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Type != "" && task.Type != filter.Type {
			continue
		}
		result = append(result, task)
	}
	return result, nil
}

func (m *MockTaskQueue) CancelTask(ctx context.Context, taskID string) error {
	return nil
}

func (m *MockTaskQueue) PurgeTasks(ctx context.Context, olderThan int) (int, error) {
	return 0, nil
}

func (m *MockTaskQueue) Stats(ctx context.Context) (*driven.QueueStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &driven.QueueStats{}
	for _, task := range m.tasks {
		switch task.Status {
		case domain.TaskStatusPending:
			stats.PendingCount++
		case domain.TaskStatusProcessing:
			stats.ProcessingCount++
		case domain.TaskStatusCompleted:
			stats.CompletedCount++
		case domain.TaskStatusFailed:
			stats.FailedCount++
		}
	}
	return stats, nil
}

func (m *MockTaskQueue) Ping(ctx context.Context) error {
	return nil
}

func (m *MockTaskQueue) Close() error {
	return nil
}

// Helper methods for testing

// Enqueued returns all tasks ever enqueued, in order
func (m *MockTaskQueue) Enqueued() []*domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Task, len(m.tasks))
	copy(result, m.tasks)
	return result
}

// EnqueuedOfType returns enqueued tasks of one type, in order
func (m *MockTaskQueue) EnqueuedOfType(taskType domain.TaskType) []*domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Task
	for _, task := range m.tasks {
		if task.Type == taskType {
			result = append(result, task)
		}
	}
	return result
}

func (m *MockTaskQueue) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = nil
	m.cursor = 0
}

// SetFailNext makes the next enqueue call return the given error
func (m *MockTaskQueue) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockTaskQueue) takeFailure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.failNext
	m.failNext = nil
	return err
}
