package usecase

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type TaskKind string

const (
	TaskSummary    TaskKind = "summary"
	TaskExperience TaskKind = "experience"
	TaskSkills     TaskKind = "skills"
)

type TaskStatus string

const (
	TaskInProgress TaskStatus = "in_progress"
	TaskSucceeded  TaskStatus = "succeeded"
	TaskFailed     TaskStatus = "failed"
)

// Task tracks one generation request. Every invocation gets its own task;
// concurrent requests for the same field are neither merged nor cancelled.
type Task struct {
	ID         string     `json:"id"`
	Kind       TaskKind   `json:"kind"`
	Target     string     `json:"target"`
	Status     TaskStatus `json:"status"`
	Error      string     `json:"error,omitempty"`
	Fallback   bool       `json:"fallback,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

const maxFinishedTasks = 200

type TaskRegistry struct {
	mu    sync.RWMutex
	tasks map[string]*Task
	now   func() time.Time
}

func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{tasks: map[string]*Task{}, now: time.Now}
}

func (r *TaskRegistry) Start(kind TaskKind, target string) Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()

	t := &Task{
		ID:        uuid.NewString(),
		Kind:      kind,
		Target:    target,
		Status:    TaskInProgress,
		CreatedAt: r.now().UTC(),
	}
	r.tasks[t.ID] = t
	return *t
}

// Finish marks the task done. A non-empty errMsg means it failed.
func (r *TaskRegistry) Finish(id, errMsg string, fallback bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return
	}
	now := r.now().UTC()
	t.FinishedAt = &now
	t.Fallback = fallback
	if errMsg != "" {
		t.Status = TaskFailed
		t.Error = errMsg
		return
	}
	t.Status = TaskSucceeded
}

func (r *TaskRegistry) Get(id string) (Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// pruneLocked drops the oldest finished tasks once too many have piled up.
// Tasks still in progress are never dropped.
func (r *TaskRegistry) pruneLocked() {
	var finished []*Task
	for _, t := range r.tasks {
		if t.Status != TaskInProgress {
			finished = append(finished, t)
		}
	}
	if len(finished) <= maxFinishedTasks {
		return
	}
	sort.Slice(finished, func(i, j int) bool { return finished[i].FinishedAt.Before(*finished[j].FinishedAt) })
	for _, t := range finished[:len(finished)-maxFinishedTasks] {
		delete(r.tasks, t.ID)
	}
}
