package events

import (
	"time"
)

// Event is the base interface for all events.
type Event interface {
	EventType() string
	Topic() string
	TaskID() string
}

// Topic constants
const (
	TopicTask     = "task"
	TopicSchedule = "schedule"
)

// Event type constants
const (
	EventTypeTaskStarted      = "task.started"
	EventTypeTaskCompleted    = "task.completed"
	EventTypeScheduleProgress = "schedule.progress"
	EventTypeScheduleFinished = "schedule.finished"
)

// TaskStartedEvent is published when a task is assigned to a worker slot.
type TaskStartedEvent struct {
	ID        string
	Worker    int
	Tick      int
	Duration  int
	Timestamp time.Time
}

func (e TaskStartedEvent) EventType() string { return EventTypeTaskStarted }
func (e TaskStartedEvent) Topic() string     { return TopicTask }
func (e TaskStartedEvent) TaskID() string    { return e.ID }

// TaskCompletedEvent is published when a task's remaining time reaches zero.
type TaskCompletedEvent struct {
	ID        string
	Worker    int
	Tick      int
	Timestamp time.Time
}

func (e TaskCompletedEvent) EventType() string { return EventTypeTaskCompleted }
func (e TaskCompletedEvent) Topic() string     { return TopicTask }
func (e TaskCompletedEvent) TaskID() string    { return e.ID }

// ScheduleProgressEvent is published once per tick, after that tick's
// completions and assignments.
type ScheduleProgressEvent struct {
	Tick      int
	Total     int
	Completed int
	Running   int
	Ready     int // Unblocked but waiting for a free worker
	Pending   int // Still waiting on prerequisites
	Timestamp time.Time
}

func (e ScheduleProgressEvent) EventType() string { return EventTypeScheduleProgress }
func (e ScheduleProgressEvent) Topic() string     { return TopicSchedule }
func (e ScheduleProgressEvent) TaskID() string    { return "" }

// ScheduleFinishedEvent is published after the last task completes.
type ScheduleFinishedEvent struct {
	Order     []string
	Ticks     int
	Timestamp time.Time
}

func (e ScheduleFinishedEvent) EventType() string { return EventTypeScheduleFinished }
func (e ScheduleFinishedEvent) Topic() string     { return TopicSchedule }
func (e ScheduleFinishedEvent) TaskID() string    { return "" }
