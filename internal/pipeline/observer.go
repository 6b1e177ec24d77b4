package pipeline

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/kspray/internal/logging"
)

// Observer receives pipeline events.
type Observer interface {
	Event(event Event)
}

// Event represents a structured pipeline event.
type Event struct {
	Type      EventType
	Step      string
	Index     int
	Total     int
	Message   string
	Duration  time.Duration
	Err       error
	Timestamp time.Time
}

// EventType represents the type of pipeline event.
type EventType string

const (
	// EventRunStarted is emitted once before the first step.
	EventRunStarted EventType = "run.started"
	// EventRunCompleted is emitted once after the last step succeeded.
	EventRunCompleted EventType = "run.completed"
	// EventRunFailed is emitted once when a step failed or the run was cancelled.
	EventRunFailed EventType = "run.failed"

	// EventStepStarted indicates a step has started.
	EventStepStarted EventType = "step.started"
	// EventStepCompleted indicates a step completed successfully.
	EventStepCompleted EventType = "step.completed"
	// EventStepSkipped indicates a step had nothing to do.
	EventStepSkipped EventType = "step.skipped"
	// EventStepFailed indicates a step failed.
	EventStepFailed EventType = "step.failed"
)

// NopObserver discards every event.
type NopObserver struct{}

// Event implements Observer.
func (NopObserver) Event(Event) {}

// MultiObserver fans events out to several observers in order.
type MultiObserver []Observer

// Event implements Observer.
func (m MultiObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	for _, o := range m {
		o.Event(event)
	}
}

// LogObserver writes events to a logr.Logger.
type LogObserver struct {
	log logr.Logger
}

// NewLogObserver creates a new log-based observer.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{log: log}
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	switch event.Type {
	case EventRunStarted:
		o.log.Info("starting run", "steps", event.Total)
	case EventRunCompleted:
		o.log.Info("run completed", logging.KeyDuration, round(event.Duration))
	case EventRunFailed:
		o.log.Error(event.Err, "run failed", logging.KeyStep, event.Step, logging.KeyDuration, round(event.Duration))
	case EventStepStarted:
		o.log.Info("step starting", logging.KeyStep, event.Step, "position", position(event))
	case EventStepCompleted:
		o.log.Info("step completed", logging.KeyStep, event.Step, logging.KeyDuration, round(event.Duration))
	case EventStepSkipped:
		o.log.Info("step skipped", logging.KeyStep, event.Step, "reason", event.Message)
	case EventStepFailed:
		o.log.Error(event.Err, "step failed", logging.KeyStep, event.Step, logging.KeyDuration, round(event.Duration))
	}
}

func position(event Event) string {
	return fmt.Sprintf("%d/%d", event.Index+1, event.Total)
}

func round(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
