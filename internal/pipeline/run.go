package pipeline

import (
	"errors"
	"time"
)

// Result records how a single step ended.
type Result struct {
	Step     string
	Status   Status
	Duration time.Duration
	Reason   string
}

// Status is the outcome of a step.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Run executes steps in order. It stops at the first failing step and
// returns a *StepError; steps after it are not started. The returned results
// cover every step that was started.
func Run(ctx *Context, steps []Step) ([]Result, error) {
	observer := ctx.Observer
	if observer == nil {
		observer = NopObserver{}
	}

	start := time.Now()
	results := make([]Result, 0, len(steps))
	observer.Event(Event{Type: EventRunStarted, Total: len(steps)})

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			stepErr := &StepError{Step: step.Name(), Index: i, Err: err}
			observer.Event(Event{Type: EventRunFailed, Step: step.Name(), Index: i, Total: len(steps), Duration: time.Since(start), Err: stepErr})
			return results, stepErr
		}

		observer.Event(Event{Type: EventStepStarted, Step: step.Name(), Index: i, Total: len(steps)})
		stepStart := time.Now()
		err := step.Run(ctx)
		elapsed := time.Since(stepStart)

		var skip *SkipError
		switch {
		case err == nil:
			results = append(results, Result{Step: step.Name(), Status: StatusCompleted, Duration: elapsed})
			observer.Event(Event{Type: EventStepCompleted, Step: step.Name(), Index: i, Total: len(steps), Duration: elapsed})
		case errors.As(err, &skip):
			results = append(results, Result{Step: step.Name(), Status: StatusSkipped, Duration: elapsed, Reason: skip.Reason})
			observer.Event(Event{Type: EventStepSkipped, Step: step.Name(), Index: i, Total: len(steps), Duration: elapsed, Message: skip.Reason})
		default:
			results = append(results, Result{Step: step.Name(), Status: StatusFailed, Duration: elapsed, Reason: err.Error()})
			observer.Event(Event{Type: EventStepFailed, Step: step.Name(), Index: i, Total: len(steps), Duration: elapsed, Err: err})

			stepErr := &StepError{Step: step.Name(), Index: i, Err: err}
			observer.Event(Event{Type: EventRunFailed, Step: step.Name(), Index: i, Total: len(steps), Duration: time.Since(start), Err: stepErr})
			return results, stepErr
		}
	}

	observer.Event(Event{Type: EventRunCompleted, Total: len(steps), Duration: time.Since(start)})
	return results, nil
}
