package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/imamik/kspray/internal/config"
)

// Step is one unit of the pipeline.
type Step interface {
	// Name returns the stable identifier of this step.
	Name() string

	// Run executes the step.
	Run(ctx *Context) error
}

type funcStep struct {
	name string
	fn   func(*Context) error
}

func (s funcStep) Name() string           { return s.name }
func (s funcStep) Run(ctx *Context) error { return s.fn(ctx) }

// Func adapts a function to a Step.
func Func(name string, fn func(*Context) error) Step {
	return funcStep{name: name, fn: fn}
}

// Context wraps all dependencies needed by a step.
type Context struct {
	context.Context
	Config   *config.Config
	Timeouts *config.Timeouts
	Log      logr.Logger
	Observer Observer
}

// NewContext creates a step context with a discarding logger and no observer.
func NewContext(ctx context.Context, cfg *config.Config) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		Timeouts: config.LoadTimeouts(),
		Log:      logr.Discard(),
		Observer: NopObserver{},
	}
}

// StepError reports the step a run stopped at.
type StepError struct {
	Step  string
	Index int
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// SkipError marks a step that had nothing to do.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "skipped: " + e.Reason
}

// Skip returns an error that records the step as skipped instead of failed.
func Skip(reason string) error {
	return &SkipError{Reason: reason}
}

// IsSkip reports whether err marks a skipped step.
func IsSkip(err error) bool {
	var skip *SkipError
	return errors.As(err, &skip)
}
