// Package pipeline runs an ordered list of named steps.
//
// A run executes steps strictly in sequence and stops at the first failure,
// returning a [*StepError] naming the step. A step may return [Skip] to
// record that it had nothing to do. Every transition is reported to an
// [Observer]; the log and Prometheus observers in this package are combined
// with [MultiObserver].
package pipeline
