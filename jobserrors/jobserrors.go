// Package jobserrors defines the machine-readable error kinds surfaced by
// the jobs-file compilation pipeline: front-end parsing, matrix/condition
// expansion, Jenkins XML generation and reconciliation all fail with one
// of these typed values so callers can branch on error kind with errors.As
// instead of matching on message text.
package jobserrors

import "fmt"

// UnknownOption is raised when a jobs file sets a top-level key that is not
// one of the recognized options.
type UnknownOption struct {
	Name string
}

func (e *UnknownOption) Error() string {
	return fmt.Sprintf("unknown option %q", e.Name)
}

// TypeMismatch is raised when an option's value does not have the expected
// top-level shape (e.g. a list where a map was required).
type TypeMismatch struct {
	Name     string
	Got      string
	Expected string
	Value    interface{}
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("option %q has type %s, expected %s (value: %v)", e.Name, e.Got, e.Expected, e.Value)
}

// UnmatchableCondition is raised when a conditional key cannot be satisfied
// by any generated matrix row.
type UnmatchableCondition struct {
	Key string
}

func (e *UnmatchableCondition) Error() string {
	return fmt.Sprintf("conditional key %q is unmatchable by any row", e.Key)
}

// AmbiguousCondition is raised when two conditional keys match the same row
// and option with different values, and their condition sets are not
// comparable by subset.
type AmbiguousCondition struct {
	Option      string
	ValueA      string
	ConditionsA []string
	ValueB      string
	ConditionsB []string
}

func (e *AmbiguousCondition) Error() string {
	return fmt.Sprintf(
		"ambiguous value for option %q: %v=%q vs %v=%q",
		e.Option, e.ConditionsA, e.ValueA, e.ConditionsB, e.ValueB,
	)
}

// UnknownSubOption is raised when a sub-dictionary option (git,
// email_notification, ...) has residual keys after recognized ones are
// consumed.
type UnknownSubOption struct {
	Section string
	Keys    []string
}

func (e *UnknownSubOption) Error() string {
	return fmt.Sprintf("unknown sub-options %v in %q", e.Keys, e.Section)
}

// InvalidEnumValue is raised when an option restricted to an enumeration
// (e.g. console_color) has a value outside that set.
type InvalidEnumValue struct {
	Option string
	Value  string
	Valid  []string
}

func (e *InvalidEnumValue) Error() string {
	return fmt.Sprintf("invalid value %q for option %q, must be one of %v", e.Value, e.Option, e.Valid)
}

// MissingRequired is raised when a sub-option required by a parent option
// (e.g. coverage.report_pattern) is absent.
type MissingRequired struct {
	Section string
	Field   string
}

func (e *MissingRequired) Error() string {
	return fmt.Sprintf("%q is required in %q", e.Field, e.Section)
}

// ReconciliationFailure is raised when a Jenkins call in the reconciliation
// phase exhausts its retries or fails with a non-retryable error.
type ReconciliationFailure struct {
	Operation string
	JobName   string
	Err       error
}

func (e *ReconciliationFailure) Error() string {
	return fmt.Sprintf("reconciliation: %s %q: %v", e.Operation, e.JobName, e.Err)
}

func (e *ReconciliationFailure) Unwrap() error {
	return e.Err
}
