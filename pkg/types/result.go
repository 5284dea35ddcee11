package types

// Status tags the outcome of an externally-fetched computation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusEmpty   Status = "empty"
	StatusFailure Status = "failure"
)

// Result is a tagged variant: Success carries Value, Empty carries nothing,
// Failure carries Err. Zero rows and a failed query are never conflated.
type Result[T any] struct {
	Status Status
	Value  T
	Err    error
}

// Success wraps a computed value.
func Success[T any](value T) Result[T] {
	return Result[T]{Status: StatusSuccess, Value: value}
}

// Empty reports a valid, absent result.
func Empty[T any]() Result[T] {
	return Result[T]{Status: StatusEmpty}
}

// Failure reports an error.
func Failure[T any](err error) Result[T] {
	return Result[T]{Status: StatusFailure, Err: err}
}

// IsSuccess reports whether the result carries a value.
func (r Result[T]) IsSuccess() bool {
	return r.Status == StatusSuccess
}

// IsEmpty reports whether the result is a valid absence.
func (r Result[T]) IsEmpty() bool {
	return r.Status == StatusEmpty
}

// IsFailure reports whether the result carries an error.
func (r Result[T]) IsFailure() bool {
	return r.Status == StatusFailure
}
