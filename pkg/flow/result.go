// Package flow provides the small state primitives shared by the
// application's flows: a tagged result handed to the presentation layer and
// an optimistic update helper with rollback.
package flow

// State is the lifecycle position of a flow.
type State string

const (
	Idle    State = "IDLE"
	Loading State = "LOADING"
	Success State = "SUCCESS"
	Failure State = "FAILURE"
)

// Result is what a flow exposes to its presentation layer. Data is only
// meaningful in the Success state and Message only in the Failure state.
type Result[T any] struct {
	State   State  `json:"state"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func IdleResult[T any]() Result[T] {
	return Result[T]{State: Idle}
}

func LoadingResult[T any]() Result[T] {
	return Result[T]{State: Loading}
}

func SuccessResult[T any](data T) Result[T] {
	return Result[T]{State: Success, Data: data}
}

// FailureResult builds a failed result, falling back to fallback when the
// error carries no text.
func FailureResult[T any](err error, fallback string) Result[T] {
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Result[T]{State: Failure, Message: msg}
}

func (r Result[T]) IsLoading() bool { return r.State == Loading }
func (r Result[T]) Succeeded() bool { return r.State == Success }
func (r Result[T]) Failed() bool    { return r.State == Failure }
