package ai

// Kind classifies the outcome of a model flow
type Kind int

const (
	// KindOK carries a validated payload
	KindOK Kind = iota
	// KindInvalidInput means the request was rejected before any model call
	KindInvalidInput
	// KindUpstream means the model call failed or returned something unusable
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindInvalidInput:
		return "invalid_input"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of a flow. The payload is only reachable
// through Value, which refuses to hand it out for failed outcomes.
type Result[T any] struct {
	kind    Kind
	value   T
	message string
	cause   error
}

// OK wraps a validated payload
func OK[T any](v T) Result[T] {
	return Result[T]{kind: KindOK, value: v}
}

// InvalidInput builds a failed result that is the caller's fault
func InvalidInput[T any](message string, cause error) Result[T] {
	return Result[T]{kind: KindInvalidInput, message: message, cause: cause}
}

// Upstream builds a failed result caused by the model provider
func Upstream[T any](message string, cause error) Result[T] {
	return Result[T]{kind: KindUpstream, message: message, cause: cause}
}

// Kind returns the outcome classification
func (r Result[T]) Kind() Kind {
	return r.kind
}

// Value returns the payload and true only for KindOK
func (r Result[T]) Value() (T, bool) {
	if r.kind != KindOK {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Message is the user-facing description of a failed result
func (r Result[T]) Message() string {
	return r.message
}

// Err is the underlying cause of a failed result, if any
func (r Result[T]) Err() error {
	return r.cause
}
