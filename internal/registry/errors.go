package registry

import "fmt"

// ErrorKind classifies validation failures so feedback can hint at the
// right thing: a range violation names the coordinate space, a type
// violation names the expected argument shape.
type ErrorKind string

const (
	ErrType  ErrorKind = "type"
	ErrRange ErrorKind = "range"
	ErrArity ErrorKind = "arity"
)

// ValidationError is the typed rejection of a single invocation. It aborts
// only that invocation, never the batch.
type ValidationError struct {
	Kind ErrorKind
	Msg  string
}

func (e *ValidationError) Error() string { return e.Msg }

func typeErr(format string, args ...any) *ValidationError {
	return &ValidationError{Kind: ErrType, Msg: fmt.Sprintf(format, args...)}
}

func rangeErr(format string, args ...any) *ValidationError {
	return &ValidationError{Kind: ErrRange, Msg: fmt.Sprintf(format, args...)}
}

func arityErr(format string, args ...any) *ValidationError {
	return &ValidationError{Kind: ErrArity, Msg: fmt.Sprintf(format, args...)}
}
