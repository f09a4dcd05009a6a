package wrapper

import (
	"errors"
	"fmt"
	"go/token"
)

var (
	// ErrEmptyInput is returned when there is nothing to parse.
	ErrEmptyInput = errors.New("expected function")

	// ErrMalformedFunction is returned when the input is not a single valid Go function declaration.
	ErrMalformedFunction = errors.New("malformed function declaration")

	// ErrRenderFailure is returned when the reassembled function is not valid Go.
	ErrRenderFailure = errors.New("failed to render wrapped function")

	// ErrAlreadyRendered is returned when Render is called on a WrappedFunc more than once.
	ErrAlreadyRendered = errors.New("wrapped function has already been rendered")
)

// SyntaxError carries a source location along with one of the sentinel errors of this package.
// Use errors.Is to check which kind of failure occurred.
type SyntaxError struct {
	Kind error
	Pos  token.Position
	Msg  string
	Err  error
}

func (e *SyntaxError) Error() string {
	msg := e.Kind.Error()
	if e.Msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, msg)
	}
	return msg
}

func (e *SyntaxError) Is(target error) bool {
	return target == e.Kind
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func renderFailure(format string, args ...any) error {
	return &SyntaxError{
		Kind: ErrRenderFailure,
		Msg:  fmt.Sprintf(format, args...),
	}
}
