package errs

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
)

const (
	ErrCodeGeneric         string = "XXXX"
	ErrCodeUnknownError    string = "UNKNOWN_ERROR"
	ErrCodeIllegalArgument string = "ILLEGAL_ARGUMENT"
)

var (
	ErrUnknownError    *LockSetErr = NewErrfCode(ErrCodeUnknownError, "Unknown Error")
	ErrIllegalArgument *LockSetErr = NewErrfCode(ErrCodeIllegalArgument, "Illegal Argument")
)

var (
	Errf = NewErrf
)

// LockSet Error.
//
//	Use NewErrf(...) to instantiate.
type LockSetErr struct {
	code        string // error code.
	msg         string // error message.
	internalMsg string // detail about what went wrong, e.g., the offending value.
	stack       string
	err         error
}

func (e *LockSetErr) Cause() error {
	return e.err
}

func (e *LockSetErr) InternalMsg() string {
	return e.internalMsg
}

func (e *LockSetErr) Msg() string {
	return e.msg
}

func (e *LockSetErr) Code() string {
	return e.code
}

func (e *LockSetErr) StackTrace() string {
	return e.stack
}

// Create new *LockSetErr to wrap the cause error
//
// if cause is nil, nil is returned.
func (e *LockSetErr) Wrap(cause error) error {
	if cause == nil {
		return nil
	}
	n := e.copyNew()
	n.err = cause
	n.withStack()
	return n
}

// Create new *LockSetErr to wrap the cause error
//
// if cause is nil, nil is returned.
func (e *LockSetErr) Wrapf(cause error, internalMsg string, args ...any) error {
	if cause == nil {
		return nil
	}
	n := e.copyNew()
	n.err = cause
	n.withStack()
	if len(args) > 0 {
		n.internalMsg = fmt.Sprintf(internalMsg, args...)
	} else {
		n.internalMsg = internalMsg
	}
	return n
}

func (e *LockSetErr) copyNew() *LockSetErr {
	n := new(LockSetErr)
	n.code = e.code
	n.msg = e.msg
	n.internalMsg = e.internalMsg
	n.stack = e.stack
	n.err = e.err
	return n
}

func (e *LockSetErr) Error() string {
	tok := []string{}
	if e.msg != "" {
		tok = append(tok, e.msg)
	}
	if e.internalMsg != "" {
		tok = append(tok, e.internalMsg)
	}
	uw := e.Unwrap()
	if uw != nil {
		tok = append(tok, uw.Error())
	}
	return strings.Join(tok, ", ")
}

// Implements *LockSetErr Is check.
//
// Returns true, if both are *LockSetErr and the code matches.
//
// WithInternalMsg always create new error, so the predefined errors can be reused:
//
//	var e1 = ErrIllegalArgument.WithInternalMsg("capacity: %v", 0)
//
//	errors.Is(e1, ErrIllegalArgument) // true
func (e *LockSetErr) Is(target error) bool {
	if tme, ok := target.(*LockSetErr); ok && e.code != "" && e.code == tme.code {
		return true
	}
	return false
}

func (e *LockSetErr) WithInternalMsg(msg string, args ...any) *LockSetErr {
	ne := e.copyNew()
	ne.withStack()
	if len(args) > 0 {
		ne.internalMsg = fmt.Sprintf(msg, args...)
	} else {
		ne.internalMsg = msg
	}
	return ne
}

func (e *LockSetErr) withStack() *LockSetErr {
	e.stack = stack(3)
	return e
}

func (e *LockSetErr) Unwrap() error {
	return e.err
}

// Create new *LockSetErr with message.
func NewErrf(msg string, args ...any) *LockSetErr {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	me := &LockSetErr{msg: msg}
	me.withStack()
	return me
}

// Create new *LockSetErr with message and error code.
func NewErrfCode(code string, msg string, args ...any) *LockSetErr {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	me := &LockSetErr{msg: msg, code: code}
	me.withStack()
	return me
}

// Wrap an error to create new *LockSetErr with message.
//
// If the wrapped err is nil, nil is returned.
func WrapErrf(err error, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	me := &LockSetErr{msg: msg, err: err}
	me.withStack()
	return me
}

// Wrap multi errors, nil errors are ignored.
//
// If all errs are nil, nil is returned.
func WrapErrMulti(errs ...error) error {
	nonNil := make([]error, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			nonNil = append(nonNil, e)
		}
	}
	if len(nonNil) < 1 {
		return nil
	}
	me := &LockSetErr{err: errors.Join(nonNil...)}
	me.withStack()
	return me
}

func UnwrapErrStack(err error) (string, bool) {
	var stack string
	var ue error = err
	for {
		if me, ok := ue.(*LockSetErr); ok {
			if me != nil {
				stack = me.stack
			}
		}
		u := errors.Unwrap(ue)
		if u == nil {
			break
		}
		ue = u
	}

	return stack, stack != ""
}

func ErrorStackTrace(err error) string {
	if err == nil {
		return "nil"
	}
	stackTrace, withStack := UnwrapErrStack(err)
	m := err.Error()
	if withStack {
		m += stackTrace
	}
	return m
}

var stackPool = sync.Pool{
	New: func() any {
		var v []uintptr = make([]uintptr, 50)
		return &v
	},
}

func stack(n int) string {
	stack := stackPool.Get().(*[]uintptr)
	defer func() {
		clear(*stack)
		stackPool.Put(stack)
	}()

	length := runtime.Callers(n, *stack)
	frames := runtime.CallersFrames((*stack)[:length])
	b := strings.Builder{}

	for {
		f, next := frames.Next()
		if !next {
			break
		}
		b.WriteString(fmt.Sprintf("\n\t%v\n\t\t%v:%v", f.Function, f.File, f.Line))
	}
	return b.String()
}
