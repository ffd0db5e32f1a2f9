package bootstrap

import (
	"fmt"

	"github.com/code-disaster/jni-go/jvm"
)

// AbortError reports the call that stopped the bootstrap sequence.
type AbortError struct {
	Step Step
	Call string
	// Exception is true when the call left an exception pending, false when
	// it returned Null.
	Exception bool
}

func (e *AbortError) Error() string {
	reason := "invalid return value"
	if e.Exception {
		reason = "pending exception"
	}
	return fmt.Sprintf("bootstrap aborted at %s: %s: %s", e.Step, e.Call, reason)
}

func (e *AbortError) Unwrap() error {
	return jvm.BootstrapAborted
}

// sequence carries the abort state between calls. Once err is set every
// later run is skipped.
type sequence struct {
	env  Env
	step Step
	err  *AbortError
}

// check clears a pending exception and records an abort if there was one or
// if the call's result is unusable.
func (s *sequence) check(call string, null bool) {
	exception := !jvm.IsNull(s.env.ExceptionOccurred())
	if exception {
		s.env.ExceptionDescribe()
		s.env.ExceptionClear()
	}
	if !exception && !null {
		return
	}
	s.err = &AbortError{Step: s.step, Call: call, Exception: exception}
	log.Errorf("%s", s.err.Error())
}

func run[H jvm.Handle](s *sequence, call string, fn func() H) H {
	if s.err != nil {
		return jvm.Null
	}
	h := fn()
	s.check(call, jvm.IsNull(h))
	if s.err != nil {
		return jvm.Null
	}
	return h
}

// runVoid is run for calls without a result; only a pending exception
// aborts.
func runVoid(s *sequence, call string, fn func()) {
	if s.err != nil {
		return
	}
	fn()
	s.check(call, false)
}
