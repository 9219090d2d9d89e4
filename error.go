// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bichan

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// errorHandler handles both channel and error effects. Channel ops wait
// on ErrWouldBlock via iox.Backoff. Error ops short-circuit on Throw.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type errorHandler[S, R, E, A any] struct {
	ep     *Endpoint[S, R]
	errCtx *kont.ErrorContext[E]
}

// Dispatch implements kont.Handler for the composed Channel+Error handler.
// Dispatch order: Channel → Error.
func (h errorHandler[S, R, E, A]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if d, ok := op.(dispatcher[S, R]); ok {
		return dispatchWait(h.ep, d), true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[E, A](h.errCtx.Err), false
		}
		return v, true
	}
	panic("bichan: unhandled effect in errorHandler")
}

// ExecError runs a channel protocol with error handling on a pre-created
// endpoint. Returns Either[E, A] — Right on success, Left on Throw.
// Blocks on iox.ErrWouldBlock via adaptive backoff, without spawning
// goroutines or creating channels.
func ExecError[E any, S, R, A any](ep *Endpoint[S, R], protocol kont.Eff[A]) kont.Either[E, A] {
	wrapped := kont.Map[kont.Resumed, A, kont.Either[E, A]](protocol, func(a A) kont.Either[E, A] {
		return kont.Right[E, A](a)
	})
	var errCtx kont.ErrorContext[E]
	h := errorHandler[S, R, E, A]{ep: ep, errCtx: &errCtx}
	return kont.Handle(wrapped, h)
}

// ExecErrorExpr runs an Expr channel protocol with error handling on a
// pre-created endpoint. Returns Either[E, A] — Right on success, Left on
// Throw. Blocks on iox.ErrWouldBlock via adaptive backoff, without
// spawning goroutines or creating channels.
func ExecErrorExpr[E any, S, R, A any](ep *Endpoint[S, R], protocol kont.Expr[A]) kont.Either[E, A] {
	wrapped := kont.ExprMap(protocol, func(a A) kont.Either[E, A] {
		return kont.Right[E, A](a)
	})
	var errCtx kont.ErrorContext[E]
	h := errorHandler[S, R, E, A]{ep: ep, errCtx: &errCtx}
	return kont.HandleExpr(wrapped, h)
}

// RunError creates a pairing, runs both Cont-world protocols with error
// handling, and returns both results as Either values. a runs on the
// Endpoint[S, R] side, b on the mirror. Interleaves execution on the
// calling goroutine using adaptive backoff (iox.Backoff).
// Does not spawn goroutines or create channels.
func RunError[E any, S, R, A, B any](a kont.Eff[A], b kont.Eff[B]) (kont.Either[E, A], kont.Either[E, B]) {
	return RunErrorExpr[E, S, R](Reify(a), Reify(b))
}

// RunErrorExpr creates a pairing, runs both Expr-world protocols with
// error handling, and returns both results as Either values. Interleaves
// execution on the calling goroutine using adaptive backoff (iox.Backoff).
// Does not spawn goroutines or create channels.
func RunErrorExpr[E any, S, R, A, B any](a kont.Expr[A], b kont.Expr[B]) (kont.Either[E, A], kont.Either[E, B]) {
	epA, epB, _ := New[S, R](defaultCapacity)
	resultA, suspA := StepError[E, A](a)
	resultB, suspB := StepError[E, B](b)
	var bo iox.Backoff
	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			var err error
			resultA, suspA, err = AdvanceError[E](epA, suspA)
			if err == nil {
				progress = true
			}
		}
		if suspB != nil {
			var err error
			resultB, suspB, err = AdvanceError[E](epB, suspB)
			if err == nil {
				progress = true
			}
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return resultA, resultB
}

// StepError evaluates a channel protocol with error support until the
// first effect suspension. Returns (Either[E, A], nil) on completion or
// error, or (zero, suspension) if pending.
func StepError[E, A any](protocol kont.Expr[A]) (kont.Either[E, A], *kont.Suspension[kont.Either[E, A]]) {
	wrapped := kont.ExprMap(protocol, func(a A) kont.Either[E, A] {
		return kont.Right[E, A](a)
	})
	return kont.StepExpr(wrapped)
}

// AdvanceError dispatches the suspended operation on the endpoint.
// Channel ops are non-blocking (ErrWouldBlock). Error ops are eager:
// Throw discards the suspension and returns Left.
func AdvanceError[E any, S, R, A any](ep *Endpoint[S, R], susp *kont.Suspension[kont.Either[E, A]]) (kont.Either[E, A], *kont.Suspension[kont.Either[E, A]], error) {
	// Channel ops: non-blocking dispatch
	if d, ok := susp.Op().(dispatcher[S, R]); ok {
		v, err := d.dispatchOn(ep)
		if err != nil {
			var zero kont.Either[E, A]
			return zero, susp, err
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	// Error ops: eager dispatch
	if eop, ok := susp.Op().(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		var ctx kont.ErrorContext[E]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[E, A](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("bichan: unhandled effect in AdvanceError")
}
