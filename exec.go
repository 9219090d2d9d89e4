// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bichan

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// handler implements kont.Handler for channel effects on one endpoint.
// Waits past the iox.ErrWouldBlock boundary with adaptive backoff,
// converting non-blocking dispatch into blocking evaluation.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type handler[S, R any] struct {
	ep *Endpoint[S, R]
}

// Dispatch implements kont.Handler via structural interface assertion.
func (h handler[S, R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	d, ok := op.(dispatcher[S, R])
	if !ok {
		panic("bichan: unhandled effect in handler")
	}
	return dispatchWait(h.ep, d), true
}

// dispatchWait blocks until dispatchOn succeeds, backing off on
// iox.ErrWouldBlock with iox.Backoff (I/O readiness waiting).
func dispatchWait[S, R any](ep *Endpoint[S, R], d dispatcher[S, R]) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := d.dispatchOn(ep)
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// Exec runs a Cont-world channel protocol on a pre-created endpoint.
// Blocks on iox.ErrWouldBlock via adaptive backoff, without spawning
// goroutines or creating channels.
func Exec[S, R, A any](ep *Endpoint[S, R], protocol kont.Eff[A]) A {
	return kont.Handle(protocol, handler[S, R]{ep: ep})
}

// ExecExpr runs an Expr-world channel protocol on a pre-created endpoint.
// Blocks on iox.ErrWouldBlock via adaptive backoff, without spawning
// goroutines or creating channels.
func ExecExpr[S, R, A any](ep *Endpoint[S, R], protocol kont.Expr[A]) A {
	return kont.HandleExpr(protocol, handler[S, R]{ep: ep})
}
