// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bichan

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a channel protocol until the first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func Step[A any](protocol kont.Expr[A]) (A, *kont.Suspension[A]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended channel operation on the endpoint.
// Dispatch is non-blocking: it returns iox.ErrWouldBlock when the
// bounded ring cannot make progress (the I/O boundary).
//
// On success (nil error), the suspension is consumed and the protocol
// advances to the next effect or completion.
// On iox.ErrWouldBlock, the suspension is unconsumed and may be retried
// after the peer makes progress.
func Advance[S, R, A any](ep *Endpoint[S, R], susp *kont.Suspension[A]) (A, *kont.Suspension[A], error) {
	d, ok := susp.Op().(dispatcher[S, R])
	if !ok {
		panic("bichan: unhandled effect in Advance")
	}
	v, err := d.dispatchOn(ep)
	if err != nil {
		var zero A
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
