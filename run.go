// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bichan

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Run creates a pairing, runs both Cont-world protocols, and returns
// both results. a runs on the Endpoint[S, R] side, b on the mirror.
// Interleaves execution of both sides on the calling goroutine using
// adaptive backoff (iox.Backoff) when neither side can make progress.
// Does not spawn goroutines or create channels.
func Run[S, R, A, B any](a kont.Eff[A], b kont.Eff[B]) (A, B) {
	return RunExpr[S, R](Reify(a), Reify(b))
}

// RunExpr creates a pairing, runs both Expr-world protocols, and
// returns both results. a runs on the Endpoint[S, R] side, b on the
// mirror. Interleaves execution on the calling goroutine using adaptive
// backoff (iox.Backoff) when neither side can make progress.
// Does not spawn goroutines or create channels.
func RunExpr[S, R, A, B any](a kont.Expr[A], b kont.Expr[B]) (A, B) {
	epA, epB, _ := New[S, R](defaultCapacity)
	resultA, suspA := Step[A](a)
	resultB, suspB := Step[B](b)
	var bo iox.Backoff

	var dA dispatcher[S, R]
	if suspA != nil {
		dA = suspA.Op().(dispatcher[S, R])
	}
	var dB dispatcher[R, S]
	if suspB != nil {
		dB = suspB.Op().(dispatcher[R, S])
	}

	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			v, err := dA.dispatchOn(epA)
			if err == nil {
				resultA, suspA = suspA.Resume(v)
				if suspA != nil {
					dA = suspA.Op().(dispatcher[S, R])
				}
				progress = true
			}
		}
		if suspB != nil {
			v, err := dB.dispatchOn(epB)
			if err == nil {
				resultB, suspB = suspB.Resume(v)
				if suspB != nil {
					dB = suspB.Op().(dispatcher[R, S])
				}
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
