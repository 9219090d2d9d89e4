// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bichan_test

import (
	"code.hybscloud.com/bichan"
	"code.hybscloud.com/kont"
)

// execExpr drives a protocol to completion on ep via Step+Advance loop.
// Retries on iox.ErrWouldBlock (peer not ready yet).
// Used by stepping tests to exercise the non-blocking path.
func execExpr[S, R, A any](ep *bichan.Endpoint[S, R], protocol kont.Expr[A]) A {
	result, susp := bichan.Step[A](protocol)
	for susp != nil {
		var err error
		result, susp, err = bichan.Advance(ep, susp)
		if err != nil {
			continue
		}
	}
	return result
}
