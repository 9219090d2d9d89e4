// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bichan

import (
	"context"

	"code.hybscloud.com/iox"
)

// SendContext is Send with cancellation. When ctx expires before a slot
// frees up it returns ctx.Err() with the message not enqueued; a nil
// return means the message was fully enqueued. There is no partial state
// either way.
func (ep *Endpoint[S, R]) SendContext(ctx context.Context, v S) error {
	var bo iox.Backoff
	for {
		err := ep.TrySend(v)
		if err == nil || !iox.IsWouldBlock(err) {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		bo.Wait()
	}
}

// RecvContext is Recv with cancellation. Returns ErrDisconnected on
// permanent closure and ctx.Err() on expiry. A cancelled receive never
// consumes a message: whatever was buffered remains available to the
// next receiver.
func (ep *Endpoint[S, R]) RecvContext(ctx context.Context) (R, error) {
	var bo iox.Backoff
	for {
		v, err := ep.TryRecv()
		if err == nil || err == ErrDisconnected {
			return v, err
		}
		if cerr := ctx.Err(); cerr != nil {
			var zero R
			return zero, cerr
		}
		bo.Wait()
	}
}
