// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bichan

import (
	"code.hybscloud.com/iox"
)

// TrySend enqueues v without suspending. Returns iox.ErrWouldBlock when
// the outgoing direction already holds Capacity in-flight messages
// (transient: retry after the peer consumes), or a *ClosedError[S]
// carrying v once either endpoint of the pairing has been released
// (permanent for this direction).
func (ep *Endpoint[S, R]) TrySend(v S) error {
	if ep.peer.Load() != 0 || ep.self.Load() != 0 {
		return &ClosedError[S]{Message: v}
	}
	lock(&ep.sendMu)
	// The ring is sized above the requested capacity; the in-flight
	// count is what enforces the exact bound.
	if ep.sendN.Load() >= uint32(ep.capacity) {
		unlock(&ep.sendMu)
		return iox.ErrWouldBlock
	}
	ep.sendSlot = v
	err := ep.sendQ.Enqueue(&ep.sendSlot)
	if err == nil {
		ep.sendN.Add(1)
	}
	unlock(&ep.sendMu)
	return err
}

// Send enqueues v, suspending the calling goroutine with adaptive
// backoff while the outgoing ring is at capacity. It returns once the
// message is buffered, not once the peer has received it: the handoff is
// asynchronous. Messages sent from one handle are received in send order.
//
// Send fails with a *ClosedError[S] carrying v if either endpoint of
// the pairing has been released, including when the release happens
// while Send is parked on a full direction. The message is either fully
// enqueued or returned inside the error; there is no partial state.
func (ep *Endpoint[S, R]) Send(v S) error {
	var bo iox.Backoff
	for {
		err := ep.TrySend(v)
		if err == nil || !iox.IsWouldBlock(err) {
			return err
		}
		bo.Wait()
	}
}

// TryRecv dequeues the oldest buffered message without suspending. On an
// empty ring it distinguishes the two conditions polling callers must
// treat differently: ErrEmpty while the peer endpoint is still live
// (transient, retry later) and ErrDisconnected once the peer has been
// released and the ring is drained (permanent, stop polling).
func (ep *Endpoint[S, R]) TryRecv() (R, error) {
	lock(&ep.recvMu)
	v, err := ep.recvQ.Dequeue()
	if err == nil {
		ep.recvN.Add(^uint32(0))
		unlock(&ep.recvMu)
		return v, nil
	}
	if ep.peer.Load() != 0 {
		// The peer may have enqueued between the failed dequeue and the
		// flag load; drain once more before declaring disconnection.
		v, err = ep.recvQ.Dequeue()
		if err == nil {
			ep.recvN.Add(^uint32(0))
			unlock(&ep.recvMu)
			return v, nil
		}
		unlock(&ep.recvMu)
		var zero R
		return zero, ErrDisconnected
	}
	unlock(&ep.recvMu)
	var zero R
	return zero, ErrEmpty
}

// Recv dequeues the oldest buffered message in arrival order, suspending
// the calling goroutine with adaptive backoff while the incoming ring is
// empty. The second result is false only on permanent closure: the peer
// endpoint was released and every buffered message has been drained.
// Recv never reports closure for transient emptiness, so false is the
// ordinary end-of-channel signal.
func (ep *Endpoint[S, R]) Recv() (R, bool) {
	var bo iox.Backoff
	for {
		v, err := ep.TryRecv()
		if err == nil {
			return v, true
		}
		if err == ErrDisconnected {
			var zero R
			return zero, false
		}
		bo.Wait()
	}
}
