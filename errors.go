// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bichan

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrInvalidCapacity is returned by New when the requested per-direction
// capacity cannot be satisfied. The transport rings are buffer-backed and
// have no zero-capacity rendezvous mode, so capacities below one are
// invalid.
var ErrInvalidCapacity = errors.New("bichan: capacity must be at least 1")

// ErrEmpty is returned by TryRecv when no message is buffered but the
// peer endpoint is still live. Transient: the caller may retry later.
// ErrEmpty is iox.ErrWouldBlock, so callers already driving iox readiness
// loops can keep using iox.IsWouldBlock.
var ErrEmpty = iox.ErrWouldBlock

// ErrDisconnected is returned by TryRecv and RecvContext once the peer
// endpoint has been released and every buffered message has been drained.
// Permanent: the caller should stop polling. Recv reports the same
// condition as ok == false.
var ErrDisconnected = errors.New("bichan: peer endpoint released")

// ErrClosed is the errors.Is target for ClosedError values.
var ErrClosed = errors.New("bichan: send on released pairing")

// ClosedError is returned by Send, TrySend and SendContext once the peer
// endpoint has been released. Message holds the unsent value, returned to
// the caller for disposal or redelivery via another path. The condition
// is permanent for this direction and is never retried internally.
type ClosedError[T any] struct {
	Message T
}

func (e *ClosedError[T]) Error() string { return ErrClosed.Error() }

// Unwrap makes errors.Is(err, ErrClosed) match any ClosedError.
func (e *ClosedError[T]) Unwrap() error { return ErrClosed }
