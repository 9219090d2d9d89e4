// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bichan

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// dispatcher is the structural interface for channel effect operations.
// dispatchOn is non-blocking: it returns iox.ErrWouldBlock at the I/O
// boundary when the bounded ring cannot make progress. Permanent closure
// mid-protocol panics: well-formed dual protocols release their
// endpoints only after their final transport operation, so hitting a
// released pairing is a protocol bug, not an I/O condition.
type dispatcher[S, R any] interface {
	dispatchOn(ep *Endpoint[S, R]) (kont.Resumed, error)
}

// Send is the effect operation for sending a value of type S on an
// Endpoint[S, R]. Perform(Send[S, R]{Value: v}) sends v to the peer.
type Send[S, R any] struct {
	kont.Phantom[struct{}]
	Value S
}

// dispatchOn handles Send on the endpoint transport.
// Non-blocking: returns iox.ErrWouldBlock if the outgoing ring is full.
func (s Send[S, R]) dispatchOn(ep *Endpoint[S, R]) (kont.Resumed, error) {
	err := ep.TrySend(s.Value)
	if err == nil {
		return struct{}{}, nil
	}
	if !iox.IsWouldBlock(err) {
		panic("bichan: send on released pairing in protocol")
	}
	return nil, err
}

// Recv is the effect operation for receiving a value of type R on an
// Endpoint[S, R]. Perform(Recv[S, R]{}) receives a typed value from the
// peer.
type Recv[S, R any] struct {
	kont.Phantom[R]
}

// dispatchOn handles Recv on the endpoint transport.
// Non-blocking: returns iox.ErrWouldBlock if the incoming ring is empty.
func (Recv[S, R]) dispatchOn(ep *Endpoint[S, R]) (kont.Resumed, error) {
	v, err := ep.TryRecv()
	if err == nil {
		return v, nil
	}
	if !iox.IsWouldBlock(err) {
		panic("bichan: receive on released pairing in protocol")
	}
	return nil, err
}

// Close is the effect operation for releasing the endpoint.
// Perform(Close[S, R]{}) ends this side of the pairing. Never blocks.
type Close[S, R any] struct {
	kont.Phantom[struct{}]
}

// dispatchOn handles Close by releasing the endpoint.
func (Close[S, R]) dispatchOn(ep *Endpoint[S, R]) (kont.Resumed, error) {
	ep.Close()
	return struct{}{}, nil
}

// SendThen sends a value and then continues with next.
// Fuses Perform(Send) + Then. S and R name the endpoint the protocol
// will run on and must be instantiated explicitly.
func SendThen[S, R, B any](v S, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Send[S, R]{Value: v}), next)
}

// RecvBind receives a value and passes it to f.
// Fuses Perform(Recv) + Bind.
func RecvBind[S, R, B any](f func(R) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Recv[S, R]{}), f)
}

// CloseDone releases the endpoint and returns a.
// Fuses Perform(Close) + Then + Pure.
func CloseDone[S, R, A any](a A) kont.Eff[A] {
	return kont.Then(kont.Perform(Close[S, R]{}), kont.Pure(a))
}

// Loop runs a recursive channel protocol.
// step returns Left(nextState) to continue or Right(result) to finish.
func Loop[St, A any](initial St, step func(St) kont.Eff[kont.Either[St, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(e kont.Either[St, A]) kont.Eff[A] {
		if left, ok := e.GetLeft(); ok {
			return Loop(left, step)
		}
		right, _ := e.GetRight()
		return kont.Pure(right)
	})
}
