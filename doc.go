// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bichan provides bidirectional typed channel pairings: two
// cross-wired bounded FIFO queues behind a pair of symmetric endpoint
// handles.
//
// [New] allocates the whole pairing in one place and returns a pair of
// mirrored [Endpoint] handles; what one side sends the other receives,
// each direction independently FIFO.
//
// # Architecture
//
//   - Transport: Bounded lock-free SPSC rings via [code.hybscloud.com/lfq],
//     one per direction, allocated together by [New].
//   - Non-blocking: [Endpoint.TrySend] and [Endpoint.TryRecv] return
//     [code.hybscloud.com/iox.ErrWouldBlock] at the I/O boundary.
//   - Blocking: [Endpoint.Send] and [Endpoint.Recv] wait past the boundary
//     using adaptive backoff; [Endpoint.SendContext] and
//     [Endpoint.RecvContext] add cancellation.
//   - Closure: [Endpoint.Close] releases a handle. The peer's sends then
//     fail with [ClosedError] (returning the unsent message) and its
//     receives drain the buffer before reporting [ErrDisconnected].
//   - Sharing: a handle may be shared by concurrent workers; each ring
//     side is serialized by an [code.hybscloud.com/atomix] CAS guard.
//
// # Protocols
//
// Channel operations are also available as typed effects on
// [code.hybscloud.com/kont] for composable protocol programs:
//
//   - Operations: [Send], [Recv], [Close]; builders [SendThen],
//     [RecvBind], [CloseDone]; recursion via [Loop].
//   - Evaluation: [Exec] and [Run] wait past ErrWouldBlock boundaries;
//     [Step] and [Advance] evaluate one effect at a time for proactor
//     integration; [Reify] and [Reflect] bridge the Cont and Expr worlds.
//   - Errors: [ExecError], [RunError], [StepError], [AdvanceError]
//     short-circuit on thrown errors, returning [code.hybscloud.com/kont.Either].
//
// # Example
//
//	a, b, _ := bichan.New[string, string](4)
//	go func() {
//		a.Send("ping")
//		a.Close()
//	}()
//	for msg, ok := b.Recv(); ok; msg, ok = b.Recv() {
//		fmt.Println(msg)
//	}
package bichan
