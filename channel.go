// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bichan

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// defaultCapacity is the per-direction ring capacity used by the Run
// family, which creates its own pairing. 4 balances amortizing
// producer-side cached-index refresh cost while keeping ring buffers
// within a single cache line.
const defaultCapacity = 4

// Serial is a monotonically increasing pairing identifier.
// Each call to New assigns the next serial value to both endpoints.
type Serial = uint32

// counter is the global monotonic counter for pairing serials.
var counter atomix.Uint32

// nextSerial returns the next monotonically increasing serial.
func nextSerial() Serial {
	return counter.Add(1)
}

// Endpoint is one side of a bidirectional channel pairing. It owns the
// producer side of one bounded lock-free SPSC ring and the consumer side
// of the other: S is the message type this endpoint sends, R the type it
// receives.
//
// Endpoints exist only in cross-wired pairs created by New; there is no
// way to construct one alone, so an endpoint's outgoing ring is always
// its peer's incoming ring. A handle may be shared by concurrent
// workers: each ring side is serialized by a CAS guard so the SPSC rings
// see exactly one producer and one consumer at a time.
type Endpoint[S, R any] struct {
	sendQ *lfq.SPSC[S]
	recvQ *lfq.SPSC[R]

	// released flags, one per endpoint of the pairing. self is flipped
	// by Close; peer is observed by Send/TryRecv to detect closure.
	self *atomix.Uint32
	peer *atomix.Uint32

	// sendMu serializes producers sharing this handle, recvMu consumers.
	// sendSlot is the pre-staged enqueue value, guarded by sendMu.
	sendMu   atomix.Uint32
	recvMu   atomix.Uint32
	sendSlot S

	// in-flight message counts per direction. The rings are sized to at
	// least the requested capacity (lfq rounds up to a power of two and
	// needs two slots minimum), so the requested bound is enforced here:
	// sendN counts the outgoing direction, recvN the incoming one.
	sendN *atomix.Uint32
	recvN *atomix.Uint32

	capacity int
	serial   Serial
}

// pairing holds both endpoints, both rings, and the release flags in a
// single allocation. SPSC rings are embedded as values; only the ring
// buffers are separate heap objects.
type pairing[S, R any] struct {
	a          Endpoint[S, R]
	b          Endpoint[R, S]
	closedA    atomix.Uint32
	closedB    atomix.Uint32
	inflightAB atomix.Uint32
	inflightBA atomix.Uint32
	dataAB     lfq.SPSC[S]
	dataBA     lfq.SPSC[R]
}

// New creates a connected, cross-wired pair of channel endpoints: the
// first sends S and receives R, the second is the mirror. Each direction
// is an independent bounded lock-free SPSC ring of the given capacity,
// fixed for the lifetime of the pairing.
//
// Capacity must be at least 1; the rings are buffer-backed and cannot
// express a zero-capacity rendezvous, so smaller values fail with
// ErrInvalidCapacity. New never blocks and has no side effect beyond
// allocating the pairing.
//
// Each endpoint should be released with Close when its party is done:
// release is what turns the peer's blocking operations into ClosedError
// and ErrDisconnected instead of waiting forever.
func New[S, R any](capacity int) (*Endpoint[S, R], *Endpoint[R, S], error) {
	if capacity < 1 {
		return nil, nil, ErrInvalidCapacity
	}
	s := nextSerial()

	// lfq rings need at least two slots and round up to a power of two,
	// so the ring is only an upper bound; the in-flight counters enforce
	// the exact requested capacity per direction.
	ringCapacity := capacity
	if ringCapacity < 2 {
		ringCapacity = 2
	}

	p := &pairing[S, R]{}
	p.dataAB.Init(ringCapacity)
	p.dataBA.Init(ringCapacity)

	p.a = Endpoint[S, R]{
		sendQ:    &p.dataAB,
		recvQ:    &p.dataBA,
		self:     &p.closedA,
		peer:     &p.closedB,
		sendN:    &p.inflightAB,
		recvN:    &p.inflightBA,
		capacity: capacity,
		serial:   s,
	}
	p.b = Endpoint[R, S]{
		sendQ:    &p.dataBA,
		recvQ:    &p.dataAB,
		self:     &p.closedB,
		peer:     &p.closedA,
		sendN:    &p.inflightBA,
		recvN:    &p.inflightAB,
		capacity: capacity,
		serial:   s,
	}
	return &p.a, &p.b, nil
}

// Serial returns the serial number assigned to this endpoint's pairing.
func (ep *Endpoint[S, R]) Serial() Serial {
	return ep.serial
}

// Capacity returns the per-direction ring capacity fixed at New.
func (ep *Endpoint[S, R]) Capacity() int {
	return ep.capacity
}

// Close releases this endpoint. Idempotent, never blocks. After release
// the peer's sends fail with ClosedError, the peer's receives drain
// whatever is still buffered before reporting permanent closure, and
// this endpoint's own sends fail with ClosedError as well. The
// transition is one-way; a released endpoint cannot be reopened.
func (ep *Endpoint[S, R]) Close() {
	ep.self.CompareAndSwap(0, 1)
}

// Closed reports whether this endpoint has been released.
func (ep *Endpoint[S, R]) Closed() bool {
	return ep.self.Load() != 0
}

// lock spins until the guard is acquired, backing off between attempts.
// Critical sections are a single non-blocking ring operation, so the
// guard is only ever held for a bounded, tiny window.
func lock(mu *atomix.Uint32) {
	var bo iox.Backoff
	for !mu.CompareAndSwap(0, 1) {
		bo.Wait()
	}
}

func unlock(mu *atomix.Uint32) {
	mu.Store(0)
}
