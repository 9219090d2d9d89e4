// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bichan_test

import (
	"fmt"
	"testing"

	"code.hybscloud.com/bichan"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

func TestStepAdvanceSendRecv(t *testing.T) {
	skipRace(t)
	// Full protocol via Step+Advance loop
	epA, epB, _ := bichan.New[int, string](4)

	client := bichan.Reify(bichan.SendThen[int, string](42,
		bichan.RecvBind[int, string](func(s string) kont.Eff[string] {
			return bichan.CloseDone[int, string](s)
		}),
	))
	server := bichan.Reify(bichan.RecvBind[string, int](func(n int) kont.Eff[string] {
		return bichan.SendThen[string, int](fmt.Sprintf("got %d", n),
			bichan.CloseDone[string, int]("done"),
		)
	}))

	var clientResult string
	done := make(chan struct{})
	go func() {
		clientResult = execExpr(epA, client)
		close(done)
	}()
	serverResult := execExpr(epB, server)
	<-done

	if clientResult != "got 42" {
		t.Fatalf("client got %q, want %q", clientResult, "got 42")
	}
	if serverResult != "done" {
		t.Fatalf("server got %q, want %q", serverResult, "done")
	}
}

func TestStepInspectOperations(t *testing.T) {
	skipRace(t)
	// susp.Op() returns concrete Send[int, string], Close[int, string]
	protocol := bichan.Reify(bichan.SendThen[int, string](42,
		bichan.CloseDone[int, string](struct{}{}),
	))

	_, susp := bichan.Step[struct{}](protocol)
	if susp == nil {
		t.Fatal("expected suspension for Send")
	}
	sendOp, ok := susp.Op().(bichan.Send[int, string])
	if !ok {
		t.Fatalf("expected Send[int, string], got %T", susp.Op())
	}
	if sendOp.Value != 42 {
		t.Fatalf("Send value got %d, want 42", sendOp.Value)
	}

	// Dispatch the Send on an endpoint, then check next op is Close
	epA, _, _ := bichan.New[int, string](4)
	_, susp, err := bichan.Advance(epA, susp)
	if err != nil {
		t.Fatalf("Advance Send error: %v", err)
	}
	if susp == nil {
		t.Fatal("expected suspension for Close")
	}
	if _, ok := susp.Op().(bichan.Close[int, string]); !ok {
		t.Fatalf("expected Close[int, string], got %T", susp.Op())
	}

	_, susp, err = bichan.Advance(epA, susp)
	if err != nil {
		t.Fatalf("Advance Close error: %v", err)
	}
	if susp != nil {
		t.Fatal("expected nil suspension after Close")
	}
	if !epA.Closed() {
		t.Fatal("Close dispatch did not release the endpoint")
	}
}

func TestAdvanceRecvWouldBlock(t *testing.T) {
	skipRace(t)
	epA, epB, _ := bichan.New[int, string](4)

	receiver := bichan.Reify(bichan.RecvBind[int, string](func(s string) kont.Eff[string] {
		return bichan.CloseDone[int, string](s)
	}))

	_, susp := bichan.Step[string](receiver)
	// Advance returns iox.ErrWouldBlock when the ring is empty, retryable
	_, retry, err := bichan.Advance(epA, susp)
	if !iox.IsWouldBlock(err) {
		t.Fatalf("Advance on empty ring got %v, want ErrWouldBlock", err)
	}
	if retry != susp {
		t.Fatal("would-block must leave the suspension unconsumed")
	}

	epB.Send("hi")
	result, susp, err := bichan.Advance(epA, retry)
	if err != nil {
		t.Fatalf("Advance after peer send: %v", err)
	}
	for susp != nil {
		result, susp, err = bichan.Advance(epA, susp)
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	if result != "hi" {
		t.Fatalf("result got %q, want %q", result, "hi")
	}
}

func TestAdvanceSendWouldBlock(t *testing.T) {
	skipRace(t)
	epA, _, _ := bichan.New[int, string](1)

	sender := bichan.Reify(bichan.SendThen[int, string](1,
		bichan.SendThen[int, string](2,
			bichan.CloseDone[int, string](struct{}{}),
		),
	))

	_, susp := bichan.Step[struct{}](sender)
	_, susp, err := bichan.Advance(epA, susp)
	if err != nil {
		t.Fatalf("first Advance: %v", err)
	}
	// Advance returns iox.ErrWouldBlock when the send ring is full
	_, _, err = bichan.Advance(epA, susp)
	if !iox.IsWouldBlock(err) {
		t.Fatalf("Advance on full ring got %v, want ErrWouldBlock", err)
	}
}
