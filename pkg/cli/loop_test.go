package cli

import (
	"errors"
	"io"
	"reflect"
	"testing"
)

func TestLoop_PassesInputEventsToHandler(t *testing.T) {
	var handlerGotEvents []event

	lp := newLoop()
	lp.HandleCb(func(e event) {
		handlerGotEvents = append(handlerGotEvents, e)
		if e == "^D" {
			lp.Return(Outcome{Kind: Exit}, nil)
		}
	})

	inputPassedEvents := []event{"foo", "bar", "lorem", "ipsum", "^D"}
	supplyInputs(lp, inputPassedEvents...)

	_, _ = lp.Run()
	if !reflect.DeepEqual(handlerGotEvents, inputPassedEvents) {
		t.Errorf("Handler got events %v, expect same as events passed to input (%v)",
			handlerGotEvents, inputPassedEvents)
	}
}

func TestLoop_RunReturnsAfterReturnCalled(t *testing.T) {
	lp := newLoop()
	lp.HandleCb(func(event) { lp.Return(Outcome{Line: "buffer"}, io.EOF) })
	supplyInputs(lp, "x")
	outcome, err := lp.Run()
	if outcome.Line != "buffer" || err != io.EOF {
		t.Errorf("Run -> (%v, %v), want (%v, %v)", outcome, err, "buffer", io.EOF)
	}
}

func TestLoop_FirstReturnWins(t *testing.T) {
	lp := newLoop()
	lp.HandleCb(func(event) {
		lp.Return(Outcome{Kind: Line, Line: "first"}, nil)
		if !lp.HasReturned() {
			t.Errorf("HasReturned -> false after Return")
		}
		lp.Return(Outcome{Kind: Exit, Line: "second"}, nil)
	})
	supplyInputs(lp, "x")
	outcome, err := lp.Run()
	if outcome != (Outcome{Kind: Line, Line: "first"}) || err != nil {
		t.Errorf("Run -> (%v, %v), want first outcome", outcome, err)
	}
}

func TestLoop_HandlesOneEventPerRedraw(t *testing.T) {
	var log []string
	lp := newLoop()
	lp.HandleCb(func(e event) {
		log = append(log, e.(string))
		if e == "c" {
			lp.Return(Outcome{}, nil)
		}
	})
	lp.RedrawCb(func(flag redrawFlag) error {
		if flag&finalRedraw != 0 {
			log = append(log, "final")
		} else {
			log = append(log, "draw")
		}
		return nil
	})
	supplyInputs(lp, "a", "b", "c")
	lp.Run()

	want := []string{"draw", "a", "draw", "b", "draw", "c", "final"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("got %v, want %v", log, want)
	}
}

func TestLoop_RedrawErrorEndsLoop(t *testing.T) {
	errDraw := errors.New("draw failed")
	var flags []redrawFlag
	lp := newLoop()
	lp.RedrawCb(func(flag redrawFlag) error {
		flags = append(flags, flag)
		if flag&abortRedraw == 0 {
			return errDraw
		}
		return nil
	})
	_, err := lp.Run()
	if err != errDraw {
		t.Errorf("Run -> error %v, want %v", err, errDraw)
	}
	want := []redrawFlag{0, finalRedraw | abortRedraw}
	if !reflect.DeepEqual(flags, want) {
		t.Errorf("got flags %v, want %v", flags, want)
	}
}

func TestLoop_ReturnWithErrorAborts(t *testing.T) {
	errHandler := errors.New("handler failed")
	var lastFlag redrawFlag
	lp := newLoop()
	lp.HandleCb(func(event) { lp.Return(Outcome{}, errHandler) })
	lp.RedrawCb(func(flag redrawFlag) error {
		lastFlag = flag
		return nil
	})
	supplyInputs(lp, "x")
	_, err := lp.Run()
	if err != errHandler {
		t.Errorf("Run -> error %v, want %v", err, errHandler)
	}
	if lastFlag != finalRedraw|abortRedraw {
		t.Errorf("last redraw flag %v, want final|abort", lastFlag)
	}
}

func TestLoop_FailedFinalRedrawAborts(t *testing.T) {
	errDraw := errors.New("draw failed")
	var flags []redrawFlag
	lp := newLoop()
	lp.HandleCb(func(event) { lp.Return(Outcome{Kind: Line, Line: "x"}, nil) })
	lp.RedrawCb(func(flag redrawFlag) error {
		flags = append(flags, flag)
		if flag == finalRedraw {
			return errDraw
		}
		return nil
	})
	supplyInputs(lp, "x")
	outcome, err := lp.Run()
	if err != errDraw || outcome.Line != "x" {
		t.Errorf("Run -> (%v, %v), want (%v, %v)", outcome, err, "x", errDraw)
	}
	want := []redrawFlag{0, finalRedraw, finalRedraw | abortRedraw}
	if !reflect.DeepEqual(flags, want) {
		t.Errorf("got flags %v, want %v", flags, want)
	}
}

func TestLoop_CallsDrawWhenRedrawRequestedBeforeRun(t *testing.T) {
	testCallsDrawWhenRedrawRequestedBeforeRun(t, true, fullRedraw)
	testCallsDrawWhenRedrawRequestedBeforeRun(t, false, 0)
}

func testCallsDrawWhenRedrawRequestedBeforeRun(t *testing.T, full bool, wantRedrawFlag redrawFlag) {
	t.Helper()

	var gotRedrawFlag redrawFlag
	drawSeq := 0
	doneCh := make(chan struct{})
	drawer := func(flag redrawFlag) error {
		if drawSeq == 0 {
			gotRedrawFlag = flag
			close(doneCh)
		}
		drawSeq++
		return nil
	}

	lp := newLoop()
	lp.HandleCb(quitOn(lp, "^D", Outcome{Kind: Exit}, nil))
	go func() {
		<-doneCh
		lp.Input("^D")
	}()
	lp.RedrawCb(drawer)
	lp.Redraw(full)
	_, _ = lp.Run()
	if gotRedrawFlag != wantRedrawFlag {
		t.Errorf("Drawer got flag %v, want %v", gotRedrawFlag, wantRedrawFlag)
	}
}

func TestLoop_CallsDrawWhenRedrawRequestedAfterFirstDraw(t *testing.T) {
	testCallsDrawWhenRedrawRequestedAfterFirstDraw(t, true, fullRedraw)
	testCallsDrawWhenRedrawRequestedAfterFirstDraw(t, false, 0)
}

func testCallsDrawWhenRedrawRequestedAfterFirstDraw(t *testing.T, full bool, wantRedrawFlag redrawFlag) {
	t.Helper()

	var gotRedrawFlag redrawFlag
	drawSeq := 0
	firstDrawCalledCh := make(chan struct{})
	doneCh := make(chan struct{})
	drawer := func(flag redrawFlag) error {
		if drawSeq == 0 {
			close(firstDrawCalledCh)
		} else if drawSeq == 1 {
			gotRedrawFlag = flag
			close(doneCh)
		}
		drawSeq++
		return nil
	}

	lp := newLoop()
	lp.HandleCb(quitOn(lp, "^D", Outcome{Kind: Exit}, nil))
	go func() {
		<-doneCh
		lp.Input("^D")
	}()
	lp.RedrawCb(drawer)
	go func() {
		<-firstDrawCalledCh
		lp.Redraw(full)
	}()
	_, _ = lp.Run()
	if gotRedrawFlag != wantRedrawFlag {
		t.Errorf("Drawer got flag %v, want %v", gotRedrawFlag, wantRedrawFlag)
	}
}

func TestLoop_FullLifecycle(t *testing.T) {
	var initialBuffer, finalBuffer string

	buffer := ""
	firstDrawerCall := true
	drawer := func(flag redrawFlag) error {
		switch {
		case firstDrawerCall:
			initialBuffer = buffer
			firstDrawerCall = false
		case flag&finalRedraw != 0:
			finalBuffer = buffer
		}
		return nil
	}

	lp := newLoop()
	lp.HandleCb(func(e event) {
		if e == '\n' {
			lp.Return(Outcome{Kind: Line, Line: buffer}, nil)
			return
		}
		buffer += string(e.(rune))
	})
	go func() {
		for _, event := range "echo\n" {
			lp.Input(event)
		}
	}()
	lp.RedrawCb(drawer)
	outcome, err := lp.Run()

	if initialBuffer != "" {
		t.Errorf("got initial buffer %q, want %q", initialBuffer, "")
	}
	if finalBuffer != "echo" {
		t.Errorf("got final buffer %q, want %q", finalBuffer, "echo")
	}
	if outcome != (Outcome{Kind: Line, Line: "echo"}) {
		t.Errorf("got outcome %v, want Line echo", outcome)
	}
	if err != nil {
		t.Errorf("got error %v, want nil", err)
	}
}

func TestOutcomeKind_String(t *testing.T) {
	for kind, want := range map[OutcomeKind]string{
		Line: "Line", Exit: "Exit", Abort: "Abort", OutcomeKind(7): "OutcomeKind(7)",
	} {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() -> %q, want %q", int(kind), got, want)
		}
	}
}

// Helpers.

func supplyInputs(lp *loop, events ...event) {
	for _, event := range events {
		lp.Input(event)
	}
}

// Returns a HandleCb that quits on a trigger event.
func quitOn(lp *loop, retTrigger event, ret Outcome, err error) handleCb {
	return func(e event) {
		if e == retTrigger {
			lp.Return(ret, err)
		}
	}
}
