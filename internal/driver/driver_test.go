package driver

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/ashgriffith/chip8vm/internal/chip8"
)

// fakeTicker is a Ticker the test fires by hand.
type fakeTicker struct{ ch chan time.Time }

func newFakeTicker() *fakeTicker { return &fakeTicker{ch: make(chan time.Time)} }

func (t *fakeTicker) Chan() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()                  {}

func (t *fakeTicker) fire() { t.ch <- time.Time{} }

// fakeClock hands out fakeTickers in the order New requests them:
// instruction, timer, render.
type fakeClock struct{ tickers []*fakeTicker }

func (c *fakeClock) newTicker(time.Duration) Ticker {
	t := newFakeTicker()
	c.tickers = append(c.tickers, t)
	return t
}

func romState(t *testing.T, rom []byte) *chip8.State {
	t.Helper()
	s := chip8.New()
	if err := s.Load(rom); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func TestDriverStepExecutesOneInstruction(t *testing.T) {
	// CLS; JP 0x200 (infinite loop)
	s := romState(t, []byte{0x00, 0xE0, 0x12, 0x00})
	d := New(s, Options{})

	d.Step()
	if s.PC != chip8.ProgramStart+2 {
		t.Errorf("PC = %#x, want %#x", s.PC, chip8.ProgramStart+2)
	}
	if d.Faulted != nil {
		t.Fatalf("unexpected fault: %v", d.Faulted)
	}
}

func TestDriverStepClearsKeyReleaseLatch(t *testing.T) {
	s := romState(t, []byte{0x00, 0xE0})
	released := byte(0x3)
	s.KeyReleasedSinceLastInstruction = &released

	d := New(s, Options{})
	d.Step()

	if s.KeyReleasedSinceLastInstruction != nil {
		t.Error("Step should clear the key-release latch after executing")
	}
}

func TestDriverStepStopsOnFault(t *testing.T) {
	// 00EE, RET with an empty stack: always faults.
	s := romState(t, []byte{0x00, 0xEE})
	d := New(s, Options{})

	d.Step()
	if d.Faulted == nil {
		t.Fatal("expected a fault from RET with an empty stack")
	}

	pcAfterFault := s.PC
	d.Step() // should be a no-op once faulted
	if s.PC != pcAfterFault {
		t.Error("Step should not execute further instructions once faulted")
	}
}

func TestDriverStepReportsFault(t *testing.T) {
	s := romState(t, []byte{0x00, 0xEE})
	var reported bool
	d := New(s, Options{})
	d.Faults = faultReporterFunc(func(*chip8.State, chip8.Instruction, error) {
		reported = true
	})

	d.Step()
	if !reported {
		t.Error("Faults.ReportFault should be called on a faulting instruction")
	}
}

type faultReporterFunc func(*chip8.State, chip8.Instruction, error)

func (f faultReporterFunc) ReportFault(st *chip8.State, instr chip8.Instruction, err error) {
	f(st, instr, err)
}

func TestDriverStepBackRestoresPriorState(t *testing.T) {
	s := romState(t, []byte{0x00, 0xE0, 0x00, 0xE0})
	d := New(s, Options{})

	d.Step()
	pcAfterFirst := s.PC
	d.Step()

	d.StepBack()
	if s.PC != pcAfterFirst {
		t.Errorf("PC after StepBack = %#x, want %#x", s.PC, pcAfterFirst)
	}
}

func TestDriverStepBackOnEmptyRingIsNoop(t *testing.T) {
	s := romState(t, []byte{0x00, 0xE0})
	d := New(s, Options{})

	d.StepBack() // nothing stepped yet
	if s.PC != chip8.ProgramStart {
		t.Errorf("PC = %#x, want unchanged %#x", s.PC, chip8.ProgramStart)
	}
}

func TestDriverPauseResume(t *testing.T) {
	s := romState(t, []byte{0x00, 0xE0})
	d := New(s, Options{})

	if d.Paused() {
		t.Fatal("driver should not start paused by default")
	}
	d.Pause()
	if !d.Paused() {
		t.Fatal("Pause should set Paused() true")
	}
	d.Resume()
	if d.Paused() {
		t.Fatal("Resume should set Paused() false")
	}
}

func TestNewAppliesDefaultsForZeroOptions(t *testing.T) {
	s := romState(t, []byte{0x00, 0xE0})
	d := New(s, Options{})
	defer d.instrTicker.Stop()
	defer d.timerTicker.Stop()
	defer d.renderTicker.Stop()

	if d.paused {
		t.Fatal("zero-value Options should not start paused")
	}
}

// TestRequestStepAppliesThroughRunGoroutine exercises the debug front-end
// path: RequestStep/RequestStepBack/RequestPause must be safe to call from a
// goroutine other than the one running Run, since a debug front end and Run
// execute concurrently in cmd/run.go's runDebugFE.
func TestRequestStepAppliesThroughRunGoroutine(t *testing.T) {
	s := romState(t, []byte{0x00, 0xE0, 0x12, 0x00})
	d := New(s, Options{StartPaused: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.RequestStep()
	waitFor(t, func() bool { return s.PC == chip8.ProgramStart+2 })

	// The second instruction is JP 0x200, which jumps back to the start.
	d.RequestPause()
	d.RequestStep()
	waitFor(t, func() bool { return s.PC == chip8.ProgramStart })

	d.RequestStepBack()
	waitFor(t, func() bool { return s.PC == chip8.ProgramStart+2 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

type renderChan chan [32][8]byte

func (r renderChan) Render(fb [32][8]byte) { r <- fb }

// TestRunServicesEachCadence drives Run with hand-fired fake tickers: one
// instruction tick executes one instruction, one timer tick decrements the
// timers, and one render tick produces one frame, each serviced before the
// next fires.
func TestRunServicesEachCadence(t *testing.T) {
	// CLS; JP 0x200 (infinite loop)
	s := romState(t, []byte{0x00, 0xE0, 0x12, 0x00})
	s.DelayTimer = 5

	clock := &fakeClock{}
	d := New(s, Options{NewTicker: clock.newTicker})
	frames := make(renderChan, 1)
	d.Renderer = frames

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	instr, timer, render := clock.tickers[0], clock.tickers[1], clock.tickers[2]

	instr.fire()
	waitFor(t, func() bool { return s.PC == chip8.ProgramStart+2 })

	timer.fire()
	waitFor(t, func() bool { return s.DelayTimer == 4 })

	render.fire()
	select {
	case <-frames:
	case <-time.After(time.Second):
		t.Fatal("render tick did not produce a frame")
	}
}

// TestStepBackRoundTrip steps N times and steps back N times, asserting the
// machine returns to the exact pre-step state, snapshots included.
func TestStepBackRoundTrip(t *testing.T) {
	// Four CLS in a row.
	s := romState(t, []byte{0x00, 0xE0, 0x00, 0xE0, 0x00, 0xE0, 0x00, 0xE0})
	d := New(s, Options{})
	orig := *s

	const n = 4
	for i := 0; i < n; i++ {
		d.Step()
	}
	if d.Faulted != nil {
		t.Fatalf("unexpected fault: %v", d.Faulted)
	}
	for i := 0; i < n; i++ {
		d.StepBack()
	}

	if !reflect.DeepEqual(*s, orig) {
		t.Errorf("state after %d steps and %d step-backs differs from the original: %s vs %s", n, n, s, &orig)
	}
}

// TestSnapshotRingEvictsOldest steps one past the ring's capacity: the
// oldest snapshot is evicted, so stepping all the way back lands one step
// short of the original state.
func TestSnapshotRingEvictsOldest(t *testing.T) {
	rom := make([]byte, 0, (snapshotDepth+1)*2)
	for i := 0; i <= snapshotDepth; i++ {
		rom = append(rom, 0x00, 0xE0)
	}
	s := romState(t, rom)
	d := New(s, Options{})

	d.Step()
	afterFirst := *s

	for i := 0; i < snapshotDepth; i++ {
		d.Step()
	}
	for i := 0; i <= snapshotDepth; i++ {
		d.StepBack()
	}

	if !reflect.DeepEqual(*s, afterFirst) {
		t.Errorf("state = %s, want the post-first-step state %s (oldest snapshot evicted)", s, &afterFirst)
	}
}

func TestFaultLineFormat(t *testing.T) {
	instr := chip8.Return{}
	err := chip8.EmptyStack{}
	got := FaultLine(instr, err)
	want := "RET: empty stack: no frame to return to"
	if got != want {
		t.Errorf("FaultLine = %q, want %q", got, want)
	}
}
