// Package driver paces instruction dispatch, 60Hz timer ticks, and
// rendering against a chip8.State, and provides the single-step /
// step-back affordance a debugger front end drives. It owns the machine
// state exclusively: state never crosses a goroutine boundary except by the
// value copies the snapshot ring already requires.
package driver

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ashgriffith/chip8vm/internal/chip8"
	"github.com/pkg/errors"
)

// snapshotDepth bounds the step-back ring. The spec calls for "a bounded
// ring (e.g. 10 slots)"; ten is what we use.
const snapshotDepth = 10

// DefaultLogger discards everything. A caller that wants driver-level
// diagnostics (fault lines, in the current build) swaps in its own
// *log.Logger after New.
var DefaultLogger = log.New(io.Discard, "", 0)

// Renderer consumes a rendered frame. Implementations live outside the
// core - this interface is the seam the spec's §1 "framebuffer is exposed;
// a renderer consumes it" draws.
type Renderer interface {
	Render(fb [32][8]byte)
}

// Ticker abstracts time.Ticker behind the two operations the driver needs,
// so tests can substitute a hand-fired fake and drive the three cadences
// deterministically.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type realTicker struct{ *time.Ticker }

func (t realTicker) Chan() <-chan time.Time { return t.C }

// NewTicker is the production Ticker factory, wrapping time.NewTicker.
func NewTicker(d time.Duration) Ticker { return realTicker{time.NewTicker(d)} }

// AudioSink is notified whenever the sound timer transitions to a nonzero
// value on a tick, i.e. the moment a beep should start.
type AudioSink interface {
	Beep()
}

// Fault is reported to a FaultReporter when the executor returns an error.
// The driver keeps rendering after a fault; it does not exit the process
// itself - that decision belongs to cmd/.
type FaultReporter interface {
	ReportFault(st *chip8.State, instr chip8.Instruction, err error)
}

// Options configures the three independent cadences and the starting mode.
type Options struct {
	InstructionsPerSecond int
	FramesPerSecond       int
	StartPaused           bool

	// NewTicker overrides the Ticker factory. Leave nil for real wall-clock
	// tickers; tests set it to inject hand-fired fakes.
	NewTicker func(time.Duration) Ticker
}

// DefaultOptions matches the spec's recognized configuration defaults.
var DefaultOptions = Options{
	InstructionsPerSecond: 500,
	FramesPerSecond:       60,
}

const timerHz = 60

// Driver owns a machine State and paces its execution against real wall
// clock time, decoupling the CPU, timer, and render cadences the way
// a single run loop might couple them onto one shared ticker - generalized here into
// three.
type Driver struct {
	State *chip8.State
	rng   chip8.Source

	Renderer Renderer
	Audio    AudioSink
	Faults   FaultReporter
	Logger   *log.Logger

	instrTicker  Ticker
	timerTicker  Ticker
	renderTicker Ticker

	keyEvents chan chip8.KeyEvent
	debugCmds chan debugCmd

	paused  bool
	ring    []chip8.State // snapshot ring for step-back, oldest first
	Faulted error
}

// debugCmd is a request from a debug front end to mutate the driver's mode
// or step the machine. Front ends must submit these through RequestStep /
// RequestStepBack / RequestPause / RequestResume rather than calling Step /
// StepBack / Pause / Resume directly when Run is executing in another
// goroutine - those methods assume the caller already owns the single
// thread the spec's §5 concurrency model requires, which Run's goroutine
// does once it is started.
type debugCmd int

const (
	cmdStep debugCmd = iota
	cmdStepBack
	cmdPause
	cmdResume
)

// New constructs a Driver over st using opts' cadences. st should already
// have a ROM loaded.
func New(st *chip8.State, opts Options) *Driver {
	if opts.InstructionsPerSecond <= 0 {
		opts.InstructionsPerSecond = DefaultOptions.InstructionsPerSecond
	}
	if opts.FramesPerSecond <= 0 {
		opts.FramesPerSecond = DefaultOptions.FramesPerSecond
	}
	newTicker := opts.NewTicker
	if newTicker == nil {
		newTicker = NewTicker
	}
	return &Driver{
		State:        st,
		rng:          chip8.NewDefaultSource(),
		Logger:       DefaultLogger,
		instrTicker:  newTicker(time.Second / time.Duration(opts.InstructionsPerSecond)),
		timerTicker:  newTicker(time.Second / timerHz),
		renderTicker: newTicker(time.Second / time.Duration(opts.FramesPerSecond)),
		keyEvents:    make(chan chip8.KeyEvent, 16),
		debugCmds:    make(chan debugCmd, 16),
		paused:       opts.StartPaused,
	}
}

// PushKeyEvent enqueues a key press/release observed by a front end. It
// never blocks the caller's goroutine for long: the channel is buffered,
// and a full buffer means the driver is badly behind, which a blocking send
// would only make worse to diagnose.
func (d *Driver) PushKeyEvent(ev chip8.KeyEvent) {
	select {
	case d.keyEvents <- ev:
	default:
	}
}

// Run is the main loop: it services key events, timer ticks, and render
// ticks every pass, and - unless paused - fetches, decodes, and executes
// one instruction per instruction tick. It returns when ctx is cancelled.
// A fault does not return an error from Run; it is reported through Faults
// and Run keeps servicing timers and renders so the last frame stays
// visible, per the spec's "the driver keeps rendering" contract.
func (d *Driver) Run(ctx context.Context) {
	defer d.instrTicker.Stop()
	defer d.timerTicker.Stop()
	defer d.renderTicker.Stop()

	soundOn := false
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.keyEvents:
			d.State.ApplyKeyEvent(ev)
		case cmd := <-d.debugCmds:
			switch cmd {
			case cmdStep:
				d.Step()
			case cmdStepBack:
				d.StepBack()
			case cmdPause:
				d.Pause()
			case cmdResume:
				d.Resume()
			}
		case <-d.instrTicker.Chan():
			if !d.paused && d.Faulted == nil {
				d.Step()
			}
		case <-d.timerTicker.Chan():
			d.State.TickTimers()
			nowOn := d.State.SoundTimer > 0
			if nowOn && !soundOn && d.Audio != nil {
				d.Audio.Beep()
			}
			soundOn = nowOn
		case <-d.renderTicker.Chan():
			if d.Renderer != nil {
				d.Renderer.Render(d.State.Framebuffer)
			}
		}
	}
}

// Step executes exactly one instruction: fetch, decode, execute, clear the
// key-release latch, and push a snapshot onto the step-back ring. It is
// exported so a debug front end can drive it directly while the instruction
// ticker is paused, and is what Run calls internally on each instruction
// tick.
func (d *Driver) Step() {
	if d.Faulted != nil {
		return
	}
	d.pushSnapshot()

	hi, lo := d.State.FetchWord()
	instr := chip8.Decode(hi, lo)
	if err := chip8.Execute(instr, d.State, d.rng); err != nil {
		d.Faulted = errors.Wrapf(err, "%s", instr)
		if d.Logger != nil {
			d.Logger.Print(FaultLine(instr, err))
		}
		if d.Faults != nil {
			d.Faults.ReportFault(d.State, instr, err)
		}
		return
	}
	d.State.ClearKeyReleaseLatch()
}

// StepBack restores the machine to the state it was in immediately before
// the most recent Step, popping one entry off the snapshot ring. It is a
// no-op if the ring is empty (nothing left to step back to) - the ring's
// bounded depth means stepping back more than snapshotDepth times in a row
// eventually hits this.
func (d *Driver) StepBack() {
	if len(d.ring) == 0 {
		return
	}
	last := len(d.ring) - 1
	*d.State = d.ring[last]
	d.ring = d.ring[:last]
	d.Faulted = nil
}

// Pause suppresses the instruction cadence without affecting timers or
// rendering, putting the driver into the debug/single-step mode the spec
// describes in §4.4.
func (d *Driver) Pause()       { d.paused = true }
func (d *Driver) Resume()      { d.paused = false }
func (d *Driver) Paused() bool { return d.paused }

// pushDebugCmd enqueues cmd for Run's goroutine to apply, never blocking
// the caller: a full buffer means a flood of requests is already queued,
// and dropping one more is preferable to stalling the front end's input
// loop.
func (d *Driver) pushDebugCmd(cmd debugCmd) {
	select {
	case d.debugCmds <- cmd:
	default:
	}
}

// RequestStep asks Run's goroutine to execute one instruction. Use this
// instead of calling Step directly from a front-end goroutine while Run is
// active; call Step directly only when Run has not been started (e.g. in
// tests driving the driver synchronously).
func (d *Driver) RequestStep() { d.pushDebugCmd(cmdStep) }

// RequestStepBack asks Run's goroutine to pop the most recent snapshot off
// the step-back ring. See RequestStep for when to prefer this over StepBack.
func (d *Driver) RequestStepBack() { d.pushDebugCmd(cmdStepBack) }

// RequestPause asks Run's goroutine to suppress the instruction cadence.
// See RequestStep for when to prefer this over Pause.
func (d *Driver) RequestPause() { d.pushDebugCmd(cmdPause) }

// RequestResume asks Run's goroutine to resume the instruction cadence. See
// RequestStep for when to prefer this over Resume.
func (d *Driver) RequestResume() { d.pushDebugCmd(cmdResume) }

func (d *Driver) pushSnapshot() {
	d.ring = append(d.ring, *d.State)
	if len(d.ring) > snapshotDepth {
		d.ring = d.ring[1:]
	}
}

// FaultLine formats a fault the way the spec's §6 "diagnostic line" wants:
// "<mnemonic> <operands>: <fault>". instr.String() already renders
// mnemonic plus operands together.
func FaultLine(instr chip8.Instruction, err error) string {
	return fmt.Sprintf("%s: %v", instr, err)
}
