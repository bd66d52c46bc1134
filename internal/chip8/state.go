package chip8

import "fmt"

// ProgramStart is the memory address execution begins at, and the address
// ROM bytes are loaded to. Addresses below it are reserved for the
// interpreter; this implementation stores the font table there instead of
// an actual interpreter, since we run natively rather than sharing memory
// with one.
const ProgramStart uint16 = 0x200

// StackDepth is the number of call frames the hardware stack holds.
const StackDepth = 16

// MaxROMSize is the largest ROM that fits between ProgramStart and the end
// of addressable memory.
const MaxROMSize = 0x1000 - int(ProgramStart)

// State is the entire machine: memory, registers, framebuffer, stack,
// timers, and the two input latches the executor and driver observe. It is
// deliberately a plain value (no pointers to heap-allocated substructures)
// so that copying a State is already a correct deep copy - the driver's
// snapshot ring for step-back debugging relies on this.
type State struct {
	Memory [4096]byte
	V      [16]byte
	I      uint16
	PC     uint16
	Stack  [StackDepth]uint16
	SP     uint8

	DelayTimer byte
	SoundTimer byte

	// CurrentKeyDown names the single hex digit currently held, or nil if
	// no key is down.
	CurrentKeyDown *byte
	// KeyReleasedSinceLastInstruction names the last key to transition
	// from down to up, or nil. The driver clears this after each
	// executed instruction; LoadFromKeyPress is the only instruction
	// that reads it.
	KeyReleasedSinceLastInstruction *byte

	// Framebuffer is 32 rows of 8 bytes, packed 8 pixels per byte with
	// the MSB of byte 0 as column 0. Renderers and debug views read this
	// directly; do not change the layout without updating every
	// consumer.
	Framebuffer [32][8]byte

	// FontAddresses maps hex digit 0x0-0xF to the address of its 5-byte
	// glyph inside Memory.
	FontAddresses [16]uint16
}

// New constructs a machine with zeroed memory and registers, the font table
// installed in the reserved low region, and the program counter at
// ProgramStart.
func New() *State {
	s := &State{PC: ProgramStart}
	s.installFontSet()
	return s
}

func (s *State) installFontSet() {
	for digit := 0; digit < 16; digit++ {
		addr := fontBaseAddr + uint16(digit*fontBytesPerGlyph)
		s.FontAddresses[digit] = addr
		copy(s.Memory[addr:addr+fontBytesPerGlyph], FontSet[digit*fontBytesPerGlyph:(digit+1)*fontBytesPerGlyph])
	}
}

// Load copies rom into memory starting at ProgramStart. Bytes beyond the end
// of rom are left zeroed (the memory a fresh State starts with). It returns
// an error if rom does not fit in the address space.
func (s *State) Load(rom []byte) error {
	if len(rom) > MaxROMSize {
		return fmt.Errorf("chip8: rom is %d bytes, max size is %d", len(rom), MaxROMSize)
	}
	copy(s.Memory[ProgramStart:], rom)
	return nil
}

// Reset returns the machine to the state New produces, preserving nothing
// of the previous run.
func (s *State) Reset() {
	*s = State{PC: ProgramStart}
	s.installFontSet()
}

// TickTimers decrements DelayTimer and SoundTimer toward zero. It is called
// by the driver at a fixed 60Hz, independent of instruction execution.
func (s *State) TickTimers() {
	if s.DelayTimer > 0 {
		s.DelayTimer--
	}
	if s.SoundTimer > 0 {
		s.SoundTimer--
	}
}

// KeyEvent is a single key-level input event: a hex digit 0x0-0xF being
// pressed or released.
type KeyEvent struct {
	Digit    byte
	Released bool
}

// ApplyKeyEvent updates CurrentKeyDown and KeyReleasedSinceLastInstruction
// per the press/release contract in the spec: a press sets the held digit,
// a release clears it (if it matches) and latches the released digit for
// LoadFromKeyPress to observe.
func (s *State) ApplyKeyEvent(ev KeyEvent) {
	digit := ev.Digit
	if !ev.Released {
		d := digit
		s.CurrentKeyDown = &d
		return
	}
	if s.CurrentKeyDown != nil && *s.CurrentKeyDown == digit {
		s.CurrentKeyDown = nil
	}
	d := digit
	s.KeyReleasedSinceLastInstruction = &d
}

// ClearKeyReleaseLatch clears KeyReleasedSinceLastInstruction. The driver
// calls this after every executed instruction, per the spec's "cleared by
// the driver after each executed instruction" contract.
func (s *State) ClearKeyReleaseLatch() {
	s.KeyReleasedSinceLastInstruction = nil
}

// FetchWord returns the two bytes at PC as decode expects them: hi, lo.
func (s *State) FetchWord() (hi, lo byte) {
	return s.Memory[s.PC], s.Memory[s.PC+1]
}

// String implements fmt.Stringer with a compact register dump, useful for
// the debug TUI and for diagnostic fault lines.
func (s *State) String() string {
	return fmt.Sprintf(
		"pc=%#03x sp=%d i=%#03x dt=%d st=%d v=%02X",
		s.PC, s.SP, s.I, s.DelayTimer, s.SoundTimer, s.V,
	)
}
