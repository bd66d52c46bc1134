package chip8

import "fmt"

// Fault is the closed taxonomy of errors the executor and serializer can
// return. Faults are program errors, not I/O errors: the driver treats every
// one of them as terminal for the running ROM. Callers that want to branch
// on the kind of fault rather than its message should use errors.As against
// one of the concrete types below.
type Fault interface {
	error
	isFault()
}

// InvalidRegisterForInstruction is returned when an instruction names a
// register operand that isn't valid for its position - either a
// GeneralRegister index outside 0-15, or a special register (I, DT, ST)
// used somewhere the decode table never produces one. The decoder itself
// never builds such an instruction; this guard exists to catch
// hand-constructed instructions from tests or the serializer's inverse
// paths.
type InvalidRegisterForInstruction struct{ Instr Instruction }

// UnhandleableInstruction is returned for JumpToMachineCode (the legacy SYS
// instruction this interpreter doesn't implement) and for Unknown (any word
// that didn't decode to a known pattern).
type UnhandleableInstruction struct{ Instr Instruction }

// StackOverflow is returned by Call when the stack's 16 slots are already
// full.
type StackOverflow struct{}

// InvalidCallOrJumpAddress is returned when Call's target address is odd, or
// when JumpToAddress computes a target address that is odd or outside
// 0x200-0xFFF.
type InvalidCallOrJumpAddress struct{ Addr uint16 }

// EmptyStack is returned by Return when the stack has no frames to pop.
type EmptyStack struct{}

// InvalidFontDigit is returned by LoadSpriteLocation when the named register
// holds a value greater than 0xF.
type InvalidFontDigit struct{ Digit byte }

func (InvalidRegisterForInstruction) isFault() {}
func (UnhandleableInstruction) isFault()       {}
func (StackOverflow) isFault()                 {}
func (InvalidCallOrJumpAddress) isFault()      {}
func (EmptyStack) isFault()                    {}
func (InvalidFontDigit) isFault()              {}

func (f InvalidRegisterForInstruction) Error() string {
	return fmt.Sprintf("invalid register for instruction %s", f.Instr)
}

func (f UnhandleableInstruction) Error() string {
	return fmt.Sprintf("unhandleable instruction %s", f.Instr)
}

func (StackOverflow) Error() string { return "stack overflow: call stack already has 16 frames" }

func (f InvalidCallOrJumpAddress) Error() string {
	return fmt.Sprintf("invalid call or jump address %#03x", f.Addr)
}

func (EmptyStack) Error() string { return "empty stack: no frame to return to" }

func (f InvalidFontDigit) Error() string {
	return fmt.Sprintf("invalid font digit %#02x: must be 0-F", f.Digit)
}

// UnserializableInstruction is returned by Serialize for an instruction
// variant that has no canonical byte encoding, such as LoadFromRegister
// between two special registers.
type UnserializableInstruction struct{ Instr Instruction }

// InvalidSubtractionStoredIn is returned by Serialize for a Subtract whose
// StoredIn register is neither its Minuend nor its Subtrahend, which cannot
// be expressed by 8xy5/8xy7.
type InvalidSubtractionStoredIn struct{ Instr Subtract }

func (UnserializableInstruction) isFault()  {}
func (InvalidSubtractionStoredIn) isFault() {}

func (f UnserializableInstruction) Error() string {
	return fmt.Sprintf("instruction has no canonical encoding: %s", f.Instr)
}

func (f InvalidSubtractionStoredIn) Error() string {
	return fmt.Sprintf("subtract's StoredIn register matches neither operand: %s", f.Instr)
}
