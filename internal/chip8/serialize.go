package chip8

// Serialize is the inverse of Decode: given an Instruction, it produces the
// two bytes that decode to it. It returns UnserializableInstruction for
// variants with no canonical encoding (for example LoadFromRegister between
// two special registers) and InvalidSubtractionStoredIn for a Subtract
// whose StoredIn is neither its Minuend nor its Subtrahend.
//
// The round-trip law this exists to support: for every (hi, lo) that
// decodes to a non-Unknown instruction with a canonical encoding,
// Serialize(Decode(hi, lo)) == (hi, lo). For Unknown{bytes}, the round trip
// preserves the original two bytes exactly.
func Serialize(instr Instruction) (hi, lo byte, err error) {
	switch in := instr.(type) {
	case JumpToMachineCode:
		return splitAddr(in.Addr)
	case ClearDisplay:
		return 0x00, 0xE0, nil
	case Return:
		return 0x00, 0xEE, nil
	case JumpToAddress:
		ahi, alo, _ := splitAddr(in.Addr)
		if in.AddV0 {
			return 0xB0 | ahi, alo, nil
		}
		return 0x10 | ahi, alo, nil
	case Call:
		hi, lo, _ = splitAddr(in.Addr)
		return 0x20 | hi, lo, nil
	case SkipIfEqual:
		x, err := requireGeneral(in.Reg, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x30 | x, in.Value, nil
	case SkipIfNotEqual:
		x, err := requireGeneral(in.Reg, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x40 | x, in.Value, nil
	case SkipIfRegistersEqual:
		x, y, err := requireGeneralPair(in.R1, in.R2, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x50 | x, y << 4, nil
	case LoadFromValue:
		x, err := requireGeneral(in.Dest, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x60 | x, in.Value, nil
	case AddFromValue:
		x, err := requireGeneral(in.Reg, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x70 | x, in.Value, nil
	case LoadFromRegister:
		return serializeLoadFromRegister(in)
	case Or:
		x, y, err := requireGeneralPair(in.R1, in.R2, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x80 | x, y<<4 | 0x1, nil
	case And:
		x, y, err := requireGeneralPair(in.R1, in.R2, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x80 | x, y<<4 | 0x2, nil
	case Xor:
		x, y, err := requireGeneralPair(in.R1, in.R2, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x80 | x, y<<4 | 0x3, nil
	case AddFromRegister:
		return serializeAddFromRegister(in)
	case Subtract:
		return serializeSubtract(in)
	case ShiftRight:
		x, err := requireGeneral(in.Reg, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x80 | x, 0x6, nil
	case ShiftLeft:
		x, err := requireGeneral(in.Reg, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x80 | x, 0xE, nil
	case SkipIfRegistersNotEqual:
		x, y, err := requireGeneralPair(in.R1, in.R2, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x90 | x, y << 4, nil
	case LoadAddressIntoIRegister:
		hi, lo, _ = splitAddr(in.Addr)
		return 0xA0 | hi, lo, nil
	case SetRandom:
		x, err := requireGeneral(in.Reg, in)
		if err != nil {
			return 0, 0, err
		}
		return 0xC0 | x, in.AndValue, nil
	case DrawSprite:
		x, y, err := requireGeneralPair(in.XReg, in.YReg, in)
		if err != nil {
			return 0, 0, err
		}
		return 0xD0 | x, y<<4 | (in.Height & 0x0F), nil
	case SkipIfKeyPressed:
		x, err := requireGeneral(in.Reg, in)
		if err != nil {
			return 0, 0, err
		}
		return 0xE0 | x, 0x9E, nil
	case SkipIfKeyNotPressed:
		x, err := requireGeneral(in.Reg, in)
		if err != nil {
			return 0, 0, err
		}
		return 0xE0 | x, 0xA1, nil
	case LoadFromKeyPress:
		x, err := requireGeneral(in.Dest, in)
		if err != nil {
			return 0, 0, err
		}
		return 0xF0 | x, 0x0A, nil
	case LoadSpriteLocation:
		x, err := requireGeneral(in.SpriteDigit, in)
		if err != nil {
			return 0, 0, err
		}
		return 0xF0 | x, 0x29, nil
	case LoadBcdValue:
		x, err := requireGeneral(in.Source, in)
		if err != nil {
			return 0, 0, err
		}
		return 0xF0 | x, 0x33, nil
	case LoadIntoMemory:
		x, err := requireGeneral(in.LastRegister, in)
		if err != nil {
			return 0, 0, err
		}
		return 0xF0 | x, 0x55, nil
	case LoadFromMemory:
		x, err := requireGeneral(in.LastRegister, in)
		if err != nil {
			return 0, 0, err
		}
		return 0xF0 | x, 0x65, nil
	case Unknown:
		return byte(in.Bytes >> 8), byte(in.Bytes), nil
	default:
		return 0, 0, UnserializableInstruction{Instr: instr}
	}
}

func splitAddr(addr uint16) (hi, lo byte, err error) {
	return byte(addr >> 8), byte(addr), nil
}

func requireGeneral(r Register, instr Instruction) (byte, error) {
	if r.Kind != GeneralRegister || r.Index > 15 {
		return 0, UnserializableInstruction{Instr: instr}
	}
	return r.Index, nil
}

func requireGeneralPair(r1, r2 Register, instr Instruction) (byte, byte, error) {
	x, err := requireGeneral(r1, instr)
	if err != nil {
		return 0, 0, err
	}
	y, err := requireGeneral(r2, instr)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func serializeLoadFromRegister(in LoadFromRegister) (byte, byte, error) {
	switch {
	case in.Dest.Kind == GeneralRegister && in.Src.Kind == GeneralRegister:
		x, y, err := requireGeneralPair(in.Dest, in.Src, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x80 | x, y << 4, nil
	case in.Dest.Kind == GeneralRegister && in.Src.Kind == DelayTimerRegister:
		x, err := requireGeneral(in.Dest, in)
		if err != nil {
			return 0, 0, err
		}
		return 0xF0 | x, 0x07, nil
	case in.Dest.Kind == DelayTimerRegister && in.Src.Kind == GeneralRegister:
		x, err := requireGeneral(in.Src, in)
		if err != nil {
			return 0, 0, err
		}
		return 0xF0 | x, 0x15, nil
	case in.Dest.Kind == SoundTimerRegister && in.Src.Kind == GeneralRegister:
		x, err := requireGeneral(in.Src, in)
		if err != nil {
			return 0, 0, err
		}
		return 0xF0 | x, 0x18, nil
	default:
		return 0, 0, UnserializableInstruction{Instr: in}
	}
}

func serializeAddFromRegister(in AddFromRegister) (byte, byte, error) {
	switch {
	case in.R1.Kind == GeneralRegister && in.R2.Kind == GeneralRegister:
		x, y, err := requireGeneralPair(in.R1, in.R2, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x80 | x, y<<4 | 0x4, nil
	case in.R1.Kind == IRegister && in.R2.Kind == GeneralRegister:
		y, err := requireGeneral(in.R2, in)
		if err != nil {
			return 0, 0, err
		}
		return 0xF0 | y, 0x1E, nil
	default:
		return 0, 0, UnserializableInstruction{Instr: in}
	}
}

func serializeSubtract(in Subtract) (byte, byte, error) {
	if in.Minuend.Kind != GeneralRegister || in.Subtrahend.Kind != GeneralRegister || in.StoredIn.Kind != GeneralRegister {
		return 0, 0, UnserializableInstruction{Instr: in}
	}
	switch {
	case in.StoredIn == in.Minuend:
		// 8xy5: StoredIn=Vx=Minuend, Subtrahend=Vy.
		x, y, err := requireGeneralPair(in.Minuend, in.Subtrahend, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x80 | x, y<<4 | 0x5, nil
	case in.StoredIn == in.Subtrahend:
		// 8xy7: StoredIn=Vx=Subtrahend, Minuend=Vy.
		x, y, err := requireGeneralPair(in.Subtrahend, in.Minuend, in)
		if err != nil {
			return 0, 0, err
		}
		return 0x80 | x, y<<4 | 0x7, nil
	default:
		return 0, 0, InvalidSubtractionStoredIn{Instr: in}
	}
}
