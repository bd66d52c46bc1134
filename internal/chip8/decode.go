package chip8

// Decode is a pure, total function from the two bytes at the program
// counter to a typed Instruction. It never fails: a word that matches no
// known pattern decodes to Unknown, and it is the executor's job to turn
// that into a fault.
//
// The word is split into nibbles n1 n2 n3 n4 the same way every CHIP-8
// reference (and every repo this one was built alongside) does: n1 selects
// the family, n2/n3 usually name registers, and the low byte or low 12 bits
// carry an immediate or address.
func Decode(hi, lo byte) Instruction {
	n1 := hi >> 4
	x := hi & 0x0F
	y := lo >> 4
	n4 := lo & 0x0F
	nnn := uint16(x)<<8 | uint16(lo)
	word := uint16(hi)<<8 | uint16(lo)

	switch n1 {
	case 0x0:
		// Only the exact words 00E0 and 00EE are CLS and RET; every other
		// 0nnn word is the legacy SYS instruction, including words like
		// 01E0 whose low byte happens to collide.
		switch word {
		case 0x00E0:
			return ClearDisplay{}
		case 0x00EE:
			return Return{}
		default:
			return JumpToMachineCode{Addr: nnn}
		}
	case 0x1:
		return JumpToAddress{Addr: nnn}
	case 0x2:
		return Call{Addr: nnn}
	case 0x3:
		return SkipIfEqual{Reg: Gen(x), Value: lo}
	case 0x4:
		return SkipIfNotEqual{Reg: Gen(x), Value: lo}
	case 0x5:
		if n4 == 0x0 {
			return SkipIfRegistersEqual{R1: Gen(x), R2: Gen(y)}
		}
		return Unknown{Bytes: word}
	case 0x6:
		return LoadFromValue{Dest: Gen(x), Value: lo}
	case 0x7:
		return AddFromValue{Reg: Gen(x), Value: lo}
	case 0x8:
		switch n4 {
		case 0x0:
			return LoadFromRegister{Dest: Gen(x), Src: Gen(y)}
		case 0x1:
			return Or{R1: Gen(x), R2: Gen(y)}
		case 0x2:
			return And{R1: Gen(x), R2: Gen(y)}
		case 0x3:
			return Xor{R1: Gen(x), R2: Gen(y)}
		case 0x4:
			return AddFromRegister{R1: Gen(x), R2: Gen(y)}
		case 0x5:
			return Subtract{Minuend: Gen(x), Subtrahend: Gen(y), StoredIn: Gen(x)}
		case 0x6:
			return ShiftRight{Reg: Gen(x)}
		case 0x7:
			return Subtract{Minuend: Gen(y), Subtrahend: Gen(x), StoredIn: Gen(x)}
		case 0xE:
			return ShiftLeft{Reg: Gen(x)}
		default:
			return Unknown{Bytes: word}
		}
	case 0x9:
		if n4 == 0x0 {
			return SkipIfRegistersNotEqual{R1: Gen(x), R2: Gen(y)}
		}
		return Unknown{Bytes: word}
	case 0xA:
		return LoadAddressIntoIRegister{Addr: nnn}
	case 0xB:
		return JumpToAddress{Addr: nnn, AddV0: true}
	case 0xC:
		return SetRandom{Reg: Gen(x), AndValue: lo}
	case 0xD:
		return DrawSprite{XReg: Gen(x), YReg: Gen(y), Height: n4}
	case 0xE:
		switch lo {
		case 0x9E:
			return SkipIfKeyPressed{Reg: Gen(x)}
		case 0xA1:
			return SkipIfKeyNotPressed{Reg: Gen(x)}
		default:
			return Unknown{Bytes: word}
		}
	case 0xF:
		switch lo {
		case 0x07:
			return LoadFromRegister{Dest: Gen(x), Src: DT()}
		case 0x0A:
			return LoadFromKeyPress{Dest: Gen(x)}
		case 0x15:
			return LoadFromRegister{Dest: DT(), Src: Gen(x)}
		case 0x18:
			return LoadFromRegister{Dest: ST(), Src: Gen(x)}
		case 0x1E:
			return AddFromRegister{R1: I(), R2: Gen(x)}
		case 0x29:
			return LoadSpriteLocation{SpriteDigit: Gen(x)}
		case 0x33:
			return LoadBcdValue{Source: Gen(x)}
		case 0x55:
			return LoadIntoMemory{LastRegister: Gen(x)}
		case 0x65:
			return LoadFromMemory{LastRegister: Gen(x)}
		default:
			return Unknown{Bytes: word}
		}
	default:
		return Unknown{Bytes: word}
	}
}
