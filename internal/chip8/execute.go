package chip8

// Execute applies one decoded instruction to st, advancing the program
// counter and mutating registers/memory/the framebuffer/the stack/the
// timers as the instruction requires. It returns nil on success or one of
// the Fault types on failure. On a fault the program counter is left
// exactly where it was before any partial writes the instruction already
// made - there is no rollback.
func Execute(instr Instruction, st *State, rng Source) error {
	switch in := instr.(type) {
	case JumpToMachineCode:
		return UnhandleableInstruction{Instr: in}

	case ClearDisplay:
		st.Framebuffer = [32][8]byte{}
		st.PC += 2
		return nil

	case Return:
		if st.SP == 0 {
			return EmptyStack{}
		}
		st.SP--
		st.PC = st.Stack[st.SP]
		return nil

	case JumpToAddress:
		final := uint32(in.Addr)
		if in.AddV0 {
			final += uint32(st.V[0])
		}
		if final < uint32(ProgramStart) || final > 0xFFF || final%2 != 0 {
			return InvalidCallOrJumpAddress{Addr: uint16(final)}
		}
		st.PC = uint16(final)
		return nil

	case Call:
		if st.SP == StackDepth {
			return StackOverflow{}
		}
		if in.Addr%2 != 0 {
			return InvalidCallOrJumpAddress{Addr: in.Addr}
		}
		st.Stack[st.SP] = st.PC
		st.SP++
		st.PC = in.Addr
		return nil

	case SkipIfEqual:
		x, err := asGeneral(in.Reg, in)
		if err != nil {
			return err
		}
		st.skip(st.V[x] == in.Value)
		return nil

	case SkipIfNotEqual:
		x, err := asGeneral(in.Reg, in)
		if err != nil {
			return err
		}
		st.skip(st.V[x] != in.Value)
		return nil

	case SkipIfRegistersEqual:
		x, y, err := asGeneralPair(in.R1, in.R2, in)
		if err != nil {
			return err
		}
		st.skip(st.V[x] == st.V[y])
		return nil

	case SkipIfRegistersNotEqual:
		x, y, err := asGeneralPair(in.R1, in.R2, in)
		if err != nil {
			return err
		}
		st.skip(st.V[x] != st.V[y])
		return nil

	case LoadFromValue:
		x, err := asGeneral(in.Dest, in)
		if err != nil {
			return err
		}
		st.V[x] = in.Value
		st.PC += 2
		return nil

	case AddFromValue:
		x, err := asGeneral(in.Reg, in)
		if err != nil {
			return err
		}
		st.V[x] += in.Value
		st.PC += 2
		return nil

	case LoadFromRegister:
		return executeLoadFromRegister(in, st)

	case Or:
		x, y, err := asGeneralPair(in.R1, in.R2, in)
		if err != nil {
			return err
		}
		st.V[x] |= st.V[y]
		st.PC += 2
		return nil

	case And:
		x, y, err := asGeneralPair(in.R1, in.R2, in)
		if err != nil {
			return err
		}
		st.V[x] &= st.V[y]
		st.PC += 2
		return nil

	case Xor:
		x, y, err := asGeneralPair(in.R1, in.R2, in)
		if err != nil {
			return err
		}
		st.V[x] ^= st.V[y]
		st.PC += 2
		return nil

	case AddFromRegister:
		return executeAddFromRegister(in, st)

	case Subtract:
		return executeSubtract(in, st)

	case ShiftRight:
		x, err := asGeneral(in.Reg, in)
		if err != nil {
			return err
		}
		st.V[x] >>= 1
		st.PC += 2
		return nil

	case ShiftLeft:
		x, err := asGeneral(in.Reg, in)
		if err != nil {
			return err
		}
		st.V[x] <<= 1
		st.PC += 2
		return nil

	case LoadAddressIntoIRegister:
		st.I = in.Addr
		st.PC += 2
		return nil

	case SetRandom:
		x, err := asGeneral(in.Reg, in)
		if err != nil {
			return err
		}
		st.V[x] = rng.Byte() & in.AndValue
		st.PC += 2
		return nil

	case DrawSprite:
		return executeDrawSprite(in, st)

	case SkipIfKeyPressed:
		x, err := asGeneral(in.Reg, in)
		if err != nil {
			return err
		}
		digit := st.V[x] & 0x0F
		pressed := st.CurrentKeyDown != nil && *st.CurrentKeyDown == digit
		st.skip(pressed)
		return nil

	case SkipIfKeyNotPressed:
		x, err := asGeneral(in.Reg, in)
		if err != nil {
			return err
		}
		digit := st.V[x] & 0x0F
		pressed := st.CurrentKeyDown != nil && *st.CurrentKeyDown == digit
		st.skip(!pressed)
		return nil

	case LoadFromKeyPress:
		x, err := asGeneral(in.Dest, in)
		if err != nil {
			return err
		}
		if st.KeyReleasedSinceLastInstruction == nil {
			return nil
		}
		st.V[x] = *st.KeyReleasedSinceLastInstruction
		st.PC += 2
		return nil

	case LoadSpriteLocation:
		x, err := asGeneral(in.SpriteDigit, in)
		if err != nil {
			return err
		}
		digit := st.V[x]
		if digit > 0xF {
			return InvalidFontDigit{Digit: digit}
		}
		st.I = st.FontAddresses[digit]
		st.PC += 2
		return nil

	case LoadBcdValue:
		x, err := asGeneral(in.Source, in)
		if err != nil {
			return err
		}
		v := st.V[x]
		st.Memory[st.I] = v / 100
		st.Memory[st.I+1] = (v / 10) % 10
		st.Memory[st.I+2] = v % 10
		st.PC += 2
		return nil

	case LoadIntoMemory:
		last, err := asGeneral(in.LastRegister, in)
		if err != nil {
			return err
		}
		for i := uint8(0); i <= last; i++ {
			st.Memory[st.I+uint16(i)] = st.V[i]
		}
		st.I += uint16(last) + 1
		st.PC += 2
		return nil

	case LoadFromMemory:
		last, err := asGeneral(in.LastRegister, in)
		if err != nil {
			return err
		}
		for i := uint8(0); i <= last; i++ {
			st.V[i] = st.Memory[st.I+uint16(i)]
		}
		st.I += uint16(last) + 1
		st.PC += 2
		return nil

	case Unknown:
		return UnhandleableInstruction{Instr: in}

	default:
		return UnhandleableInstruction{Instr: in}
	}
}

// skip advances PC by 4 when taken holds, by 2 otherwise. This is the
// common shape of the whole SE/SNE/SKP/SKNP family.
func (s *State) skip(taken bool) {
	if taken {
		s.PC += 4
	} else {
		s.PC += 2
	}
}

func asGeneral(r Register, instr Instruction) (uint8, error) {
	if r.Kind != GeneralRegister || r.Index > 15 {
		return 0, InvalidRegisterForInstruction{Instr: instr}
	}
	return r.Index, nil
}

func asGeneralPair(r1, r2 Register, instr Instruction) (uint8, uint8, error) {
	x, err := asGeneral(r1, instr)
	if err != nil {
		return 0, 0, err
	}
	y, err := asGeneral(r2, instr)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func executeLoadFromRegister(in LoadFromRegister, st *State) error {
	switch {
	case in.Dest.Kind == GeneralRegister && in.Src.Kind == GeneralRegister:
		x, y, err := asGeneralPair(in.Dest, in.Src, in)
		if err != nil {
			return err
		}
		st.V[x] = st.V[y]
	case in.Dest.Kind == GeneralRegister && in.Src.Kind == DelayTimerRegister:
		x, err := asGeneral(in.Dest, in)
		if err != nil {
			return err
		}
		st.V[x] = st.DelayTimer
	case in.Dest.Kind == DelayTimerRegister && in.Src.Kind == GeneralRegister:
		x, err := asGeneral(in.Src, in)
		if err != nil {
			return err
		}
		st.DelayTimer = st.V[x]
	case in.Dest.Kind == SoundTimerRegister && in.Src.Kind == GeneralRegister:
		x, err := asGeneral(in.Src, in)
		if err != nil {
			return err
		}
		st.SoundTimer = st.V[x]
	default:
		return InvalidRegisterForInstruction{Instr: in}
	}
	st.PC += 2
	return nil
}

func executeAddFromRegister(in AddFromRegister, st *State) error {
	switch {
	case in.R1.Kind == GeneralRegister && in.R2.Kind == GeneralRegister:
		x, y, err := asGeneralPair(in.R1, in.R2, in)
		if err != nil {
			return err
		}
		sum := uint16(st.V[x]) + uint16(st.V[y])
		st.V[x] = byte(sum)
		if sum > 0xFF {
			st.V[0xF] = 1
		} else {
			st.V[0xF] = 0
		}
	case in.R1.Kind == IRegister && in.R2.Kind == GeneralRegister:
		y, err := asGeneral(in.R2, in)
		if err != nil {
			return err
		}
		st.I += uint16(st.V[y])
	default:
		return InvalidRegisterForInstruction{Instr: in}
	}
	st.PC += 2
	return nil
}

func executeSubtract(in Subtract, st *State) error {
	if in.Minuend.Kind != GeneralRegister || in.Subtrahend.Kind != GeneralRegister || in.StoredIn.Kind != GeneralRegister {
		return InvalidRegisterForInstruction{Instr: in}
	}
	m, s, err := asGeneralPair(in.Minuend, in.Subtrahend, in)
	if err != nil {
		return err
	}
	d, err := asGeneral(in.StoredIn, in)
	if err != nil {
		return err
	}
	if d != m && d != s {
		return InvalidRegisterForInstruction{Instr: in}
	}
	minuend, subtrahend := st.V[m], st.V[s]
	result := minuend - subtrahend
	st.V[d] = result
	// Inverted relative to the classic Cowgod convention: this
	// implementation sets VF=1 when a borrow DID occur.
	if minuend < subtrahend {
		st.V[0xF] = 1
	} else {
		st.V[0xF] = 0
	}
	st.PC += 2
	return nil
}

func executeDrawSprite(in DrawSprite, st *State) error {
	xr, yr, err := asGeneralPair(in.XReg, in.YReg, in)
	if err != nil {
		return err
	}
	x0 := int(st.V[xr]) % 64
	y0 := int(st.V[yr]) % 32

	collision := false
	for row := 0; row < int(in.Height); row++ {
		spriteByte := st.Memory[st.I+uint16(row)]
		y := (y0 + row) % 32

		for bit := 0; bit < 8; bit++ {
			if spriteByte&(0x80>>uint(bit)) == 0 {
				continue
			}
			x := (x0 + bit) % 64
			byteIdx := x / 8
			bitIdx := uint(x % 8)
			mask := byte(0x80 >> bitIdx)

			before := st.Framebuffer[y][byteIdx] & mask
			st.Framebuffer[y][byteIdx] ^= mask
			if before != 0 {
				collision = true
			}
		}
	}

	if collision {
		st.V[0xF] = 1
	} else {
		st.V[0xF] = 0
	}
	st.PC += 2
	return nil
}
