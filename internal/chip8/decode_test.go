package chip8

import "testing"

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		hi, lo byte
		want   Instruction
	}{
		{"SYS", 0x02, 0x24, JumpToMachineCode{Addr: 0x224}},
		{"SYS low", 0x00, 0x24, JumpToMachineCode{Addr: 0x024}},
		{"SYS 1E0 is not CLS", 0x01, 0xE0, JumpToMachineCode{Addr: 0x1E0}},
		{"SYS 1EE is not RET", 0x01, 0xEE, JumpToMachineCode{Addr: 0x1EE}},
		{"CLS", 0x00, 0xE0, ClearDisplay{}},
		{"RET", 0x00, 0xEE, Return{}},
		{"JP addr", 0x12, 0x34, JumpToAddress{Addr: 0x234}},
		{"CALL addr", 0x26, 0x54, Call{Addr: 0x654}},
		{"SE Vx,kk", 0x31, 0x22, SkipIfEqual{Reg: Gen(1), Value: 0x22}},
		{"SNE Vx,kk", 0x41, 0x22, SkipIfNotEqual{Reg: Gen(1), Value: 0x22}},
		{"SE Vx,Vy", 0x51, 0x20, SkipIfRegistersEqual{R1: Gen(1), R2: Gen(2)}},
		{"LD Vx,kk", 0x61, 0xAB, LoadFromValue{Dest: Gen(1), Value: 0xAB}},
		{"ADD Vx,kk", 0x71, 0x09, AddFromValue{Reg: Gen(1), Value: 0x09}},
		{"LD Vx,Vy", 0x81, 0x20, LoadFromRegister{Dest: Gen(1), Src: Gen(2)}},
		{"OR", 0x81, 0x21, Or{R1: Gen(1), R2: Gen(2)}},
		{"AND", 0x81, 0x22, And{R1: Gen(1), R2: Gen(2)}},
		{"XOR", 0x81, 0x23, Xor{R1: Gen(1), R2: Gen(2)}},
		{"ADD Vx,Vy", 0x81, 0x24, AddFromRegister{R1: Gen(1), R2: Gen(2)}},
		{"SUB", 0x81, 0x25, Subtract{Minuend: Gen(1), Subtrahend: Gen(2), StoredIn: Gen(1)}},
		{"SHR", 0x81, 0x26, ShiftRight{Reg: Gen(1)}},
		{"SUBN", 0x81, 0x27, Subtract{Minuend: Gen(2), Subtrahend: Gen(1), StoredIn: Gen(1)}},
		{"SHL", 0x81, 0x2E, ShiftLeft{Reg: Gen(1)}},
		{"SNE Vx,Vy", 0x91, 0x20, SkipIfRegistersNotEqual{R1: Gen(1), R2: Gen(2)}},
		{"LD I,addr", 0xA1, 0x23, LoadAddressIntoIRegister{Addr: 0x123}},
		{"JP V0,addr", 0xB1, 0x23, JumpToAddress{Addr: 0x123, AddV0: true}},
		{"RND", 0xC1, 0x0F, SetRandom{Reg: Gen(1), AndValue: 0x0F}},
		{"DRW", 0xD1, 0x23, DrawSprite{XReg: Gen(1), YReg: Gen(2), Height: 3}},
		{"SKP", 0xE1, 0x9E, SkipIfKeyPressed{Reg: Gen(1)}},
		{"SKNP", 0xE1, 0xA1, SkipIfKeyNotPressed{Reg: Gen(1)}},
		{"LD Vx,DT", 0xF1, 0x07, LoadFromRegister{Dest: Gen(1), Src: DT()}},
		{"LD Vx,K", 0xF1, 0x0A, LoadFromKeyPress{Dest: Gen(1)}},
		{"LD DT,Vx", 0xF1, 0x15, LoadFromRegister{Dest: DT(), Src: Gen(1)}},
		{"LD ST,Vx", 0xF1, 0x18, LoadFromRegister{Dest: ST(), Src: Gen(1)}},
		{"ADD I,Vx", 0xF1, 0x1E, AddFromRegister{R1: I(), R2: Gen(1)}},
		{"LD F,Vx", 0xF1, 0x29, LoadSpriteLocation{SpriteDigit: Gen(1)}},
		{"LD B,Vx", 0xF1, 0x33, LoadBcdValue{Source: Gen(1)}},
		{"LD [I],Vx", 0xF1, 0x55, LoadIntoMemory{LastRegister: Gen(1)}},
		{"LD Vx,[I]", 0xF1, 0x65, LoadFromMemory{LastRegister: Gen(1)}},
		{"unknown 5xy1", 0x51, 0x21, Unknown{Bytes: 0x5121}},
		{"unknown 9xy1", 0x91, 0x21, Unknown{Bytes: 0x9121}},
		{"unknown 8xy8", 0x81, 0x28, Unknown{Bytes: 0x8128}},
		{"unknown Ex00", 0xE1, 0x00, Unknown{Bytes: 0xE100}},
		{"unknown Fx99", 0xF1, 0x99, Unknown{Bytes: 0xF199}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.hi, tt.lo)
			if got != tt.want {
				t.Errorf("Decode(%#02x, %#02x) = %#v, want %#v", tt.hi, tt.lo, got, tt.want)
			}
		})
	}
}

func TestDecodeNeverFails(t *testing.T) {
	// Every word decodes to some Instruction - there is no error return, so
	// this just asserts the function doesn't panic across the whole space.
	for hi := 0; hi < 256; hi++ {
		for lo := 0; lo < 256; lo++ {
			_ = Decode(byte(hi), byte(lo))
		}
	}
}
