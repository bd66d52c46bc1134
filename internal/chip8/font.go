package chip8

// FontSet holds the canonical CHIP-8 hexadecimal font glyphs, five bytes each,
// one row per pixel-row of the glyph. See
// http://www.multigesture.net/articles/how-to-write-an-emulator-chip-8-interpreter
// for the reference table this is taken from.
var FontSet = [80]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

const fontBytesPerGlyph = 5

// fontBaseAddr is where the font table is installed in the reserved low
// region of memory. Anywhere in 0x000-0x1FF would satisfy the spec; 0x050 is
// the address chosen so a ROM that deliberately peeks at low memory (some
// test ROMs do) sees the same layout emulators have settled on.
const fontBaseAddr = 0x050
