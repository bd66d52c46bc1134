package cmd

import (
	"fmt"
	"os"

	"github.com/ashgriffith/chip8vm/internal/chip8"
	"github.com/ashgriffith/chip8vm/internal/romfile"
	"github.com/spf13/cobra"
)

// disasmCmd linearly disassembles a ROM: every consecutive two-byte pair
// starting at chip8.ProgramStart is run through chip8.Decode and printed,
// then round-tripped through chip8.Serialize to catch any decoder/encoder
// disagreement.
var disasmCmd = &cobra.Command{
	Use:   "disasm path/to/rom",
	Short: "disassemble a ROM and verify its decode/serialize round-trip",
	Args:  cobra.ExactArgs(1),
	Run:   runDisasm,
}

func runDisasm(cmd *cobra.Command, args []string) {
	rom, err := romfile.Read(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	mismatches := 0
	for off := 0; off+1 < len(rom); off += 2 {
		hi, lo := rom[off], rom[off+1]
		instr := chip8.Decode(hi, lo)
		addr := int(chip8.ProgramStart) + off

		shi, slo, err := chip8.Serialize(instr)
		status := "ok"
		if err != nil || shi != hi || slo != lo {
			status = "MISMATCH"
			mismatches++
		}
		fmt.Printf("%#03x: %02x%02x  %-28s  [%s]\n", addr, hi, lo, instr, status)
	}

	if mismatches > 0 {
		fmt.Fprintf(os.Stderr, "%d round-trip mismatch(es)\n", mismatches)
		os.Exit(1)
	}
}
