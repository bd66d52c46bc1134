// Package romfile reads a ROM off disk into the byte blob chip8.State.Load
// expects. It is the only place in this module that touches the
// filesystem for ROM I/O, kept out of the core per the spec's "ROM file
// I/O" exclusion in §1.
package romfile

import (
	"os"

	"github.com/pkg/errors"
)

// Read loads the ROM at path and returns its raw bytes. Errors are wrapped
// with the path for a useful message; these are surfaced to the user before
// the driver starts and never enter the executor's fault channel, per the
// spec's §7 "Loader I/O errors ... do not enter the core error channel."
func Read(path string) ([]byte, error) {
	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "romfile: could not read %s", path)
	}
	return rom, nil
}
