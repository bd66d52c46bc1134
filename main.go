package main

import (
	"github.com/ashgriffith/chip8vm/cmd"
	"github.com/faiface/pixel/pixelgl"
)

func main() {
	// pixelgl needs access to the main thread to make any OpenGL calls;
	// cmd.Execute may or may not open a pixel window depending on the
	// subcommand and flags, so the whole CLI runs inside pixelgl.Run.
	pixelgl.Run(cmd.Execute)
}
