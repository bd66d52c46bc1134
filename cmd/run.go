package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ashgriffith/chip8vm/internal/audiofe"
	"github.com/ashgriffith/chip8vm/internal/chip8"
	"github.com/ashgriffith/chip8vm/internal/debugfe"
	"github.com/ashgriffith/chip8vm/internal/driver"
	"github.com/ashgriffith/chip8vm/internal/pixelfe"
	"github.com/ashgriffith/chip8vm/internal/romfile"
	"github.com/spf13/cobra"
)

// beepAssetPath is where the front end looks for its beep sample. Missing
// or unreadable is not fatal - runWindowedFE just runs without audio.
const beepAssetPath = "assets/beep.mp3"

var (
	flagIPS    int
	flagFPS    int
	flagPaused bool
	flagDebug  bool
)

// runCmd runs a ROM through the interpreter and waits for the front end
// (pixel window or terminal debugger) to close.
var runCmd = &cobra.Command{
	Use:   "run path/to/rom",
	Short: "run the chip8vm interpreter against a ROM",
	Args:  cobra.ExactArgs(1),
	Run:   runChip8vm,
}

func init() {
	runCmd.Flags().IntVar(&flagIPS, "ips", driver.DefaultOptions.InstructionsPerSecond, "instructions executed per second")
	runCmd.Flags().IntVar(&flagFPS, "fps", driver.DefaultOptions.FramesPerSecond, "frames rendered per second")
	runCmd.Flags().BoolVar(&flagPaused, "paused", false, "start in single-step debug mode")
	runCmd.Flags().BoolVar(&flagDebug, "debug", false, "use the terminal step/step-back debugger instead of the pixel window")
}

func runChip8vm(cmd *cobra.Command, args []string) {
	rom, err := romfile.Read(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	st := chip8.New()
	if err := st.Load(rom); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opts := driver.Options{
		InstructionsPerSecond: flagIPS,
		FramesPerSecond:       flagFPS,
		StartPaused:           flagPaused || flagDebug,
	}
	drv := driver.New(st, opts)
	drv.Logger = log.New(os.Stderr, "chip8vm: ", 0)

	if flagDebug {
		runDebugFE(drv)
	} else {
		runWindowedFE(drv)
	}

	if drv.Faulted != nil {
		fmt.Fprintln(os.Stderr, drv.Faulted)
		os.Exit(1)
	}
}

// runWindowedFE opens the pixel window and (best-effort) the audio player,
// runs the driver's own cadences in the background, and blocks until the
// window is closed by the user.
func runWindowedFE(drv *driver.Driver) {
	win, err := pixelfe.NewWindow(drv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	drv.Renderer = win

	if player, err := audiofe.NewPlayer(beepAssetPath); err == nil {
		drv.Audio = player
		defer player.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go drv.Run(ctx)

	pollTicker := time.NewTicker(time.Second / time.Duration(driver.DefaultOptions.FramesPerSecond))
	defer pollTicker.Stop()
	for range pollTicker.C {
		if win.Closed() {
			return
		}
		win.PollInput()
	}
}

// runDebugFE opens the terminal debugger, runs the driver's own cadences in
// the background (paused, per StartPaused above, until the user steps), and
// blocks reading keypresses until the user quits.
func runDebugFE(drv *driver.Driver) {
	if err := debugfe.Open(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer debugfe.Close()

	view := debugfe.New(drv)
	drv.Renderer = view
	drv.Faults = view

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go drv.Run(ctx)

	for !view.PollInput() {
	}
}
