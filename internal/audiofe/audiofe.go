// Package audiofe is the sound front end: it decodes a beep sample once and
// plays it every time the driver reports the sound timer has gone nonzero.
// The core only exposes the sound-timer value; actually making noise lives
// here, outside the core.
package audiofe

import (
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
)

// Player streams a single decoded beep sample and replays it from the start
// on every Beep call. It implements driver.AudioSink.
type Player struct {
	streamer beep.StreamSeekCloser
}

// NewPlayer decodes the mp3 at path and initializes the speaker at its
// sample rate. The returned Player's Beep method is safe to call from the
// driver's timer-tick goroutine.
func NewPlayer(path string) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "audiofe: could not open %s", path)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "audiofe: could not decode %s", path)
	}

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		streamer.Close()
		return nil, errors.Wrap(err, "audiofe: could not init speaker")
	}

	return &Player{streamer: streamer}, nil
}

// Beep rewinds the decoded stream to the start and plays it. Overlapping
// calls (the sound timer can re-trigger before a beep finishes) are left to
// beep's speaker mixer, which already handles concurrent playables.
func (p *Player) Beep() {
	if err := p.streamer.Seek(0); err != nil {
		return
	}
	speaker.Play(p.streamer)
}

// Close releases the underlying audio stream.
func (p *Player) Close() error {
	return p.streamer.Close()
}
