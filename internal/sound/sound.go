// Package sound plays a short tone when a spawn trigger starts
package sound

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
)

// Tone parameters
const (
	SampleRate   = beep.SampleRate(44100)
	ToneFreq     = 660.0
	ToneDuration = 40 * time.Millisecond
)

// Cue fires on the rising edge of a trigger
type Cue struct {
	enabled bool
	active  bool
}

// New returns a cue. The speaker is only initialised when enabled; a failure
// there is returned along with a silent, usable cue.
func New(enabled bool) (*Cue, error) {
	c := &Cue{}
	if !enabled {
		return c, nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return c, errors.Wrap(err, "init speaker")
	}
	c.enabled = true
	return c, nil
}

// Tone builds the streamer played by the cue
func Tone() (beep.Streamer, error) {
	sine, err := generators.SineTone(SampleRate, ToneFreq)
	if err != nil {
		return nil, errors.Wrap(err, "sine tone")
	}
	return beep.Take(SampleRate.N(ToneDuration), sine), nil
}

// Trigger records the trigger state for this frame and reports whether it
// just became active. The tone plays on that edge when sound is enabled.
func (c *Cue) Trigger(active bool) bool {
	edge := active && !c.active
	c.active = active
	if edge && c.enabled {
		if s, err := Tone(); err == nil {
			speaker.Play(s)
		}
	}
	return edge
}

// Close releases the speaker
func (c *Cue) Close() {
	if c.enabled {
		speaker.Close()
		c.enabled = false
	}
}
