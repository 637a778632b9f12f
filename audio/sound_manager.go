package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/mazega/genetic"
	"github.com/lixenwraith/mazega/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// Cues turns run progress into sound: a blip whose pitch follows the score each time
// the best record improves, a chord when a finished run reaches the end, a buzz otherwise.
// It is an engine observer; without an initialised speaker every cue is a no-op.
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool

	// play hands a finished cue to the output; replaced in tests
	play func(beep.Streamer)

	lastRecord int
	seen       bool
	lastBlip   time.Time
}

// NewCues creates an uninitialised cue player
func NewCues() *Cues {
	c := &Cues{mixer: &beep.Mixer{}}
	c.play = c.playSpeaker
	return c
}

// Initialize opens the speaker; failure leaves Cues silent and is safe to ignore
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Cleanup silences pending cues and closes the speaker
func (c *Cues) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	c.initialized = false
}

func (c *Cues) playSpeaker(s beep.Streamer) {
	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

func (c *Cues) Observe(p genetic.Progress) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.State.Terminal() {
		if p.Route.Reached {
			c.play(CreateSolvedSound(sampleRate))
		} else {
			c.play(CreateUnsolvedSound(sampleRate))
		}
		return
	}

	// A new record generation means the best so far improved
	improved := !c.seen || p.BestSoFar.Generation != c.lastRecord
	c.seen = true
	c.lastRecord = p.BestSoFar.Generation
	if !improved {
		return
	}

	now := time.Now()
	if now.Sub(c.lastBlip) < parameter.ImproveMinGap {
		return
	}
	c.lastBlip = now
	c.play(CreateImproveSound(sampleRate, ImproveFreq(progressToward(p))))
}

// progressToward is how far the best so far is toward the optimum, 0-1
func progressToward(p genetic.Progress) float64 {
	if p.Optimum <= 0 {
		return 0
	}
	return p.BestSoFar.Score / p.Optimum
}
