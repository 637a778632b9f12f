package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/mazega/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a wave of the given length
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping and cuts the stream at its total length
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s with a linear attack and release
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	if remaining := e.totalSamples - e.position; remaining < len(samples) {
		samples = samples[:max(remaining, 0)]
	}
	if len(samples) == 0 {
		return 0, false
	}

	n, ok = e.streamer.Stream(samples)
	releaseStart := e.totalSamples - e.releaseSamples
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = min(vol, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; math.Log2(0) is -Inf, so zero is silence
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// --- Cue Sounds ---

// ImproveFreq maps progress toward the optimum (0-1) onto one octave above the base pitch
func ImproveFreq(progress float64) float64 {
	progress = min(max(progress, 0), 1)
	return parameter.ImproveBaseFreq * math.Pow(2, progress)
}

// CreateImproveSound is a short sine blip at freq
func CreateImproveSound(rate beep.SampleRate, freq float64) beep.Streamer {
	tone, err := generators.SineTone(rate, freq)
	if err != nil {
		// Frequency above Nyquist: fall back to the base pitch
		tone, _ = generators.SineTone(rate, parameter.ImproveBaseFreq)
	}
	shaped := NewEnvelope(tone, parameter.ImproveSoundDuration,
		parameter.ImproveSoundAttack, parameter.ImproveSoundRelease, rate)
	return newVolume(shaped, parameter.AudioImproveVolume*parameter.AudioMasterVolume)
}

// CreateSolvedSound is a major triad played when the best path reaches the end
func CreateSolvedSound(rate beep.SampleRate) beep.Streamer {
	note := func(freq float64) beep.Streamer {
		osc := NewOscillator(freq, parameter.SolvedSoundDuration, WaveSine, rate)
		return NewEnvelope(osc, parameter.SolvedSoundDuration,
			parameter.SolvedSoundAttack, parameter.SolvedSoundRelease, rate)
	}

	chord := beep.Mix(
		newVolume(note(parameter.SolvedRootFreq), 0.4),
		newVolume(note(parameter.SolvedThirdFreq), 0.3),
		newVolume(note(parameter.SolvedFifthFreq), 0.3),
	)
	return newVolume(chord, parameter.AudioSolvedVolume*parameter.AudioMasterVolume)
}

// CreateUnsolvedSound is a low saw buzz played when a run ends without reaching the end
func CreateUnsolvedSound(rate beep.SampleRate) beep.Streamer {
	osc := NewOscillator(parameter.UnsolvedFreq, parameter.UnsolvedSoundDuration, WaveSaw, rate)
	shaped := NewEnvelope(osc, parameter.UnsolvedSoundDuration,
		parameter.UnsolvedSoundAttack, parameter.UnsolvedSoundRelease, rate)
	return newVolume(shaped, parameter.AudioUnsolvedVolume*parameter.AudioMasterVolume)
}
