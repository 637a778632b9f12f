package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond
)

// Improvement Blip
const (
	// ImproveBaseFreq is the pitch for a score of zero; the pitch rises one octave at the optimum
	ImproveBaseFreq      = 440.0
	ImproveSoundDuration = 60 * time.Millisecond
	ImproveSoundAttack   = 5 * time.Millisecond
	ImproveSoundRelease  = 30 * time.Millisecond

	// ImproveMinGap drops blips that would start closer together than this
	ImproveMinGap = 80 * time.Millisecond
)

// Solved Chord (C major, C5 E5 G5)
const (
	SolvedSoundDuration = 400 * time.Millisecond
	SolvedSoundAttack   = 10 * time.Millisecond
	SolvedSoundRelease  = 300 * time.Millisecond
	SolvedRootFreq      = 523.25
	SolvedThirdFreq     = 659.25
	SolvedFifthFreq     = 783.99
)

// Unsolved Buzz
const (
	UnsolvedSoundDuration = 150 * time.Millisecond
	UnsolvedSoundAttack   = 5 * time.Millisecond
	UnsolvedSoundRelease  = 40 * time.Millisecond
	UnsolvedFreq          = 110.0
)

// Mix Levels
const (
	AudioMasterVolume   = 0.5
	AudioImproveVolume  = 0.4
	AudioSolvedVolume   = 0.8
	AudioUnsolvedVolume = 0.5
)
