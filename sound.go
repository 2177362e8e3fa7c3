package glyphswarm

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const soundSampleRate = beep.SampleRate(48000)

// Chime frequencies in Hz.
const (
	scatterFreq  = 220.0
	assembleFreq = 660.0
	chimeLength  = 180 * time.Millisecond
)

// Sound plays short cues on scatter and assemble. All methods are no-ops
// until Init succeeds.
type Sound struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	// Volume is the peak amplitude in [0, 1].
	Volume float64
}

// NewSound creates a silent Sound.
func NewSound() *Sound {
	return &Sound{mixer: &beep.Mixer{}, Volume: 0.2}
}

// Init opens the speaker. On failure the error is returned and Sound stays
// silent.
func (s *Sound) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if err := speaker.Init(soundSampleRate, soundSampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Close silences all pending cues.
func (s *Sound) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.initialized = false
}

// PlayScatter plays the low cue.
func (s *Sound) PlayScatter() {
	s.play(scatterFreq)
}

// PlayAssemble plays the high cue.
func (s *Sound) PlayAssemble() {
	s.play(assembleFreq)
}

func (s *Sound) play(freq float64) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	cue := beep.Take(soundSampleRate.N(chimeLength), newChime(soundSampleRate, freq, s.Volume))
	speaker.Lock()
	s.mixer.Add(cue)
	speaker.Unlock()
}

// chime is a sine tone with a fast attack and exponential decay.
type chime struct {
	sr     beep.SampleRate
	freq   float64
	volume float64
	pos    int
}

func newChime(sr beep.SampleRate, freq, volume float64) *chime {
	return &chime{sr: sr, freq: freq, volume: volume}
}

func (c *chime) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(c.pos) / float64(c.sr)
		attack := math.Min(t/0.005, 1)
		env := attack * math.Exp(-t*18)
		v := c.volume * env * math.Sin(2*math.Pi*c.freq*t)
		samples[i][0] = v
		samples[i][1] = v
		c.pos++
	}
	return len(samples), true
}

func (c *chime) Err() error {
	return nil
}
