// Package synth is a small fixed-voice sine synth, just enough to audition
// the arpeggiator without any external MIDI gear.
package synth

import (
	"math"

	"github.com/viterin/vek/vek32"
)

const (
	numVoices = 8
	maxFrames = 2048 // Render processes longer buffers in chunks of this
)

type (
	// Synth implements arpeggio.Synth: Trigger starts a voice, Release lets
	// it ring out, Render mixes all voices into a stereo interleaved buffer.
	// Voices are allocated round robin, stealing the oldest when all are in
	// use.
	Synth struct {
		voices     [numVoices]voice
		next       int
		attack     float32
		release    float32
		samplerate float64
		mix        [maxFrames]float32
		tmp        [maxFrames]float32
	}

	voice struct {
		pitch  byte
		delta  float64 // phase increment per sample
		phase  float64
		env    float32
		gain   float32
		on     bool
		active bool
	}
)

func New(samplerate int) *Synth {
	s := &Synth{samplerate: float64(samplerate)}
	// one-pole envelope coefficients, roughly 2 ms attack and 100 ms release
	s.attack = 1 - float32(math.Exp(-1/(0.002*s.samplerate)))
	s.release = float32(math.Exp(-1 / (0.1 * s.samplerate)))
	return s
}

func (s *Synth) Trigger(pitch, velocity byte) {
	v := &s.voices[s.next]
	s.next = (s.next + 1) % numVoices
	v.pitch = pitch
	v.delta = 440 * math.Pow(2, (float64(pitch)-69)/12) / s.samplerate
	v.phase = 0
	v.env = 0
	v.gain = float32(velocity) / 127
	v.on = true
	v.active = true
}

func (s *Synth) Release(pitch byte) {
	for i := range s.voices {
		if s.voices[i].active && s.voices[i].pitch == pitch {
			s.voices[i].on = false
		}
	}
}

// Render adds nothing on top of the voices: no effects, no filters. The
// buffer is stereo interleaved and gets fully overwritten.
func (s *Synth) Render(buffer []float32) {
	for len(buffer) > 0 {
		frames := len(buffer) / 2
		if frames > maxFrames {
			frames = maxFrames
		}
		s.renderChunk(buffer[:frames*2], frames)
		buffer = buffer[frames*2:]
	}
}

func (s *Synth) renderChunk(buffer []float32, frames int) {
	mix := vek32.Zeros_Into(s.mix[:frames], frames)
	for i := range s.voices {
		v := &s.voices[i]
		if !v.active {
			continue
		}
		tmp := s.tmp[:frames]
		for j := range tmp {
			if v.on {
				v.env += (1 - v.env) * s.attack
			} else {
				v.env *= s.release
			}
			tmp[j] = float32(math.Sin(2*math.Pi*v.phase)) * v.env
			v.phase += v.delta
			if v.phase >= 1 {
				v.phase -= 1
			}
		}
		if !v.on && v.env < 1e-4 {
			v.active = false
		}
		vek32.MulNumber_Inplace(tmp, v.gain)
		vek32.Add_Inplace(mix, tmp)
	}
	// headroom so even all eight voices at full velocity stay below full scale
	vek32.MulNumber_Inplace(mix, 0.1)
	for i, m := range mix {
		buffer[2*i] = m
		buffer[2*i+1] = m
	}
}
