package arpeggio

import "io"

type (
	// Synth turns trigger/release events into audio. Buffers are stereo,
	// interleaved float32.
	Synth interface {
		Render(buffer []float32)
		Trigger(pitch, velocity byte)
		Release(pitch byte)
	}

	// AudioContext is a connection to an audio playback device. Play pulls
	// raw audio (stereo interleaved float32, little-endian bytes) from the
	// reader until the returned player is closed.
	AudioContext interface {
		Play(r io.Reader) io.Closer
		Close() error
	}
)
