package oto

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"

	"github.com/vsariola/arpeggio"
)

// OtoContext implements arpeggio.AudioContext on top of the oto audio
// library.
type OtoContext oto.Context

// NewContext opens the default audio device for stereo float32 playback at
// the given sample rate and waits until it is ready.
func NewContext(samplerate int) (*OtoContext, error) {
	options := oto.NewContextOptions{
		SampleRate:   samplerate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}
	context, ready, err := oto.NewContext(&options)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return (*OtoContext)(context), nil
}

// Play starts pulling raw audio from r and playing it, until the returned
// player is closed.
func (c *OtoContext) Play(r io.Reader) io.Closer {
	player := (*oto.Context)(c).NewPlayer(r)
	player.Play()
	return player
}

// Close suspends the context; oto contexts cannot be destroyed.
func (c *OtoContext) Close() error {
	if err := (*oto.Context)(c).Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}
