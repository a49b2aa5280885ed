package engine

import (
	"encoding/binary"
	"math"

	"github.com/vsariola/arpeggio"
)

// streamChunk is how many frames the stream processes and renders at a time,
// which is also the granularity of the step timing in the audition path.
const streamChunk = 256

// Stream glues a Player to a Synth and exposes the result as the raw audio
// reader an AudioContext plays: every Read advances the player clock by the
// read amount and renders the synth into the buffer as little-endian stereo
// float32 frames. This way the audio device pulling the stream is what
// drives the sequencing, and no separate timer is needed.
type Stream struct {
	player  *Player
	synth   arpeggio.Synth
	context ProcessContext
	buffer  [streamChunk * 2]float32
}

func NewStream(player *Player, synth arpeggio.Synth, context ProcessContext) *Stream {
	player.voicer = synthVoicer{synth}
	return &Stream{player: player, synth: synth, context: context}
}

func (s *Stream) Read(buf []byte) (int, error) {
	// one frame is two float32s
	read := 0
	for len(buf)-read >= 8 {
		frames := (len(buf) - read) / 8
		if frames > streamChunk {
			frames = streamChunk
		}
		s.player.Process(frames, s.context)
		samples := s.buffer[:frames*2]
		s.synth.Render(samples)
		for _, v := range samples {
			binary.LittleEndian.PutUint32(buf[read:], math.Float32bits(v))
			read += 4
		}
	}
	return read, nil
}

// synthVoicer adapts a Synth to the Voicer interface; the synth has no
// notion of MIDI channels.
type synthVoicer struct {
	synth arpeggio.Synth
}

func (v synthVoicer) NoteOn(channel int, pitch, velocity byte) { v.synth.Trigger(pitch, velocity) }
func (v synthVoicer) NoteOff(channel int, pitch byte)          { v.synth.Release(pitch) }
