package engine_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/vsariola/arpeggio/engine"
	"github.com/vsariola/arpeggio/synth"
)

func TestStreamRendersTriggeredNotes(t *testing.T) {
	player := engine.NewPlayer(testSetup(), nil, 44100)
	stream := engine.NewStream(player, synth.New(44100), &scriptContext{events: []engine.NoteEvent{
		{Frame: 0, On: true, Note: 60, Velocity: 100},
	}})
	buf := make([]byte, 44100) // half a block of a second in frames, not a multiple of the chunk size
	n, err := stream.Read(buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n != len(buf)-len(buf)%8 {
		t.Fatalf("Read got: %v expected: %v", n, len(buf)-len(buf)%8)
	}
	var peak float32
	for i := 0; i+4 <= n; i += 4 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(buf[i:]))
		if a := float32(math.Abs(float64(v))); a > peak {
			peak = a
		}
	}
	if peak < 0.01 {
		t.Fatalf("stream rendered silence, peak %v", peak)
	}
}
