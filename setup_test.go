package arpeggio_test

import (
	"strings"
	"testing"

	"github.com/vsariola/arpeggio"
)

func TestReadSetup(t *testing.T) {
	setup, err := arpeggio.ReadSetup(strings.NewReader("pattern: updown\noctaverange: 2\nbpm: 98\n"))
	if err != nil {
		t.Fatalf("ReadSetup failed: %v", err)
	}
	if setup.Pattern != arpeggio.PatternUpDown {
		t.Fatalf("got: %v expected: %v", setup.Pattern, arpeggio.PatternUpDown)
	}
	if setup.OctaveRange != 2 {
		t.Fatalf("got: %v expected: %v", setup.OctaveRange, 2)
	}
	if setup.BPM != 98 {
		t.Fatalf("got: %v expected: %v", setup.BPM, 98)
	}
	// fields missing from the document keep their defaults
	if setup.Division != arpeggio.DefaultSetup().Division {
		t.Fatalf("got: %v expected: %v", setup.Division, arpeggio.DefaultSetup().Division)
	}
}

func TestReadSetupRejectsUnknownPattern(t *testing.T) {
	if _, err := arpeggio.ReadSetup(strings.NewReader("pattern: zigzag\n")); err == nil {
		t.Fatalf("expected an error for an unknown pattern name")
	}
}

func TestSetupRoundTrip(t *testing.T) {
	setup := arpeggio.DefaultSetup()
	setup.Pattern = arpeggio.PatternDiverge
	setup.OctaveMode = arpeggio.OctaveInterleaved
	var sb strings.Builder
	if err := setup.Write(&sb); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	read, err := arpeggio.ReadSetup(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("ReadSetup failed: %v", err)
	}
	if read != setup {
		t.Fatalf("got: %v expected: %v", read, setup)
	}
}
