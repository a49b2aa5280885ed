package arpeggio_test

import (
	"reflect"
	"sort"
	"testing"

	"github.com/vsariola/arpeggio"
)

func pitches(notes []arpeggio.HeldNote) []byte {
	ret := make([]byte, len(notes))
	for i, n := range notes {
		ret[i] = n.Pitch
	}
	return ret
}

func TestAddKeepsProjectionsOrdered(t *testing.T) {
	var set arpeggio.HeldNoteSet
	for _, p := range []byte{64, 60, 72, 67, 62} {
		set.Add(p, 100)
	}
	if got := pitches(set.ByPitch()); !reflect.DeepEqual(got, []byte{60, 62, 64, 67, 72}) {
		t.Fatalf("ByPitch got: %v expected: %v", got, []byte{60, 62, 64, 67, 72})
	}
	if got := pitches(set.ByInsertionOrder()); !reflect.DeepEqual(got, []byte{64, 60, 72, 67, 62}) {
		t.Fatalf("ByInsertionOrder got: %v expected: %v", got, []byte{64, 60, 72, 67, 62})
	}
}

func TestRepeatedAddUpdatesVelocityInPlace(t *testing.T) {
	var set arpeggio.HeldNoteSet
	set.Add(60, 80)
	set.Add(64, 90)
	set.Add(60, 120)
	if set.Len() != 2 {
		t.Fatalf("Len got: %v expected: %v", set.Len(), 2)
	}
	byPitch := set.ByPitch()
	if byPitch[0].Velocity != 120 {
		t.Fatalf("velocity got: %v expected: %v", byPitch[0].Velocity, 120)
	}
	// the repeated pitch keeps both its chronological slot and its sequence
	arrival := set.ByInsertionOrder()
	if arrival[0].Pitch != 60 || arrival[0].Sequence != 0 {
		t.Fatalf("insertion slot got: %v/%v expected: 60/0", arrival[0].Pitch, arrival[0].Sequence)
	}
	if arrival[0].Velocity != 120 {
		t.Fatalf("insertion view velocity got: %v expected: %v", arrival[0].Velocity, 120)
	}
}

func TestAddAtCapacityIsSilentlyDiscarded(t *testing.T) {
	var set arpeggio.HeldNoteSet
	for i := 0; i < arpeggio.MaxHeldNotes; i++ {
		set.Add(byte(i), 100)
	}
	set.Add(100, 100)
	if set.Len() != arpeggio.MaxHeldNotes {
		t.Fatalf("Len got: %v expected: %v", set.Len(), arpeggio.MaxHeldNotes)
	}
	for _, n := range set.ByPitch() {
		if n.Pitch == 100 {
			t.Fatalf("pitch 100 should have been discarded")
		}
	}
	// existing notes can still be updated while full
	set.Add(0, 50)
	if set.ByPitch()[0].Velocity != 50 {
		t.Fatalf("velocity got: %v expected: %v", set.ByPitch()[0].Velocity, 50)
	}
}

func TestRemove(t *testing.T) {
	var set arpeggio.HeldNoteSet
	for _, p := range []byte{60, 64, 67} {
		set.Add(p, 100)
	}
	set.Remove(64)
	if got := pitches(set.ByPitch()); !reflect.DeepEqual(got, []byte{60, 67}) {
		t.Fatalf("ByPitch got: %v expected: %v", got, []byte{60, 67})
	}
	if got := pitches(set.ByInsertionOrder()); !reflect.DeepEqual(got, []byte{60, 67}) {
		t.Fatalf("ByInsertionOrder got: %v expected: %v", got, []byte{60, 67})
	}
	set.Remove(61) // unknown pitch, no-op
	if set.Len() != 2 {
		t.Fatalf("Len got: %v expected: %v", set.Len(), 2)
	}
}

func TestZeroVelocityAddRemoves(t *testing.T) {
	var set arpeggio.HeldNoteSet
	set.Add(60, 100)
	set.Add(60, 0)
	if !set.IsEmpty() {
		t.Fatalf("expected empty set, got %v notes", set.Len())
	}
}

func TestProjectionsContainSameNotes(t *testing.T) {
	var set arpeggio.HeldNoteSet
	script := []struct {
		add   bool
		pitch byte
	}{
		{true, 60}, {true, 72}, {true, 48}, {false, 72}, {true, 55},
		{true, 60}, {false, 48}, {true, 67}, {false, 61}, {true, 50},
	}
	for _, op := range script {
		if op.add {
			set.Add(op.pitch, 100)
		} else {
			set.Remove(op.pitch)
		}
		a := pitches(set.ByPitch())
		b := pitches(set.ByInsertionOrder())
		sorted := append([]byte(nil), b...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		if !reflect.DeepEqual(a, sorted) {
			t.Fatalf("projections diverged after %v: %v vs %v", op, a, b)
		}
	}
}

func TestClearResetsSequenceCounter(t *testing.T) {
	var set arpeggio.HeldNoteSet
	set.Add(60, 100)
	set.Add(64, 100)
	set.Clear()
	set.Clear() // clearing twice is the same as clearing once
	if !set.IsEmpty() {
		t.Fatalf("expected empty set, got %v notes", set.Len())
	}
	set.Add(67, 100)
	if got := set.ByInsertionOrder()[0].Sequence; got != 0 {
		t.Fatalf("sequence got: %v expected: %v", got, 0)
	}
}
