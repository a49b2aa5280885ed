package arpeggio

// MaxHeldNotes is the maximum number of simultaneously held notes tracked by
// a HeldNoteSet, and thus also the maximum number of notes in a
// SelectionResult.
const MaxHeldNotes = 32

type (
	// HeldNote is one currently sounding input note. Sequence is a running
	// counter assigned when the pitch was first added, used only for the
	// chronological ordering; updating the velocity of an already held pitch
	// does not change its Sequence.
	HeldNote struct {
		Pitch    byte
		Velocity byte
		Sequence uint32
	}

	// HeldNoteSet is a capacity-bounded registry of the notes currently held
	// down. It maintains two projections of the same notes, one sorted by
	// ascending pitch and one in insertion order, both updated incrementally
	// on every write so that reads are just slicing a backing array. The zero
	// value is an empty set ready for use. All operations run in bounded time
	// and allocate nothing.
	HeldNoteSet struct {
		byPitch   [MaxHeldNotes]HeldNote
		byArrival [MaxHeldNotes]HeldNote
		count     int
		sequence  uint32
	}
)

// Add inserts a note or, if the pitch is already held, updates its velocity
// in place, keeping both its pitch-order position and its chronological slot.
// Adding when the set is full is a silent no-op. A zero velocity is the
// conventional note-off and is translated into Remove.
func (s *HeldNoteSet) Add(pitch, velocity byte) {
	if velocity == 0 {
		s.Remove(pitch)
		return
	}
	i := s.searchPitch(pitch)
	if i < s.count && s.byPitch[i].Pitch == pitch {
		s.byPitch[i].Velocity = velocity
		for j := 0; j < s.count; j++ {
			if s.byArrival[j].Pitch == pitch {
				s.byArrival[j].Velocity = velocity
				break
			}
		}
		return
	}
	if s.count >= MaxHeldNotes {
		return
	}
	n := HeldNote{Pitch: pitch, Velocity: velocity, Sequence: s.sequence}
	s.sequence++
	copy(s.byPitch[i+1:s.count+1], s.byPitch[i:s.count])
	s.byPitch[i] = n
	s.byArrival[s.count] = n
	s.count++
}

// Remove deletes the note with the given pitch from both projections,
// compacting them. Removing a pitch that is not held is a no-op.
func (s *HeldNoteSet) Remove(pitch byte) {
	i := s.searchPitch(pitch)
	if i >= s.count || s.byPitch[i].Pitch != pitch {
		return
	}
	copy(s.byPitch[i:s.count-1], s.byPitch[i+1:s.count])
	for j := 0; j < s.count; j++ {
		if s.byArrival[j].Pitch == pitch {
			copy(s.byArrival[j:s.count-1], s.byArrival[j+1:s.count])
			break
		}
	}
	s.count--
}

// Clear empties the set and resets the insertion counter.
func (s *HeldNoteSet) Clear() {
	s.count = 0
	s.sequence = 0
}

func (s *HeldNoteSet) Len() int      { return s.count }
func (s *HeldNoteSet) IsEmpty() bool { return s.count == 0 }

// ByPitch returns the held notes in ascending pitch order. The returned slice
// aliases the set's backing array and stays valid only until the next write;
// callers must not modify it.
func (s *HeldNoteSet) ByPitch() []HeldNote { return s.byPitch[:s.count] }

// ByInsertionOrder returns the held notes in the order their pitches were
// first added. Same aliasing rules as ByPitch.
func (s *HeldNoteSet) ByInsertionOrder() []HeldNote { return s.byArrival[:s.count] }

// searchPitch returns the position of pitch in the pitch-sorted projection,
// or the position where it would be inserted. Linear scan; the set is at most
// 32 entries so this beats branchier searches on the hot path.
func (s *HeldNoteSet) searchPitch(pitch byte) int {
	i := 0
	for i < s.count && s.byPitch[i].Pitch < pitch {
		i++
	}
	return i
}
