package arpeggio

import "math/rand"

type (
	// Selector is the stateful engine that decides which held note(s) to
	// sound on each rhythmic step. It is configured with a Pattern, an octave
	// range and an OctaveMode, and keeps a small cursor between Advance calls
	// so that each call continues where the previous one left off. A Selector
	// stores no reference to any HeldNoteSet; the set is passed to every
	// Advance call and is never mutated by it.
	//
	// Each Selector owns its own seeded random generator, so several
	// concurrently playing selectors do not disturb each other's random and
	// walk sequences, and a fixed seed replays the exact same selections.
	Selector struct {
		pattern     Pattern
		octaveRange int
		octaveMode  OctaveMode

		pos    int // pattern position; walk position for PatternWalk
		steps  int // calls into the current pass, for the patterns with no natural wrap
		octave int // current octave offset, 0..octaveRange-1
		rng    *rand.Rand
	}

	// SelectedNote is one (pitch, velocity) pair of a SelectionResult.
	SelectedNote struct {
		Pitch    byte
		Velocity byte
	}

	// SelectionResult is the outcome of one Advance call: Count is 1 for the
	// single-note patterns, the held-note count for PatternChord, and 0 when
	// the set was empty. Only Notes[:Count] is meaningful.
	SelectionResult struct {
		Notes [MaxHeldNotes]SelectedNote
		Count int
	}
)

// Octave range bounds; out-of-range configuration is clamped, not rejected.
const (
	MinOctaveRange = 1
	MaxOctaveRange = 4
)

// NewSelector returns a Selector playing PatternUp over a single octave. The
// seed drives the PatternRandom and PatternWalk selections.
func NewSelector(seed int64) *Selector {
	return &Selector{
		octaveRange: MinOctaveRange,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (s *Selector) Pattern() Pattern       { return s.pattern }
func (s *Selector) OctaveRange() int       { return s.octaveRange }
func (s *Selector) OctaveMode() OctaveMode { return s.octaveMode }

// SetPattern switches the active pattern. Switching resets the cursor, so a
// new pattern never inherits position or direction state from the old one.
func (s *Selector) SetPattern(pattern Pattern) {
	if pattern < 0 {
		pattern = 0
	}
	if int(pattern) >= NumPatterns {
		pattern = Pattern(NumPatterns - 1)
	}
	if pattern == s.pattern {
		return
	}
	s.pattern = pattern
	s.Reset()
}

// SetOctaveRange sets over how many octaves the pattern repeats, clamped to
// [MinOctaveRange, MaxOctaveRange].
func (s *Selector) SetOctaveRange(octaves int) {
	if octaves < MinOctaveRange {
		octaves = MinOctaveRange
	}
	if octaves > MaxOctaveRange {
		octaves = MaxOctaveRange
	}
	s.octaveRange = octaves
	if s.octave >= octaves {
		s.octave = 0
	}
}

func (s *Selector) SetOctaveMode(mode OctaveMode) {
	if mode < 0 {
		mode = 0
	}
	if int(mode) >= NumOctaveModes {
		mode = OctaveMode(NumOctaveModes - 1)
	}
	s.octaveMode = mode
}

// Reset returns the cursor to the canonical start of the active pattern:
// position 0, octave offset 0, walk index 0. The random generator state is
// kept; reseeding is what NewSelector is for.
func (s *Selector) Reset() {
	s.pos = 0
	s.steps = 0
	s.octave = 0
}

// Advance picks the next note(s) to sound from held and moves the cursor
// forward. An empty set yields a zero-count result and leaves the cursor
// untouched. A set that shrank since the previous call is absorbed by
// clamping the position into the valid range, never by resetting, so
// playback stays as close as possible to where it was.
func (s *Selector) Advance(held *HeldNoteSet) SelectionResult {
	var result SelectionResult
	n := held.Len()
	if n == 0 {
		return result
	}
	if s.pattern == PatternChord {
		// all held notes at once, always untransposed; no cursor state
		for i, note := range held.ByPitch() {
			result.Notes[i] = SelectedNote{Pitch: note.Pitch, Velocity: note.Velocity}
		}
		result.Count = n
		return result
	}
	if max := s.posLimit(n); s.pos > max {
		s.pos = max
	}
	note := s.currentNote(held, n)
	result.Notes[0] = SelectedNote{Pitch: transpose(note.Pitch, s.octave), Velocity: note.Velocity}
	result.Count = 1
	switch s.octaveMode {
	case OctaveSequential:
		if s.advancePos(n) {
			s.octave++
			if s.octave >= s.octaveRange {
				s.octave = 0
			}
		}
	case OctaveInterleaved:
		s.octave++
		if s.octave >= s.octaveRange {
			s.octave = 0
			s.advancePos(n)
		}
	}
	return result
}

// currentNote resolves the cursor to the untransposed note for the active
// pattern, without moving the cursor.
func (s *Selector) currentNote(held *HeldNoteSet, n int) HeldNote {
	if s.pattern == PatternAsPlayed {
		return held.ByInsertionOrder()[s.pos]
	}
	byPitch := held.ByPitch()
	switch s.pattern {
	case PatternUp:
		return byPitch[s.pos]
	case PatternDown:
		return byPitch[n-1-s.pos]
	case PatternUpDown:
		return byPitch[bounceIndex(s.pos, n)]
	case PatternDownUp:
		// the same bounce cycle as PatternUpDown, phase-shifted to start
		// from the highest note
		if n < 2 {
			return byPitch[0]
		}
		return byPitch[bounceIndex((s.pos+n-1)%bounceLen(n), n)]
	case PatternConverge:
		return byPitch[convergeIndex(s.pos, n)]
	case PatternDiverge:
		return byPitch[divergeIndex(s.pos, n)]
	case PatternRandom, PatternWalk:
		return byPitch[s.pos]
	}
	return byPitch[s.pos]
}

// advancePos moves the pattern position one step and reports whether the
// pattern wrapped back to the start of its pass, which is what drives the
// octave offset in OctaveSequential mode.
func (s *Selector) advancePos(n int) (wrapped bool) {
	switch s.pattern {
	case PatternUpDown, PatternDownUp:
		s.pos++
		if s.pos >= bounceLen(n) {
			s.pos = 0
			wrapped = true
		}
	case PatternRandom:
		s.pos = s.rng.Intn(n)
		s.steps++
		if s.steps >= n {
			s.steps = 0
			wrapped = true
		}
	case PatternWalk:
		// always one step, up or down with equal probability, clamped to
		// the ends; a pass is counted as n calls
		if s.rng.Intn(2) == 0 {
			s.pos--
		} else {
			s.pos++
		}
		if s.pos < 0 {
			s.pos = 0
		}
		if s.pos > n-1 {
			s.pos = n - 1
		}
		s.steps++
		if s.steps >= n {
			s.steps = 0
			wrapped = true
		}
	default:
		s.pos++
		if s.pos >= n {
			s.pos = 0
			wrapped = true
		}
	}
	return wrapped
}

// posLimit is the largest valid cursor position for the active pattern with
// n held notes; positions beyond it can only result from the set shrinking
// between calls.
func (s *Selector) posLimit(n int) int {
	switch s.pattern {
	case PatternUpDown, PatternDownUp:
		return bounceLen(n) - 1
	}
	return n - 1
}

// bounceLen is the cycle length of the UpDown/DownUp bounce. The two-note
// case is deliberately plain alternation rather than the general 2(n-1)
// cycle, which would degenerate to the same thing only by accident.
func bounceLen(n int) int {
	switch {
	case n < 2:
		return 1
	case n == 2:
		return 2
	}
	return 2 * (n - 1)
}

// bounceIndex maps a position on the virtual bounce cycle to an index into
// the ascending view, so boundary notes are not repeated on reversal.
func bounceIndex(pos, n int) int {
	if n <= 2 {
		return pos % bounceLen(n)
	}
	if pos < n {
		return pos
	}
	return 2*(n-1) - pos
}

// convergeIndex alternates lowest, highest, second lowest, ... inward; with
// an odd count the middle note lands on the final step.
func convergeIndex(step, n int) int {
	if step%2 == 0 {
		return step / 2
	}
	return n - 1 - (step-1)/2
}

// divergeIndex starts at the middle note(s) and expands outward, emitting
// the lower note of each ring first; with an odd count the single middle
// note is the first step.
func divergeIndex(step, n int) int {
	if n%2 == 0 {
		if step%2 == 0 {
			return n/2 - 1 - step/2
		}
		return n/2 + (step-1)/2
	}
	mid := (n - 1) / 2
	if step == 0 {
		return mid
	}
	if step%2 == 1 {
		return mid - (step+1)/2
	}
	return mid + step/2
}

// transpose shifts a pitch up by whole octaves, clamping to the top of the
// MIDI range instead of wrapping.
func transpose(pitch byte, octave int) byte {
	p := int(pitch) + 12*octave
	if p > 127 {
		p = 127
	}
	return byte(p)
}
