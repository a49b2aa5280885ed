package arpeggio

import "fmt"

type (
	// Pattern selects which traversal algorithm the Selector uses to pick the
	// next note from a HeldNoteSet.
	Pattern int

	// OctaveMode selects how the octave-transposed copies of the pattern are
	// ordered when the octave range is greater than one.
	OctaveMode int
)

const (
	PatternUp       Pattern = iota // ascending pitch sweep
	PatternDown                    // descending pitch sweep
	PatternUpDown                  // ascend then descend, boundary notes not repeated
	PatternDownUp                  // descend then ascend, boundary notes not repeated
	PatternConverge                // alternate lowest/highest remaining, inward
	PatternDiverge                 // from the middle outward to the edges
	PatternRandom                  // uniform random pick
	PatternWalk                    // random walk, one step at a time
	PatternAsPlayed                // insertion order
	PatternChord                   // all held notes at once
	NumPatterns     = int(PatternChord) + 1
)

const (
	// OctaveSequential plays a full pattern pass at each octave before moving
	// to the next octave.
	OctaveSequential OctaveMode = iota
	// OctaveInterleaved plays every octave of each pattern position before
	// the pattern position advances.
	OctaveInterleaved
	NumOctaveModes = int(OctaveInterleaved) + 1
)

var patternNames = [NumPatterns]string{
	"up", "down", "updown", "downup", "converge", "diverge",
	"random", "walk", "asplayed", "chord",
}

var octaveModeNames = [NumOctaveModes]string{"sequential", "interleaved"}

func (p Pattern) String() string {
	if p < 0 || int(p) >= NumPatterns {
		return fmt.Sprintf("Pattern(%d)", int(p))
	}
	return patternNames[p]
}

func (m OctaveMode) String() string {
	if m < 0 || int(m) >= NumOctaveModes {
		return fmt.Sprintf("OctaveMode(%d)", int(m))
	}
	return octaveModeNames[m]
}

// ParsePattern returns the Pattern with the given name, as produced by
// Pattern.String.
func ParsePattern(name string) (Pattern, error) {
	for i, n := range patternNames {
		if n == name {
			return Pattern(i), nil
		}
	}
	return 0, fmt.Errorf("unknown pattern %q", name)
}

// ParseOctaveMode returns the OctaveMode with the given name, as produced by
// OctaveMode.String.
func ParseOctaveMode(name string) (OctaveMode, error) {
	for i, n := range octaveModeNames {
		if n == name {
			return OctaveMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown octave mode %q", name)
}

func (p Pattern) MarshalYAML() (interface{}, error) { return p.String(), nil }

func (p *Pattern) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParsePattern(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (m OctaveMode) MarshalYAML() (interface{}, error) { return m.String(), nil }

func (m *OctaveMode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseOctaveMode(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
