package arpeggio

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Setup is the serializable configuration of one arpeggiator: what the
// selector plays and how the surrounding engine times it. It deliberately
// contains no runtime state; a Setup loaded from disk always starts from the
// pattern's canonical beginning.
type Setup struct {
	Pattern     Pattern    `yaml:"pattern"`
	OctaveRange int        `yaml:"octaverange"`
	OctaveMode  OctaveMode `yaml:"octavemode"`
	BPM         float64    `yaml:"bpm"`
	Division    float64    `yaml:"division"` // step length in quarter notes: 1 = quarters, 0.5 = eighths, 0.25 = sixteenths
	Gate        float64    `yaml:"gate"`     // fraction of the step the triggered notes are held, (0, 1]
	Channel     int        `yaml:"channel"`  // MIDI channel for the emitted notes, 0-15
	Seed        int64      `yaml:"seed"`     // seed for the random and walk patterns
}

// DefaultSetup is a sixteenth-note upward arpeggio at 120 BPM.
func DefaultSetup() Setup {
	return Setup{
		Pattern:     PatternUp,
		OctaveRange: 1,
		OctaveMode:  OctaveSequential,
		BPM:         120,
		Division:    0.25,
		Gate:        0.5,
		Channel:     0,
		Seed:        1,
	}
}

// ReadSetup parses a YAML setup. Fields missing from the document keep their
// DefaultSetup values.
func ReadSetup(r io.Reader) (Setup, error) {
	setup := DefaultSetup()
	d := yaml.NewDecoder(r)
	if err := d.Decode(&setup); err != nil {
		return Setup{}, fmt.Errorf("decoding setup failed: %w", err)
	}
	return setup, nil
}

// Write serializes the setup as YAML.
func (s Setup) Write(w io.Writer) error {
	e := yaml.NewEncoder(w)
	if err := e.Encode(s); err != nil {
		return fmt.Errorf("encoding setup failed: %w", err)
	}
	return e.Close()
}

// Apply configures a selector from the setup.
func (s Setup) Apply(selector *Selector) {
	selector.SetPattern(s.Pattern)
	selector.SetOctaveRange(s.OctaveRange)
	selector.SetOctaveMode(s.OctaveMode)
	selector.Reset()
}
