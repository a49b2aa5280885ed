package engine

import (
	log "github.com/sirupsen/logrus"

	"github.com/vsariola/arpeggio"
)

type (
	// Player is the step sequencer driving a Selector. It is clocked in
	// sample frames by Process calls, typically from the audio callback or a
	// wall-clock ticker, and is the single execution context touching the
	// held-note set: incoming NoteEvents mutate the set, and once per step
	// the selector picks the next notes, which are triggered on the Voicer
	// and released again after the gate time.
	Player struct {
		held     arpeggio.HeldNoteSet
		selector *arpeggio.Selector
		voicer   Voicer

		samplerate int
		channel    int
		bpm        float64
		division   float64
		gate       float64

		samplesPerStep int
		gateSamples    int
		steptime       int
		sounding       arpeggio.SelectionResult
		gateOpen       bool
	}

	// Voicer makes the selected notes audible: a MIDI output, the built-in
	// synth, or a test recorder.
	Voicer interface {
		NoteOn(channel int, pitch, velocity byte)
		NoteOff(channel int, pitch byte)
	}

	// NoteEvent is one incoming key event. Frame is relative to the start of
	// the current Process block.
	NoteEvent struct {
		Frame    int
		On       bool
		Channel  int
		Note     byte
		Velocity byte
	}

	// ProcessContext feeds the player MIDI events during a Process block and
	// optionally tells the current tempo of the host.
	ProcessContext interface {
		NextEvent(frame int) (event NoteEvent, ok bool)
		FinishBlock(frame int)
		BPM() (bpm float64, ok bool)
	}
)

// NewPlayer returns a player for the given setup, sending the selections to
// voicer. The first step triggers immediately on the first Process call.
func NewPlayer(setup arpeggio.Setup, voicer Voicer, samplerate int) *Player {
	selector := arpeggio.NewSelector(setup.Seed)
	setup.Apply(selector)
	p := &Player{
		selector:   selector,
		voicer:     voicer,
		samplerate: samplerate,
		channel:    setup.Channel,
	}
	p.SetTempo(setup.BPM, setup.Division, setup.Gate)
	p.steptime = p.samplesPerStep
	return p
}

// Selector exposes the player's selector for live reconfiguration. The
// caller must be the same context that calls Process.
func (p *Player) Selector() *arpeggio.Selector { return p.selector }

// SetTempo sets the step clock: bpm beats per minute, division step length
// in quarter notes, gate the fraction of a step the notes are held.
func (p *Player) SetTempo(bpm, division, gate float64) {
	if bpm <= 0 {
		bpm = 120
	}
	if division <= 0 {
		division = 0.25
	}
	if gate <= 0 || gate > 1 {
		gate = 1
	}
	p.bpm, p.division, p.gate = bpm, division, gate
	p.samplesPerStep = int(float64(p.samplerate) * 60 * division / bpm)
	if p.samplesPerStep < 1 {
		p.samplesPerStep = 1
	}
	p.gateSamples = int(gate * float64(p.samplesPerStep))
	if p.gateSamples < 1 {
		p.gateSamples = 1
	}
}

// Process advances the step clock by frames samples, consuming the events of
// the block from context. Each step boundary releases the previous selection
// and triggers the next one; the gate boundary releases it early when gate
// is below 1.
func (p *Player) Process(frames int, context ProcessContext) {
	frame := 0
	event, eventOk := context.NextEvent(frame)
	for {
		for eventOk && event.Frame <= frame {
			p.handleEvent(event)
			event, eventOk = context.NextEvent(frame)
		}
		if bpm, ok := context.BPM(); ok && bpm != p.bpm {
			p.SetTempo(bpm, p.division, p.gate)
		}
		if p.gateOpen && p.steptime >= p.gateSamples {
			p.releaseSounding()
		}
		if p.steptime >= p.samplesPerStep {
			p.step()
		}
		if frame >= frames {
			break
		}
		run := frames - frame
		if eventOk && event.Frame-frame < run {
			run = event.Frame - frame
		}
		if p.gateOpen && p.gateSamples-p.steptime < run {
			run = p.gateSamples - p.steptime
		}
		if p.samplesPerStep-p.steptime < run {
			run = p.samplesPerStep - p.steptime
		}
		if run < 0 {
			run = 0
		}
		frame += run
		p.steptime += run
	}
	context.FinishBlock(frames)
}

func (p *Player) handleEvent(e NoteEvent) {
	if e.On && e.Velocity > 0 {
		p.held.Add(e.Note, e.Velocity)
	} else {
		p.held.Remove(e.Note)
	}
	log.WithFields(log.Fields{"note": e.Note, "on": e.On, "velocity": e.Velocity}).Debug("note event")
}

func (p *Player) step() {
	p.releaseSounding()
	p.sounding = p.selector.Advance(&p.held)
	for _, n := range p.sounding.Notes[:p.sounding.Count] {
		p.voicer.NoteOn(p.channel, n.Pitch, n.Velocity)
	}
	p.gateOpen = p.sounding.Count > 0
	p.steptime = 0
}

func (p *Player) releaseSounding() {
	if !p.gateOpen {
		return
	}
	for _, n := range p.sounding.Notes[:p.sounding.Count] {
		p.voicer.NoteOff(p.channel, n.Pitch)
	}
	p.gateOpen = false
}

// Stop releases anything still sounding, for a clean shutdown.
func (p *Player) Stop() {
	p.releaseSounding()
}
