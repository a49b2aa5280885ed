package gomidi

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/vsariola/arpeggio/engine"
)

type (
	// RTMIDIContext talks to the rtmidi driver: it listens to one input
	// port, buffering the incoming messages with timestamps converted to
	// sample frames, and optionally sends the arpeggiated notes to one
	// output port. It implements both engine.ProcessContext (input side)
	// and engine.Voicer (output side).
	RTMIDIContext struct {
		driver     *rtmididrv.Driver
		currentIn  drivers.In
		currentOut drivers.Out
		send       func(midi.Message) error
		samplerate int

		events        chan timestampedMsg
		eventsBuf     []timestampedMsg
		eventIndex    int
		startFrame    int
		startFrameSet bool
	}

	timestampedMsg struct {
		frame int
		msg   midi.Message
	}
)

// NewContext opens the rtmidi driver. samplerate tells how message
// timestamps are converted to frames.
func NewContext(samplerate int) *RTMIDIContext {
	c := RTMIDIContext{
		samplerate: samplerate,
		events:     make(chan timestampedMsg, 1024),
	}
	// there's not much we can do if this fails, so just use c.driver = nil
	// to indicate no driver available
	c.driver, _ = rtmididrv.New()
	return &c
}

// InputPorts returns the names of the available MIDI input ports.
func (c *RTMIDIContext) InputPorts() []string {
	if c.driver == nil {
		return nil
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return nil
	}
	ret := make([]string, len(ins))
	for i, in := range ins {
		ret[i] = in.String()
	}
	return ret
}

// OutputPorts returns the names of the available MIDI output ports.
func (c *RTMIDIContext) OutputPorts() []string {
	if c.driver == nil {
		return nil
	}
	outs, err := c.driver.Outs()
	if err != nil {
		return nil
	}
	ret := make([]string, len(outs))
	for i, out := range outs {
		ret[i] = out.String()
	}
	return ret
}

// OpenInputBy opens the first input port whose name starts with namePrefix,
// or just the first port if takeFirst is set, and starts listening to it.
func (c *RTMIDIContext) OpenInputBy(namePrefix string, takeFirst bool) error {
	if c.driver == nil {
		return errors.New("no MIDI driver available")
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return fmt.Errorf("listing MIDI inputs failed: %w", err)
	}
	for _, in := range ins {
		if takeFirst || (namePrefix != "" && strings.HasPrefix(in.String(), namePrefix)) {
			if err := in.Open(); err != nil {
				return fmt.Errorf("opening MIDI input %v failed: %w", in, err)
			}
			if _, err := midi.ListenTo(in, c.HandleMessage); err != nil {
				in.Close()
				return fmt.Errorf("listening to MIDI input %v failed: %w", in, err)
			}
			c.currentIn = in
			return nil
		}
	}
	if takeFirst {
		return errors.New("no MIDI inputs found")
	}
	return fmt.Errorf("no MIDI input starting with %q found", namePrefix)
}

// OpenOutputBy opens the first output port whose name starts with
// namePrefix, or just the first port if takeFirst is set.
func (c *RTMIDIContext) OpenOutputBy(namePrefix string, takeFirst bool) error {
	if c.driver == nil {
		return errors.New("no MIDI driver available")
	}
	outs, err := c.driver.Outs()
	if err != nil {
		return fmt.Errorf("listing MIDI outputs failed: %w", err)
	}
	for _, out := range outs {
		if takeFirst || (namePrefix != "" && strings.HasPrefix(out.String(), namePrefix)) {
			if err := out.Open(); err != nil {
				return fmt.Errorf("opening MIDI output %v failed: %w", out, err)
			}
			send, err := midi.SendTo(out)
			if err != nil {
				out.Close()
				return fmt.Errorf("sending to MIDI output %v failed: %w", out, err)
			}
			c.currentOut = out
			c.send = send
			return nil
		}
	}
	if takeFirst {
		return errors.New("no MIDI outputs found")
	}
	return fmt.Errorf("no MIDI output starting with %q found", namePrefix)
}

func (c *RTMIDIContext) HandleMessage(msg midi.Message, timestampms int32) {
	m := timestampedMsg{frame: int(int64(timestampms) * int64(c.samplerate) / 1000), msg: msg}
	select {
	case c.events <- m: // if the channel is full, just drop the message
	default:
	}
}

// NextEvent returns the next note event at or before frame, converting the
// buffered messages' wall-clock frames to block-relative frames and gently
// adjusting the conversion offset when the two clocks drift apart.
func (c *RTMIDIContext) NextEvent(frame int) (event engine.NoteEvent, ok bool) {
F:
	for {
		select {
		case msg := <-c.events:
			c.eventsBuf = append(c.eventsBuf, msg)
			if !c.startFrameSet {
				c.startFrame = msg.frame
				c.startFrameSet = true
			}
		default:
			break F
		}
	}
	if c.eventIndex > 0 {
		// if we consume events later than their timestamps, adjust the
		// clock offset towards the consumed event
		delta := frame + c.startFrame - c.eventsBuf[c.eventIndex-1].frame
		c.startFrame -= delta / 5
	}
	for c.eventIndex < len(c.eventsBuf) {
		var channel, key, velocity uint8
		m := c.eventsBuf[c.eventIndex]
		f := m.frame - c.startFrame
		c.eventIndex++
		isNoteOn := m.msg.GetNoteOn(&channel, &key, &velocity)
		isNoteOff := !isNoteOn && m.msg.GetNoteOff(&channel, &key, &velocity)
		if isNoteOn || isNoteOff {
			return engine.NoteEvent{
				Frame:    f,
				On:       isNoteOn,
				Channel:  int(channel),
				Note:     key,
				Velocity: velocity,
			}, true
		}
	}
	c.eventIndex = len(c.eventsBuf) + 1
	return engine.NoteEvent{}, false
}

// FinishBlock tells the context that the current block of frame frames is
// done, so the consumed events can be dropped from the buffer.
func (c *RTMIDIContext) FinishBlock(frame int) {
	c.startFrame += frame
	if c.eventIndex > 0 {
		copy(c.eventsBuf, c.eventsBuf[c.eventIndex-1:])
		c.eventsBuf = c.eventsBuf[:len(c.eventsBuf)-c.eventIndex+1]
		if len(c.eventsBuf) > 0 {
			// events were not consumed this round; adjust the clock offset
			// towards the future events
			delta := c.startFrame - c.eventsBuf[0].frame
			c.startFrame -= delta / 5
		}
	}
	c.eventIndex = 0
}

// BPM implements engine.ProcessContext; a raw MIDI port has no tempo.
func (c *RTMIDIContext) BPM() (bpm float64, ok bool) {
	return 0, false
}

// NoteOn implements engine.Voicer by sending to the open output port.
func (c *RTMIDIContext) NoteOn(channel int, pitch, velocity byte) {
	if c.send == nil {
		return
	}
	c.send(midi.NoteOn(uint8(channel), pitch, velocity))
}

// NoteOff implements engine.Voicer by sending to the open output port.
func (c *RTMIDIContext) NoteOff(channel int, pitch byte) {
	if c.send == nil {
		return
	}
	c.send(midi.NoteOff(uint8(channel), pitch))
}

func (c *RTMIDIContext) Close() {
	if c.driver == nil {
		return
	}
	if c.currentIn != nil && c.currentIn.IsOpen() {
		c.currentIn.Close()
	}
	if c.currentOut != nil && c.currentOut.IsOpen() {
		c.currentOut.Close()
	}
	c.driver.Close()
}
