package engine

import "time"

// Loop clocks the player from the wall clock, for the MIDI-output-only mode
// where no audio device is pulling a Stream. It returns once quit closes,
// releasing anything still sounding.
func Loop(player *Player, context ProcessContext, quit <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	prev := time.Now()
	for {
		select {
		case <-quit:
			player.Stop()
			return
		case now := <-ticker.C:
			frames := int(now.Sub(prev).Seconds() * float64(player.samplerate))
			if frames <= 0 {
				continue
			}
			player.Process(frames, context)
			prev = prev.Add(time.Duration(frames) * time.Second / time.Duration(player.samplerate))
		}
	}
}
