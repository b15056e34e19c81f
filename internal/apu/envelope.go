package apu

// envelope is the decay-volume unit shared by both pulse channels and the
// noise channel. It is clocked once per quarter-frame.
type envelope struct {
	start          bool
	decay          uint8
	divider        uint8
	loop           bool // length-counter-halt / envelope-loop, same physical bit
	constantVolume bool
	volume         uint8 // constant-volume level, or envelope divider period
}

// clock advances the envelope by one quarter-frame tick.
func (e *envelope) clock() {
	if e.start {
		e.start = false
		e.decay = 15
		e.divider = e.volume
		return
	}
	if e.divider == 0 {
		e.divider = e.volume
		switch {
		case e.decay > 0:
			e.decay--
		case e.loop:
			e.decay = 15
		}
	} else {
		e.divider--
	}
}

// output returns the channel's current volume: the constant-volume field
// when set, otherwise the decay level.
func (e *envelope) output() uint8 {
	if e.constantVolume {
		return e.volume
	}
	return e.decay
}
