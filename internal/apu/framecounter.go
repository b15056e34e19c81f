package apu

// frame-counter step boundaries, in CPU cycles from the start of the
// current sequence, per spec.md §4.7.
const (
	fourStepQ1  = 7457
	fourStepQ2  = 14913
	fourStepQ3  = 22371
	fourStepQ4  = 29829
	fourStepLen = 29830

	fiveStepQ1  = 7457
	fiveStepQ2  = 14913
	fiveStepQ3  = 22371
	fiveStepQ4  = 37281
	fiveStepLen = 37282
)

// pendingWriteState models the 3/4-cycle delay on a $4017 write as the
// small state machine spec.md §9 describes: idle or counting down; the
// write is applied on the step where the countdown reaches zero.
type pendingWriteState uint8

const (
	pendingIdle pendingWriteState = iota
	pendingCountdown
)

// frameCounter is the APU's frame sequencer: quarter/half-frame event
// generation in 4-step and 5-step modes, plus the frame-IRQ flag.
type frameCounter struct {
	mode       bool // false = 4-step, true = 5-step
	irqInhibit bool
	irqFlag    bool

	cycle uint64

	pending      pendingWriteState
	pendingValue uint8
	pendingDelay int
}

// write stages a $4017 write; evenCycle is whether the CPU cycle the write
// landed on was even (3-cycle delay) or odd (4-cycle delay), per spec.md's
// resolution of the parity-aware open question in §9.
func (f *frameCounter) write(value uint8, evenCycle bool) {
	f.pending = pendingCountdown
	f.pendingValue = value
	if evenCycle {
		f.pendingDelay = 3
	} else {
		f.pendingDelay = 4
	}
}

// step advances the sequencer by one CPU cycle. quarter/half are called
// back for each event; when a delayed $4017 write takes effect and selects
// 5-step mode, applyPendingWrite fires both events at once.
func (f *frameCounter) step(quarter, half func()) {
	if f.pending == pendingCountdown {
		f.pendingDelay--
		if f.pendingDelay <= 0 {
			f.applyPendingWrite(quarter, half)
		}
	}

	f.cycle++

	period := uint64(fourStepLen)
	if f.mode {
		period = fiveStepLen
	}

	if f.mode {
		switch f.cycle {
		case fiveStepQ1, fiveStepQ3:
			quarter()
		case fiveStepQ2:
			quarter()
			half()
		case fiveStepQ4:
			quarter()
			half()
		}
	} else {
		switch f.cycle {
		case fourStepQ1, fourStepQ3:
			quarter()
		case fourStepQ2:
			quarter()
			half()
		case fourStepQ4 - 1, fourStepQ4:
			if !f.irqInhibit {
				f.irqFlag = true
			}
			if f.cycle == fourStepQ4 {
				quarter()
				half()
			}
		}
	}

	if f.cycle >= period {
		f.cycle = 0
	}
}

func (f *frameCounter) applyPendingWrite(quarter, half func()) {
	f.pending = pendingIdle
	v := f.pendingValue
	f.mode = v&0x80 != 0
	f.irqInhibit = v&0x40 != 0
	if f.irqInhibit {
		f.irqFlag = false
	}
	f.cycle = 0
	if f.mode {
		quarter()
		half()
	}
}

// readAndClearIRQ returns the frame-IRQ flag and clears it, per the $4015
// read side effect in spec.md §4.4/§4.7.
func (f *frameCounter) readAndClearIRQ() bool {
	v := f.irqFlag
	f.irqFlag = false
	return v
}
