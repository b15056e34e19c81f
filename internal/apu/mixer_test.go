package apu

import "testing"

// The high-pass/low-pass filters and the compressor all run once per CPU
// cycle (mix is called from Step, not from a downsampled tap), so their time
// constants must depend on the fixed APU clock, never on the host's
// configured output rate. Two mixers built with different sample rates
// must therefore filter identically.
func TestFiltersAreIndependentOfHostSampleRate(t *testing.T) {
	m1 := newMixer(44100)
	m2 := newMixer(48000)

	for i := 0; i < 100; i++ {
		in := float32(0.5)
		if i%7 == 0 {
			in = 1.0
		}
		a := m1.highPass(in)
		b := m2.highPass(in)
		if a != b {
			t.Fatalf("highPass step %d: %v (44100) vs %v (48000), want equal", i, a, b)
		}

		la := m1.lowPass(a)
		lb := m2.lowPass(b)
		if la != lb {
			t.Fatalf("lowPass step %d: %v (44100) vs %v (48000), want equal", i, la, lb)
		}

		ca := m1.compress(la)
		cb := m2.compress(lb)
		if ca != cb {
			t.Fatalf("compress step %d: %v (44100) vs %v (48000), want equal", i, ca, cb)
		}
	}
}
