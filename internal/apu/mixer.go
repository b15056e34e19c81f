package apu

import "math"

// pulseTable and tndTable reproduce the NES's non-linear analog mixing, per
// spec.md §4.9.
var pulseTable [31]float32
var tndTable [203]float32

func init() {
	for n := 1; n < len(pulseTable); n++ {
		pulseTable[n] = float32(95.88 / (8128.0/float64(n) + 100.0))
	}
	for n := 1; n < len(tndTable); n++ {
		tndTable[n] = float32(159.79 / (16367.0/float64(n) + 100.0))
	}
}

// mixer combines the five channel outputs into one normalised sample per
// CPU cycle and applies a high-pass, a low-pass filter, and a compressor.
type mixer struct {
	highPassPrevIn  float32
	highPassPrevOut float32
	lowPassPrevOut  float32

	compressorEnv float32

	// sampleRate is the host's configured output rate. It plays no part in
	// the filter math below (mix runs at the fixed APU cycle rate); it is
	// kept only so Reset can rebuild the mixer with the same host config.
	sampleRate float64
}

func newMixer(sampleRate float64) mixer {
	return mixer{sampleRate: sampleRate}
}

func (m *mixer) mix(p1, p2, t, n, d uint8) float32 {
	pulseOut := pulseTable[int(p1)+int(p2)]
	tndIndex := 3*int(t) + 2*int(n) + int(d)
	tndOut := tndTable[tndIndex]
	raw := pulseOut + tndOut

	hp := m.highPass(raw)
	lp := m.lowPass(hp)
	return m.compress(lp)
}

// highPass implements a first-order IIR high-pass filter at ~90 Hz. mix is
// invoked once per CPU cycle (apu.go's Step), not once per output sample, so
// its dt must be the APU's own per-cycle period rather than the host's
// downsampled sink rate (m.sampleRate), or the computed cutoff is wrong by
// the ratio between the two rates.
func (m *mixer) highPass(in float32) float32 {
	const cutoff = 90.0
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	dt := 1.0 / ntscCPUFrequency
	alpha := float32(rc / (rc + dt))

	out := alpha*(m.highPassPrevOut+in-m.highPassPrevIn)
	m.highPassPrevIn = in
	m.highPassPrevOut = out
	return out
}

// lowPass implements a first-order IIR low-pass filter at ~14 kHz, clocked
// at the same per-CPU-cycle rate as highPass (see its comment).
func (m *mixer) lowPass(in float32) float32 {
	const cutoff = 14000.0
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	dt := 1.0 / ntscCPUFrequency
	alpha := float32(dt / (rc + dt))

	out := m.lowPassPrevOut + alpha*(in-m.lowPassPrevOut)
	m.lowPassPrevOut = out
	return out
}

// compress applies a simple downward compressor: threshold 0.7, ratio 4:1,
// 3 ms attack, 100 ms release.
func (m *mixer) compress(in float32) float32 {
	const threshold = 0.7
	const ratio = 4.0
	attackCoeff := timeConstant(0.003, ntscCPUFrequency)
	releaseCoeff := timeConstant(0.100, ntscCPUFrequency)

	level := float32(math.Abs(float64(in)))
	if level > m.compressorEnv {
		m.compressorEnv += (level - m.compressorEnv) * attackCoeff
	} else {
		m.compressorEnv += (level - m.compressorEnv) * releaseCoeff
	}

	if m.compressorEnv <= threshold {
		return in
	}
	excess := m.compressorEnv - threshold
	gain := (threshold + excess/ratio) / m.compressorEnv
	return in * gain
}

func timeConstant(seconds float64, sampleRate float64) float32 {
	return float32(1.0 - math.Exp(-1.0/(seconds*sampleRate)))
}
