package measure

import (
	"time"

	"github.com/fieldsensor/rsntgw/wire"
)

// Sampler reads one raw ADC counts from a powered, settled channel. Real
// hardware builds satisfy this with an analogRead over the appropriate
// pin; host/simulation builds satisfy it with a deterministic or
// injectable sequence.
type Sampler interface {
	Sample() uint16
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func() uint16

func (f SamplerFunc) Sample() uint16 { return f() }

// Sleeper abstracts time.Sleep so bursts can run instantly in tests.
type Sleeper interface {
	Sleep(d time.Duration)
}

// RealSleeper sleeps for real via time.Sleep.
type RealSleeper struct{}

func (RealSleeper) Sleep(d time.Duration) { time.Sleep(d) }

// BurstRaw runs one settle-then-sample sequence against a single channel: it
// settles for settleMs, discards one throwaway reading (the divider needs
// a cycle to stabilize after power-up), then takes n readings spaced
// sampleIntervalMs apart. n is clamped via ClampSampleCount before use. It
// returns the raw samples alongside their computed stats, for callers that
// also need the unprocessed burst (debug diagnostics).
func BurstRaw(sampler Sampler, sleeper Sleeper, numSamples uint8, settleMs, sampleIntervalMs uint16) ([]uint16, wire.ChannelStats) {
	n := ClampSampleCount(numSamples)
	sleeper.Sleep(time.Duration(settleMs) * time.Millisecond)
	_ = sampler.Sample() // discard first reading of the burst

	samples := make([]uint16, n)
	for i := uint8(0); i < n; i++ {
		samples[i] = sampler.Sample()
		if i+1 < n {
			sleeper.Sleep(time.Duration(sampleIntervalMs) * time.Millisecond)
		}
	}
	return samples, Stats(samples)
}

// Burst is BurstRaw without the raw samples, for callers that only need
// the summary statistics.
func Burst(sampler Sampler, sleeper Sleeper, numSamples uint8, settleMs, sampleIntervalMs uint16) wire.ChannelStats {
	_, stats := BurstRaw(sampler, sleeper, numSamples, settleMs, sampleIntervalMs)
	return stats
}

// Channels bundles the three per-channel samplers a full measurement cycle
// reads from: soil moisture, battery voltage divider and NTC temperature.
type Channels struct {
	Soil Sampler
	Vbat Sampler
	NTC  Sampler
}

// Result is the combined output of one RunAll cycle, ready to be folded
// into a wire.TelemetryFrame by the caller. SoilRaw carries the soil
// channel's unprocessed samples for the debug diagnostics frame; the
// other two channels only ever report their stats.
type Result struct {
	Soil    wire.ChannelStats
	Vbat    wire.ChannelStats
	NTC     wire.ChannelStats
	SoilRaw []uint16
}

// RunAll runs the soil, battery and NTC bursts in that fixed order, with an
// inter-channel settle gap of settleMs between them. numSamples is shared
// across all three channels, matching the firmware's single burst size.
func RunAll(ch Channels, sleeper Sleeper, numSamples uint8, settleMs, sampleIntervalMs uint16) Result {
	soilRaw, soil := BurstRaw(ch.Soil, sleeper, numSamples, settleMs, sampleIntervalMs)
	sleeper.Sleep(time.Duration(settleMs) * time.Millisecond)
	vbat := Burst(ch.Vbat, sleeper, numSamples, settleMs, sampleIntervalMs)
	sleeper.Sleep(time.Duration(settleMs) * time.Millisecond)
	ntc := Burst(ch.NTC, sleeper, numSamples, settleMs, sampleIntervalMs)
	return Result{Soil: soil, Vbat: vbat, NTC: ntc, SoilRaw: soilRaw}
}
