package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// oscillator generates raw audio waves for a fixed number of samples
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveTriangle:
			val = 4.0*math.Abs(o.phase-0.5) - 1.0
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream of known length
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope wraps s with attack and release ramps inside duration
// Ramps are shortened proportionally when they do not fit
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	if att+rel > total && att+rel > 0 {
		att = total * att / (att + rel)
		rel = total - att
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}
		vol := e.gain(e.position)
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

// gain is the envelope level at sample pos
func (e *envelope) gain(pos int) float64 {
	if pos < e.attackSamples {
		return float64(pos) / float64(e.attackSamples)
	}
	releaseStart := e.totalSamples - e.releaseSamples
	if e.releaseSamples > 0 && pos >= releaseStart {
		return max(float64(e.totalSamples-pos)/float64(e.releaseSamples), 0)
	}
	return 1.0
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly by vol
// math.Log2(0) is -Inf, so zero volume becomes a silent effect
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// NewTone builds one enveloped pad tone lasting d
// Sine uses the beep generator; other shapes and out-of-range frequencies use the oscillator
func NewTone(freq float64, d time.Duration, cfg Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	var src beep.Streamer
	if cfg.Wave == WaveSine {
		if sine, err := generators.SineTone(rate, freq); err == nil {
			src = beep.Take(rate.N(d), sine)
		}
	}
	if src == nil {
		src = NewOscillator(freq, d, cfg.Wave, rate)
	}

	shaped := NewEnvelope(src, d, cfg.Attack, cfg.Release, rate)
	return newVolume(shaped, cfg.Volume)
}

// NewScheduledTone delays a tone by silence so it starts delay after being mixed
func NewScheduledTone(freq float64, delay, d time.Duration, cfg Config) beep.Streamer {
	tone := NewTone(freq, d, cfg)
	if delay <= 0 {
		return tone
	}
	rate := beep.SampleRate(cfg.SampleRate)
	return beep.Seq(beep.Silence(rate.N(delay)), tone)
}
