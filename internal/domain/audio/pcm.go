// Package audio converts the engine's 24 kHz mono float PCM into the
// containers the transports serve.
package audio

// SampleRate is fixed by the acoustic model.
const SampleRate = 24000

// FloatToPCM16 converts float samples to 16-bit PCM, clamping to [-1, 1].
func FloatToPCM16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		out[i] = int16(s * 32767)
	}
	return out
}

// PCM16ToFloat converts 16-bit PCM back to float samples.
func PCM16ToFloat(samples []int16) []float32 {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s) / 32767
	}
	return out
}

// DurationMs reports how long n samples play for.
func DurationMs(n int) int64 {
	return int64(n) * 1000 / SampleRate
}

// SilenceSamples returns the sample count covering ms of silence.
func SilenceSamples(ms int) int {
	if ms <= 0 {
		return 0
	}
	return ms * SampleRate / 1000
}
