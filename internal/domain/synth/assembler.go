package synth

import "kokorod/internal/domain/audio"

// Assembler joins per-sentence segments into one request's audio, with
// an optional linear crossfade and leading silence.
type Assembler struct {
	// CrossfadeSamples is the overlap applied between adjacent
	// segments; 0 means plain concatenation.
	CrossfadeSamples int
}

// NewAssembler converts the configured crossfade duration to samples.
func NewAssembler(crossfadeMs int) *Assembler {
	return &Assembler{CrossfadeSamples: audio.SilenceSamples(crossfadeMs)}
}

// Assemble concatenates segments in order. Output length is the sum of
// the segment lengths plus the prepended silence minus one overlap per
// faded join. A join where either segment is shorter than the overlap
// is a plain concatenation.
func (a *Assembler) Assemble(segments [][]float32, initialSilenceMs int) []float32 {
	k := a.CrossfadeSamples
	fades := func(prev, next []float32) bool {
		return k > 0 && len(prev) >= k && len(next) >= k
	}

	total := audio.SilenceSamples(initialSilenceMs)
	lead := total
	for i, seg := range segments {
		total += len(seg)
		if i > 0 && fades(segments[i-1], seg) {
			total -= k
		}
	}

	out := make([]float32, lead, total)
	for i, seg := range segments {
		if i > 0 && fades(segments[i-1], seg) {
			fadeStart := len(out) - k
			for j := 0; j < k; j++ {
				t := float32(j+1) / float32(k+1)
				out[fadeStart+j] = out[fadeStart+j]*(1-t) + seg[j]*t
			}
			out = append(out, seg[k:]...)
			continue
		}
		out = append(out, seg...)
	}
	return out
}
